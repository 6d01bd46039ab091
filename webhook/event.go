package webhook

// Topics the upstream platform delivers to this service
const (
	TopicOrderCreated = "order.created"
	TopicOrderUpdated = "order.updated"
)

// Status values embedded in an order-updated event
const (
	StatusFulfilled = "FULFILLED"
	StatusCanceled  = "CANCELED"
)

// Event is the inbound webhook payload from the upstream platform
type Event struct {
	Topic     string    `json:"topic" validate:"required"`
	CreatedOn int64     `json:"createdOn"`
	Data      EventData `json:"data" validate:"required"`
}

// EventData carries the event's order reference and, for updates, the new
// order status
type EventData struct {
	OrderID  string            `json:"orderId" validate:"required"`
	Update   string            `json:"update,omitempty"`
	Customer map[string]string `json:"customer,omitempty"`
}

// Outcome is the custom type to define how an event was routed
type Outcome string

// Defining the routing Outcomes for an inbound event
const (
	OutcomeCreated   Outcome = "Created"
	OutcomeFulfilled Outcome = "Fulfilled"
	OutcomeCanceled  Outcome = "Canceled"
	OutcomeIgnored   Outcome = "Ignored"
)
