package webhook

import (
	"context"
	"fmt"

	"github.com/smileworthy/benefix/commerce"
	"github.com/smileworthy/benefix/member"

	extErrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// OrderSource defines the order lookups the router needs from the upstream
// platform
type OrderSource interface {
	FetchOrder(ctx context.Context, orderID string) (*commerce.Order, error)
	FetchAnyOrder(ctx context.Context) (*commerce.Order, error)
}

// ExtractGenerator defines the extract regeneration hook the router triggers
// after a ledger mutation
type ExtractGenerator interface {
	GenerateEligibility(ctx context.Context) (string, error)
}

// RouterOptions contains the configuration for the event Router
type RouterOptions struct {
	Orders     OrderSource
	Ledger     *member.Ledger
	Normalizer *member.Normalizer
	Extracts   ExtractGenerator

	// DiagnosticOrderID, when non-empty, is a sentinel order id whose events
	// are rerouted to an arbitrary existing order for end-to-end testing.
	// Leave empty in production: the substituted order's billing email keys
	// into the same ledger as real subscribers.
	DiagnosticOrderID string

	Logger *zap.Logger
}

// Router classifies inbound order events and drives the ledger and extract
// generation accordingly. Routing is idempotent per event: replaying a
// create/fulfill overwrites the same record, replaying a cancel is a no-op.
type Router struct {
	RouterOptions
}

// NewRouter returns an event Router
func NewRouter(option RouterOptions) (*Router, error) {
	if option.Orders == nil {
		return nil, fmt.Errorf("nil Orders is invalid")
	}
	if option.Ledger == nil {
		return nil, fmt.Errorf("nil Ledger is invalid")
	}
	if option.Normalizer == nil {
		return nil, fmt.Errorf("nil Normalizer is invalid")
	}
	if option.Extracts == nil {
		return nil, fmt.Errorf("nil Extracts is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &Router{
		RouterOptions: option,
	}, nil
}

// classify maps an event's topic and embedded status onto an Outcome
func classify(event *Event) Outcome {
	switch event.Topic {
	case TopicOrderCreated:
		return OutcomeCreated
	case TopicOrderUpdated:
		switch event.Data.Update {
		case StatusFulfilled:
			return OutcomeFulfilled
		case StatusCanceled:
			return OutcomeCanceled
		}
	}
	return OutcomeIgnored
}

// Route handles one inbound event to completion: lookup, normalize, ledger
// mutation, then eligibility extract regeneration. A failed lookup or
// persistence aborts the event with the ledger untouched (or rolled back).
func (r *Router) Route(ctx context.Context, event *Event) (Outcome, error) {
	outcome := classify(event)

	logger := r.Logger.With(
		zap.String("Topic", event.Topic),
		zap.String("OrderID", event.Data.OrderID),
		zap.String("Outcome", string(outcome)),
	)

	if outcome == OutcomeIgnored {
		logger.Debug("Ignoring event")
		return outcome, nil
	}

	order, err := r.lookup(ctx, event.Data.OrderID)
	if err != nil {
		return outcome, err
	}
	if order == nil {
		logger.Error("Platform has no order for event")
		return outcome, fmt.Errorf("order %s not found upstream", event.Data.OrderID)
	}

	switch outcome {
	case OutcomeCreated, OutcomeFulfilled:
		record := r.Normalizer.Normalize(order)
		if record == nil {
			// not a subscription purchase: a normal skip, never an error
			return OutcomeIgnored, nil
		}
		if err := r.Ledger.Upsert(ctx, record); err != nil {
			return outcome, extErrors.Wrap(err, "Cannot record subscriber")
		}
		logger.Info("Recorded subscriber",
			zap.String("Email", record.Email),
			zap.String("Plan", string(record.SubscriptionPlan)),
		)
	case OutcomeCanceled:
		email := order.Billing.Email
		if len(email) == 0 {
			logger.Warn("Canceled order has no billing email, nothing to remove")
			return outcome, nil
		}
		if err := r.Ledger.Remove(ctx, email); err != nil {
			return outcome, extErrors.Wrap(err, "Cannot remove subscriber")
		}
		logger.Info("Removed subscriber",
			zap.String("Email", email),
		)
	}

	if _, err := r.Extracts.GenerateEligibility(ctx); err != nil {
		return outcome, extErrors.Wrap(err, "Cannot regenerate eligibility extract")
	}

	return outcome, nil
}

// lookup fetches the event's order, substituting an arbitrary existing order
// when the diagnostic sentinel id is configured and matched
func (r *Router) lookup(ctx context.Context, orderID string) (*commerce.Order, error) {
	if len(r.DiagnosticOrderID) > 0 && orderID == r.DiagnosticOrderID {
		r.Logger.Info("Diagnostic order id matched, substituting an arbitrary order")
		return r.Orders.FetchAnyOrder(ctx)
	}
	return r.Orders.FetchOrder(ctx, orderID)
}
