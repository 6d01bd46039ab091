package member

import "time"

// MemberRecord describes one covered subscriber. Records are keyed by the
// subscriber's billing email address: the upstream platform does not carry a
// stable customer ID across orders, so the email is the identity, and a new
// qualifying order for the same email replaces the prior record wholesale.
type MemberRecord struct {
	Email   string `json:"email"`
	OrderID string `json:"orderId"`

	Title      string `json:"title,omitempty"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	PostName   string `json:"postName,omitempty"`

	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Plus4    string `json:"plus4,omitempty"`

	HomePhone string `json:"homePhone"`
	WorkPhone string `json:"workPhone,omitempty"`

	SubscriptionPlan Plan      `json:"subscriptionPlan"`
	PaymentAmount    string    `json:"paymentAmount"`
	LastPaymentDate  time.Time `json:"lastPaymentDate"`
	NextDueDate      time.Time `json:"nextDueDate"`
	ProductName      string    `json:"productName"`

	Coverage        string    `json:"coverage"`
	GroupCode       string    `json:"groupCode"`
	EffectiveDate   time.Time `json:"effectiveDate"`
	TerminationDate time.Time `json:"terminationDate,omitempty"`
	DateOfBirth     time.Time `json:"dateOfBirth,omitempty"`
	Gender          string    `json:"gender,omitempty"`
	Relation        string    `json:"relation,omitempty"`
	StudentStatus   string    `json:"studentStatus,omitempty"`
	SequenceNum     string    `json:"sequenceNum"`
}
