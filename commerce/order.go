package commerce

import "time"

// Order is the upstream platform's order document, trimmed to the fields the
// ledger pipeline consumes.
type Order struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"date_created"`
	FulfilledAt time.Time      `json:"date_shipped"` // zero when the order has not been fulfilled
	Billing     BillingAddress `json:"billing_address"`
	Products    []Product      `json:"products"`
}

// BillingAddress is the order's billing identity block. The platform omits
// fields the shopper left blank; decoded values default to empty strings.
type BillingAddress struct {
	Title      string `json:"title"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	PostName   string `json:"post_name"`
	Street1    string `json:"street_1"`
	Street2    string `json:"street_2"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	Plus4      string `json:"zip_plus4"`
	Phone      string `json:"phone"`
	WorkPhone  string `json:"work_phone"`
	Email      string `json:"email"`
}

// Product is a single order line item
type Product struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	PriceExTax string          `json:"price_ex_tax"`
	Options    []ProductOption `json:"product_options"`
}

// ProductOption is a shopper-supplied customization on a line item
type ProductOption struct {
	DisplayName string `json:"display_name"`
	Value       string `json:"display_value"`
}

// ProductTypeSubscription marks a line item as the carrier subscription
// product; orders without one never become member records.
const ProductTypeSubscription = "subscription"

// SubscriptionProduct returns the order's paid subscription line item, or nil
// if the order carries none.
func (o *Order) SubscriptionProduct() *Product {
	for k, p := range o.Products {
		if p.Type == ProductTypeSubscription {
			return &o.Products[k]
		}
	}
	return nil
}

// PaymentDate is the date the order was paid: the fulfillment timestamp when
// present, else the order-creation timestamp.
func (o *Order) PaymentDate() time.Time {
	if !o.FulfilledAt.IsZero() {
		return o.FulfilledAt
	}
	return o.CreatedAt
}
