package member

import (
	"fmt"
	"strings"
	"time"

	"github.com/smileworthy/benefix/commerce"

	"go.uber.org/zap"
)

// dobLayout is the free-text format shoppers type into the date-of-birth
// customization field
const dobLayout = "1/2/2006"

// NormalizerOptions contains the configuration for the record normalizer
type NormalizerOptions struct {
	GroupCode string
	Coverage  string
	Logger    *zap.Logger
}

// Normalizer maps a raw order document into a canonical MemberRecord
type Normalizer struct {
	NormalizerOptions
}

// NewNormalizer returns a Normalizer stamping records with the carrier group
// code and plan coverage code
func NewNormalizer(option NormalizerOptions) (*Normalizer, error) {
	if len(option.GroupCode) == 0 {
		return nil, fmt.Errorf("empty GroupCode is invalid")
	}
	if len(option.Coverage) == 0 {
		return nil, fmt.Errorf("empty Coverage is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	return &Normalizer{
		NormalizerOptions: option,
	}, nil
}

// Normalize turns an order into a MemberRecord, or nil when the order does
// not represent a recognized subscription purchase. A nil return is a normal
// skip, not an error: the caller logs it and moves on.
func (n *Normalizer) Normalize(order *commerce.Order) *MemberRecord {
	logger := n.Logger.With(zap.String("OrderID", order.ID))

	product := order.SubscriptionProduct()
	if product == nil {
		logger.Info("Order has no subscription line item, skipping")
		return nil
	}

	plan, ok := PlanForAmount(product.PriceExTax)
	if !ok {
		logger.Info("Order paid an unrecognized plan amount, skipping",
			zap.String("Amount", product.PriceExTax),
		)
		return nil
	}

	paymentDate := order.PaymentDate()
	billing := order.Billing

	record := &MemberRecord{
		Email:   strings.ToLower(billing.Email),
		OrderID: order.ID,

		Title:      billing.Title,
		FirstName:  billing.FirstName,
		MiddleName: billing.MiddleName,
		LastName:   billing.LastName,
		PostName:   billing.PostName,

		Address1: billing.Street1,
		Address2: billing.Street2,
		City:     billing.City,
		State:    billing.State,
		Zip:      billing.Zip,
		Plus4:    billing.Plus4,

		HomePhone: billing.Phone,
		WorkPhone: billing.WorkPhone,

		SubscriptionPlan: plan,
		PaymentAmount:    product.PriceExTax,
		LastPaymentDate:  dateOnly(paymentDate),
		NextDueDate:      NextDueDate(dateOnly(paymentDate), plan),
		ProductName:      product.Name,

		Coverage:      n.Coverage,
		GroupCode:     n.GroupCode,
		EffectiveDate: EffectiveDate(paymentDate),
		SequenceNum:   PrimarySequenceNum,
	}

	if dob, ok := extractDateOfBirth(product); ok {
		record.DateOfBirth = dob
	}

	return record
}

// extractDateOfBirth scans the line item's customization fields for a label
// containing "date of birth" and parses its value as M/D/YYYY. Any parse
// failure leaves the field unset rather than failing the normalization.
func extractDateOfBirth(product *commerce.Product) (time.Time, bool) {
	for _, opt := range product.Options {
		if !strings.Contains(strings.ToLower(opt.DisplayName), "date of birth") {
			continue
		}
		dob, err := time.Parse(dobLayout, strings.TrimSpace(opt.Value))
		if err != nil {
			return time.Time{}, false
		}
		return dob, true
	}
	return time.Time{}, false
}
