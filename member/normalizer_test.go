package member_test

import (
	"testing"
	"time"

	"github.com/smileworthy/benefix/commerce"
	"github.com/smileworthy/benefix/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newNormalizer(t *testing.T) *member.Normalizer {
	n, err := member.NewNormalizer(member.NormalizerOptions{
		GroupCode: "GRP001",
		Coverage:  "DEN1",
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)
	return n
}

func subscriptionOrder(price string, fulfilled time.Time) *commerce.Order {
	return &commerce.Order{
		ID:          "1042",
		Status:      "Shipped",
		CreatedAt:   date(2025, time.January, 8),
		FulfilledAt: fulfilled,
		Billing: commerce.BillingAddress{
			FirstName: "Jane",
			LastName:  "Doe",
			Street1:   "1 Main St",
			City:      "Springfield",
			State:     "IL",
			Zip:       "62704",
			Phone:     "2175551234",
			Email:     "Jane.Doe@Example.com",
		},
		Products: []commerce.Product{
			{Name: "Gift Card", Type: "digital", PriceExTax: "25.00"},
			{Name: "Dental Plan", Type: commerce.ProductTypeSubscription, PriceExTax: price},
		},
	}
}

func TestNormalizeMonthlyPlan(t *testing.T) {
	n := newNormalizer(t)

	record := n.Normalize(subscriptionOrder("19.99", date(2025, time.January, 10)))
	require.NotNil(t, record)

	assert.Equal(t, "jane.doe@example.com", record.Email)
	assert.Equal(t, "1042", record.OrderID)
	assert.Equal(t, "Jane", record.FirstName)
	assert.Equal(t, "Doe", record.LastName)
	assert.Equal(t, member.PlanMonthly, record.SubscriptionPlan)
	assert.Equal(t, "19.99", record.PaymentAmount)
	assert.Equal(t, date(2025, time.January, 10), record.LastPaymentDate)
	assert.Equal(t, date(2025, time.January, 1), record.EffectiveDate)
	assert.Equal(t, date(2025, time.February, 10), record.NextDueDate)
	assert.Equal(t, "GRP001", record.GroupCode)
	assert.Equal(t, "DEN1", record.Coverage)
	assert.Equal(t, member.PrimarySequenceNum, record.SequenceNum)
	assert.Equal(t, "Dental Plan", record.ProductName)
}

func TestNormalizeAnnualPlanDecemberRollover(t *testing.T) {
	n := newNormalizer(t)

	record := n.Normalize(subscriptionOrder("159.00", date(2025, time.December, 20)))
	require.NotNil(t, record)

	assert.Equal(t, member.PlanAnnual, record.SubscriptionPlan)
	assert.Equal(t, date(2026, time.January, 1), record.EffectiveDate)
	assert.Equal(t, date(2026, time.December, 20), record.NextDueDate)
}

func TestNormalizeSkipsUnrecognizedAmount(t *testing.T) {
	n := newNormalizer(t)
	assert.Nil(t, n.Normalize(subscriptionOrder("12.34", date(2025, time.January, 10))))
}

func TestNormalizeSkipsOrderWithoutSubscriptionItem(t *testing.T) {
	n := newNormalizer(t)

	order := subscriptionOrder("19.99", date(2025, time.January, 10))
	order.Products = order.Products[:1]
	assert.Nil(t, n.Normalize(order))
}

func TestNormalizeFallsBackToCreationDate(t *testing.T) {
	n := newNormalizer(t)

	record := n.Normalize(subscriptionOrder("19.99", time.Time{}))
	require.NotNil(t, record)
	assert.Equal(t, date(2025, time.January, 8), record.LastPaymentDate)
	assert.Equal(t, date(2025, time.February, 8), record.NextDueDate)
}

func TestNormalizeDateOfBirth(t *testing.T) {
	n := newNormalizer(t)

	order := subscriptionOrder("19.99", date(2025, time.January, 10))
	order.Products[1].Options = []commerce.ProductOption{
		{DisplayName: "Subscriber Date of Birth", Value: "4/7/1986"},
	}

	record := n.Normalize(order)
	require.NotNil(t, record)
	assert.Equal(t, date(1986, time.April, 7), record.DateOfBirth)
}

func TestNormalizeUnparseableDateOfBirth(t *testing.T) {
	n := newNormalizer(t)

	order := subscriptionOrder("19.99", date(2025, time.January, 10))
	order.Products[1].Options = []commerce.ProductOption{
		{DisplayName: "Date of Birth", Value: "April 7th 1986"},
	}

	// a bad date never fails the normalization, the field just stays empty
	record := n.Normalize(order)
	require.NotNil(t, record)
	assert.True(t, record.DateOfBirth.IsZero())
}

func TestNormalizeEmptyBillingFieldsStayEmptyStrings(t *testing.T) {
	n := newNormalizer(t)

	order := subscriptionOrder("19.99", date(2025, time.January, 10))
	order.Billing.MiddleName = ""
	order.Billing.Street2 = ""

	record := n.Normalize(order)
	require.NotNil(t, record)
	assert.Equal(t, "", record.MiddleName)
	assert.Equal(t, "", record.Address2)
}
