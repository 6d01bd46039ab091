package member

// Plan is the custom type to define the billing interval of a subscription
type Plan string

// Defining the recognized subscription Plans
const (
	PlanMonthly Plan = "Monthly"
	PlanAnnual  Plan = "Annual"
)

// PrimarySequenceNum is the dependent-ordering value assigned to the primary
// subscriber on a coverage record
const PrimarySequenceNum = "00"

// planByAmount is the carrier's exact-match table of recognized unit prices.
// An order whose subscription line item is paid at any other amount does not
// produce a member record.
var planByAmount = map[string]Plan{
	"19.99":  PlanMonthly,
	"159.00": PlanAnnual,
}

// PlanForAmount maps a paid unit price to a subscription Plan. The second
// return value is false when the amount is not a recognized plan price.
func PlanForAmount(amount string) (Plan, bool) {
	plan, ok := planByAmount[amount]
	return plan, ok
}
