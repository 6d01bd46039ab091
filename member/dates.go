package member

import "time"

// EffectiveDate computes the carrier effective date for a payment made on
// ref: payments on or before the 15th are effective the first of that month,
// later payments are effective the first of the following month (December
// rolls over to January of the next year). A zero ref means "now".
func EffectiveDate(ref time.Time) time.Time {
	if ref.IsZero() {
		ref = time.Now()
	}
	year, month, day := ref.Date()
	if day <= 15 {
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	}
	if month == time.December {
		return time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
}

// NextDueDate advances lastPayment by one plan interval. An unrecognized plan
// returns lastPayment unchanged, which callers must treat as "no rule
// matched" rather than a valid due date.
func NextDueDate(lastPayment time.Time, plan Plan) time.Time {
	switch plan {
	case PlanMonthly:
		return addMonths(lastPayment, 1)
	case PlanAnnual:
		return addMonths(lastPayment, 12)
	default:
		return lastPayment
	}
}

// addMonths preserves the day-of-month where possible and clamps to the last
// valid day of the target month (Jan 31 + 1 month = Feb 28/29), unlike
// time.AddDate which overflows into the following month.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	last := daysInMonth(first.Year(), first.Month())
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
