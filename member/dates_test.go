package member_test

import (
	"testing"
	"time"

	"github.com/smileworthy/benefix/member"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestEffectiveDate(t *testing.T) {
	cases := []struct {
		name     string
		ref      time.Time
		expected time.Time
	}{
		{"first of month", date(2025, time.January, 1), date(2025, time.January, 1)},
		{"mid month boundary", date(2025, time.January, 15), date(2025, time.January, 1)},
		{"day after boundary", date(2025, time.January, 16), date(2025, time.February, 1)},
		{"late month", date(2025, time.June, 28), date(2025, time.July, 1)},
		{"december rolls to january", date(2025, time.December, 20), date(2026, time.January, 1)},
		{"december before boundary", date(2025, time.December, 10), date(2025, time.December, 1)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, member.EffectiveDate(c.ref))
		})
	}
}

func TestEffectiveDateZeroRefMeansNow(t *testing.T) {
	got := member.EffectiveDate(time.Time{})
	assert.Equal(t, 1, got.Day())
	assert.False(t, got.After(time.Now().AddDate(0, 1, 0)))
}

func TestNextDueDate(t *testing.T) {
	cases := []struct {
		name     string
		last     time.Time
		plan     member.Plan
		expected time.Time
	}{
		{"monthly", date(2025, time.January, 10), member.PlanMonthly, date(2025, time.February, 10)},
		{"monthly clamps to short month", date(2025, time.January, 31), member.PlanMonthly, date(2025, time.February, 28)},
		{"monthly into leap february", date(2024, time.January, 31), member.PlanMonthly, date(2024, time.February, 29)},
		{"monthly december", date(2025, time.December, 20), member.PlanMonthly, date(2026, time.January, 20)},
		{"annual", date(2025, time.December, 20), member.PlanAnnual, date(2026, time.December, 20)},
		{"annual clamps leap day", date(2024, time.February, 29), member.PlanAnnual, date(2025, time.February, 28)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, member.NextDueDate(c.last, c.plan))
		})
	}
}

func TestNextDueDateUnrecognizedPlanIsIdentity(t *testing.T) {
	last := date(2025, time.March, 5)
	assert.Equal(t, last, member.NextDueDate(last, member.Plan("Quarterly")))
}

func TestPlanForAmount(t *testing.T) {
	plan, ok := member.PlanForAmount("19.99")
	assert.True(t, ok)
	assert.Equal(t, member.PlanMonthly, plan)

	plan, ok = member.PlanForAmount("159.00")
	assert.True(t, ok)
	assert.Equal(t, member.PlanAnnual, plan)

	_, ok = member.PlanForAmount("20.00")
	assert.False(t, ok)
}
