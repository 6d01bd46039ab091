package member

import "time"

// IsActive reports whether the record's subscription is presently paid up:
// true iff now is strictly before the next due date, compared at day
// granularity with no time-of-day component.
//
// A record whose due date has passed is lapsed but stays in the ledger;
// removal only ever happens on an explicit cancellation event. Activity
// drives the extract filter, ledger membership drives retention.
func IsActive(r *MemberRecord, now time.Time) bool {
	return dateOnly(now).Before(dateOnly(r.NextDueDate))
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
