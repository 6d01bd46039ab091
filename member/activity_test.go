package member_test

import (
	"testing"
	"time"

	"github.com/smileworthy/benefix/member"

	"github.com/stretchr/testify/assert"
)

func TestIsActive(t *testing.T) {
	record := &member.MemberRecord{
		Email:       "a@b.com",
		NextDueDate: date(2025, time.February, 10),
	}

	assert.True(t, member.IsActive(record, date(2025, time.February, 9)))
	// strict comparison: the due date itself is already lapsed
	assert.False(t, member.IsActive(record, date(2025, time.February, 10)))
	assert.False(t, member.IsActive(record, date(2025, time.February, 11)))
}

func TestIsActiveIgnoresTimeOfDay(t *testing.T) {
	record := &member.MemberRecord{
		Email:       "a@b.com",
		NextDueDate: date(2025, time.February, 10),
	}

	// 11pm the day before is still active, midnight of the due date is not
	lateEve := time.Date(2025, time.February, 9, 23, 59, 59, 0, time.UTC)
	assert.True(t, member.IsActive(record, lateEve))

	dueMorning := time.Date(2025, time.February, 10, 0, 0, 1, 0, time.UTC)
	assert.False(t, member.IsActive(record, dueMorning))
}
