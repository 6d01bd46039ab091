package extract

import (
	"strings"
	"time"

	"github.com/smileworthy/benefix/member"

	"go.uber.org/zap"
)

// sdfColumn is one fixed-width column in the SDF layout
type sdfColumn struct {
	name         string
	width        int
	rightJustify bool
	value        func(r *member.MemberRecord) string
}

// sdfLayout is the partner's fixed-column layout. Widths are a bit-exact
// contract; the line length is the sum of all widths (158).
var sdfLayout = []sdfColumn{
	{name: "email", width: 50, value: func(r *member.MemberRecord) string { return r.Email }},
	{name: "plan", width: 10, value: func(r *member.MemberRecord) string { return string(r.SubscriptionPlan) }},
	{name: "lastPaymentDate", width: 8, value: func(r *member.MemberRecord) string { return formatFieldDate(r.LastPaymentDate) }},
	{name: "nextDueDate", width: 8, value: func(r *member.MemberRecord) string { return formatFieldDate(r.NextDueDate) }},
	{name: "amount", width: 8, rightJustify: true, value: func(r *member.MemberRecord) string { return r.PaymentAmount }},
	{name: "firstName", width: 20, value: func(r *member.MemberRecord) string { return r.FirstName }},
	{name: "lastName", width: 20, value: func(r *member.MemberRecord) string { return r.LastName }},
	{name: "orderId", width: 24, value: func(r *member.MemberRecord) string { return r.OrderID }},
	{name: "groupCode", width: 10, value: func(r *member.MemberRecord) string { return r.GroupCode }},
}

// SDFLineLength is the exact byte length of every rendered SDF line
var SDFLineLength = func() int {
	total := 0
	for _, col := range sdfLayout {
		total += col.width
	}
	return total
}()

// SDFLine renders one member as a space-padded fixed-width line. A value
// longer than its column is truncated to the column width and logged; a
// malformed record must never abort the whole batch.
func SDFLine(r *member.MemberRecord, logger *zap.Logger) string {
	var b strings.Builder
	b.Grow(SDFLineLength)
	for _, col := range sdfLayout {
		value := col.value(r)
		if len(value) > col.width {
			logger.Warn("Field exceeds SDF column width, truncating",
				zap.String("Email", r.Email),
				zap.String("Field", col.name),
				zap.Int("Width", col.width),
			)
			value = value[:col.width]
		}
		padding := strings.Repeat(" ", col.width-len(value))
		if col.rightJustify {
			b.WriteString(padding)
			b.WriteString(value)
		} else {
			b.WriteString(value)
			b.WriteString(padding)
		}
	}
	return b.String()
}

// EncodeSDF renders the currently active members as an SDF file body. Lapsed
// and terminated records are filtered out; they remain in the ledger but the
// partner only bills for active subscribers.
func EncodeSDF(records []member.MemberRecord, now time.Time, logger *zap.Logger) string {
	var b strings.Builder
	for k := range records {
		if !member.IsActive(&records[k], now) {
			continue
		}
		b.WriteString(SDFLine(&records[k], logger))
		b.WriteString("\n")
	}
	return b.String()
}

// SDFFileName builds the partner file name for an SDF extract generated at
// the given time: {groupCode}{MMDDYY}_full.txt
func SDFFileName(groupCode string, generated time.Time) string {
	return groupCode + generated.Format(fileDateLayout) + "_" + string(ModeFull) + ".txt"
}
