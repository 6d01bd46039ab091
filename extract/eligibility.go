package extract

import (
	"strings"
	"time"

	"github.com/smileworthy/benefix/member"
)

// Mode distinguishes the partner file name suffix for a full-ledger extract
// versus an event-scoped delta extract
type Mode string

// Defining the extract Modes
const (
	ModeFull  Mode = "full"
	ModeDelta Mode = "delta"
)

// Date conventions fixed by the partner contract: 8-digit stamps inside file
// contents, 6-digit stamps in file names. The mismatch is deliberate; do not
// unify.
const (
	fieldDateLayout = "01022006"
	fileDateLayout  = "010206"
)

// EligibilityLine renders one member as a pipe-delimited eligibility record:
// the demographic block followed by the coverage block, every field present
// even when empty so the column meaning never shifts.
func EligibilityLine(r *member.MemberRecord) string {
	fields := []string{
		r.Title,
		r.FirstName,
		r.MiddleName,
		r.LastName,
		r.PostName,
		r.Address1,
		r.Address2,
		r.City,
		r.State,
		r.Zip,
		r.Plus4,
		r.HomePhone,
		r.WorkPhone,
		r.Email,
		r.Coverage,
		r.GroupCode,
		formatFieldDate(r.EffectiveDate),
		formatFieldDate(r.TerminationDate),
		formatFieldDate(r.DateOfBirth),
		r.Gender,
		r.Relation,
		r.StudentStatus,
		r.SequenceNum,
	}
	return strings.Join(fields, "|")
}

// EncodeEligibility renders the given members as an eligibility file body,
// one record per line, no header.
func EncodeEligibility(records []member.MemberRecord) string {
	var b strings.Builder
	for k := range records {
		b.WriteString(EligibilityLine(&records[k]))
		b.WriteString("\n")
	}
	return b.String()
}

// EligibilityFileName builds the partner file name for an eligibility
// extract generated at the given time: {parentGroupCode}{MMDDYY}_{mode}.txt
func EligibilityFileName(parentGroupCode string, generated time.Time, mode Mode) string {
	return parentGroupCode + generated.Format(fileDateLayout) + "_" + string(mode) + ".txt"
}

func formatFieldDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(fieldDateLayout)
}
