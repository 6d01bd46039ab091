package extract_test

import (
	"strings"
	"testing"
	"time"

	"github.com/smileworthy/benefix/extract"
	"github.com/smileworthy/benefix/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSDFLineLayout(t *testing.T) {
	record := sampleRecord("a@b.com")
	line := extract.SDFLine(&record, zap.NewNop())

	require.Len(t, line, extract.SDFLineLength)
	require.Len(t, line, 158)

	// email left-justified to 50, immediately followed by the 10-wide plan
	assert.Equal(t, "a@b.com"+strings.Repeat(" ", 43), line[:50])
	assert.Equal(t, "Monthly   ", line[50:60])
	assert.Equal(t, "01102025", line[60:68]) // last payment date
	assert.Equal(t, "02102025", line[68:76]) // next due date
	assert.Equal(t, "   19.99", line[76:84]) // amount right-justified
	assert.Equal(t, "Jane"+strings.Repeat(" ", 16), line[84:104])
	assert.Equal(t, "Doe"+strings.Repeat(" ", 17), line[104:124])
	assert.Equal(t, "1042"+strings.Repeat(" ", 20), line[124:148])
	assert.Equal(t, "GRP001    ", line[148:158])
}

func TestSDFLineTruncatesOverlongFields(t *testing.T) {
	record := sampleRecord(strings.Repeat("x", 60) + "@example.com")
	line := extract.SDFLine(&record, zap.NewNop())

	// truncation keeps the layout intact rather than aborting the batch
	require.Len(t, line, 158)
	assert.Equal(t, strings.Repeat("x", 50), line[:50])
	assert.Equal(t, "Monthly   ", line[50:60])
}

func TestEncodeSDFFiltersInactiveRecords(t *testing.T) {
	now := date(2025, time.March, 1)

	active := sampleRecord("active@example.com")
	active.NextDueDate = date(2025, time.March, 2)

	lapsed := sampleRecord("lapsed@example.com")
	lapsed.NextDueDate = date(2025, time.February, 10)

	body := extract.EncodeSDF([]member.MemberRecord{active, lapsed}, now, zap.NewNop())
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "active@example.com")
}

func TestEncodeSDFEmptyWhenAllLapsed(t *testing.T) {
	now := date(2026, time.January, 1)
	body := extract.EncodeSDF([]member.MemberRecord{sampleRecord("a@b.com")}, now, zap.NewNop())
	assert.Equal(t, "", body)
}

func TestSDFFileName(t *testing.T) {
	generated := date(2025, time.February, 3)
	assert.Equal(t, "GRP001020325_full.txt", extract.SDFFileName("GRP001", generated))
}
