package learning

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"docmatch/internal"
)

func entryN(i int) internal.UsageLogEntry {
	return internal.UsageLogEntry{
		ID:                 fmt.Sprintf("entry-%d", i),
		TemplateID:         "tpl",
		DocumentName:       fmt.Sprintf("doc-%d.pdf", i),
		ExtractionAccuracy: 0.5,
		Timestamp:          fmt.Sprintf("2026-01-01T00:00:%02dZ", i%60),
	}
}

func TestUsageLogCapRetainsLastEntries(t *testing.T) {
	l := NewUsageLog(DefaultLogCapacity)
	total := 2500
	for i := 1; i <= total; i++ {
		l.Append(entryN(i))
	}

	all := l.All()
	require.Len(t, all, DefaultLogCapacity)
	for i, entry := range all {
		require.Equal(t, fmt.Sprintf("entry-%d", total-DefaultLogCapacity+1+i), entry.ID)
	}
}

func TestUsageLogScenarioD(t *testing.T) {
	l := NewUsageLog(DefaultLogCapacity)
	for i := 1; i <= 1000; i++ {
		require.False(t, l.Append(entryN(i)))
	}
	require.True(t, l.Append(entryN(1001)))

	all := l.All()
	require.Len(t, all, 1000)
	require.Equal(t, "entry-2", all[0].ID)
	require.Equal(t, "entry-1001", all[len(all)-1].ID)
}

func TestUsageLogEvictOldest(t *testing.T) {
	l := NewUsageLog(3)
	require.False(t, l.EvictOldest())
	l.Append(entryN(1))
	l.Append(entryN(2))
	require.True(t, l.EvictOldest())
	require.Equal(t, 1, l.Len())
	require.Equal(t, "entry-2", l.All()[0].ID)
	require.Equal(t, 3, l.Capacity())
}

func TestNewUsageLogCapsCapacity(t *testing.T) {
	require.Equal(t, DefaultLogCapacity, NewUsageLog(0).Capacity())
	require.Equal(t, DefaultLogCapacity, NewUsageLog(5000).Capacity())
	require.Equal(t, 25, NewUsageLog(25).Capacity())
}

func TestUsageLogAllReturnsCopies(t *testing.T) {
	l := NewUsageLog(2)
	e := entryN(1)
	e.FieldAccuracies = []internal.FieldAccuracyRecord{{FieldID: "f1", ExtractedCorrectly: true}}
	l.Append(e)

	e.FieldAccuracies[0].ExtractedCorrectly = false
	got := l.All()
	require.True(t, got[0].FieldAccuracies[0].ExtractedCorrectly)

	got[0].FieldAccuracies[0].FieldID = "mutated"
	require.Equal(t, "f1", l.All()[0].FieldAccuracies[0].FieldID)
}

func TestApplyFeedbackTargetsNewestEntry(t *testing.T) {
	l := NewUsageLog(10)
	records := func() []internal.FieldAccuracyRecord {
		return []internal.FieldAccuracyRecord{
			{FieldID: "f1", ExtractedCorrectly: true},
			{FieldID: "f2", ExtractedCorrectly: true},
		}
	}
	l.Append(internal.UsageLogEntry{ID: "newest", TemplateID: "tpl", DocumentName: "a.pdf", Timestamp: "2026-03-02T10:00:00Z", FieldAccuracies: records()})
	l.Append(internal.UsageLogEntry{ID: "older", TemplateID: "tpl", DocumentName: "a.pdf", Timestamp: "2026-03-01T10:00:00Z", FieldAccuracies: records()})
	l.Append(internal.UsageLogEntry{ID: "other-doc", TemplateID: "tpl", DocumentName: "b.pdf", Timestamp: "2026-03-03T10:00:00Z", FieldAccuracies: records()})

	require.True(t, l.ApplyFeedback("tpl", "a.pdf", internal.FeedbackNegative, []string{"f2"}))
	require.False(t, l.ApplyFeedback("tpl", "missing.pdf", internal.FeedbackNegative, nil))

	byID := map[string]internal.UsageLogEntry{}
	for _, e := range l.All() {
		byID[e.ID] = e
	}

	newest := byID["newest"]
	require.NotNil(t, newest.UserFeedback)
	require.Equal(t, internal.FeedbackNegative, *newest.UserFeedback)
	require.Equal(t, 1, newest.CorrectionCount)
	require.True(t, newest.FieldAccuracies[0].ExtractedCorrectly)
	require.False(t, newest.FieldAccuracies[0].UserCorrected)
	require.False(t, newest.FieldAccuracies[1].ExtractedCorrectly)
	require.True(t, newest.FieldAccuracies[1].UserCorrected)

	require.Nil(t, byID["older"].UserFeedback)
	require.Nil(t, byID["other-doc"].UserFeedback)
}
