package learning

import (
	"time"

	"docmatch/internal"
)

const DefaultLogCapacity = 1000

// UsageLog is a bounded FIFO of usage entries backed by a ring buffer. When
// full, appending evicts the oldest entry. It is not safe for concurrent use;
// the Engine serializes access.
type UsageLog struct {
	buf  []internal.UsageLogEntry
	head int
	size int
}

// NewUsageLog caps capacity at DefaultLogCapacity.
func NewUsageLog(capacity int) *UsageLog {
	if capacity <= 0 || capacity > DefaultLogCapacity {
		capacity = DefaultLogCapacity
	}
	return &UsageLog{buf: make([]internal.UsageLogEntry, capacity)}
}

func (l *UsageLog) Capacity() int { return len(l.buf) }

func (l *UsageLog) Len() int { return l.size }

// Append adds the entry at the tail and reports whether an entry was evicted.
func (l *UsageLog) Append(entry internal.UsageLogEntry) bool {
	evicted := false
	if l.size == len(l.buf) {
		l.EvictOldest()
		evicted = true
	}
	l.buf[(l.head+l.size)%len(l.buf)] = cloneEntry(entry)
	l.size++
	return evicted
}

func (l *UsageLog) EvictOldest() bool {
	if l.size == 0 {
		return false
	}
	l.buf[l.head] = internal.UsageLogEntry{}
	l.head = (l.head + 1) % len(l.buf)
	l.size--
	return true
}

// All returns copies of the entries, oldest first.
func (l *UsageLog) All() []internal.UsageLogEntry {
	out := make([]internal.UsageLogEntry, 0, l.size)
	for i := 0; i < l.size; i++ {
		out = append(out, cloneEntry(*l.at(i)))
	}
	return out
}

func (l *UsageLog) at(i int) *internal.UsageLogEntry {
	return &l.buf[(l.head+i)%len(l.buf)]
}

// ApplyFeedback updates the newest entry for (templateID, documentName),
// newest meaning the greatest timestamp; later insertion wins a tie.
// Only the named fields flip to corrected. Returns false when no entry matches.
func (l *UsageLog) ApplyFeedback(templateID, documentName string, feedback internal.UserFeedback, correctedFieldIDs []string) bool {
	var target *internal.UsageLogEntry
	var targetTS time.Time
	for i := 0; i < l.size; i++ {
		entry := l.at(i)
		if entry.TemplateID != templateID || entry.DocumentName != documentName {
			continue
		}
		ts := parseTimestamp(entry.Timestamp)
		if target == nil || !ts.Before(targetTS) {
			target = entry
			targetTS = ts
		}
	}
	if target == nil {
		return false
	}

	fb := feedback
	target.UserFeedback = &fb
	target.CorrectionCount = len(correctedFieldIDs)

	corrected := make(map[string]struct{}, len(correctedFieldIDs))
	for _, id := range correctedFieldIDs {
		corrected[id] = struct{}{}
	}
	for i := range target.FieldAccuracies {
		if _, ok := corrected[target.FieldAccuracies[i].FieldID]; ok {
			target.FieldAccuracies[i].UserCorrected = true
			target.FieldAccuracies[i].ExtractedCorrectly = false
		}
	}
	return true
}

// parseTimestamp maps unparseable timestamps to the zero time so they sort first.
func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func cloneEntry(entry internal.UsageLogEntry) internal.UsageLogEntry {
	if entry.FieldAccuracies != nil {
		entry.FieldAccuracies = append([]internal.FieldAccuracyRecord(nil), entry.FieldAccuracies...)
	}
	if entry.UserFeedback != nil {
		fb := *entry.UserFeedback
		entry.UserFeedback = &fb
	}
	return entry
}
