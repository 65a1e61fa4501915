// Package parser reconstructs proxy access entries from multi-line records
package parser

import (
	"iter"
	"strconv"
	"strings"
	"time"

	"proxy-log-analyzer/internal/config"
	"proxy-log-analyzer/internal/filter"
	"proxy-log-analyzer/internal/models"
)

// Record keys recognized by NewLogEntry
const (
	keyRequest   = "request"
	keyTimestamp = "timestamp"
	keyAgent     = "agent"
	keyClientIP  = "clientip"
	keyMethod    = "method"
	keySchema    = "schema"
	keyLength    = "length"
	keyStatus    = "status"
	keyReferrer  = "referrer"
)

// Convert groups lines into records and returns the entries allowed by
// criteria on the given parameter. A line containing the sentinel ends the
// current record; lines ending with the separator carry no value and are
// dropped. A trailing record without a sentinel still produces an entry.
// With a nil parameter every entry is kept.
func Convert(lines iter.Seq[string], criteria *filter.Criteria, parameter *models.LogParameter) []models.LogEntry {
	var (
		result  []models.LogEntry
		content []string
		line    uint64
	)

	add := func() {
		if entry, ok := NewLogEntry(content, line); ok && Allow(entry, criteria, parameter) {
			result = append(result, entry)
		}
	}

	for s := range lines {
		switch {
		case strings.Contains(s, config.RecordSentinel):
			add()
			content = content[:0]
			line++
		case strings.HasSuffix(s, string(config.ValueSeparator)):
			// key without value
		default:
			content = append(content, s)
		}
	}

	add()
	return result
}

// Allow reports whether entry passes criteria on the field selected by parameter
func Allow(entry models.LogEntry, criteria *filter.Criteria, parameter *models.LogParameter) bool {
	if parameter == nil {
		return true
	}
	return criteria.Allow(entry.Value(*parameter))
}

// NewLogEntry builds an entry from the raw lines of one record.
// It returns false only when content is empty; missing or malformed fields
// keep their zero value.
func NewLogEntry(content []string, line uint64) (models.LogEntry, bool) {
	if len(content) == 0 {
		return models.LogEntry{}, false
	}

	fields := extractFields(content)

	return models.LogEntry{
		Line:      line,
		Timestamp: parseTimestamp(fields[keyTimestamp]),
		Agent:     strings.Trim(fields[keyAgent], `"`),
		ClientIP:  fields[keyClientIP],
		Status:    uint16(parseUint(fields[keyStatus], 16)),
		Method:    fields[keyMethod],
		Schema:    fields[keySchema],
		Length:    parseUint(fields[keyLength], 64),
		Request:   fields[keyRequest],
		Referrer:  fields[keyReferrer],
	}, true
}

// extractFields splits every line at its first separator into a trimmed key
// and value. Lines without a separator are skipped; a repeated key keeps the
// last value.
func extractFields(content []string) map[string]string {
	fields := make(map[string]string, len(content))
	for _, s := range content {
		key, value, found := strings.Cut(s, string(config.ValueSeparator))
		if !found {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(strings.Trim(value, config.ValueTrimChars))
	}
	return fields
}

// parseTimestamp returns the zero time when value does not match the layout
func parseTimestamp(value string) time.Time {
	t, err := time.Parse(config.TimestampLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseUint returns 0 when value is not an unsigned integer of the given size
func parseUint(value string, bitSize int) uint64 {
	n, err := strconv.ParseUint(value, 10, bitSize)
	if err != nil {
		return 0
	}
	return n
}
