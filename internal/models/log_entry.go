// Package models defines the data structures used throughout the application
package models

import (
	"fmt"
	"strconv"
	"time"

	"proxy-log-analyzer/internal/config"
)

// LogEntry represents one proxy access record reconstructed from the log
// Fields missing from the record keep their zero value
type LogEntry struct {
	Line      uint64    `db:"line" json:"line" yaml:"line"`                // Ordinal of the record in the input, starting at 0
	Timestamp time.Time `db:"timestamp" json:"timestamp" yaml:"timestamp"` // Zero when absent or unparseable
	Agent     string    `db:"agent" json:"agent" yaml:"agent"`             // User agent without surrounding quotes
	ClientIP  string    `db:"clientip" json:"clientip" yaml:"clientip"`
	Status    uint16    `db:"status" json:"status" yaml:"status"` // HTTP status, 0 when unparseable
	Method    string    `db:"method" json:"method" yaml:"method"`
	Schema    string    `db:"schema" json:"schema" yaml:"schema"`
	Length    uint64    `db:"length" json:"length" yaml:"length"` // Response size in bytes
	Request   string    `db:"request" json:"request" yaml:"request"`
	Referrer  string    `db:"referrer" json:"referrer" yaml:"referrer"`
}

// Time returns the timestamp in its canonical textual form
func (l LogEntry) Time() string {
	return l.Timestamp.Format(config.TimeLayout)
}

// Date returns the calendar day of the timestamp as YYYY-MM-DD
func (l LogEntry) Date() string {
	return l.Timestamp.Format(config.DateLayout)
}

// Value returns the textual value of the field selected by p.
// It is the value include/exclude patterns are matched against.
func (l LogEntry) Value(p LogParameter) string {
	switch p {
	case Time:
		return l.Time()
	case Date:
		return l.Date()
	case Agent:
		return l.Agent
	case ClientIP:
		return l.ClientIP
	case Status:
		return strconv.FormatUint(uint64(l.Status), 10)
	case Method:
		return l.Method
	case Schema:
		return l.Schema
	case Request:
		return l.Request
	case Referrer:
		return l.Referrer
	default:
		panic(fmt.Sprintf("models: unknown log parameter %d", int(p)))
	}
}

// String returns a human-readable representation of the log entry
func (l LogEntry) String() string {
	return fmt.Sprintf("#%d %s: %s %s %s %d %dB",
		l.Line,
		l.Time(),
		l.ClientIP,
		l.Method,
		l.Request,
		l.Status,
		l.Length)
}
