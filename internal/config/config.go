// Package config provides shared configuration constants and settings
// for the proxy log analyzer application
package config

const (
	// AppName is the command name and the base name of the optional config file
	AppName = "proxy-log-analyzer"

	// EnvPrefix is prepended to setting names when read from the environment (PLA_OUTPUT, ...)
	EnvPrefix = "PLA"

	// RecordSentinel marks the end of one multi-line access record
	RecordSentinel = "pattern: NGINXPROXYACCESS"

	// ValueSeparator splits a record line into key and value
	ValueSeparator = ':'

	// ValueTrimChars are stripped from both ends of a value
	ValueTrimChars = ": "

	// TimestampLayout is the wire format of the timestamp field, e.g. 10/Oct/2023:13:55:36 +0000
	TimestampLayout = "2/Jan/2006:15:04:05 -0700"

	// TimeLayout is the canonical rendering of an entry timestamp
	TimeLayout = "2006-01-02 15:04:05 -07:00"

	// DateLayout truncates a timestamp to its calendar day
	DateLayout = "2006-01-02"

	// MaxLineLength bounds a single input line read by the line source
	MaxLineLength = 1024 * 1024

	// EntriesTableName is the in-memory SQLite table the sql command queries
	EntriesTableName = "entries"

	// InMemoryDatabase is the SQLite DSN used by the sql command; nothing is persisted
	InMemoryDatabase = ":memory:"

	// Output formats
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"

	// DefaultOutputFormat is used when neither flag, environment nor config file sets one
	DefaultOutputFormat = FormatTable

	// Help texts shared by flags
	FileDescription      = "Log file path or glob pattern to analyze (repeatable, default: standard input)"
	IncludeDescription   = "Include only entries whose parameter value matches this pattern"
	ExcludeDescription   = "Exclude entries whose parameter value matches this pattern"
	ParameterDescription = "Entry parameter the include/exclude patterns apply to"
	OutputDescription    = "Output format: table, json, yaml"
	TopDescription       = "Output only specified number of grouped items"
	ConfigDescription    = "Config file (default: $HOME/.proxy-log-analyzer.yaml)"
	VerboseDescription   = "Enable debug logging on standard error"
)
