package models

import (
	"fmt"
	"strings"
)

// LogParameter identifies the entry field a filter or a grouping targets
type LogParameter int

const (
	Time LogParameter = iota
	Date
	Agent
	ClientIP
	Status
	Method
	Schema
	Request
	Referrer
)

// LogParameters returns every parameter in declaration order
func LogParameters() []LogParameter {
	return []LogParameter{Time, Date, Agent, ClientIP, Status, Method, Schema, Request, Referrer}
}

// Token returns the command line token of the parameter.
// Tokens are used by scripts and must not change.
func (p LogParameter) Token() string {
	switch p {
	case Time:
		return "time"
	case Date:
		return "date"
	case Agent:
		return "agent"
	case ClientIP:
		return "client"
	case Status:
		return "status"
	case Method:
		return "method"
	case Schema:
		return "schema"
	case Request:
		return "req"
	case Referrer:
		return "ref"
	default:
		return fmt.Sprintf("LogParameter(%d)", int(p))
	}
}

// DisplayName returns the table header label of the parameter
func (p LogParameter) DisplayName() string {
	switch p {
	case Time:
		return "Time"
	case Date:
		return "Date"
	case Agent:
		return "Agent"
	case ClientIP:
		return "Client IP"
	case Status:
		return "Status"
	case Method:
		return "Method"
	case Schema:
		return "Schema"
	case Request:
		return "Request"
	case Referrer:
		return "Referrer"
	default:
		return p.Token()
	}
}

// String implements fmt.Stringer
func (p LogParameter) String() string {
	return p.Token()
}

// Tokens returns the tokens of all parameters in declaration order
func Tokens() []string {
	params := LogParameters()
	tokens := make([]string, len(params))
	for i, p := range params {
		tokens[i] = p.Token()
	}
	return tokens
}

// ParseLogParameter converts a command line token into a LogParameter
func ParseLogParameter(token string) (LogParameter, error) {
	for _, p := range LogParameters() {
		if p.Token() == token {
			return p, nil
		}
	}
	return 0, fmt.Errorf("invalid parameter '%s': must be one of %s", token, strings.Join(Tokens(), ", "))
}

// MarshalText implements encoding.TextMarshaler so reports encode the token
func (p LogParameter) MarshalText() ([]byte, error) {
	return []byte(p.Token()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *LogParameter) UnmarshalText(text []byte) error {
	parsed, err := ParseLogParameter(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// GroupedParameter is one group of a grouping: the shared key value and
// the number of entries carrying it
type GroupedParameter[T comparable] struct {
	Parameter T   `json:"parameter" yaml:"parameter"`
	Count     int `json:"count" yaml:"count"`
}
