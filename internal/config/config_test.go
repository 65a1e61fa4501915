package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestConfigConstants tests that the configuration constants are properly defined
func TestConfigConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{
			name:     "RecordSentinel should be the nginx proxy access marker",
			value:    RecordSentinel,
			expected: "pattern: NGINXPROXYACCESS",
		},
		{
			name:     "TimestampLayout should use a numeric offset",
			value:    TimestampLayout,
			expected: "2/Jan/2006:15:04:05 -0700",
		},
		{
			name:     "ValueTrimChars should strip colons and spaces",
			value:    ValueTrimChars,
			expected: ": ",
		},
		{
			name:     "DefaultOutputFormat should be table",
			value:    DefaultOutputFormat,
			expected: "table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, tt.value)
			}
		})
	}
}

// TestValueSeparator ensures the separator is a colon
func TestValueSeparator(t *testing.T) {
	if ValueSeparator != ':' {
		t.Errorf("Expected ':', got %q", ValueSeparator)
	}
}

// writeConfig creates a YAML config file in a temporary directory
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	return path
}

// TestLoadFromConfigFile tests reading settings from a YAML config file
func TestLoadFromConfigFile(t *testing.T) {
	path := writeConfig(t, `output: json
parameter: status
include: "^5"
top: 3
file:
  - /var/log/proxy/*.log
`)

	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}

	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Output != FormatJSON {
		t.Errorf("Expected output %q, got %q", FormatJSON, s.Output)
	}
	if s.Parameter != "status" {
		t.Errorf("Expected parameter 'status', got %q", s.Parameter)
	}
	if s.Include != "^5" {
		t.Errorf("Expected include '^5', got %q", s.Include)
	}
	if s.Top != 3 {
		t.Errorf("Expected top 3, got %d", s.Top)
	}
	if len(s.Files) != 1 || s.Files[0] != "/var/log/proxy/*.log" {
		t.Errorf("Expected one file pattern, got %v", s.Files)
	}
}

// TestLoadFromEnvironment tests that PLA_ environment variables are honoured
func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PLA_OUTPUT", "yaml")

	v, err := NewViper(writeConfig(t, "top: 1\n"))
	if err != nil {
		t.Fatalf("NewViper() error = %v", err)
	}

	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Output != FormatYAML {
		t.Errorf("Expected output %q, got %q", FormatYAML, s.Output)
	}
}

// TestNewViperMissingExplicitFile tests that an explicit but missing config file fails
func TestNewViperMissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestLoadValidation tests settings validation
func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "defaults are valid",
			content: "verbose: false\n",
		},
		{
			name:    "unknown output format",
			content: "output: xml\n",
			wantErr: "invalid output format",
		},
		{
			name:    "negative top",
			content: "top: -2\n",
			wantErr: "top must not be negative",
		},
		{
			name:    "include without parameter",
			content: "include: GET\n",
			wantErr: "require --parameter",
		},
		{
			name:    "exclude with parameter",
			content: "exclude: GET\nparameter: method\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewViper(writeConfig(t, tt.content))
			if err != nil {
				t.Fatalf("NewViper() error = %v", err)
			}

			_, err = Load(v)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
