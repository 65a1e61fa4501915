// Package output renders entries, grouped reports and query results
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"proxy-log-analyzer/internal/aggregator"
	"proxy-log-analyzer/internal/config"
	"proxy-log-analyzer/internal/database"
	"proxy-log-analyzer/internal/models"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Printer writes results to w in one of the config.Format* formats
type Printer struct {
	w      io.Writer
	format string
}

// NewPrinter returns a Printer; an unknown format falls back to table
func NewPrinter(w io.Writer, format string) *Printer {
	switch format {
	case config.FormatJSON, config.FormatYAML:
	default:
		format = config.FormatTable
	}
	return &Printer{w: w, format: format}
}

// traffic is the structured form of the traffic report
type traffic struct {
	Bytes uint64 `json:"bytes" yaml:"bytes"`
	Human string `json:"human" yaml:"human"`
}

// Entries prints the listing of entries. An empty table prints nothing.
func (p *Printer) Entries(entries []models.LogEntry) error {
	if p.format != config.FormatTable {
		if entries == nil {
			entries = []models.LogEntry{}
		}
		return p.encode(entries)
	}

	if len(entries) == 0 {
		return nil
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			strconv.FormatUint(e.Line, 10),
			e.Time(),
			e.Agent,
			e.ClientIP,
			strconv.FormatUint(uint64(e.Status), 10),
			e.Method,
			e.Schema,
			strconv.FormatUint(e.Length, 10),
			e.Request,
			e.Referrer,
		}
	}

	headers := []string{"#", "Time", "Agent", "Client IP", "Status", "Method", "Schema", "Length", "Request", "Referrer"}
	return p.table(headers, rows)
}

// Groups prints a grouped report with counts and percentages
func (p *Printer) Groups(report aggregator.Report) error {
	if p.format != config.FormatTable {
		if report.Rows == nil {
			report.Rows = []aggregator.Row{}
		}
		return p.encode(report)
	}

	if len(report.Rows) == 0 {
		return nil
	}

	rows := make([][]string, len(report.Rows))
	for i, r := range report.Rows {
		rows[i] = []string{
			fmt.Sprint(r.Key),
			strconv.Itoa(r.Count),
			fmt.Sprintf("%.2f", r.Percent),
		}
	}

	return p.table([]string{report.Parameter.DisplayName(), "Count", "%"}, rows)
}

// Traffic prints the humanized sum of transferred bytes
func (p *Printer) Traffic(bytes uint64) error {
	human := humanize.IBytes(bytes)
	if p.format != config.FormatTable {
		return p.encode(traffic{Bytes: bytes, Human: human})
	}

	_, err := fmt.Fprintf(p.w, "Total traffic: %s\n", human)
	return err
}

// Query prints the result of an SQL query with columns in query order
func (p *Printer) Query(result *database.QueryResult) error {
	if p.format != config.FormatTable {
		return p.encode(result.Records())
	}

	if len(result.Rows) == 0 {
		_, err := fmt.Fprintln(p.w, "No results found.")
		return err
	}

	rows := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			if v == nil {
				rows[i][j] = "NULL"
				continue
			}
			rows[i][j] = fmt.Sprint(v)
		}
	}

	t := newTable(result.Columns, rows)
	_, err := fmt.Fprintf(p.w, "%s\n\n(%d rows)\n", t.Render(), len(rows))
	return err
}

// table prints a table followed by its item count
func (p *Printer) table(headers []string, rows [][]string) error {
	t := newTable(headers, rows)
	_, err := fmt.Fprintf(p.w, "%s\nTotal items: %d\n", t.Render(), len(rows))
	return err
}

// newTable builds a table with horizontal rules only
func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleBorder).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(false).
		BorderHeader(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Headers(headers...).
		Rows(rows...)
}

// encode writes v as JSON or YAML
func (p *Printer) encode(v any) error {
	if p.format == config.FormatYAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
