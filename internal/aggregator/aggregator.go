// Package aggregator groups log entries and computes frequency breakdowns
package aggregator

import (
	"fmt"
	"sort"

	"proxy-log-analyzer/internal/models"
)

// Row is one rendered group of a Report
type Row struct {
	Key     any     `json:"key" yaml:"key"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Report is the grouped breakdown of entries by one parameter.
// Total counts every grouped entry, including groups cut off by Limit.
type Report struct {
	Parameter models.LogParameter `json:"parameter" yaml:"parameter"`
	Total     int                 `json:"total" yaml:"total"`
	Limit     int                 `json:"limit,omitempty" yaml:"limit,omitempty"`
	Rows      []Row               `json:"rows" yaml:"rows"`
}

// Group partitions entries by the key returned from project and counts each
// group. Groups are returned in the order their key was first seen.
func Group[T comparable](entries []models.LogEntry, project func(models.LogEntry) T) []models.GroupedParameter[T] {
	index := make(map[T]int)
	var groups []models.GroupedParameter[T]

	for _, entry := range entries {
		key := project(entry)
		if i, ok := index[key]; ok {
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, models.GroupedParameter[T]{Parameter: key, Count: 1})
	}

	return groups
}

// RankAndLimit sorts groups by count, highest first, and keeps the first
// limit groups when limit is positive. Groups with equal counts keep their
// relative order. The input slice is not modified.
func RankAndLimit[T comparable](groups []models.GroupedParameter[T], limit int) []models.GroupedParameter[T] {
	ranked := make([]models.GroupedParameter[T], len(groups))
	copy(ranked, groups)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// Total returns the sum of all group counts
func Total[T comparable](groups []models.GroupedParameter[T]) int {
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	return total
}

// Percent returns count as a percentage of total, or 0 when total is 0
func Percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// GroupBy groups entries by parameter and returns the ranked breakdown,
// truncated to limit groups when limit is positive. Percentages are relative
// to all entries, not to the groups kept.
func GroupBy(entries []models.LogEntry, parameter models.LogParameter, limit int) Report {
	switch parameter {
	case models.Time:
		return report(parameter, limit, Group(entries, models.LogEntry.Time))
	case models.Date:
		return report(parameter, limit, Group(entries, models.LogEntry.Date))
	case models.Agent:
		return report(parameter, limit, Group(entries, func(e models.LogEntry) string { return e.Agent }))
	case models.ClientIP:
		return report(parameter, limit, Group(entries, func(e models.LogEntry) string { return e.ClientIP }))
	case models.Status:
		return report(parameter, limit, Group(entries, func(e models.LogEntry) uint16 { return e.Status }))
	case models.Method:
		return report(parameter, limit, Group(entries, func(e models.LogEntry) string { return e.Method }))
	case models.Schema:
		return report(parameter, limit, Group(entries, func(e models.LogEntry) string { return e.Schema }))
	case models.Request:
		return report(parameter, limit, Group(entries, func(e models.LogEntry) string { return e.Request }))
	case models.Referrer:
		return report(parameter, limit, Group(entries, func(e models.LogEntry) string { return e.Referrer }))
	default:
		panic(fmt.Sprintf("aggregator: unknown log parameter %d", int(parameter)))
	}
}

// report ranks groups and computes their share of the full total
func report[T comparable](parameter models.LogParameter, limit int, groups []models.GroupedParameter[T]) Report {
	total := Total(groups)
	ranked := RankAndLimit(groups, limit)

	rows := make([]Row, len(ranked))
	for i, g := range ranked {
		rows[i] = Row{
			Key:     g.Parameter,
			Count:   g.Count,
			Percent: Percent(g.Count, total),
		}
	}

	return Report{
		Parameter: parameter,
		Total:     total,
		Limit:     limit,
		Rows:      rows,
	}
}

// TotalTraffic returns the sum of the response lengths of entries
func TotalTraffic(entries []models.LogEntry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.Length
	}
	return total
}
