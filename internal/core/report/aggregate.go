// Package report contains the pure aggregation rules behind the reporting engine.
// This is part of the Functional Core - no I/O, only pure functions.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/horas/internal/core/timeunit"
)

// Months is the number of month buckets in a yearly report.
const Months = 12

// Row is one aggregated (key, minutes) pair.
type Row struct {
	Key     string
	Minutes int
	HHMM    string
}

// MonthRow is a key with its minutes split into twelve month buckets.
type MonthRow struct {
	Key     string
	Buckets [Months]int
	Total   int
}

// Fact is one dated contribution read from the ledger.
type Fact struct {
	Key     string
	Date    string
	Minutes int
}

// Percent formats executed minutes against a planned-hours budget.
// A zero or negative budget reports "0%".
func Percent(executedMinutes int, plannedHours float64) string {
	if plannedHours <= 0 {
		return "0%"
	}
	pct := (float64(executedMinutes) / 60.0) / plannedHours * 100
	return fmt.Sprintf("%.2f%%", pct)
}

// Totals folds facts into per-key totals, ordered by key.
// Negative contributions count as zero.
func Totals(facts []Fact) []Row {
	sums := map[string]int{}
	for _, f := range facts {
		sums[f.Key] += nonNegative(f.Minutes)
	}
	rows := make([]Row, 0, len(sums))
	for k, m := range sums {
		rows = append(rows, Row{Key: k, Minutes: m, HHMM: timeunit.FormatHHMM(m)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// ByMonth buckets facts by the month of their date. Facts with an
// unparsable date are ignored.
func ByMonth(facts []Fact) []MonthRow {
	idx := map[string]*MonthRow{}
	var keys []string
	for _, f := range facts {
		d, err := time.Parse(timeunit.DateLayout, f.Date)
		if err != nil {
			continue
		}
		r, ok := idx[f.Key]
		if !ok {
			r = &MonthRow{Key: f.Key}
			idx[f.Key] = r
			keys = append(keys, f.Key)
		}
		m := nonNegative(f.Minutes)
		r.Buckets[d.Month()-1] += m
		r.Total += m
	}
	sort.Strings(keys)
	rows := make([]MonthRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, *idx[k])
	}
	return rows
}

// Global collapses every fact into a single month row under key.
func Global(key string, facts []Fact) MonthRow {
	out := MonthRow{Key: key}
	for _, r := range ByMonth(relabel(facts, key)) {
		out = r
	}
	return out
}

// Sum adds minutes, treating negatives as zero.
func Sum(minutes ...int) int {
	total := 0
	for _, m := range minutes {
		total += nonNegative(m)
	}
	return total
}

func relabel(facts []Fact, key string) []Fact {
	out := make([]Fact, len(facts))
	for i, f := range facts {
		f.Key = key
		out[i] = f
	}
	return out
}

func nonNegative(m int) int {
	if m < 0 {
		return 0
	}
	return m
}
