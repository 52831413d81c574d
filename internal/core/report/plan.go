package report

import "github.com/example/horas/internal/core/timeunit"

// PlanItemProgress is the executed-vs-planned line of one plan item.
type PlanItemProgress struct {
	Code            string
	PlannedHours    float64
	ExecutedMinutes int
	Executed        string
	Percent         string
}

// Progress computes the progress line of a plan item.
func Progress(code string, plannedHours float64, executedMinutes int) PlanItemProgress {
	m := nonNegative(executedMinutes)
	return PlanItemProgress{
		Code:            code,
		PlannedHours:    plannedHours,
		ExecutedMinutes: m,
		Executed:        timeunit.FormatHHMM(m),
		Percent:         Percent(m, plannedHours),
	}
}

// Overview is the whole-plan summary.
type Overview struct {
	PlannedHours    float64
	ExecutedMinutes int
	Executed        string
	Percent         string
	Items           []PlanItemProgress
}

// BuildOverview sums the per-item lines into the global summary.
func BuildOverview(items []PlanItemProgress) Overview {
	var o Overview
	for _, it := range items {
		if it.PlannedHours > 0 {
			o.PlannedHours += it.PlannedHours
		}
		o.ExecutedMinutes += it.ExecutedMinutes
	}
	o.Executed = timeunit.FormatHHMM(o.ExecutedMinutes)
	o.Percent = Percent(o.ExecutedMinutes, o.PlannedHours)
	o.Items = items
	return o
}
