// Package titration materializes per-period dosing schedules for stepped
// protocols and user-edited custom schedules.
package titration

import (
	"math"
	"sort"
)

// Period is one scheduled administration event.
type Period struct {
	Index int     `json:"period"`
	Dose  float64 `json:"dose"`
}

// Step holds a dose for a number of consecutive periods.
type Step struct {
	Dose    float64
	Periods int
}

// Ladder is a stepped titration protocol. Periods past the final step hold
// Final (or the last step's dose when Final is zero).
type Ladder struct {
	Name  string
	Steps []Step
	Final float64
}

// Preset names, referenced by medication records.
const (
	PresetMonthly = "standard-monthly"
	PresetWeekly  = "standard-weekly"
)

var presets = map[string]Ladder{
	// Dose escalates every 4 periods, then holds 15 from period 21 on.
	PresetMonthly: {
		Name: PresetMonthly,
		Steps: []Step{
			{Dose: 2.5, Periods: 4},
			{Dose: 5, Periods: 4},
			{Dose: 7.5, Periods: 4},
			{Dose: 10, Periods: 4},
			{Dose: 12.5, Periods: 4},
		},
		Final: 15,
	},
	// One step per period, holding the last dose beyond the ladder.
	PresetWeekly: {
		Name: PresetWeekly,
		Steps: []Step{
			{Dose: 2.5, Periods: 1},
			{Dose: 3.75, Periods: 1},
			{Dose: 5, Periods: 1},
			{Dose: 7.5, Periods: 1},
			{Dose: 10, Periods: 1},
		},
	},
}

// LadderByName resolves a preset ladder.
func LadderByName(name string) (Ladder, bool) {
	l, ok := presets[name]
	return l, ok
}

// PresetNames lists the known presets in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DoseAt returns the ladder dose for a 1-based period index.
func (l Ladder) DoseAt(index int) float64 {
	if index < 1 {
		return 0
	}
	remaining := index
	for _, step := range l.Steps {
		if remaining <= step.Periods {
			return step.Dose
		}
		remaining -= step.Periods
	}
	if l.Final > 0 {
		return l.Final
	}
	if n := len(l.Steps); n > 0 {
		return l.Steps[n-1].Dose
	}
	return 0
}

// Standard materializes the ladder for the given duration.
func Standard(l Ladder, duration int) []Period {
	if duration < 1 {
		return nil
	}
	schedule := make([]Period, duration)
	for i := range schedule {
		schedule[i] = Period{Index: i + 1, Dose: l.DoseAt(i + 1)}
	}
	return schedule
}

// Custom builds a schedule from user-supplied doses, coercing invalid values
// to zero and backfilling periods past the supplied list from the ladder.
func Custom(l Ladder, duration int, doses []float64) []Period {
	if duration < 1 {
		return nil
	}
	schedule := make([]Period, duration)
	for i := range schedule {
		dose := l.DoseAt(i + 1)
		if i < len(doses) {
			dose = Coerce(doses[i])
		}
		schedule[i] = Period{Index: i + 1, Dose: dose}
	}
	return schedule
}

// Resize adjusts an existing custom schedule to a new duration. Doses whose
// period index is still in range are preserved; new periods are backfilled
// from the ladder; out-of-range periods are dropped.
func Resize(existing []Period, duration int, l Ladder) []Period {
	if duration < 1 {
		return nil
	}
	byIndex := make(map[int]float64, len(existing))
	for _, p := range existing {
		byIndex[p.Index] = p.Dose
	}

	schedule := make([]Period, duration)
	for i := range schedule {
		index := i + 1
		dose, ok := byIndex[index]
		if !ok {
			dose = l.DoseAt(index)
		}
		schedule[i] = Period{Index: index, Dose: Coerce(dose)}
	}
	return schedule
}

// SetDose replaces one period's dose in place, coercing invalid input.
func SetDose(schedule []Period, index int, dose float64) {
	for i := range schedule {
		if schedule[i].Index == index {
			schedule[i].Dose = Coerce(dose)
			return
		}
	}
}

// TotalDose sums the schedule's doses.
func TotalDose(schedule []Period) float64 {
	var total float64
	for _, p := range schedule {
		total += p.Dose
	}
	return total
}

// Coerce maps negative and non-finite doses to zero.
func Coerce(dose float64) float64 {
	if math.IsNaN(dose) || math.IsInf(dose, 0) || dose < 0 {
		return 0
	}
	return dose
}
