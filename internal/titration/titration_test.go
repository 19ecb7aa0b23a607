package titration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyLadderEscalatesEveryFourPeriods(t *testing.T) {
	ladder, ok := LadderByName(PresetMonthly)
	assert.True(t, ok)

	schedule := Standard(ladder, 24)
	assert.Len(t, schedule, 24)

	assert.Equal(t, 2.5, schedule[0].Dose)
	assert.Equal(t, 2.5, schedule[3].Dose)
	assert.Equal(t, 5.0, schedule[4].Dose)
	assert.Equal(t, 10.0, schedule[15].Dose)
	assert.Equal(t, 12.5, schedule[19].Dose)
	// Past the last step the schedule holds the final dose.
	assert.Equal(t, 15.0, schedule[20].Dose)
	assert.Equal(t, 15.0, schedule[23].Dose)
}

func TestMonthlyTotalDoseTenPeriods(t *testing.T) {
	ladder, _ := LadderByName(PresetMonthly)
	schedule := Standard(ladder, 10)

	// 4x2.5 + 4x5 + 2x7.5
	assert.Equal(t, 45.0, TotalDose(schedule))
}

func TestWeeklyLadderHoldsLastDose(t *testing.T) {
	ladder, ok := LadderByName(PresetWeekly)
	assert.True(t, ok)

	schedule := Standard(ladder, 8)
	doses := make([]float64, 0, len(schedule))
	for _, p := range schedule {
		doses = append(doses, p.Dose)
	}
	assert.Equal(t, []float64{2.5, 3.75, 5, 7.5, 10, 10, 10, 10}, doses)
}

func TestStandardRejectsNonPositiveDuration(t *testing.T) {
	ladder, _ := LadderByName(PresetMonthly)
	assert.Nil(t, Standard(ladder, 0))
	assert.Nil(t, Standard(ladder, -3))
}

func TestCustomBackfillsFromLadder(t *testing.T) {
	ladder, _ := LadderByName(PresetMonthly)
	schedule := Custom(ladder, 6, []float64{1, 2})

	assert.Equal(t, 1.0, schedule[0].Dose)
	assert.Equal(t, 2.0, schedule[1].Dose)
	// Periods past the supplied doses come from the ladder.
	assert.Equal(t, 2.5, schedule[2].Dose)
	assert.Equal(t, 5.0, schedule[4].Dose)
}

func TestCustomCoercesInvalidDoses(t *testing.T) {
	ladder, _ := LadderByName(PresetWeekly)
	schedule := Custom(ladder, 4, []float64{-5, math.NaN(), math.Inf(1), 7.5})

	assert.Equal(t, 0.0, schedule[0].Dose)
	assert.Equal(t, 0.0, schedule[1].Dose)
	assert.Equal(t, 0.0, schedule[2].Dose)
	assert.Equal(t, 7.5, schedule[3].Dose)
}

func TestResizePreservesInRangeEdits(t *testing.T) {
	ladder, _ := LadderByName(PresetMonthly)

	schedule := Standard(ladder, 8)
	SetDose(schedule, 3, 9.9)

	shrunk := Resize(schedule, 4, ladder)
	assert.Len(t, shrunk, 4)
	assert.Equal(t, 9.9, shrunk[2].Dose)

	grown := Resize(shrunk, 6, ladder)
	assert.Len(t, grown, 6)
	assert.Equal(t, 9.9, grown[2].Dose)
	// Periods beyond the previous duration are backfilled from the ladder.
	assert.Equal(t, 5.0, grown[4].Dose)
	assert.Equal(t, 5.0, grown[5].Dose)
}

func TestResizeDropsOutOfRangeEdits(t *testing.T) {
	ladder, _ := LadderByName(PresetMonthly)

	schedule := Standard(ladder, 8)
	SetDose(schedule, 7, 3.3)

	shrunk := Resize(schedule, 4, ladder)
	grown := Resize(shrunk, 8, ladder)

	// The edit at period 7 was dropped with the shrink.
	assert.Equal(t, ladder.DoseAt(7), grown[6].Dose)
}

func TestSetDoseIgnoresUnknownPeriod(t *testing.T) {
	ladder, _ := LadderByName(PresetWeekly)
	schedule := Standard(ladder, 3)
	SetDose(schedule, 99, 1.0)

	assert.Equal(t, 2.5, schedule[0].Dose)
	assert.Equal(t, 3.75, schedule[1].Dose)
	assert.Equal(t, 5.0, schedule[2].Dose)
}

func TestPresetNamesStable(t *testing.T) {
	assert.Equal(t, []string{PresetMonthly, PresetWeekly}, PresetNames())
}
