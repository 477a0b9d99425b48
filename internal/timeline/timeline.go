// Package timeline contains the pure pacing math that turns intake answers
// into a plan duration and revenue target. No I/O, all lookups are total
// functions with defaults.
package timeline

import (
	"math"

	"github.com/benvon/launch-coach/internal/models"
)

const (
	// BaseWeeks is the plan length for a full-time founder before pacing.
	BaseWeeks = 12
	// DefaultMultiplier is used for unknown hours-per-week buckets.
	DefaultMultiplier = 1.0
	// DefaultFirstRevenueTarget is used for unknown hours-per-week buckets.
	DefaultFirstRevenueTarget = "Week 5–6"
	// DefaultStartPhase is used for unknown business stages.
	DefaultStartPhase = 1
)

var pacingMultipliers = map[string]float64{
	"5-10":  2.5,
	"10-20": 1.5,
	"20-40": 1.0,
	"40+":   0.7,
}

var firstRevenueTargets = map[string]string{
	"5-10":  "Week 10–12",
	"10-20": "Week 6–8",
	"20-40": "Week 5–6",
	"40+":   "Week 3–4",
}

var startPhases = map[models.BusinessStage]int{
	models.StageIdea:           1,
	models.StageValidating:     2,
	models.StageBuilding:       3,
	models.StageEarlyCustomers: 4,
	models.StageGrowing:        5,
}

// PacingMultiplier maps an hours-per-week bucket to a plan-length multiplier.
func PacingMultiplier(hoursPerWeek string) float64 {
	if m, ok := pacingMultipliers[hoursPerWeek]; ok {
		return m
	}
	return DefaultMultiplier
}

// TotalWeeks returns the plan duration in weeks for a pacing multiplier.
func TotalWeeks(multiplier float64) int {
	return int(math.Round(BaseWeeks * multiplier))
}

// TotalDays returns the plan duration in days for a pacing multiplier.
func TotalDays(multiplier float64) int {
	return TotalWeeks(multiplier) * 7
}

// FirstRevenueTarget maps an hours-per-week bucket to a human-readable
// week-range label for the first expected revenue.
func FirstRevenueTarget(hoursPerWeek string) string {
	if t, ok := firstRevenueTargets[hoursPerWeek]; ok {
		return t
	}
	return DefaultFirstRevenueTarget
}

// StartPhase maps a business stage to the phase number the plan starts at, so
// further-along founders skip phases they have already completed.
func StartPhase(stage models.BusinessStage) int {
	if p, ok := startPhases[stage]; ok {
		return p
	}
	return DefaultStartPhase
}

// WeekForDay returns the 1-indexed week a 1-indexed plan day falls in.
func WeekForDay(day int) int {
	if day < 1 {
		return 1
	}
	return (day + 6) / 7
}
