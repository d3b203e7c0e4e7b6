// Package progression implements the stage/level rules engine.
// A fixed 12-entry threshold table maps cumulative achievement points to a
// discrete stage. All functions are pure and total over non-negative
// scores; negative scores clamp to 0.
package progression

import (
	"math"

	"github.com/stagecraft-app/stagecraft/internal/domain"
)

// Thresholds returns the build-time stage table. Strictly increasing
// minimum scores, first entry always 0 so stage 1 is reachable at zero.
func Thresholds() []domain.StageThreshold {
	return []domain.StageThreshold{
		{MinScore: 0, Title: "Newcomer"},
		{MinScore: 50, Title: "Apprentice"},
		{MinScore: 100, Title: "Pathfinder"},
		{MinScore: 175, Title: "Strategist"},
		{MinScore: 275, Title: "Tactician"},
		{MinScore: 400, Title: "Challenger"},
		{MinScore: 550, Title: "Contender"},
		{MinScore: 750, Title: "Veteran"},
		{MinScore: 1000, Title: "Expert"},
		{MinScore: 1300, Title: "Master"},
		{MinScore: 1650, Title: "Grandmaster"},
		{MinScore: 2050, Title: "Legend"},
	}
}

// MaxStage is the highest reachable stage number.
func MaxStage() int {
	return len(Thresholds())
}

// StageForScore returns the largest stage whose threshold <= score.
// Scores above the last threshold saturate at the max stage.
func StageForScore(score int) int {
	if score < 0 {
		score = 0
	}
	table := Thresholds()
	stage := 1
	for i, t := range table {
		if score >= t.MinScore {
			stage = i + 1
		}
	}
	return stage
}

// TitleForStage returns the stage title, clamped to [1, MaxStage].
func TitleForStage(stage int) string {
	table := Thresholds()
	if stage < 1 {
		stage = 1
	}
	if stage > len(table) {
		stage = len(table)
	}
	return table[stage-1].Title
}

// ThresholdForStage returns the minimum score for a stage, clamped.
func ThresholdForStage(stage int) int {
	table := Thresholds()
	if stage < 1 {
		stage = 1
	}
	if stage > len(table) {
		stage = len(table)
	}
	return table[stage-1].MinScore
}

// PointsToNextStage returns points remaining until the next stage,
// or 0 when already at max stage.
func PointsToNextStage(score int) int {
	if score < 0 {
		score = 0
	}
	stage := StageForScore(score)
	if stage >= MaxStage() {
		return 0
	}
	return ThresholdForStage(stage+1) - score
}

// ProgressInfo returns the full progression snapshot for a score.
// ProgressPercent is 100 at max stage, else the rounded position between
// the current and next thresholds.
func ProgressInfo(score int) domain.ProgressInfo {
	if score < 0 {
		score = 0
	}
	stage := StageForScore(score)
	info := domain.ProgressInfo{
		Stage:            stage,
		Title:            TitleForStage(stage),
		Score:            score,
		CurrentThreshold: ThresholdForStage(stage),
	}

	if stage >= MaxStage() {
		info.NextThreshold = info.CurrentThreshold
		info.ProgressPercent = 100
		return info
	}

	info.NextThreshold = ThresholdForStage(stage + 1)
	info.PointsToNext = info.NextThreshold - score

	span := info.NextThreshold - info.CurrentThreshold
	info.ProgressPercent = int(math.Round(100 * float64(score-info.CurrentThreshold) / float64(span)))
	return info
}
