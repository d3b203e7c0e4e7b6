package progression_test

import (
	"testing"

	"github.com/stagecraft-app/stagecraft/internal/app/progression"
)

func TestThresholds_StrictlyIncreasing(t *testing.T) {
	table := progression.Thresholds()
	if len(table) != 12 {
		t.Fatalf("expected 12 stages, got %d", len(table))
	}
	if table[0].MinScore != 0 {
		t.Errorf("first threshold must be 0, got %d", table[0].MinScore)
	}
	for i := 1; i < len(table); i++ {
		if table[i].MinScore <= table[i-1].MinScore {
			t.Errorf("threshold %d (%d) not greater than %d (%d)",
				i+1, table[i].MinScore, i, table[i-1].MinScore)
		}
	}
}

func TestStageForScore(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{-10, 1}, // negative clamps to 0
		{0, 1},
		{49, 1},
		{50, 2},
		{99, 2},
		{100, 3},
		{174, 3},
		{175, 4},
		{2049, 11},
		{2050, 12},
		{999999, 12}, // saturates at max
	}
	for _, tt := range tests {
		if got := progression.StageForScore(tt.score); got != tt.want {
			t.Errorf("StageForScore(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestStageForScore_Monotonic(t *testing.T) {
	prev := 0
	for score := 0; score <= 2500; score += 7 {
		stage := progression.StageForScore(score)
		if stage < prev {
			t.Fatalf("stage decreased at score %d: %d -> %d", score, prev, stage)
		}
		prev = stage
	}
}

func TestStageForScore_ThresholdIdempotence(t *testing.T) {
	for i, th := range progression.Thresholds() {
		stage := i + 1
		if got := progression.StageForScore(th.MinScore); got != stage {
			t.Errorf("StageForScore(threshold %d) = %d, want %d", th.MinScore, got, stage)
		}
	}
}

func TestTitleForStage_Clamped(t *testing.T) {
	if progression.TitleForStage(0) != progression.TitleForStage(1) {
		t.Error("stage 0 should clamp to stage 1")
	}
	if progression.TitleForStage(99) != progression.TitleForStage(progression.MaxStage()) {
		t.Error("stage 99 should clamp to max stage")
	}
	if progression.TitleForStage(1) != "Newcomer" {
		t.Errorf("stage 1 title = %q", progression.TitleForStage(1))
	}
}

func TestPointsToNextStage(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 50},
		{30, 20},
		{50, 50},  // at stage 2, need 100
		{99, 1},
		{2050, 0},   // max stage
		{999999, 0}, // beyond max
	}
	for _, tt := range tests {
		if got := progression.PointsToNextStage(tt.score); got != tt.want {
			t.Errorf("PointsToNextStage(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestProgressInfo_MidStage(t *testing.T) {
	// Score 75: stage 2 (50), next 100, halfway
	info := progression.ProgressInfo(75)
	if info.Stage != 2 {
		t.Errorf("stage = %d, want 2", info.Stage)
	}
	if info.CurrentThreshold != 50 || info.NextThreshold != 100 {
		t.Errorf("thresholds = %d/%d, want 50/100", info.CurrentThreshold, info.NextThreshold)
	}
	if info.PointsToNext != 25 {
		t.Errorf("pointsToNext = %d, want 25", info.PointsToNext)
	}
	if info.ProgressPercent != 50 {
		t.Errorf("progressPercent = %d, want 50", info.ProgressPercent)
	}
}

func TestProgressInfo_MaxStage(t *testing.T) {
	info := progression.ProgressInfo(5000)
	if info.Stage != progression.MaxStage() {
		t.Errorf("stage = %d, want %d", info.Stage, progression.MaxStage())
	}
	if info.ProgressPercent != 100 {
		t.Errorf("progressPercent = %d, want 100", info.ProgressPercent)
	}
	if info.PointsToNext != 0 {
		t.Errorf("pointsToNext = %d, want 0", info.PointsToNext)
	}
}

func TestProgressInfo_Rounding(t *testing.T) {
	// Score 83: stage 2, (83-50)/(100-50) = 66% exactly
	info := progression.ProgressInfo(83)
	if info.ProgressPercent != 66 {
		t.Errorf("progressPercent = %d, want 66", info.ProgressPercent)
	}
}
