// Package domain holds the pure types shared across the gamification layer.
// No infrastructure imports — services and stores depend on domain, never
// the other way around.
package domain

// StageThreshold maps a minimum cumulative score to a named stage.
// Stage numbers are 1-based and contiguous; thresholds are strictly
// increasing and the first threshold is always 0.
type StageThreshold struct {
	MinScore int    `json:"min_score"`
	Title    string `json:"title"`
}

// ProgressInfo is the full progression snapshot for a score.
type ProgressInfo struct {
	Stage            int    `json:"stage"`
	Title            string `json:"title"`
	Score            int    `json:"score"`
	CurrentThreshold int    `json:"current_threshold"`
	NextThreshold    int    `json:"next_threshold"` // equals CurrentThreshold at max stage
	PointsToNext     int    `json:"points_to_next"` // 0 at max stage
	ProgressPercent  int    `json:"progress_percent"`
}
