package domain

import "time"

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementCategory groups achievements by theme.
type AchievementCategory string

const (
	CatStrategic   AchievementCategory = "strategic"
	CatConsistency AchievementCategory = "consistency"
	CatAI          AchievementCategory = "ai"
	CatExplorer    AchievementCategory = "explorer"
	CatPremium     AchievementCategory = "premium"
)

// AchievementDef is an immutable catalog entry defined at build time.
// Points feed the cumulative score; Premium entries are additionally gated
// behind the caller's subscription flag, independent of stage.
type AchievementDef struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Category AchievementCategory `json:"category"`
	Icon     string              `json:"icon"`
	Points   int                 `json:"points"`
	Premium  bool                `json:"premium"`
}

// UnlockRecord is the persisted per-achievement unlock state.
// unlocked transitions false→true exactly once; seen transitions false→true
// only and never reverts.
type UnlockRecord struct {
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	Seen          bool      `json:"seen"`
}

// ─── Celebration Types ──────────────────────────────────────────────────────

// CelebrationKind distinguishes what triggered a one-time celebration.
type CelebrationKind string

const (
	CelebrateAchievement CelebrationKind = "achievement"
	CelebrateStageUp     CelebrationKind = "stage_up"
	CelebrateResource    CelebrationKind = "resource"
)

// Celebration is a queued one-time unlock celebration. It replaces the
// ad-hoc "has the celebration for X been shown" boolean key namespace:
// shown is a real column, created at most once per (kind, subject).
type Celebration struct {
	ID        int64           `json:"id"`
	Kind      CelebrationKind `json:"kind"`
	SubjectID string          `json:"subject_id"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
	Shown     bool            `json:"shown"`
}

// ─── Streak Types ───────────────────────────────────────────────────────────

// Streak tracks consecutive days of app activity for the stage-gated
// streak widget. Breaks silently on a gap; the longest run is preserved.
type Streak struct {
	CurrentDays int       `json:"current_days"`
	LongestDays int       `json:"longest_days"`
	LastDate    time.Time `json:"last_date"`
}
