// Package achievement implements unlock bookkeeping for the achievement
// catalog: idempotent unlocks, seen tracking, score aggregation, and the
// one-time celebration queue.
package achievement

import (
	"fmt"
	"log"
	"time"

	"github.com/stagecraft-app/stagecraft/internal/app/progression"
	"github.com/stagecraft-app/stagecraft/internal/domain"
	"github.com/stagecraft-app/stagecraft/internal/infra/metrics"
	"github.com/stagecraft-app/stagecraft/internal/infra/sqlite"
)

// Store manages persisted unlock records. The cumulative score is always
// recomputed from the unlocked set — no API mutates it directly, so
// concurrent unlocks can never double-count points.
type Store struct {
	db   *sqlite.DB
	byID map[string]domain.AchievementDef
}

// NewStore creates an achievement store over the full catalog.
func NewStore(db *sqlite.DB) *Store {
	return &Store{db: db, byID: CatalogByID()}
}

// Catalog returns all achievement definitions (for display).
func (s *Store) Catalog() []domain.AchievementDef {
	return Catalog()
}

// Unlock records an achievement as unlocked. Returns true iff this call
// performed the unlock; false when already unlocked (no side effects).
// Unknown ids are rejected so typos never accrue phantom records.
func (s *Store) Unlock(id string) (bool, error) {
	def, ok := s.byID[id]
	if !ok {
		return false, domain.ErrAchievementUnknown
	}

	before, err := s.CumulativeScore()
	if err != nil {
		return false, err
	}

	isNew, err := s.db.UnlockAchievement(id, time.Now())
	if err != nil {
		return false, fmt.Errorf("unlock %s: %w", id, err)
	}
	if !isNew {
		return false, nil
	}

	metrics.AchievementsUnlocked.WithLabelValues(string(def.Category)).Inc()

	// Queue the one-time unlock celebration. Best-effort: a lost
	// celebration never blocks the unlock itself.
	_, err = s.db.InsertCelebration(domain.Celebration{
		Kind:      domain.CelebrateAchievement,
		SubjectID: id,
		Title:     "Achievement Unlocked!",
		Body:      fmt.Sprintf("%s %s — +%d points", def.Icon, def.Name, def.Points),
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[achievement] queue celebration for %s: %v", id, err)
	}

	// Stage-up celebration when the new points crossed a threshold.
	after := before + def.Points
	oldStage := progression.StageForScore(before)
	newStage := progression.StageForScore(after)
	if newStage > oldStage {
		metrics.CurrentStage.Set(float64(newStage))
		_, err = s.db.InsertCelebration(domain.Celebration{
			Kind:      domain.CelebrateStageUp,
			SubjectID: fmt.Sprintf("stage_%d", newStage),
			Title:     "Stage Up!",
			Body:      fmt.Sprintf("You reached stage %d: %s", newStage, progression.TitleForStage(newStage)),
			CreatedAt: time.Now(),
		})
		if err != nil {
			log.Printf("[achievement] queue stage celebration: %v", err)
		}
	}

	return true, nil
}

// IsUnlocked checks whether an achievement has been unlocked.
func (s *Store) IsUnlocked(id string) (bool, error) {
	return s.db.IsAchievementUnlocked(id)
}

// Records returns all unlock records. A store read failure degrades to
// an empty set — the UI treats "nothing unlocked" as the safe default.
func (s *Store) Records() []domain.UnlockRecord {
	records, err := s.db.ListUnlockRecords()
	if err != nil {
		log.Printf("[achievement] load records: %v (treating as empty)", err)
		return nil
	}
	return records
}

// CumulativeScore sums catalog points over the unlocked set. Unlocked ids
// absent from the catalog contribute 0 (forward compatibility with removed
// catalog entries).
func (s *Store) CumulativeScore() (int, error) {
	records, err := s.db.ListUnlockRecords()
	if err != nil {
		log.Printf("[achievement] score read: %v (treating as 0)", err)
		return 0, nil
	}

	score := 0
	for _, r := range records {
		if def, ok := s.byID[r.AchievementID]; ok {
			score += def.Points
		}
	}
	return score, nil
}

// Progress returns the progression snapshot for the current score.
func (s *Store) Progress() (domain.ProgressInfo, error) {
	score, err := s.CumulativeScore()
	if err != nil {
		return domain.ProgressInfo{}, err
	}
	return progression.ProgressInfo(score), nil
}

// MarkSeen flips seen=true for the given ids. No-op for already-seen or
// unknown ids; returns how many records changed.
func (s *Store) MarkSeen(ids []string) (int64, error) {
	return s.db.MarkAchievementsSeen(ids)
}

// PendingCelebrations returns queued, unshown celebrations.
func (s *Store) PendingCelebrations(limit int) ([]domain.Celebration, error) {
	return s.db.ListPendingCelebrations(limit)
}

// MarkCelebrationShown marks a celebration as shown. One-way.
func (s *Store) MarkCelebrationShown(id int64) error {
	return s.db.MarkCelebrationShown(id)
}

// Reset wipes all unlock records, claims, and celebrations atomically.
func (s *Store) Reset() error {
	return s.db.ResetProfile()
}
