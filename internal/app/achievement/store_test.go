package achievement_test

import (
	"errors"
	"testing"

	"github.com/stagecraft-app/stagecraft/internal/app/achievement"
	"github.com/stagecraft-app/stagecraft/internal/domain"
	"github.com/stagecraft-app/stagecraft/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUnlock_FirstTime(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	isNew, err := store.Unlock("first_win")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if !isNew {
		t.Error("first unlock should return true")
	}

	unlocked, err := store.IsUnlocked("first_win")
	if err != nil {
		t.Fatalf("isUnlocked: %v", err)
	}
	if !unlocked {
		t.Error("should be unlocked")
	}
}

func TestUnlock_Idempotent(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	first, err := store.Unlock("first_win")
	if err != nil {
		t.Fatalf("first unlock: %v", err)
	}
	second, err := store.Unlock("first_win")
	if err != nil {
		t.Fatalf("second unlock: %v", err)
	}
	if !first || second {
		t.Errorf("expected (true, false), got (%v, %v)", first, second)
	}

	// Score after both calls equals score after one — no double counting.
	score, _ := store.CumulativeScore()
	if score != 25 {
		t.Errorf("score = %d, want 25", score)
	}
}

func TestUnlock_UnknownID(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	_, err := store.Unlock("does_not_exist")
	if !errors.Is(err, domain.ErrAchievementUnknown) {
		t.Errorf("expected ErrAchievementUnknown, got %v", err)
	}
}

func TestCumulativeScore_Derived(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	score, _ := store.CumulativeScore()
	if score != 0 {
		t.Errorf("fresh score = %d, want 0", score)
	}

	_, _ = store.Unlock("first_win")  // 25
	_, _ = store.Unlock("win_10")    // 50
	_, _ = store.Unlock("streak_3")  // 25

	score, err := store.CumulativeScore()
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score != 100 {
		t.Errorf("score = %d, want 100", score)
	}
}

func TestMarkSeen(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	_, _ = store.Unlock("first_win")
	_, _ = store.Unlock("win_10")

	changed, err := store.MarkSeen([]string{"first_win", "win_10", "nonexistent"})
	if err != nil {
		t.Fatalf("markSeen: %v", err)
	}
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}

	// Already-seen ids change nothing on the second pass.
	changed, _ = store.MarkSeen([]string{"first_win", "win_10"})
	if changed != 0 {
		t.Errorf("second markSeen changed = %d, want 0", changed)
	}

	for _, r := range store.Records() {
		if !r.Seen {
			t.Errorf("record %s should be seen", r.AchievementID)
		}
	}
}

func TestStageUpCelebration(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	// 25 points — still stage 1, only the achievement celebration queued.
	_, _ = store.Unlock("first_win")
	pending, _ := store.PendingCelebrations(10)
	if len(pending) != 1 {
		t.Fatalf("expected 1 celebration, got %d", len(pending))
	}

	// +50 = 75 points — crosses the stage 2 threshold (50).
	_, _ = store.Unlock("win_10")
	pending, _ = store.PendingCelebrations(10)
	if len(pending) != 3 {
		t.Fatalf("expected 3 celebrations (2 unlocks + stage up), got %d", len(pending))
	}

	foundStage := false
	for _, c := range pending {
		if c.Kind == domain.CelebrateStageUp {
			foundStage = true
		}
	}
	if !foundStage {
		t.Error("expected a stage-up celebration")
	}
}

func TestCelebration_MarkShown(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	_, _ = store.Unlock("first_win")
	pending, _ := store.PendingCelebrations(10)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d", len(pending))
	}

	if err := store.MarkCelebrationShown(pending[0].ID); err != nil {
		t.Fatalf("mark shown: %v", err)
	}
	pending, _ = store.PendingCelebrations(10)
	if len(pending) != 0 {
		t.Errorf("expected 0 pending after shown, got %d", len(pending))
	}
}

func TestReset(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	_, _ = store.Unlock("first_win")
	_, _ = store.Unlock("win_10")

	if err := store.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	score, _ := store.CumulativeScore()
	if score != 0 {
		t.Errorf("score after reset = %d, want 0", score)
	}
	pending, _ := store.PendingCelebrations(10)
	if len(pending) != 0 {
		t.Errorf("celebrations after reset = %d, want 0", len(pending))
	}

	// Re-unlock works after reset.
	isNew, _ := store.Unlock("first_win")
	if !isNew {
		t.Error("unlock after reset should be new")
	}
}

func TestStageSequence(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	// 0 → stage 1
	info, _ := store.Progress()
	if info.Stage != 1 {
		t.Errorf("stage at 0 = %d, want 1", info.Stage)
	}

	// 50 → stage 2
	_, _ = store.Unlock("first_win") // 25
	_, _ = store.Unlock("streak_3")  // 25
	info, _ = store.Progress()
	if info.Stage != 2 {
		t.Errorf("stage at 50 = %d, want 2", info.Stage)
	}

	// 100 → stage 3
	_, _ = store.Unlock("win_10") // 50
	info, _ = store.Progress()
	if info.Stage != 3 {
		t.Errorf("stage at 100 = %d, want 3", info.Stage)
	}
}

func TestCatalog_Shape(t *testing.T) {
	store := achievement.NewStore(testDB(t))

	defs := store.Catalog()
	if len(defs) != 22 {
		t.Errorf("catalog size = %d, want 22", len(defs))
	}
	seen := make(map[string]bool)
	for _, def := range defs {
		if def.Points <= 0 {
			t.Errorf("%s has non-positive points", def.ID)
		}
		if seen[def.ID] {
			t.Errorf("duplicate id %s", def.ID)
		}
		seen[def.ID] = true
		if def.Premium && def.Category != domain.CatPremium {
			t.Errorf("%s premium flag outside premium category", def.ID)
		}
	}
}
