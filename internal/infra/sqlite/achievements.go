package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stagecraft-app/stagecraft/internal/domain"
)

// ─── Unlock Records ─────────────────────────────────────────────────────────

// UnlockAchievement records an achievement as unlocked.
// Returns false if already unlocked (idempotent).
func (d *DB) UnlockAchievement(id string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO achievements (id, unlocked_at, seen) VALUES (?, ?, 0)`,
		id, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// IsAchievementUnlocked checks whether an achievement has been unlocked.
func (d *DB) IsAchievementUnlocked(id string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUnlockRecords returns all unlock records, newest first.
func (d *DB) ListUnlockRecords() ([]domain.UnlockRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, unlocked_at, seen FROM achievements ORDER BY unlocked_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.UnlockRecord
	for rows.Next() {
		var r domain.UnlockRecord
		var unlockedAt int64
		if err := rows.Scan(&r.AchievementID, &unlockedAt, &r.Seen); err != nil {
			return nil, err
		}
		r.UnlockedAt = time.Unix(unlockedAt, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// MarkAchievementsSeen flips seen=1 for the given ids.
// Returns how many rows actually changed — callers can skip follow-up work
// when nothing was unseen.
func (d *DB) MarkAchievementsSeen(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var changed int64
	for _, id := range ids {
		result, err := d.db.Exec(
			`UPDATE achievements SET seen = 1 WHERE id = ? AND seen = 0`, id,
		)
		if err != nil {
			return changed, fmt.Errorf("mark seen %s: %w", id, err)
		}
		n, _ := result.RowsAffected()
		changed += n
	}
	return changed, nil
}

// ResetProfile wipes all unlock records, claims, celebrations, and profile
// keys in a single transaction — all-or-nothing from the caller's view.
func (d *DB) ResetProfile() error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM achievements`,
		`DELETE FROM claims`,
		`DELETE FROM celebrations`,
		`DELETE FROM profile`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	return tx.Commit()
}

// ─── Claims ─────────────────────────────────────────────────────────────────

// ClaimResource records a claimed resource id. Idempotent; returns true
// iff the claim is new.
func (d *DB) ClaimResource(resourceID string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO claims (resource_id, claimed_at) VALUES (?, ?)`,
		resourceID, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// ListClaims returns the set of claimed resource ids.
func (d *DB) ListClaims() (map[string]bool, error) {
	rows, err := d.db.Query(`SELECT resource_id FROM claims`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		claims[id] = true
	}
	return claims, rows.Err()
}

// ─── Celebrations ───────────────────────────────────────────────────────────

// InsertCelebration queues a one-time celebration. The (kind, subject)
// uniqueness constraint makes repeat inserts no-ops; returns 0 when the
// celebration already existed.
func (d *DB) InsertCelebration(c domain.Celebration) (int64, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO celebrations (kind, subject_id, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		string(c.Kind), c.SubjectID, c.Title, c.Body, c.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return 0, nil
	}
	return result.LastInsertId()
}

// ListPendingCelebrations returns unshown celebrations, oldest first.
func (d *DB) ListPendingCelebrations(limit int) ([]domain.Celebration, error) {
	rows, err := d.db.Query(
		`SELECT id, kind, subject_id, title, body, created_at, shown
		 FROM celebrations WHERE shown = 0 ORDER BY created_at ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Celebration
	for rows.Next() {
		c, err := scanCelebration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// MarkCelebrationShown marks a celebration as shown. Never reverts.
func (d *DB) MarkCelebrationShown(id int64) error {
	_, err := d.db.Exec(`UPDATE celebrations SET shown = 1 WHERE id = ?`, id)
	return err
}

func scanCelebration(s scanner) (*domain.Celebration, error) {
	var c domain.Celebration
	var kind string
	var createdAt int64
	err := s.Scan(&c.ID, &kind, &c.SubjectID, &c.Title, &c.Body, &createdAt, &c.Shown)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Kind = domain.CelebrationKind(kind)
	c.CreatedAt = time.Unix(createdAt, 0)
	return &c, nil
}
