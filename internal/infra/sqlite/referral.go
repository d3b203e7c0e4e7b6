package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stagecraft-app/stagecraft/internal/domain"
)

// ─── Anonymous Users ────────────────────────────────────────────────────────

// GetAnonymousUser retrieves an anonymous user by device id.
// Returns (nil, nil) when not found.
func (d *DB) GetAnonymousUser(deviceID string) (*domain.AnonymousUser, error) {
	row := d.db.QueryRow(
		`SELECT device_id, anonymous_user_id, device_fingerprint, created_at, last_seen, linked_user_id, linked_at
		 FROM anonymous_users WHERE device_id = ?`, deviceID,
	)
	return scanAnonymousUser(row)
}

// InsertAnonymousUser creates a new anonymous user row.
func (d *DB) InsertAnonymousUser(u domain.AnonymousUser) error {
	_, err := d.db.Exec(
		`INSERT INTO anonymous_users (device_id, anonymous_user_id, device_fingerprint, created_at, last_seen)
		 VALUES (?, ?, ?, ?, ?)`,
		u.DeviceID, u.AnonymousUserID, u.Fingerprint, u.CreatedAt.Unix(), u.LastSeen.Unix(),
	)
	return err
}

// TouchAnonymousUser updates last_seen only. The fingerprint is never
// rewritten after creation.
func (d *DB) TouchAnonymousUser(deviceID string, at time.Time) error {
	_, err := d.db.Exec(
		`UPDATE anonymous_users SET last_seen = ? WHERE device_id = ?`,
		at.Unix(), deviceID,
	)
	return err
}

// LinkAnonymousUser sets linked_user_id/linked_at. Re-linking to the same
// user id is a no-op so retried link calls converge.
func (d *DB) LinkAnonymousUser(deviceID, userID string, at time.Time) error {
	_, err := d.db.Exec(
		`UPDATE anonymous_users SET linked_user_id = ?, linked_at = ?
		 WHERE device_id = ? AND (linked_user_id IS NULL OR linked_user_id = ?)`,
		userID, at.Unix(), deviceID, userID,
	)
	return err
}

// ─── Referral Codes ─────────────────────────────────────────────────────────

// UpsertReferralCode writes a referral code row, last-writer-wins.
// Codes are globally unique by construction of the caller.
func (d *DB) UpsertReferralCode(c domain.ReferralCode) error {
	_, err := d.db.Exec(
		`INSERT INTO referral_codes (code, owner_id, owner_type, linked_email, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
			owner_id=excluded.owner_id,
			owner_type=excluded.owner_type,
			linked_email=excluded.linked_email,
			is_active=excluded.is_active`,
		c.Code, c.OwnerID, string(c.OwnerType), c.LinkedEmail, c.IsActive, c.CreatedAt.Unix(),
	)
	return err
}

// GetReferralCode retrieves a code row. Returns (nil, nil) when not found.
func (d *DB) GetReferralCode(code string) (*domain.ReferralCode, error) {
	row := d.db.QueryRow(
		`SELECT code, owner_id, owner_type, linked_email, is_active, created_at
		 FROM referral_codes WHERE code = ?`, code,
	)
	return scanReferralCode(row)
}

// ListReferralCodesByOwner returns all codes owned by the given id.
func (d *DB) ListReferralCodesByOwner(ownerID string) ([]domain.ReferralCode, error) {
	rows, err := d.db.Query(
		`SELECT code, owner_id, owner_type, linked_email, is_active, created_at
		 FROM referral_codes WHERE owner_id = ? ORDER BY created_at ASC`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []domain.ReferralCode
	for rows.Next() {
		c, err := scanReferralCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *c)
	}
	return codes, rows.Err()
}

// MigrateCodeOwnership rewrites a single code's ownership to an
// authenticated account. Idempotent for the same target owner.
func (d *DB) MigrateCodeOwnership(code, newOwnerID, email string) error {
	_, err := d.db.Exec(
		`UPDATE referral_codes SET owner_id = ?, owner_type = ?, linked_email = ?
		 WHERE code = ?`,
		newOwnerID, string(domain.OwnerAuthenticated), email, code,
	)
	return err
}

// ─── Referral Stats ─────────────────────────────────────────────────────────

// UpsertReferralStats writes/overwrites a stats row, preserving created_at
// on conflict and always stamping updated_at.
func (d *DB) UpsertReferralStats(s domain.ReferralStats) error {
	_, err := d.db.Exec(
		`INSERT INTO referral_stats (owner_id, sent, clicked, converted, plans_earned, plans_gifted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET
			sent=excluded.sent,
			clicked=excluded.clicked,
			converted=excluded.converted,
			plans_earned=excluded.plans_earned,
			plans_gifted=excluded.plans_gifted,
			updated_at=excluded.updated_at`,
		s.OwnerID, s.Sent, s.Clicked, s.Converted, s.PlansEarned, s.PlansGifted,
		s.CreatedAt.Unix(), s.UpdatedAt.Unix(),
	)
	return err
}

// GetReferralStats retrieves a stats row. Returns (nil, nil) when not found.
func (d *DB) GetReferralStats(ownerID string) (*domain.ReferralStats, error) {
	row := d.db.QueryRow(
		`SELECT owner_id, sent, clicked, converted, plans_earned, plans_gifted, created_at, updated_at
		 FROM referral_stats WHERE owner_id = ?`, ownerID,
	)
	return scanReferralStats(row)
}

// BumpConversionStats atomically increments the converted/plans counters
// for an owner, creating the row if missing. Single UPDATE, not a
// read-modify-write from the caller's perspective.
func (d *DB) BumpConversionStats(ownerID string, at time.Time) error {
	_, err := d.db.Exec(
		`INSERT INTO referral_stats (owner_id, converted, plans_earned, plans_gifted, created_at, updated_at)
		 VALUES (?, 1, 1, 1, ?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET
			converted = converted + 1,
			plans_earned = plans_earned + 1,
			plans_gifted = plans_gifted + 1,
			updated_at = excluded.updated_at`,
		ownerID, at.Unix(), at.Unix(),
	)
	return err
}

// MigrateStatsOwnership moves the stats row from an anonymous id to an
// authenticated user id, merging counters if the target row exists.
func (d *DB) MigrateStatsOwnership(oldOwnerID, newOwnerID string, at time.Time) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	old := tx.QueryRow(
		`SELECT sent, clicked, converted, plans_earned, plans_gifted, created_at
		 FROM referral_stats WHERE owner_id = ?`, oldOwnerID,
	)
	var sent, clicked, converted, earned, gifted int
	var createdAt int64
	err = old.Scan(&sent, &clicked, &converted, &earned, &gifted, &createdAt)
	if err == sql.ErrNoRows {
		return tx.Commit() // nothing to migrate
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO referral_stats (owner_id, sent, clicked, converted, plans_earned, plans_gifted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET
			sent = sent + excluded.sent,
			clicked = clicked + excluded.clicked,
			converted = converted + excluded.converted,
			plans_earned = plans_earned + excluded.plans_earned,
			plans_gifted = plans_gifted + excluded.plans_gifted,
			updated_at = excluded.updated_at`,
		newOwnerID, sent, clicked, converted, earned, gifted, createdAt, at.Unix(),
	)
	if err != nil {
		return fmt.Errorf("migrate stats: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM referral_stats WHERE owner_id = ?`, oldOwnerID); err != nil {
		return err
	}
	return tx.Commit()
}

// ─── Conversions ────────────────────────────────────────────────────────────

// InsertConversion creates a pending conversion row.
func (d *DB) InsertConversion(c domain.Conversion) error {
	_, err := d.db.Exec(
		`INSERT INTO conversions (conversion_id, referral_code, referrer_id, purchaser_id, conversion_date, reward_status, reward_amount, reward_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ConversionID, c.ReferralCode, c.ReferrerID, c.PurchaserID,
		c.ConversionDate.Unix(), string(c.RewardStatus), c.RewardAmount, c.RewardType,
	)
	return err
}

// GetConversion retrieves a conversion. Returns (nil, nil) when not found.
func (d *DB) GetConversion(id string) (*domain.Conversion, error) {
	row := d.db.QueryRow(
		`SELECT conversion_id, referral_code, referrer_id, purchaser_id, conversion_date, reward_status, reward_amount, reward_type, applied_at
		 FROM conversions WHERE conversion_id = ?`, id,
	)
	return scanConversion(row)
}

// ListPendingConversionsForUser returns pending conversions where the user
// is referrer or purchaser. The single query deduplicates rows where a user
// is somehow both.
func (d *DB) ListPendingConversionsForUser(anonymousUserID string) ([]domain.Conversion, error) {
	rows, err := d.db.Query(
		`SELECT conversion_id, referral_code, referrer_id, purchaser_id, conversion_date, reward_status, reward_amount, reward_type, applied_at
		 FROM conversions
		 WHERE reward_status = 'pending' AND (referrer_id = ? OR purchaser_id = ?)
		 ORDER BY conversion_date DESC`,
		anonymousUserID, anonymousUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Conversion
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ApplyConversion flips a pending conversion to applied and inserts the
// matching redemption in one transaction. The guarded UPDATE makes a
// concurrent double-redeem lose cleanly: zero rows affected means someone
// else already applied it.
func (d *DB) ApplyConversion(conversionID string, r domain.Redemption) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE conversions SET reward_status = 'applied', applied_at = ?
		 WHERE conversion_id = ? AND reward_status = 'pending'`,
		r.RedeemedAt.Unix(), conversionID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrConversionUsed
	}

	_, err = tx.Exec(
		`INSERT INTO redemptions (redemption_id, conversion_id, user_id, redeemed_at, subscription_type, original_price, discounted_price, discount_amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RedemptionID, r.ConversionID, r.UserID, r.RedeemedAt.Unix(),
		r.SubscriptionType, r.OriginalPrice, r.DiscountedPrice, r.DiscountAmount,
	)
	if err != nil {
		return fmt.Errorf("insert redemption: %w", err)
	}
	return tx.Commit()
}

// GetRedemptionByConversion retrieves the redemption finalizing a
// conversion. Returns (nil, nil) when not found.
func (d *DB) GetRedemptionByConversion(conversionID string) (*domain.Redemption, error) {
	row := d.db.QueryRow(
		`SELECT redemption_id, conversion_id, user_id, redeemed_at, subscription_type, original_price, discounted_price, discount_amount
		 FROM redemptions WHERE conversion_id = ?`, conversionID,
	)
	var r domain.Redemption
	var redeemedAt int64
	err := row.Scan(&r.RedemptionID, &r.ConversionID, &r.UserID, &redeemedAt,
		&r.SubscriptionType, &r.OriginalPrice, &r.DiscountedPrice, &r.DiscountAmount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.RedeemedAt = time.Unix(redeemedAt, 0)
	return &r, nil
}

// ─── Scanners ───────────────────────────────────────────────────────────────

func scanAnonymousUser(s scanner) (*domain.AnonymousUser, error) {
	var u domain.AnonymousUser
	var createdAt, lastSeen int64
	var linkedUser sql.NullString
	var linkedAt sql.NullInt64

	err := s.Scan(&u.DeviceID, &u.AnonymousUserID, &u.Fingerprint,
		&createdAt, &lastSeen, &linkedUser, &linkedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt = time.Unix(createdAt, 0)
	u.LastSeen = time.Unix(lastSeen, 0)
	if linkedUser.Valid {
		u.LinkedUserID = linkedUser.String
	}
	if linkedAt.Valid {
		u.LinkedAt = time.Unix(linkedAt.Int64, 0)
	}
	return &u, nil
}

func scanReferralCode(s scanner) (*domain.ReferralCode, error) {
	var c domain.ReferralCode
	var ownerType string
	var createdAt int64

	err := s.Scan(&c.Code, &c.OwnerID, &ownerType, &c.LinkedEmail, &c.IsActive, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.OwnerType = domain.OwnerType(ownerType)
	c.CreatedAt = time.Unix(createdAt, 0)
	return &c, nil
}

func scanReferralStats(s scanner) (*domain.ReferralStats, error) {
	var st domain.ReferralStats
	var createdAt, updatedAt int64

	err := s.Scan(&st.OwnerID, &st.Sent, &st.Clicked, &st.Converted,
		&st.PlansEarned, &st.PlansGifted, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	st.CreatedAt = time.Unix(createdAt, 0)
	st.UpdatedAt = time.Unix(updatedAt, 0)
	return &st, nil
}

func scanConversion(s scanner) (*domain.Conversion, error) {
	var c domain.Conversion
	var status string
	var conversionDate int64
	var appliedAt sql.NullInt64

	err := s.Scan(&c.ConversionID, &c.ReferralCode, &c.ReferrerID, &c.PurchaserID,
		&conversionDate, &status, &c.RewardAmount, &c.RewardType, &appliedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.ConversionDate = time.Unix(conversionDate, 0)
	c.RewardStatus = domain.RewardStatus(status)
	if appliedAt.Valid {
		c.AppliedAt = time.Unix(appliedAt.Int64, 0)
	}
	return &c, nil
}
