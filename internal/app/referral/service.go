// Package referral implements the referral-to-discount conversion
// workflow: anonymous identity registration, code syncing, conversion
// recording, and discount redemption. Conversions move pending → applied
// exactly once.
package referral

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/stagecraft-app/stagecraft/internal/domain"
	"github.com/stagecraft-app/stagecraft/internal/infra/metrics"
	"github.com/stagecraft-app/stagecraft/internal/infra/sqlite"
)

// Service is the referral conversion engine. Every operation is
// self-contained given its inputs and the store — no cross-request state.
type Service struct {
	db            *sqlite.DB
	rewardPercent int
}

// NewService creates a referral service with the given reward percentage.
// The percentage is clamped to [0, 100]; the reference policy is 50.
func NewService(db *sqlite.DB, rewardPercent int) *Service {
	if rewardPercent < 0 {
		rewardPercent = 0
	}
	if rewardPercent > 100 {
		rewardPercent = 100
	}
	return &Service{db: db, rewardPercent: rewardPercent}
}

// RegisterOrTouchAnonymousUser resolves a device to its anonymous identity,
// creating one on first sight. Subsequent calls update last_seen only —
// the fingerprint is set once at creation and never rewritten.
func (s *Service) RegisterOrTouchAnonymousUser(deviceID, fingerprint string) (*domain.AnonymousUser, error) {
	existing, err := s.db.GetAnonymousUser(deviceID)
	if err != nil {
		return nil, fmt.Errorf("lookup anonymous user: %w", err)
	}

	now := time.Now()
	if existing != nil {
		if err := s.db.TouchAnonymousUser(deviceID, now); err != nil {
			return nil, fmt.Errorf("touch anonymous user: %w", err)
		}
		existing.LastSeen = now
		return existing, nil
	}

	user := domain.AnonymousUser{
		DeviceID:        deviceID,
		AnonymousUserID: "anon_" + uuid.NewString(),
		Fingerprint:     fingerprint,
		CreatedAt:       now,
		LastSeen:        now,
	}
	if err := s.db.InsertAnonymousUser(user); err != nil {
		return nil, fmt.Errorf("create anonymous user: %w", err)
	}
	return &user, nil
}

// UpsertReferralCode resolves/creates the owning anonymous user and writes
// a code row with anonymous ownership. Last-writer-wins: codes are globally
// unique by construction of the caller, not enforced here.
func (s *Service) UpsertReferralCode(code, deviceID, fingerprint string) error {
	owner, err := s.RegisterOrTouchAnonymousUser(deviceID, fingerprint)
	if err != nil {
		return err
	}

	return s.db.UpsertReferralCode(domain.ReferralCode{
		Code:      code,
		OwnerID:   owner.AnonymousUserID,
		OwnerType: domain.OwnerAnonymous,
		IsActive:  true,
		CreatedAt: time.Now(),
	})
}

// UpsertReferralStats writes/overwrites the stats row for a device's
// anonymous identity, preserving created_at when supplied and always
// stamping updated_at.
func (s *Service) UpsertReferralStats(deviceID, fingerprint string, stats domain.ReferralStats) error {
	owner, err := s.RegisterOrTouchAnonymousUser(deviceID, fingerprint)
	if err != nil {
		return err
	}

	stats.OwnerID = owner.AnonymousUserID
	now := time.Now()
	if stats.CreatedAt.IsZero() {
		stats.CreatedAt = now
	}
	stats.UpdatedAt = now
	return s.db.UpsertReferralStats(stats)
}

// RecordConversion records a purchase against a referral code. Fails with
// ErrInvalidCode when the code is unknown or inactive; otherwise creates a
// pending conversion and bumps the referrer's counters atomically. A code
// can convert many times — conversions are intentionally not unique per
// code.
func (s *Service) RecordConversion(referralCode, purchaserDeviceID, fingerprint string) (string, error) {
	code, err := s.db.GetReferralCode(referralCode)
	if err != nil {
		return "", fmt.Errorf("lookup code: %w", err)
	}
	if code == nil || !code.IsActive {
		metrics.ConversionsRejected.WithLabelValues("invalid_code").Inc()
		return "", domain.ErrInvalidCode
	}

	purchaser, err := s.RegisterOrTouchAnonymousUser(purchaserDeviceID, fingerprint)
	if err != nil {
		return "", err
	}

	now := time.Now()
	conv := domain.Conversion{
		ConversionID:   "conv_" + uuid.NewString(),
		ReferralCode:   code.Code,
		ReferrerID:     code.OwnerID,
		PurchaserID:    purchaser.AnonymousUserID,
		ConversionDate: now,
		RewardStatus:   domain.RewardPending,
		RewardAmount:   s.rewardPercent,
		RewardType:     "percentage_discount",
	}
	if err := s.db.InsertConversion(conv); err != nil {
		return "", fmt.Errorf("insert conversion: %w", err)
	}

	// Counter bump is a single UPDATE — never read-modify-write.
	if err := s.db.BumpConversionStats(code.OwnerID, now); err != nil {
		// The conversion row is the source of truth; a lost stats bump
		// is logged, not fatal.
		log.Printf("[referral] bump stats for %s: %v", code.OwnerID, err)
	}

	metrics.ConversionsRecorded.Inc()
	return conv.ConversionID, nil
}

// ListPendingDiscounts returns pending conversions where the device's
// anonymous identity is referrer or purchaser. Deduplicated by query even
// if a user is somehow both on the same conversion.
func (s *Service) ListPendingDiscounts(deviceID string) ([]domain.Conversion, error) {
	user, err := s.db.GetAnonymousUser(deviceID)
	if err != nil {
		return nil, fmt.Errorf("lookup anonymous user: %w", err)
	}
	if user == nil {
		return nil, nil // unknown device — nothing pending
	}
	if err := s.db.TouchAnonymousUser(deviceID, time.Now()); err != nil {
		log.Printf("[referral] touch %s: %v", deviceID, err)
	}
	return s.db.ListPendingConversionsForUser(user.AnonymousUserID)
}

// LinkAccount migrates a device's anonymous identity to an authenticated
// account: the user row gains linked_user_id, every owned code is rewritten
// to authenticated ownership, and the stats row's key migrates. The
// fan-out is best-effort per code but the call reports failure on any
// partial failure; a retried call with the same arguments converges on the
// same end state.
func (s *Service) LinkAccount(deviceID, userID, email string) error {
	user, err := s.db.GetAnonymousUser(deviceID)
	if err != nil {
		return fmt.Errorf("lookup anonymous user: %w", err)
	}
	if user == nil {
		// A link from a device we have never seen still registers it so
		// the identity exists for future referral activity.
		if user, err = s.RegisterOrTouchAnonymousUser(deviceID, ""); err != nil {
			return err
		}
	}

	now := time.Now()
	if err := s.db.LinkAnonymousUser(deviceID, userID, now); err != nil {
		return fmt.Errorf("link user row: %w", err)
	}

	codes, err := s.db.ListReferralCodesByOwner(user.AnonymousUserID)
	if err != nil {
		return fmt.Errorf("list codes: %w", err)
	}

	var failed int
	for _, c := range codes {
		if err := s.db.MigrateCodeOwnership(c.Code, userID, email); err != nil {
			log.Printf("[referral] migrate code %s: %v", c.Code, err)
			failed++
		}
	}

	if err := s.db.MigrateStatsOwnership(user.AnonymousUserID, userID, now); err != nil {
		return fmt.Errorf("migrate stats: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d code updates failed", domain.ErrLinkIncomplete, failed, len(codes))
	}

	metrics.AccountsLinked.Inc()
	return nil
}

// RedeemDiscount applies a pending conversion's discount to a purchase.
// The status flip and redemption insert commit together; a conversion is
// never left applied without its redemption. Redeeming a missing or
// already-applied conversion fails with no side effects.
func (s *Service) RedeemDiscount(conversionID, userID, subscriptionType string, originalPrice float64) (*domain.Redemption, error) {
	conv, err := s.db.GetConversion(conversionID)
	if err != nil {
		return nil, fmt.Errorf("lookup conversion: %w", err)
	}
	if conv == nil {
		metrics.ConversionsRejected.WithLabelValues("not_found").Inc()
		return nil, domain.ErrConversionNotFound
	}
	if conv.RewardStatus != domain.RewardPending {
		metrics.ConversionsRejected.WithLabelValues("already_used").Inc()
		return nil, domain.ErrConversionUsed
	}

	discountAmount := originalPrice * float64(conv.RewardAmount) / 100
	discountedPrice := originalPrice - discountAmount
	if discountedPrice < 0 {
		discountedPrice = 0
	}

	redemption := domain.Redemption{
		RedemptionID:     "red_" + uuid.NewString(),
		ConversionID:     conversionID,
		UserID:           userID,
		RedeemedAt:       time.Now(),
		SubscriptionType: subscriptionType,
		OriginalPrice:    originalPrice,
		DiscountedPrice:  discountedPrice,
		DiscountAmount:   discountAmount,
	}

	if err := s.db.ApplyConversion(conversionID, redemption); err != nil {
		return nil, err
	}

	metrics.DiscountsRedeemed.Inc()
	metrics.DiscountAmount.Observe(discountAmount)
	return &redemption, nil
}

// Stats returns the stats row for an owner id, or ErrStatsNotFound.
func (s *Service) Stats(ownerID string) (*domain.ReferralStats, error) {
	st, err := s.db.GetReferralStats(ownerID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrStatsNotFound
	}
	return st, nil
}
