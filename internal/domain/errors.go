package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Unlock gate errors
	ErrResourceNotFound = errors.New("unlockable resource not found")
	ErrStageLocked      = errors.New("resource requires a higher stage")
	ErrPremiumLocked    = errors.New("resource requires an active subscription")

	// Achievement errors
	ErrAchievementUnknown = errors.New("achievement not in catalog")

	// Referral errors
	ErrInvalidCode        = errors.New("referral code not found or inactive")
	ErrConversionNotFound = errors.New("conversion not found")
	ErrConversionUsed     = errors.New("conversion already applied")
	ErrStatsNotFound      = errors.New("referral stats not found")

	// Link errors
	ErrLinkIncomplete = errors.New("account link partially applied — retry to converge")
)
