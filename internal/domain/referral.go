package domain

import "time"

// ─── Identity ───────────────────────────────────────────────────────────────

// OwnerType says whether a referral row belongs to a device-only identity
// or a real account.
type OwnerType string

const (
	OwnerAnonymous     OwnerType = "anonymous"
	OwnerAuthenticated OwnerType = "authenticated"
)

// AnonymousUser is a device-identified pre-authentication identity.
// LastSeen updates on every lookup; LinkedUserID/LinkedAt are set exactly
// once when the device links to an account. The fingerprint is written at
// creation and never overwritten.
type AnonymousUser struct {
	DeviceID        string    `json:"device_id"`
	AnonymousUserID string    `json:"anonymous_user_id"`
	Fingerprint     string    `json:"device_fingerprint"`
	CreatedAt       time.Time `json:"created_at"`
	LastSeen        time.Time `json:"last_seen"`
	LinkedUserID    string    `json:"linked_user_id,omitempty"`
	LinkedAt        time.Time `json:"linked_at,omitzero"`
}

// ─── Referral rows ──────────────────────────────────────────────────────────

// ReferralCode is an invite code owned by a user. Ownership is rewritten
// exactly once when the anonymous owner links to an account.
type ReferralCode struct {
	Code        string    `json:"code"`
	OwnerID     string    `json:"owner_id"`
	OwnerType   OwnerType `json:"owner_type"`
	LinkedEmail string    `json:"linked_email,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReferralStats aggregates referral activity per owner. The converted /
// plans counters are only ever incremented server-side.
type ReferralStats struct {
	OwnerID     string    `json:"owner_id"`
	Sent        int       `json:"sent"`
	Clicked     int       `json:"clicked"`
	Converted   int       `json:"converted"`
	PlansEarned int       `json:"plans_earned"`
	PlansGifted int       `json:"plans_gifted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ─── Conversion state machine ───────────────────────────────────────────────

// RewardStatus is the one-way conversion state: pending → applied.
type RewardStatus string

const (
	RewardPending RewardStatus = "pending"
	RewardApplied RewardStatus = "applied"
)

// Conversion links a referral code use to a purchase, pending redemption.
type Conversion struct {
	ConversionID   string       `json:"conversion_id"`
	ReferralCode   string       `json:"referral_code"`
	ReferrerID     string       `json:"referrer_id"`
	PurchaserID    string       `json:"purchaser_id"`
	ConversionDate time.Time    `json:"conversion_date"`
	RewardStatus   RewardStatus `json:"reward_status"`
	RewardAmount   int          `json:"reward_amount"` // discount percentage
	RewardType     string       `json:"reward_type"`
	AppliedAt      time.Time    `json:"applied_at,omitzero"`
}

// Redemption finalizes a conversion's discount against a purchase.
// Exactly one exists per applied conversion.
type Redemption struct {
	RedemptionID     string    `json:"redemption_id"`
	ConversionID     string    `json:"conversion_id"`
	UserID           string    `json:"user_id"`
	RedeemedAt       time.Time `json:"redeemed_at"`
	SubscriptionType string    `json:"subscription_type"`
	OriginalPrice    float64   `json:"original_price"`
	DiscountedPrice  float64   `json:"discounted_price"`
	DiscountAmount   float64   `json:"discount_amount"`
}
