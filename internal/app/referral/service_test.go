package referral_test

import (
	"errors"
	"testing"

	"github.com/stagecraft-app/stagecraft/internal/app/referral"
	"github.com/stagecraft-app/stagecraft/internal/domain"
	"github.com/stagecraft-app/stagecraft/internal/infra/sqlite"
)

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

func newService(t *testing.T) (*referral.Service, *sqlite.DB) {
	t.Helper()
	db := testDB(t)
	return referral.NewService(db, 50), db
}

func TestRegisterAnonymousUser(t *testing.T) {
	svc, _ := newService(t)

	u1, err := svc.RegisterOrTouchAnonymousUser("device-1", "fp-abc")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u1.AnonymousUserID == "" {
		t.Error("expected generated anonymous id")
	}
	if u1.Fingerprint != "fp-abc" {
		t.Errorf("fingerprint = %q", u1.Fingerprint)
	}

	// Second sight: same identity, fingerprint untouched even if the
	// caller sends a different one.
	u2, err := svc.RegisterOrTouchAnonymousUser("device-1", "fp-other")
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	if u2.AnonymousUserID != u1.AnonymousUserID {
		t.Error("anonymous id changed on second sight")
	}
	if u2.Fingerprint != "fp-abc" {
		t.Errorf("fingerprint overwritten: %q", u2.Fingerprint)
	}
}

func TestUpsertReferralCode(t *testing.T) {
	svc, db := newService(t)

	if err := svc.UpsertReferralCode("FRIEND50", "device-1", "fp"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	code, err := db.GetReferralCode("FRIEND50")
	if err != nil || code == nil {
		t.Fatalf("get code: %v, %v", code, err)
	}
	if code.OwnerType != domain.OwnerAnonymous {
		t.Errorf("ownerType = %q, want anonymous", code.OwnerType)
	}
	if !code.IsActive {
		t.Error("new code should be active")
	}
}

func TestRecordConversion(t *testing.T) {
	svc, db := newService(t)

	_ = svc.UpsertReferralCode("FRIEND50", "referrer-device", "fp-r")

	convID, err := svc.RecordConversion("FRIEND50", "buyer-device", "fp-b")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if convID == "" {
		t.Fatal("expected conversion id")
	}

	conv, _ := db.GetConversion(convID)
	if conv == nil {
		t.Fatal("conversion not persisted")
	}
	if conv.RewardStatus != domain.RewardPending {
		t.Errorf("status = %q, want pending", conv.RewardStatus)
	}
	if conv.RewardAmount != 50 {
		t.Errorf("rewardAmount = %d, want 50", conv.RewardAmount)
	}

	// Referrer stats bumped by one each.
	referrer, _ := db.GetAnonymousUser("referrer-device")
	stats, err := svc.Stats(referrer.AnonymousUserID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Converted != 1 || stats.PlansEarned != 1 || stats.PlansGifted != 1 {
		t.Errorf("stats = %d/%d/%d, want 1/1/1", stats.Converted, stats.PlansEarned, stats.PlansGifted)
	}
}

func TestRecordConversion_UnknownCode(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.RecordConversion("NOPE", "buyer-device", "fp")
	if !errors.Is(err, domain.ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
}

func TestRecordConversion_InactiveCode(t *testing.T) {
	svc, db := newService(t)

	_ = svc.UpsertReferralCode("DEAD", "referrer-device", "fp")
	code, _ := db.GetReferralCode("DEAD")
	code.IsActive = false
	_ = db.UpsertReferralCode(*code)

	_, err := svc.RecordConversion("DEAD", "buyer-device", "fp")
	if !errors.Is(err, domain.ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode for inactive code, got %v", err)
	}

	// No conversion row, stats untouched.
	referrer, _ := db.GetAnonymousUser("referrer-device")
	pending, _ := db.ListPendingConversionsForUser(referrer.AnonymousUserID)
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0", len(pending))
	}
	if _, err := svc.Stats(referrer.AnonymousUserID); !errors.Is(err, domain.ErrStatsNotFound) {
		t.Errorf("expected no stats row, got %v", err)
	}
}

func TestRecordConversion_SameCodeManyTimes(t *testing.T) {
	svc, _ := newService(t)

	_ = svc.UpsertReferralCode("POPULAR", "referrer-device", "fp")

	id1, err1 := svc.RecordConversion("POPULAR", "buyer-1", "fp1")
	id2, err2 := svc.RecordConversion("POPULAR", "buyer-2", "fp2")
	if err1 != nil || err2 != nil {
		t.Fatalf("conversions failed: %v, %v", err1, err2)
	}
	if id1 == id2 {
		t.Error("each conversion must get its own id")
	}
}

func TestListPendingDiscounts(t *testing.T) {
	svc, _ := newService(t)

	_ = svc.UpsertReferralCode("FRIEND50", "referrer-device", "fp-r")
	_, _ = svc.RecordConversion("FRIEND50", "buyer-device", "fp-b")

	// Both sides see the pending conversion.
	forReferrer, err := svc.ListPendingDiscounts("referrer-device")
	if err != nil {
		t.Fatalf("referrer list: %v", err)
	}
	if len(forReferrer) != 1 {
		t.Errorf("referrer pending = %d, want 1", len(forReferrer))
	}

	forBuyer, _ := svc.ListPendingDiscounts("buyer-device")
	if len(forBuyer) != 1 {
		t.Errorf("buyer pending = %d, want 1", len(forBuyer))
	}

	// Unknown device: empty, not an error.
	forStranger, err := svc.ListPendingDiscounts("stranger-device")
	if err != nil {
		t.Fatalf("stranger list: %v", err)
	}
	if len(forStranger) != 0 {
		t.Errorf("stranger pending = %d, want 0", len(forStranger))
	}
}

func TestRedeemDiscount(t *testing.T) {
	svc, db := newService(t)

	_ = svc.UpsertReferralCode("FRIEND50", "referrer-device", "fp")
	convID, _ := svc.RecordConversion("FRIEND50", "buyer-device", "fp")

	red, err := svc.RedeemDiscount(convID, "user-42", "yearly", 100)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if red.DiscountAmount != 50 || red.DiscountedPrice != 50 {
		t.Errorf("got %.2f/%.2f, want 50/50", red.DiscountAmount, red.DiscountedPrice)
	}

	conv, _ := db.GetConversion(convID)
	if conv.RewardStatus != domain.RewardApplied {
		t.Errorf("status = %q, want applied", conv.RewardStatus)
	}

	// Exactly one redemption row references this conversion.
	stored, _ := db.GetRedemptionByConversion(convID)
	if stored == nil || stored.RedemptionID != red.RedemptionID {
		t.Error("redemption row missing or mismatched")
	}
}

func TestRedeemDiscount_SecondAttemptFails(t *testing.T) {
	svc, db := newService(t)

	_ = svc.UpsertReferralCode("FRIEND50", "referrer-device", "fp")
	convID, _ := svc.RecordConversion("FRIEND50", "buyer-device", "fp")

	first, err := svc.RedeemDiscount(convID, "user-42", "monthly", 30)
	if err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	if first.DiscountAmount != 15 || first.DiscountedPrice != 15 {
		t.Errorf("got %.2f/%.2f, want 15/15", first.DiscountAmount, first.DiscountedPrice)
	}

	_, err = svc.RedeemDiscount(convID, "user-42", "monthly", 30)
	if !errors.Is(err, domain.ErrConversionUsed) {
		t.Errorf("expected ErrConversionUsed, got %v", err)
	}

	// Still exactly one redemption.
	stored, _ := db.GetRedemptionByConversion(convID)
	if stored == nil || stored.RedemptionID != first.RedemptionID {
		t.Error("second attempt must not create another redemption")
	}
}

func TestRedeemDiscount_Missing(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.RedeemDiscount("conv_nope", "user-42", "monthly", 30)
	if !errors.Is(err, domain.ErrConversionNotFound) {
		t.Errorf("expected ErrConversionNotFound, got %v", err)
	}
}

func TestRedeemDiscount_NeverNegative(t *testing.T) {
	db := testDB(t)
	svc := referral.NewService(db, 150) // clamps to 100

	_ = svc.UpsertReferralCode("FULL", "referrer-device", "fp")
	convID, _ := svc.RecordConversion("FULL", "buyer-device", "fp")

	red, err := svc.RedeemDiscount(convID, "user-42", "monthly", 30)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if red.DiscountedPrice < 0 {
		t.Errorf("discountedPrice = %.2f, must never be negative", red.DiscountedPrice)
	}
}

func TestLinkAccount(t *testing.T) {
	svc, db := newService(t)

	// Anonymous owner with two codes.
	_ = svc.UpsertReferralCode("CODE1", "device-1", "fp")
	_ = svc.UpsertReferralCode("CODE2", "device-1", "fp")
	_ = svc.UpsertReferralStats("device-1", "fp", domain.ReferralStats{Sent: 3, Clicked: 2})

	if err := svc.LinkAccount("device-1", "user-99", "me@example.com"); err != nil {
		t.Fatalf("link: %v", err)
	}

	// Both codes migrated.
	for _, code := range []string{"CODE1", "CODE2"} {
		c, _ := db.GetReferralCode(code)
		if c.OwnerID != "user-99" || c.OwnerType != domain.OwnerAuthenticated {
			t.Errorf("%s owner = %s/%s, want user-99/authenticated", code, c.OwnerID, c.OwnerType)
		}
		if c.LinkedEmail != "me@example.com" {
			t.Errorf("%s linkedEmail = %q", code, c.LinkedEmail)
		}
	}

	// User row linked.
	u, _ := db.GetAnonymousUser("device-1")
	if u.LinkedUserID != "user-99" {
		t.Errorf("linkedUserID = %q, want user-99", u.LinkedUserID)
	}

	// Stats migrated to the new owner key.
	stats, err := svc.Stats("user-99")
	if err != nil {
		t.Fatalf("stats after link: %v", err)
	}
	if stats.Sent != 3 || stats.Clicked != 2 {
		t.Errorf("stats = %d/%d, want 3/2", stats.Sent, stats.Clicked)
	}

	// Re-running the same link is a no-op producing the same end state.
	if err := svc.LinkAccount("device-1", "user-99", "me@example.com"); err != nil {
		t.Fatalf("re-link: %v", err)
	}
	stats, _ = svc.Stats("user-99")
	if stats == nil || stats.Sent != 3 {
		t.Error("re-link must not change migrated stats")
	}
}
