package unlock_test

import (
	"errors"
	"testing"

	"github.com/stagecraft-app/stagecraft/internal/app/unlock"
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

func TestAvailable_AscendingAndComplete(t *testing.T) {
	catalog := unlock.FullCatalog()

	avail := unlock.Available(catalog, 5)
	if len(avail) == 0 {
		t.Fatal("expected available resources at stage 5")
	}
	prev := 0
	for _, r := range avail {
		if r.RequiredStage > 5 {
			t.Errorf("%s requires stage %d > 5", r.ID, r.RequiredStage)
		}
		if r.RequiredStage < prev {
			t.Errorf("not in ascending order at %s", r.ID)
		}
		prev = r.RequiredStage
	}
}

func TestAvailable_MultiStageJump(t *testing.T) {
	catalog := unlock.FullCatalog()

	// Jump from stage 2 straight to stage 6: everything in (2, 6] must
	// appear — nothing skipped.
	before := unlock.Available(catalog, 2)
	after := unlock.Available(catalog, 6)

	got := make(map[string]bool)
	for _, r := range after {
		got[r.ID] = true
	}
	for _, r := range before {
		if !got[r.ID] {
			t.Errorf("resource %s lost on stage jump", r.ID)
		}
	}
	for _, r := range catalog {
		if r.RequiredStage > 2 && r.RequiredStage <= 6 && !got[r.ID] {
			t.Errorf("resource %s skipped on stage jump", r.ID)
		}
	}
}

func TestLocked_Preview(t *testing.T) {
	catalog := unlock.FullCatalog()

	locked := unlock.Locked(catalog, 3)
	for _, r := range locked {
		if r.RequiredStage <= 3 {
			t.Errorf("%s (stage %d) should not be locked at stage 3", r.ID, r.RequiredStage)
		}
	}
}

func TestNextPreview(t *testing.T) {
	catalog := unlock.FullCatalog()

	next := unlock.NextPreview(catalog, 1)
	if next == nil {
		t.Fatal("expected a preview for stage 2")
	}
	if next.RequiredStage != 2 {
		t.Errorf("preview stage = %d, want 2", next.RequiredStage)
	}

	// Beyond the last stage there is nothing to preview.
	if p := unlock.NextPreview(catalog, 12); p != nil {
		t.Errorf("expected no preview past max stage, got %s", p.ID)
	}
}

func TestNextPreview_SparseCatalog(t *testing.T) {
	sparse := []domain.Resource{
		{ID: "a", RequiredStage: 1},
		{ID: "b", RequiredStage: 4},
	}
	// No stage-3 entry: preview at stage 2 is nil, not b.
	if p := unlock.NextPreview(sparse, 2); p != nil {
		t.Errorf("expected nil preview in sparse gap, got %s", p.ID)
	}
	if p := unlock.NextPreview(sparse, 3); p == nil || p.ID != "b" {
		t.Error("expected b previewed at stage 3")
	}
}

func TestPartition_DisjointUnion(t *testing.T) {
	catalog := unlock.FullCatalog()
	claims := map[string]bool{"pfp_rookie": true, "widget_score": true}

	p := unlock.Partition(catalog, 4, claims)

	if len(p.Claimed)+len(p.Unclaimed) != len(p.Available) {
		t.Errorf("claimed (%d) + unclaimed (%d) != available (%d)",
			len(p.Claimed), len(p.Unclaimed), len(p.Available))
	}
	claimedSet := make(map[string]bool)
	for _, r := range p.Claimed {
		claimedSet[r.ID] = true
	}
	for _, r := range p.Unclaimed {
		if claimedSet[r.ID] {
			t.Errorf("%s in both claimed and unclaimed", r.ID)
		}
	}
}

func TestClaim_StageGated(t *testing.T) {
	gate := unlock.NewGate(testDB(t))

	// pfp_crown requires stage 10; claiming at stage 4 must be rejected
	// with no state change.
	err := gate.Claim("pfp_crown", 4, false)
	if !errors.Is(err, domain.ErrStageLocked) {
		t.Errorf("expected ErrStageLocked, got %v", err)
	}
	claims, _ := gate.Claims()
	if len(claims) != 0 {
		t.Errorf("claims after rejected claim = %d, want 0", len(claims))
	}
}

func TestClaim_PremiumGated(t *testing.T) {
	gate := unlock.NewGate(testDB(t))

	err := gate.Claim("pfp_diamond", 12, false)
	if !errors.Is(err, domain.ErrPremiumLocked) {
		t.Errorf("expected ErrPremiumLocked, got %v", err)
	}

	if err := gate.Claim("pfp_diamond", 12, true); err != nil {
		t.Errorf("subscriber claim failed: %v", err)
	}
}

func TestClaim_Idempotent(t *testing.T) {
	gate := unlock.NewGate(testDB(t))

	if err := gate.Claim("pfp_rookie", 1, false); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := gate.Claim("pfp_rookie", 1, false); err != nil {
		t.Fatalf("repeat claim: %v", err)
	}

	claims, _ := gate.Claims()
	if len(claims) != 1 {
		t.Errorf("claims = %d, want 1", len(claims))
	}
}

func TestClaim_Unknown(t *testing.T) {
	gate := unlock.NewGate(testDB(t))

	err := gate.Claim("no_such_resource", 12, true)
	if !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("expected ErrResourceNotFound, got %v", err)
	}
}
