// Package unlock implements stage-gated resource availability: which
// profile pictures and dashboard widgets are claimed, claimable, or still
// locked at the current stage.
package unlock

import (
	"fmt"
	"time"

	"github.com/stagecraft-app/stagecraft/internal/domain"
	"github.com/stagecraft-app/stagecraft/internal/infra/metrics"
	"github.com/stagecraft-app/stagecraft/internal/infra/sqlite"
)

// Gate partitions the resource catalog by stage and owns claim persistence.
// The gate never grants access ahead of stage: availability is always
// computed from the full catalog against the caller-supplied stage, so a
// multi-stage jump can never skip a resource.
type Gate struct {
	db      *sqlite.DB
	catalog []domain.Resource
}

// NewGate creates a gate over the full resource catalog.
func NewGate(db *sqlite.DB) *Gate {
	return &Gate{db: db, catalog: FullCatalog()}
}

// Catalog returns the gate's resource catalog in ascending stage order.
func (g *Gate) Catalog() []domain.Resource {
	return g.catalog
}

// Available returns all resources claimable at or below the given stage,
// in ascending stage order.
func Available(catalog []domain.Resource, stage int) []domain.Resource {
	var out []domain.Resource
	for _, r := range catalog {
		if r.RequiredStage <= stage {
			out = append(out, r)
		}
	}
	return out
}

// Locked returns all resources above the given stage, ascending — the
// "preview" list.
func Locked(catalog []domain.Resource, stage int) []domain.Resource {
	var out []domain.Resource
	for _, r := range catalog {
		if r.RequiredStage > stage {
			out = append(out, r)
		}
	}
	return out
}

// NextPreview returns the first resource requiring exactly stage+1,
// or nil when no resource unlocks at the next stage.
func NextPreview(catalog []domain.Resource, stage int) *domain.Resource {
	for _, r := range catalog {
		if r.RequiredStage == stage+1 {
			next := r
			return &next
		}
	}
	return nil
}

// Partition splits the catalog into available/claimed/unclaimed/locked for
// a stage and claim set. Claimed and Unclaimed are disjoint and together
// equal Available.
func Partition(catalog []domain.Resource, stage int, claims map[string]bool) domain.ResourcePartition {
	p := domain.ResourcePartition{
		Available: Available(catalog, stage),
		Locked:    Locked(catalog, stage),
	}
	for _, r := range p.Available {
		if claims[r.ID] {
			p.Claimed = append(p.Claimed, r)
		} else {
			p.Unclaimed = append(p.Unclaimed, r)
		}
	}
	return p
}

// NextPreviewAt returns the gate catalog's next-stage preview resource.
func (g *Gate) NextPreviewAt(stage int) *domain.Resource {
	return NextPreview(g.catalog, stage)
}

// ─── Persisted operations ───────────────────────────────────────────────────

// Claims loads the persisted claim set.
func (g *Gate) Claims() (map[string]bool, error) {
	return g.db.ListClaims()
}

// PartitionAt loads claims and partitions the catalog for the given stage.
func (g *Gate) PartitionAt(stage int) (domain.ResourcePartition, error) {
	claims, err := g.db.ListClaims()
	if err != nil {
		return domain.ResourcePartition{}, fmt.Errorf("load claims: %w", err)
	}
	return Partition(g.catalog, stage, claims), nil
}

// Claim records a deliberate user claim of a resource. Idempotent — a
// repeat claim is a no-op returning the existing state. Claims ahead of
// stage are rejected; premium resources additionally require the
// subscriber flag.
func (g *Gate) Claim(resourceID string, stage int, subscriber bool) error {
	var res *domain.Resource
	for i := range g.catalog {
		if g.catalog[i].ID == resourceID {
			res = &g.catalog[i]
			break
		}
	}
	if res == nil {
		return domain.ErrResourceNotFound
	}
	if res.RequiredStage > stage {
		return domain.ErrStageLocked
	}
	if res.Premium && !subscriber {
		return domain.ErrPremiumLocked
	}

	isNew, err := g.db.ClaimResource(resourceID, time.Now())
	if err != nil {
		return fmt.Errorf("claim %s: %w", resourceID, err)
	}
	if isNew {
		metrics.ResourcesClaimed.WithLabelValues(string(res.Kind)).Inc()
	}
	return nil
}
