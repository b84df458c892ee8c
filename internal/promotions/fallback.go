package promotions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamersouq/storefront-backend/pkg/db"
	"github.com/gamersouq/storefront-backend/pkg/db/models"
)

// FallbackRepository serves reads from the primary catalog and falls back to
// the launch seeds when the primary is unreachable or still blank. Writes are
// never redirected: admin mutations require the durable catalog.
type FallbackRepository struct {
	primary Repository
	seed    *MemoryRepository
}

// NewFallbackRepository wraps the primary catalog with the seed fallback.
func NewFallbackRepository(primary Repository, seed *MemoryRepository) (*FallbackRepository, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary repository required")
	}
	if seed == nil {
		return nil, fmt.Errorf("seed repository required")
	}
	return &FallbackRepository{primary: primary, seed: seed}, nil
}

func (r *FallbackRepository) FindByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	dc, err := r.primary.FindByCode(ctx, code)
	if err == nil {
		return dc, nil
	}
	if db.IsNotFound(err) {
		// A miss against a populated catalog is authoritative; only a blank
		// catalog defers to the seeds.
		if codes, listErr := r.primary.List(ctx); listErr == nil && len(codes) > 0 {
			return nil, err
		}
		return r.seed.FindByCode(ctx, code)
	}
	// An unreachable catalog degrades to the seeds entirely; a miss there is
	// an ordinary not-found, not an outage.
	return r.seed.FindByCode(ctx, code)
}

func (r *FallbackRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error) {
	if seeded, err := r.seed.FindByID(ctx, id); err == nil {
		return seeded, nil
	}
	return r.primary.FindByID(ctx, id)
}

func (r *FallbackRepository) List(ctx context.Context) ([]models.DiscountCode, error) {
	codes, err := r.primary.List(ctx)
	if err != nil {
		return r.seed.List(ctx)
	}
	return codes, nil
}

func (r *FallbackRepository) Create(ctx context.Context, dc *models.DiscountCode) (*models.DiscountCode, error) {
	return r.primary.Create(ctx, dc)
}

func (r *FallbackRepository) Update(ctx context.Context, dc *models.DiscountCode) (*models.DiscountCode, error) {
	return r.primary.Update(ctx, dc)
}

// IncrementUsage routes by id ownership: seed entries carry ids the primary
// catalog has never seen, so their usage is tracked in memory.
func (r *FallbackRepository) IncrementUsage(ctx context.Context, id uuid.UUID, version int) (bool, error) {
	if _, err := r.seed.FindByID(ctx, id); err == nil {
		return r.seed.IncrementUsage(ctx, id, version)
	}
	return r.primary.IncrementUsage(ctx, id, version)
}
