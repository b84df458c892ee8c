package promotions

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gamersouq/storefront-backend/pkg/db/models"
	"github.com/gamersouq/storefront-backend/pkg/enums"
)

// SeedCatalog returns the launch promo codes. The migrations insert the same
// rows; the in-memory repository serves them when no database is configured.
func SeedCatalog() []models.DiscountCode {
	return []models.DiscountCode{
		{
			ID:         uuid.New(),
			Code:       "garden10",
			Type:       enums.DiscountTypePercentage,
			Value:      decimal.NewFromInt(10),
			IsActive:   true,
			UsageLimit: 100,
		},
		{
			ID:         uuid.New(),
			Code:       "mohmd",
			Type:       enums.DiscountTypeFixed,
			Value:      decimal.NewFromInt(5),
			IsActive:   true,
			UsageLimit: 1,
		},
		{
			ID:         uuid.New(),
			Code:       "gamer15",
			Type:       enums.DiscountTypePercentage,
			Value:      decimal.NewFromInt(15),
			IsActive:   true,
			UsageLimit: 50,
		},
	}
}

// MemoryRepository keeps the catalog in process memory. It backs local
// development without Postgres and the service tests.
type MemoryRepository struct {
	mu    sync.Mutex
	codes map[uuid.UUID]*models.DiscountCode
}

// NewMemoryRepository builds an in-memory catalog preloaded with the entries.
func NewMemoryRepository(entries ...models.DiscountCode) *MemoryRepository {
	r := &MemoryRepository{codes: make(map[uuid.UUID]*models.DiscountCode)}
	for i := range entries {
		dc := entries[i]
		if dc.ID == uuid.Nil {
			dc.ID = uuid.New()
		}
		dc.Code = strings.ToLower(dc.Code)
		r.codes[dc.ID] = &dc
	}
	return r
}

func (r *MemoryRepository) FindByCode(_ context.Context, code string) (*models.DiscountCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code = strings.ToLower(code)
	for _, dc := range r.codes {
		if dc.Code == code {
			clone := *dc
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*models.DiscountCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dc, ok := r.codes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *dc
	return &clone, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]models.DiscountCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.DiscountCode, 0, len(r.codes))
	for _, dc := range r.codes {
		out = append(out, *dc)
	}
	return out, nil
}

func (r *MemoryRepository) Create(_ context.Context, dc *models.DiscountCode) (*models.DiscountCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dc.ID == uuid.Nil {
		dc.ID = uuid.New()
	}
	dc.Code = strings.ToLower(dc.Code)
	for _, existing := range r.codes {
		if existing.Code == dc.Code {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	clone := *dc
	r.codes[dc.ID] = &clone
	return dc, nil
}

func (r *MemoryRepository) Update(_ context.Context, dc *models.DiscountCode) (*models.DiscountCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.codes[dc.ID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	existing.Type = dc.Type
	existing.Value = dc.Value
	existing.IsActive = dc.IsActive
	existing.UsageLimit = dc.UsageLimit
	clone := *existing
	return &clone, nil
}

func (r *MemoryRepository) IncrementUsage(_ context.Context, id uuid.UUID, version int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dc, ok := r.codes[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if dc.Version != version || dc.UsedCount >= dc.UsageLimit {
		return false, nil
	}
	dc.UsedCount++
	dc.Version++
	return true, nil
}
