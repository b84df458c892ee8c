package promotions

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gamersouq/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for the discount catalog.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error)
	List(ctx context.Context) ([]models.DiscountCode, error)
	Create(ctx context.Context, dc *models.DiscountCode) (*models.DiscountCode, error)
	Update(ctx context.Context, dc *models.DiscountCode) (*models.DiscountCode, error)
	// IncrementUsage bumps used_count by one iff the row still carries the
	// given version and has redemptions left. Returns false when the guard
	// failed and the caller should reload and retry.
	IncrementUsage(ctx context.Context, id uuid.UUID, version int) (bool, error)
}

// GormRepository persists the catalog through GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository builds a repository tied to the provided GORM DB.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// FindByCode loads a code after lowercasing; codes are stored lowercase.
func (r *GormRepository) FindByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var dc models.DiscountCode
	if err := r.db.WithContext(ctx).First(&dc, "code = ?", strings.ToLower(code)).Error; err != nil {
		return nil, err
	}
	return &dc, nil
}

// FindByID loads a single catalog entry.
func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error) {
	var dc models.DiscountCode
	if err := r.db.WithContext(ctx).First(&dc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dc, nil
}

// List returns the full catalog ordered by creation time.
func (r *GormRepository) List(ctx context.Context) ([]models.DiscountCode, error) {
	var codes []models.DiscountCode
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Create inserts a new catalog entry.
func (r *GormRepository) Create(ctx context.Context, dc *models.DiscountCode) (*models.DiscountCode, error) {
	if err := r.db.WithContext(ctx).Create(dc).Error; err != nil {
		return nil, err
	}
	return dc, nil
}

// Update saves all mutable fields of an existing entry.
func (r *GormRepository) Update(ctx context.Context, dc *models.DiscountCode) (*models.DiscountCode, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.DiscountCode{}).
		Where("id = ?", dc.ID).
		Updates(map[string]any{
			"type":        dc.Type,
			"value":       dc.Value,
			"is_active":   dc.IsActive,
			"usage_limit": dc.UsageLimit,
		}).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, dc.ID)
}

// IncrementUsage performs the guarded used_count bump in a single statement.
func (r *GormRepository) IncrementUsage(ctx context.Context, id uuid.UUID, version int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DiscountCode{}).
		Where("id = ? AND version = ? AND used_count < usage_limit", id, version).
		Updates(map[string]any{
			"used_count": gorm.Expr("used_count + 1"),
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
