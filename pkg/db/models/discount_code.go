package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamersouq/storefront-backend/pkg/enums"
)

// DiscountCode is one entry of the persisted promo catalog. Codes are stored
// lowercase; lookups normalize input before hitting the unique index.
type DiscountCode struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code       string             `gorm:"column:code;uniqueIndex;not null" json:"code"`
	Type       enums.DiscountType `gorm:"column:type;not null" json:"type"`
	Value      decimal.Decimal    `gorm:"column:value;type:numeric(10,3);not null" json:"value"`
	IsActive   bool               `gorm:"column:is_active;not null;default:true" json:"is_active"`
	UsageLimit int                `gorm:"column:usage_limit;not null;default:1" json:"usage_limit"`
	UsedCount  int                `gorm:"column:used_count;not null;default:0" json:"used_count"`
	// Version guards the used_count increment against concurrent writers.
	Version   int       `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Redeemable reports whether the code can still be applied.
func (d DiscountCode) Redeemable() bool {
	return d.IsActive && d.UsedCount < d.UsageLimit
}
