package promotions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamersouq/storefront-backend/pkg/db/models"
	"github.com/gamersouq/storefront-backend/pkg/enums"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T, entries ...models.DiscountCode) (Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository(entries...)
	svc, err := NewService(repo, nil, nil)
	require.NoError(t, err)
	return svc, repo
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected coded error, got %v", err)
	assert.Equal(t, want, appErr.Code())
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	assert.Error(t, err)
}

func TestResolveSeedCodes(t *testing.T) {
	svc, _ := newTestService(t, SeedCatalog()...)
	ctx := context.Background()

	res, err := svc.Resolve(ctx, "garden10")
	require.NoError(t, err)
	assert.Equal(t, enums.DiscountTypePercentage, res.Type)
	assert.True(t, res.Value.Equal(decimal.NewFromInt(10)))

	res, err = svc.Resolve(ctx, "mohmd")
	require.NoError(t, err)
	assert.Equal(t, enums.DiscountTypeFixed, res.Type)
	assert.True(t, res.Value.Equal(decimal.NewFromInt(5)))
}

func TestResolveNormalizesInput(t *testing.T) {
	svc, _ := newTestService(t, SeedCatalog()...)

	res, err := svc.Resolve(context.Background(), "  GAMER15  ")
	require.NoError(t, err)
	assert.Equal(t, "gamer15", res.Code)
}

func TestResolveRequiresCode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Resolve(context.Background(), "   ")
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestResolveUnknownCode(t *testing.T) {
	svc, _ := newTestService(t, SeedCatalog()...)

	_, err := svc.Resolve(context.Background(), "nope")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestResolveInactiveCode(t *testing.T) {
	svc, _ := newTestService(t, models.DiscountCode{
		Code:       "retired",
		Type:       enums.DiscountTypePercentage,
		Value:      decimal.NewFromInt(10),
		IsActive:   false,
		UsageLimit: 10,
	})

	_, err := svc.Resolve(context.Background(), "retired")
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestResolveConsumesUsage(t *testing.T) {
	svc, _ := newTestService(t, models.DiscountCode{
		Code:       "once",
		Type:       enums.DiscountTypeFixed,
		Value:      decimal.NewFromInt(5),
		IsActive:   true,
		UsageLimit: 1,
	})
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "once")
	require.NoError(t, err)

	// The single slot is gone; the second redemption is rejected.
	_, err = svc.Resolve(ctx, "once")
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestResolveRetriesLostRace(t *testing.T) {
	svc, repo := newTestService(t, models.DiscountCode{
		Code:       "busy",
		Type:       enums.DiscountTypePercentage,
		Value:      decimal.NewFromInt(10),
		IsActive:   true,
		UsageLimit: 10,
	})
	ctx := context.Background()

	// Another redemption bumps the version between lookup and increment.
	dc, err := repo.FindByCode(ctx, "busy")
	require.NoError(t, err)
	ok, err := repo.IncrementUsage(ctx, dc.ID, dc.Version)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := svc.Resolve(ctx, "busy")
	require.NoError(t, err)
	assert.Equal(t, "busy", res.Code)

	fresh, err := repo.FindByCode(ctx, "busy")
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.UsedCount)
}

func TestCreateCodeValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateCodeInput
	}{
		{"empty code", CreateCodeInput{Type: enums.DiscountTypeFixed, Value: decimal.NewFromInt(5), UsageLimit: 1}},
		{"bad type", CreateCodeInput{Code: "x", Type: enums.DiscountType("bogus"), Value: decimal.NewFromInt(5), UsageLimit: 1}},
		{"zero value", CreateCodeInput{Code: "x", Type: enums.DiscountTypeFixed, Value: decimal.Zero, UsageLimit: 1}},
		{"percentage over 100", CreateCodeInput{Code: "x", Type: enums.DiscountTypePercentage, Value: decimal.NewFromInt(150), UsageLimit: 1}},
		{"zero usage limit", CreateCodeInput{Code: "x", Type: enums.DiscountTypeFixed, Value: decimal.NewFromInt(5), UsageLimit: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCode(ctx, tc.input)
			assertCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestCreateCodeRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t, SeedCatalog()...)

	_, err := svc.CreateCode(context.Background(), CreateCodeInput{
		Code:       "GARDEN10",
		Type:       enums.DiscountTypePercentage,
		Value:      decimal.NewFromInt(10),
		UsageLimit: 100,
		IsActive:   true,
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateAndResolveRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCode(ctx, CreateCodeInput{
		Code:       "Launch20",
		Type:       enums.DiscountTypePercentage,
		Value:      decimal.NewFromInt(20),
		UsageLimit: 5,
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "launch20", created.Code)

	res, err := svc.Resolve(ctx, "launch20")
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(decimal.NewFromInt(20)))
}

func TestUpdateCode(t *testing.T) {
	svc, _ := newTestService(t, SeedCatalog()...)
	ctx := context.Background()

	codes, err := svc.ListCodes(ctx)
	require.NoError(t, err)
	var target models.DiscountCode
	for _, dc := range codes {
		if dc.Code == "gamer15" {
			target = dc
		}
	}
	require.NotEqual(t, uuid.Nil, target.ID)

	limit := 75
	updated, err := svc.UpdateCode(ctx, target.ID, UpdateCodeInput{UsageLimit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 75, updated.UsageLimit)

	_, err = svc.UpdateCode(ctx, uuid.New(), UpdateCodeInput{UsageLimit: &limit})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeactivateCodeBlocksResolution(t *testing.T) {
	svc, _ := newTestService(t, SeedCatalog()...)
	ctx := context.Background()

	codes, err := svc.ListCodes(ctx)
	require.NoError(t, err)
	var target models.DiscountCode
	for _, dc := range codes {
		if dc.Code == "garden10" {
			target = dc
		}
	}

	updated, err := svc.DeactivateCode(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.Resolve(ctx, "garden10")
	assertCode(t, err, pkgerrors.CodeStateConflict)
}
