package service

import (
	"context"
	"testing"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/coupon"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponCreate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCouponRepo()
	svc := NewCouponService(repo, logger.NewLogger())

	expires := time.Now().Add(24 * time.Hour)
	c, err := svc.Create(ctx, CreateCouponInput{
		Code:              "save10",
		DiscountType:      coupon.DiscountPercentage,
		DiscountValue:     10,
		MinPurchaseAmount: 50,
		MaxDiscountAmount: 20,
		UsageLimit:        100,
		ExpiresAt:         &expires,
	})

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code)
	assert.Equal(t, 50.0, c.MinPurchaseAmount)
	assert.Equal(t, 100, c.UsageLimit)

	stored, err := svc.GetByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, c.ID, stored.ID)
}

func TestCouponValidate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCouponRepo()
	svc := NewCouponService(repo, logger.NewLogger())

	c, err := coupon.NewCoupon("MIN50", coupon.DiscountFixed, 5)
	require.NoError(t, err)
	c.MinPurchaseAmount = 50
	require.NoError(t, repo.Create(ctx, c))

	result, err := svc.Validate(ctx, "MIN50", "client-1", 60)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 5.0, result.Discount)

	result, err = svc.Validate(ctx, "MIN50", "client-1", 40)
	require.NoError(t, err)
	require.False(t, result.Valid)
	assert.Contains(t, result.Violations, coupon.ViolationMinPurchase)
}

func TestCouponValidate_ReportsPriorClientUsage(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCouponRepo()
	svc := NewCouponService(repo, logger.NewLogger())

	c, err := coupon.NewCoupon("ONCE", coupon.DiscountFixed, 5)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.RedeemTx(ctx, nil, c.ID, coupon.NewUsage(c.ID, "client-1", "sale-1", 5)))

	result, err := svc.Validate(ctx, "ONCE", "client-1", 60)
	require.NoError(t, err)
	require.False(t, result.Valid)
	assert.Contains(t, result.Violations, coupon.ViolationAlreadyUsed)

	// Outro cliente segue elegível
	result, err = svc.Validate(ctx, "ONCE", "client-2", 60)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}
