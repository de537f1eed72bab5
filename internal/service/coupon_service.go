package service

import (
	"context"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/coupon"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// CreateCouponInput são os dados de cadastro de um cupom
type CreateCouponInput struct {
	Code              string
	DiscountType      coupon.DiscountType
	DiscountValue     float64
	MinPurchaseAmount float64
	MaxDiscountAmount float64
	UsageLimit        int
	ExpiresAt         *time.Time
	ClientID          string
	AllowMultipleUse  bool
}

// CouponService administra o cadastro e a validação de cupons. O
// resgate em si só acontece dentro da transação do checkout.
type CouponService struct {
	coupons coupon.Repository
	logger  logger.Logger
}

// NewCouponService cria uma nova instância de CouponService
func NewCouponService(coupons coupon.Repository, log logger.Logger) *CouponService {
	return &CouponService{
		coupons: coupons,
		logger:  log,
	}
}

// Create cadastra um novo cupom
func (s *CouponService) Create(ctx context.Context, input CreateCouponInput) (*coupon.Coupon, error) {
	c, err := coupon.NewCoupon(input.Code, input.DiscountType, input.DiscountValue)
	if err != nil {
		return nil, err
	}

	c.MinPurchaseAmount = input.MinPurchaseAmount
	c.MaxDiscountAmount = input.MaxDiscountAmount
	c.UsageLimit = input.UsageLimit
	c.ExpiresAt = input.ExpiresAt
	c.ClientID = input.ClientID
	c.AllowMultipleUse = input.AllowMultipleUse

	if err := s.coupons.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByCode busca um cupom pelo código
func (s *CouponService) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	return s.coupons.FindByCode(ctx, code)
}

// List lista os cupons com paginação
func (s *CouponService) List(ctx context.Context, limit, offset int) ([]*coupon.Coupon, int, error) {
	coupons, err := s.coupons.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.coupons.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// Validate avalia um cupom contra uma compra sem resgatá-lo. Todas as
// regras violadas são devolvidas de uma vez para exibição ao operador.
func (s *CouponService) Validate(ctx context.Context, code, clientID string, purchaseAmount float64) (*coupon.ValidationResult, error) {
	c, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	alreadyUsed := false
	if clientID != "" {
		alreadyUsed, err = s.coupons.HasClientUsage(ctx, c.ID, clientID)
		if err != nil {
			return nil, err
		}
	}

	result := c.Evaluate(purchaseAmount, clientID, alreadyUsed, time.Now())
	return &result, nil
}

// ListUsages lista os resgates de um cupom
func (s *CouponService) ListUsages(ctx context.Context, couponID string, limit, offset int) ([]*coupon.Usage, error) {
	return s.coupons.ListUsages(ctx, couponID, limit, offset)
}
