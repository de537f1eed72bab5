package dto

import (
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/coupon"
)

// CouponRequest representa os dados de cadastro de um cupom
type CouponRequest struct {
	Code              string     `json:"code" binding:"required"`
	DiscountType      string     `json:"discount_type" binding:"required"`
	DiscountValue     float64    `json:"discount_value" binding:"required"`
	MinPurchaseAmount float64    `json:"min_purchase_amount"`
	MaxDiscountAmount float64    `json:"max_discount_amount"`
	UsageLimit        int        `json:"usage_limit"`
	ExpiresAt         *time.Time `json:"expires_at"`
	ClientID          string     `json:"client_id"`
	AllowMultipleUse  bool       `json:"allow_multiple_use"`
}

// CouponValidateRequest representa a validação de um cupom contra uma compra
type CouponValidateRequest struct {
	Code           string  `json:"code" binding:"required"`
	ClientID       string  `json:"client_id"`
	PurchaseAmount float64 `json:"purchase_amount" binding:"required"`
}

// CouponResponse representa a resposta com dados de um cupom
type CouponResponse struct {
	ID                string     `json:"id"`
	Code              string     `json:"code"`
	DiscountType      string     `json:"discount_type"`
	DiscountValue     float64    `json:"discount_value"`
	MinPurchaseAmount float64    `json:"min_purchase_amount"`
	MaxDiscountAmount float64    `json:"max_discount_amount"`
	UsageLimit        int        `json:"usage_limit"`
	UsageCount        int        `json:"usage_count"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	Active            bool       `json:"active"`
	ClientID          string     `json:"client_id,omitempty"`
	AllowMultipleUse  bool       `json:"allow_multiple_use"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CouponListResponse representa a resposta de lista de cupons
type CouponListResponse struct {
	Items      []CouponResponse `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
	TotalPages int              `json:"total_pages"`
}

// CouponValidationResponse representa o resultado da validação de um cupom
type CouponValidationResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
	Discount   float64  `json:"discount"`
}

// CouponUsageResponse representa um resgate de cupom
type CouponUsageResponse struct {
	ID             string    `json:"id"`
	CouponID       string    `json:"coupon_id"`
	ClientID       string    `json:"client_id"`
	SaleID         string    `json:"sale_id"`
	DiscountAmount float64   `json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToCouponResponse converte um cupom do domínio para DTO
func ToCouponResponse(c *coupon.Coupon) *CouponResponse {
	return &CouponResponse{
		ID:                c.ID,
		Code:              c.Code,
		DiscountType:      string(c.DiscountType),
		DiscountValue:     c.DiscountValue,
		MinPurchaseAmount: c.MinPurchaseAmount,
		MaxDiscountAmount: c.MaxDiscountAmount,
		UsageLimit:        c.UsageLimit,
		UsageCount:        c.UsageCount,
		ExpiresAt:         c.ExpiresAt,
		Active:            c.Active,
		ClientID:          c.ClientID,
		AllowMultipleUse:  c.AllowMultipleUse,
		CreatedAt:         c.CreatedAt,
	}
}

// ToCouponListResponse converte uma lista de cupons do domínio para DTO
func ToCouponListResponse(coupons []*coupon.Coupon, total, page, size int) *CouponListResponse {
	items := make([]CouponResponse, len(coupons))
	for i, c := range coupons {
		items[i] = *ToCouponResponse(c)
	}

	return &CouponListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: calculateTotalPages(total, size),
	}
}

// ToCouponValidationResponse converte o resultado da validação para DTO
func ToCouponValidationResponse(r *coupon.ValidationResult) *CouponValidationResponse {
	resp := &CouponValidationResponse{
		Valid:    r.Valid,
		Discount: r.Discount,
	}
	for _, v := range r.Violations {
		resp.Violations = append(resp.Violations, string(v))
	}
	return resp
}

// ToCouponUsageResponses converte resgates de cupom para DTO
func ToCouponUsageResponses(usages []*coupon.Usage) []CouponUsageResponse {
	items := make([]CouponUsageResponse, len(usages))
	for i, u := range usages {
		items[i] = CouponUsageResponse{
			ID:             u.ID,
			CouponID:       u.CouponID,
			ClientID:       u.ClientID,
			SaleID:         u.SaleID,
			DiscountAmount: u.DiscountAmount,
			CreatedAt:      u.CreatedAt,
		}
	}
	return items
}
