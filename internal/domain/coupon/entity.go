package coupon

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyCode         = errors.New("código do cupom não pode ser vazio")
	ErrInvalidValue      = errors.New("valor do desconto deve ser maior que zero")
	ErrInvalidType       = errors.New("tipo de desconto inválido")
	ErrInvalidCoupon     = errors.New("cupom inválido para esta compra")
	ErrUsageLimitReached = errors.New("limite de uso do cupom atingido")
)

// DiscountType define a forma de cálculo do desconto
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Violation identifica uma regra de validação violada. A validação
// avalia todas as regras de forma independente para que o chamador
// possa exibir todos os problemas de uma vez.
type Violation string

const (
	ViolationInactive    Violation = "coupon_inactive"
	ViolationExpired     Violation = "coupon_expired"
	ViolationWrongClient Violation = "bound_to_other_client"
	ViolationMinPurchase Violation = "below_min_purchase"
	ViolationUsageLimit  Violation = "usage_limit_reached"
	ViolationAlreadyUsed Violation = "already_used_by_client"
)

// ValidationResult é o resultado estruturado da validação de um cupom
type ValidationResult struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
	Discount   float64     `json:"discount"` // Desconto calculado quando válido
}

// Coupon representa um cupom de desconto. O contador de uso só é
// alterado pelo incremento atômico do resgate.
type Coupon struct {
	ID                string       `json:"id"`
	Code              string       `json:"code"`
	DiscountType      DiscountType `json:"discount_type"`
	DiscountValue     float64      `json:"discount_value"`
	MinPurchaseAmount float64      `json:"min_purchase_amount"` // 0 = sem mínimo
	MaxDiscountAmount float64      `json:"max_discount_amount"` // 0 = sem teto
	UsageLimit        int          `json:"usage_limit"` // 0 = ilimitado
	UsageCount        int          `json:"usage_count"`
	ExpiresAt         *time.Time   `json:"expires_at,omitempty"`
	Active            bool         `json:"active"`
	ClientID          string       `json:"client_id,omitempty"` // Vínculo opcional a um cliente
	AllowMultipleUse  bool         `json:"allow_multiple_use"`  // Permite reuso pelo mesmo cliente
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Usage representa o registro imutável de um resgate de cupom. É a
// fonte da verdade para "este cliente já usou este cupom".
type Usage struct {
	ID             string    `json:"id"`
	CouponID       string    `json:"coupon_id"`
	ClientID       string    `json:"client_id"`
	SaleID         string    `json:"sale_id"`
	DiscountAmount float64   `json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewCoupon cria um novo cupom
func NewCoupon(code string, discountType DiscountType, value float64) (*Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrEmptyCode
	}
	if discountType != DiscountPercentage && discountType != DiscountFixed {
		return nil, ErrInvalidType
	}
	if value <= 0 {
		return nil, ErrInvalidValue
	}

	now := time.Now()
	return &Coupon{
		ID:            uuid.New().String(),
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: value,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NewUsage cria o registro de resgate de um cupom
func NewUsage(couponID, clientID, saleID string, discount float64) *Usage {
	return &Usage{
		ID:             uuid.New().String(),
		CouponID:       couponID,
		ClientID:       clientID,
		SaleID:         saleID,
		DiscountAmount: discount,
		CreatedAt:      time.Now(),
	}
}

// Discount calcula o desconto sobre o valor da compra: percentual sobre
// o total ou valor fixo, limitado ao teto do cupom quando definido e
// nunca maior que o próprio valor da compra.
func (c *Coupon) Discount(purchaseAmount float64) float64 {
	var discount float64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = purchaseAmount * c.DiscountValue / 100
	case DiscountFixed:
		discount = c.DiscountValue
	}

	if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
		discount = c.MaxDiscountAmount
	}
	if discount > purchaseAmount {
		discount = purchaseAmount
	}

	return math.Round(discount*100) / 100
}

// Evaluate valida o cupom contra uma compra. Todas as regras são
// avaliadas, sem curto-circuito; alreadyUsed vem da consulta aos
// registros de resgate e só pesa quando o cupom não permite reuso.
func (c *Coupon) Evaluate(purchaseAmount float64, clientID string, alreadyUsed bool, now time.Time) ValidationResult {
	var violations []Violation

	if !c.Active {
		violations = append(violations, ViolationInactive)
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		violations = append(violations, ViolationExpired)
	}
	if c.ClientID != "" && c.ClientID != clientID {
		violations = append(violations, ViolationWrongClient)
	}
	if c.MinPurchaseAmount > 0 && purchaseAmount < c.MinPurchaseAmount {
		violations = append(violations, ViolationMinPurchase)
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		violations = append(violations, ViolationUsageLimit)
	}
	if !c.AllowMultipleUse && alreadyUsed {
		violations = append(violations, ViolationAlreadyUsed)
	}

	if len(violations) > 0 {
		return ValidationResult{Valid: false, Violations: violations}
	}
	return ValidationResult{Valid: true, Discount: c.Discount(purchaseAmount)}
}
