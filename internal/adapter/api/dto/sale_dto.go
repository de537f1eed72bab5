package dto

import (
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
)

// CheckoutRequest representa o fechamento de uma venda
type CheckoutRequest struct {
	ClientID            string  `json:"client_id"`
	PaymentMethod       string  `json:"payment_method" binding:"required"`
	TenderedAmount      float64 `json:"tendered_amount" binding:"required"`
	CouponCode          string  `json:"coupon_code"`
	ConfirmPriceChanges bool    `json:"confirm_price_changes"`
}

// SaleLineResponse representa um item de venda
type SaleLineResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// SaleResponse representa a resposta com dados de uma venda
type SaleResponse struct {
	ID             string             `json:"id"`
	CashierID      string             `json:"cashier_id"`
	ClientID       string             `json:"client_id,omitempty"`
	BranchID       string             `json:"branch_id,omitempty"`
	Subtotal       float64            `json:"subtotal"`
	DiscountAmount float64            `json:"discount_amount"`
	TaxAmount      float64            `json:"tax_amount"`
	Total          float64            `json:"total"`
	TenderedAmount float64            `json:"tendered_amount"`
	ChangeAmount   float64            `json:"change_amount"`
	PaymentMethod  string             `json:"payment_method"`
	CouponCode     string             `json:"coupon_code,omitempty"`
	Status         string             `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	Lines          []SaleLineResponse `json:"lines,omitempty"`
}

// SaleListResponse representa a resposta de lista de vendas
type SaleListResponse struct {
	Items      []SaleResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int            `json:"total_pages"`
}

// PriceChangeResponse representa uma divergência de preço apontada no checkout
type PriceChangeResponse struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	CartPrice    float64 `json:"cart_price"`
	CurrentPrice float64 `json:"current_price"`
}

// CheckoutResponse representa o resultado de um checkout concluído
type CheckoutResponse struct {
	Sale             SaleResponse `json:"sale"`
	LoyaltyPoints    int          `json:"loyalty_points"`
	LowStockProducts []string     `json:"low_stock_products,omitempty"`
}

// CheckoutRejectionResponse representa um checkout recusado com os
// detalhes necessários para reexibir o carrinho
type CheckoutRejectionResponse struct {
	Code             int                   `json:"code"`
	Message          string                `json:"message"`
	PriceChanges     []PriceChangeResponse `json:"price_changes,omitempty"`
	CouponViolations []string              `json:"coupon_violations,omitempty"`
}

// ToSaleResponse converte uma venda do domínio para DTO
func ToSaleResponse(s *sale.Sale, lines []*sale.Line) *SaleResponse {
	resp := &SaleResponse{
		ID:             s.ID,
		CashierID:      s.CashierID,
		ClientID:       s.ClientID,
		BranchID:       s.BranchID,
		Subtotal:       s.Subtotal,
		DiscountAmount: s.DiscountAmount,
		TaxAmount:      s.TaxAmount,
		Total:          s.Total,
		TenderedAmount: s.TenderedAmount,
		ChangeAmount:   s.ChangeAmount,
		PaymentMethod:  string(s.PaymentMethod),
		CouponCode:     s.CouponCode,
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt,
	}

	for _, l := range lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}

	return resp
}

// ToSaleListResponse converte uma lista de vendas do domínio para DTO
func ToSaleListResponse(sales []*sale.Sale, total, page, size int) *SaleListResponse {
	items := make([]SaleResponse, len(sales))
	for i, s := range sales {
		items[i] = *ToSaleResponse(s, nil)
	}

	return &SaleListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: calculateTotalPages(total, size),
	}
}

// ToCheckoutResponse converte o resultado de um checkout para DTO
func ToCheckoutResponse(result *service.CheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{
		Sale:             *ToSaleResponse(result.Sale, result.Lines),
		LoyaltyPoints:    result.LoyaltyPoints,
		LowStockProducts: result.LowStockProducts,
	}
}

// ToCheckoutRejectionResponse monta a resposta de um checkout recusado
func ToCheckoutRejectionResponse(code int, message string, result *service.CheckoutResult) *CheckoutRejectionResponse {
	resp := &CheckoutRejectionResponse{
		Code:    code,
		Message: message,
	}
	if result == nil {
		return resp
	}

	for _, pc := range result.PriceChanges {
		resp.PriceChanges = append(resp.PriceChanges, PriceChangeResponse{
			ProductID:    pc.ProductID,
			ProductName:  pc.ProductName,
			CartPrice:    pc.CartPrice,
			CurrentPrice: pc.CurrentPrice,
		})
	}
	for _, v := range result.CouponViolations {
		resp.CouponViolations = append(resp.CouponViolations, string(v))
	}

	return resp
}
