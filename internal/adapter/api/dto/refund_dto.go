package dto

import (
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/refund"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
)

// RefundItemRequest representa um item de uma devolução parcial
type RefundItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// RefundRequest representa a solicitação de uma devolução
type RefundRequest struct {
	Type       string              `json:"type" binding:"required"`
	Reason     string              `json:"reason" binding:"required"`
	Items      []RefundItemRequest `json:"items"`
	ManagerPIN string              `json:"manager_pin"`
}

// RefundLineResponse representa um item devolvido
type RefundLineResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// RefundResponse representa a resposta com dados de uma devolução
type RefundResponse struct {
	ID           string               `json:"id"`
	SaleID       string               `json:"sale_id"`
	Type         string               `json:"type"`
	Reason       string               `json:"reason"`
	TotalAmount  float64              `json:"total_amount"`
	Status       string               `json:"status"`
	SaleRefunded bool                 `json:"sale_refunded"`
	CreatedAt    time.Time            `json:"created_at"`
	Lines        []RefundLineResponse `json:"lines,omitempty"`
}

// RefundListResponse representa a lista de devoluções de uma venda
type RefundListResponse struct {
	SaleID string           `json:"sale_id"`
	Items  []RefundResponse `json:"items"`
}

// ToRefundResponse converte uma devolução do domínio para DTO
func ToRefundResponse(r *refund.Refund, lines []*refund.Line, saleRefunded bool) *RefundResponse {
	resp := &RefundResponse{
		ID:           r.ID,
		SaleID:       r.SaleID,
		Type:         string(r.Type),
		Reason:       r.Reason,
		TotalAmount:  r.TotalAmount,
		Status:       string(r.Status),
		SaleRefunded: saleRefunded,
		CreatedAt:    r.CreatedAt,
	}

	for _, l := range lines {
		resp.Lines = append(resp.Lines, RefundLineResponse{
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

// ToRefundListResponse converte as devoluções de uma venda para DTO
func ToRefundListResponse(saleID string, refunds []*refund.Refund, linesByRefund map[string][]*refund.Line) *RefundListResponse {
	items := make([]RefundResponse, len(refunds))
	for i, r := range refunds {
		items[i] = *ToRefundResponse(r, linesByRefund[r.ID], false)
	}
	return &RefundListResponse{
		SaleID: saleID,
		Items:  items,
	}
}

// ToRefundInput converte a requisição para a entrada do serviço
func (r RefundRequest) ToRefundInput(saleID string) service.RefundInput {
	input := service.RefundInput{
		SaleID: saleID,
		Type:   refund.Type(r.Type),
		Reason: r.Reason,
	}
	for _, it := range r.Items {
		input.Items = append(input.Items, service.RefundItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return input
}
