package refund

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidType            = errors.New("tipo de devolução inválido")
	ErrInvalidQuantity        = errors.New("quantidade a devolver deve ser maior que zero")
	ErrEmptyItems             = errors.New("devolução parcial exige a lista de itens")
	ErrAlreadyFullyRefunded   = errors.New("venda já foi totalmente devolvida")
	ErrNothingToRefund        = errors.New("não há quantidade restante para devolver")
	ErrRefundExceedsAvailable = errors.New("quantidade excede o disponível para devolução")
	ErrLineNotInSale          = errors.New("produto não pertence à venda original")
)

// Type define o alcance da devolução
type Type string

const (
	TypeFull    Type = "full"
	TypePartial Type = "partial"
)

// Status representa o estado de uma devolução
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Refund representa uma devolução total ou parcial de uma venda.
// Imutável após concluída.
type Refund struct {
	ID          string    `json:"id"`
	SaleID      string    `json:"sale_id"`
	Type        Type      `json:"type"`
	Reason      string    `json:"reason"`
	TotalAmount float64   `json:"total_amount"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Line representa um item devolvido. A soma das quantidades devolvidas
// de um produto, em todas as devoluções concluídas de uma venda, nunca
// pode exceder a quantidade vendida.
type Line struct {
	ID          string  `json:"id"`
	RefundID    string  `json:"refund_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// NewRefund cria uma devolução
func NewRefund(saleID string, t Type, reason string) (*Refund, error) {
	if t != TypeFull && t != TypePartial {
		return nil, ErrInvalidType
	}

	return &Refund{
		ID:        uuid.New().String(),
		SaleID:    saleID,
		Type:      t,
		Reason:    reason,
		Status:    StatusCompleted,
		CreatedAt: time.Now(),
	}, nil
}

// NewLine cria um item de devolução
func NewLine(refundID, productID, productName string, qty int, unitPrice float64) *Line {
	return &Line{
		ID:          uuid.New().String(),
		RefundID:    refundID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Subtotal:    math.Round(float64(qty)*unitPrice*100) / 100,
	}
}
