package event

import (
	"context"
	"time"
)

// SaleCompleted é o evento publicado após o commit de uma venda, para
// consumo dos colaboradores de relatório e recibo
type SaleCompleted struct {
	SaleID         string    `json:"sale_id"`
	CashierID      string    `json:"cashier_id"`
	ClientID       string    `json:"client_id,omitempty"`
	BranchID       string    `json:"branch_id,omitempty"`
	Subtotal       float64   `json:"subtotal"`
	DiscountAmount float64   `json:"discount_amount"`
	TaxAmount      float64   `json:"tax_amount"`
	Total          float64   `json:"total"`
	PaymentMethod  string    `json:"payment_method"`
	CouponCode     string    `json:"coupon_code,omitempty"`
	ItemCount      int       `json:"item_count"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// RefundCompleted é o evento publicado após o commit de uma devolução
type RefundCompleted struct {
	RefundID     string    `json:"refund_id"`
	SaleID       string    `json:"sale_id"`
	Type         string    `json:"type"`
	TotalAmount  float64   `json:"total_amount"`
	SaleRefunded bool      `json:"sale_refunded"` // Venda ficou totalmente devolvida
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher publica eventos do motor de vendas. A publicação acontece
// fora da transação de commit: falhas são registradas em log, nunca
// desfazem a venda ou a devolução.
type Publisher interface {
	PublishSaleCompleted(ctx context.Context, ev SaleCompleted) error
	PublishRefundCompleted(ctx context.Context, ev RefundCompleted) error
	Close() error
}

// NoopPublisher é usado quando nenhum broker está configurado
type NoopPublisher struct{}

func (NoopPublisher) PublishSaleCompleted(_ context.Context, _ SaleCompleted) error {
	return nil
}

func (NoopPublisher) PublishRefundCompleted(_ context.Context, _ RefundCompleted) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
