package cart

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyOwner      = errors.New("dono do carrinho não informado")
	ErrInvalidQuantity = errors.New("quantidade deve ser maior que zero")
	ErrLineNotFound    = errors.New("item não encontrado no carrinho")
)

// Line representa um item do carrinho de um usuário. O preço unitário é
// congelado no momento da inclusão; divergências com o catálogo são
// apontadas na validação do checkout, nunca aplicadas em silêncio.
// Itens removidos são marcados com RemovedAt e preservados para
// auditoria.
type Line struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	ProductID   string     `json:"product_id"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"` // Preço congelado na inclusão
	Subtotal    float64    `json:"subtotal"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	RemovedAt   *time.Time `json:"removed_at,omitempty"`
}

// Summary resume o carrinho para exibição
type Summary struct {
	ItemCount int     `json:"item_count"` // Soma das quantidades
	Subtotal  float64 `json:"subtotal"`
}

// Cart agrega os itens ativos de um dono com o resumo calculado
type Cart struct {
	OwnerID string  `json:"owner_id"`
	Lines   []*Line `json:"lines"`
	Summary Summary `json:"summary"`
}

// NewLine cria um novo item de carrinho com o preço congelado
func NewLine(ownerID, productID, productName string, qty int, unitPrice float64) (*Line, error) {
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	return &Line{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Subtotal:    LineSubtotal(qty, unitPrice),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetQuantity ajusta a quantidade e recalcula o subtotal
func (l *Line) SetQuantity(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	l.Quantity = qty
	l.Subtotal = LineSubtotal(qty, l.UnitPrice)
	l.UpdatedAt = time.Now()
	return nil
}

// LineSubtotal calcula o subtotal de um item com arredondamento a 2 casas
func LineSubtotal(qty int, unitPrice float64) float64 {
	return Round(float64(qty) * unitPrice)
}

// Round arredonda valores monetários a 2 casas decimais
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summarize calcula o resumo de um conjunto de itens
func Summarize(lines []*Line) Summary {
	var s Summary
	for _, l := range lines {
		s.ItemCount += l.Quantity
		s.Subtotal += l.Subtotal
	}
	s.Subtotal = Round(s.Subtotal)
	return s
}
