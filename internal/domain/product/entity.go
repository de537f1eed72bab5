package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName          = errors.New("nome não pode ser vazio")
	ErrInvalidPrice       = errors.New("preço deve ser maior que zero")
	ErrInvalidQuantity    = errors.New("quantidade deve ser maior que zero")
	ErrNegativeStock      = errors.New("estoque não pode ficar negativo")
	ErrInsufficientStock  = errors.New("estoque insuficiente")
	ErrProductUnavailable = errors.New("produto indisponível para venda")
)

// MovementCause identifica a origem de uma movimentação de estoque
type MovementCause string

const (
	CauseSale   MovementCause = "sale"   // Baixa por venda
	CauseRefund MovementCause = "refund" // Estorno por devolução
	CauseManual MovementCause = "manual" // Ajuste manual
)

// AlertType identifica o tipo de alerta de estoque
type AlertType string

const (
	AlertLowStock AlertType = "low_stock"
)

// Product representa um produto do catálogo com seu saldo de estoque.
// O saldo só é alterado pelas operações do livro de estoque (venda,
// devolução e ajuste manual); produtos referenciados por vendas nunca
// são excluídos, apenas desativados.
type Product struct {
	ID        string    `json:"id"`         // ID do Produto
	SKU       string    `json:"sku"`        // Código interno
	Name      string    `json:"name"`       // Descrição
	Price     float64   `json:"price"`      // Preço unitário de venda
	Stock     int       `json:"stock"`      // Saldo em estoque
	MinStock  int       `json:"min_stock"`  // Estoque mínimo
	Active    bool      `json:"active"`     // Disponível para venda
	CreatedAt time.Time `json:"created_at"` // Data de Criação
	UpdatedAt time.Time `json:"updated_at"` // Data de Atualização
}

// StockMovement representa um registro imutável de movimentação de estoque
type StockMovement struct {
	ID             string        `json:"id"`
	ProductID      string        `json:"product_id"`
	Delta          int           `json:"delta"`           // Variação aplicada (negativa na venda)
	ResultingStock int           `json:"resulting_stock"` // Saldo após a movimentação
	Cause          MovementCause `json:"cause"`
	ReferenceID    string        `json:"reference_id"` // Venda, devolução ou motivo do ajuste
	CreatedAt      time.Time     `json:"created_at"`
}

// StockAlert representa um alerta de estoque baixo ainda não resolvido
// ou já resolvido. Existe no máximo um alerta não resolvido por
// (produto, tipo).
type StockAlert struct {
	ID         string     `json:"id"`
	ProductID  string     `json:"product_id"`
	AlertType  AlertType  `json:"alert_type"`
	Resolved   bool       `json:"resolved"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// StockChange descreve o resultado de uma operação do livro de estoque
type StockChange struct {
	ProductID string
	Delta     int
	NewStock  int
	MinStock  int
}

// NewProduct cria um novo produto
func NewProduct(sku, name string, price float64, stock, minStock int) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	now := time.Now()
	return &Product{
		ID:        uuid.New().String(),
		SKU:       sku,
		Name:      name,
		Price:     price,
		Stock:     stock,
		MinStock:  minStock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive verifica se o produto está disponível para venda
func (p *Product) IsActive() bool {
	return p.Active
}

// IsOutOfStock indica se o produto está sem saldo. Não gera alerta
// próprio: é uma visão derivada do saldo zerado.
func (p *Product) IsOutOfStock() bool {
	return p.Stock == 0
}

// IsBelowMinimum indica se o saldo está abaixo do estoque mínimo
func (p *Product) IsBelowMinimum() bool {
	return p.Stock < p.MinStock
}

// Deactivate desativa o produto para venda
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// Activate reativa o produto para venda
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
}
