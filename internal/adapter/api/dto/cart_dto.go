package dto

import (
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/cart"
)

// CartAddItemRequest representa a inclusão de um produto no carrinho
type CartAddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CartQuantityRequest representa a alteração de quantidade de um item
type CartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CartLineResponse representa um item do carrinho
type CartLineResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Subtotal    float64   `json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CartResponse representa o carrinho com o resumo calculado
type CartResponse struct {
	OwnerID   string             `json:"owner_id"`
	Lines     []CartLineResponse `json:"lines"`
	ItemCount int                `json:"item_count"`
	Subtotal  float64            `json:"subtotal"`
}

// ToCartResponse converte um carrinho do domínio para DTO
func ToCartResponse(c *cart.Cart) *CartResponse {
	lines := make([]CartLineResponse, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = CartLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
			CreatedAt:   l.CreatedAt,
			UpdatedAt:   l.UpdatedAt,
		}
	}

	return &CartResponse{
		OwnerID:   c.OwnerID,
		Lines:     lines,
		ItemCount: c.Summary.ItemCount,
		Subtotal:  c.Summary.Subtotal,
	}
}
