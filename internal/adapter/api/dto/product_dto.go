package dto

import (
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
)

// ProductRequest representa os dados de cadastro de um produto
type ProductRequest struct {
	SKU      string  `json:"sku" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	Stock    int     `json:"stock"`
	MinStock int     `json:"min_stock"`
}

// ProductUpdateRequest representa os dados de atualização cadastral de
// um produto. O estoque não é alterado por aqui.
type ProductUpdateRequest struct {
	SKU      string  `json:"sku" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	MinStock int     `json:"min_stock"`
}

// ProductStatusRequest representa a ativação ou desativação de um produto
type ProductStatusRequest struct {
	Active bool `json:"active"`
}

// StockAdjustRequest representa um ajuste manual de estoque
type StockAdjustRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// ProductResponse representa a resposta com dados de um produto
type ProductResponse struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	MinStock  int       `json:"min_stock"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductListResponse representa a resposta de lista de produtos
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalPages int               `json:"total_pages"`
}

// StockChangeResponse representa o resultado de um ajuste de estoque
type StockChangeResponse struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	NewStock  int    `json:"new_stock"`
	MinStock  int    `json:"min_stock"`
}

// StockMovementResponse representa uma movimentação de estoque
type StockMovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	Delta          int       `json:"delta"`
	ResultingStock int       `json:"resulting_stock"`
	Cause          string    `json:"cause"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// StockAlertResponse representa um alerta de estoque
type StockAlertResponse struct {
	ID         string     `json:"id"`
	ProductID  string     `json:"product_id"`
	AlertType  string     `json:"alert_type"`
	Resolved   bool       `json:"resolved"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// ToProductResponse converte um produto do domínio para DTO
func ToProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToProductListResponse converte uma lista de produtos do domínio para DTO
func ToProductListResponse(products []*product.Product, total, page, size int) *ProductListResponse {
	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = *ToProductResponse(p)
	}

	return &ProductListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: calculateTotalPages(total, size),
	}
}

// ToStockChangeResponse converte o resultado de um ajuste de estoque para DTO
func ToStockChangeResponse(c *product.StockChange) *StockChangeResponse {
	return &StockChangeResponse{
		ProductID: c.ProductID,
		Delta:     c.Delta,
		NewStock:  c.NewStock,
		MinStock:  c.MinStock,
	}
}

// ToStockMovementResponses converte movimentações de estoque para DTO
func ToStockMovementResponses(movements []*product.StockMovement) []StockMovementResponse {
	items := make([]StockMovementResponse, len(movements))
	for i, m := range movements {
		items[i] = StockMovementResponse{
			ID:             m.ID,
			ProductID:      m.ProductID,
			Delta:          m.Delta,
			ResultingStock: m.ResultingStock,
			Cause:          string(m.Cause),
			ReferenceID:    m.ReferenceID,
			CreatedAt:      m.CreatedAt,
		}
	}
	return items
}

// ToStockAlertResponses converte alertas de estoque para DTO
func ToStockAlertResponses(alerts []*product.StockAlert) []StockAlertResponse {
	items := make([]StockAlertResponse, len(alerts))
	for i, a := range alerts {
		items[i] = StockAlertResponse{
			ID:         a.ID,
			ProductID:  a.ProductID,
			AlertType:  string(a.AlertType),
			Resolved:   a.Resolved,
			CreatedAt:  a.CreatedAt,
			ResolvedAt: a.ResolvedAt,
		}
	}
	return items
}
