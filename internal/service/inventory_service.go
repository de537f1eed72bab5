package service

import (
	"context"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/cache"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// Tempo de vida das entradas do cache de catálogo
const productCacheTTL = 5 * time.Minute

// InventoryService expõe o catálogo de produtos e o livro de estoque.
// Leituras de produto passam pelo cache; toda escrita de estoque ou de
// cadastro invalida a entrada correspondente.
type InventoryService struct {
	products product.Repository
	cache    cache.ProductCache
	logger   logger.Logger
}

// NewInventoryService cria uma nova instância de InventoryService
func NewInventoryService(products product.Repository, productCache cache.ProductCache, log logger.Logger) *InventoryService {
	return &InventoryService{
		products: products,
		cache:    productCache,
		logger:   log,
	}
}

// CreateProduct cadastra um novo produto no catálogo
func (s *InventoryService) CreateProduct(ctx context.Context, sku, name string, price float64, stock, minStock int) (*product.Product, error) {
	p, err := product.NewProduct(sku, name, price, stock, minStock)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct busca um produto pelo ID, com leitura através do cache.
// Erros do cache nunca interrompem a leitura: o banco é a fonte da
// verdade.
func (s *InventoryService) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	cached, hit, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("erro ao ler cache de produto", "product_id", id, "error", err)
	}
	if hit {
		return cached, nil
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, p, productCacheTTL); err != nil {
		s.logger.Warn("erro ao gravar cache de produto", "product_id", id, "error", err)
	}
	return p, nil
}

// GetProductBySKU busca um produto pelo SKU
func (s *InventoryService) GetProductBySKU(ctx context.Context, sku string) (*product.Product, error) {
	return s.products.FindBySKU(ctx, sku)
}

// ListProducts lista os produtos com paginação
func (s *InventoryService) ListProducts(ctx context.Context, limit, offset int) ([]*product.Product, int, error) {
	products, err := s.products.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdateProduct atualiza os dados cadastrais de um produto. O saldo de
// estoque não é alterado por aqui; use AdjustStock.
func (s *InventoryService) UpdateProduct(ctx context.Context, id, sku, name string, price float64, minStock int) (*product.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, product.ErrEmptyName
	}
	if price <= 0 {
		return nil, product.ErrInvalidPrice
	}

	p.SKU = sku
	p.Name = name
	p.Price = price
	p.MinStock = minStock
	p.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

// SetProductStatus ativa ou desativa um produto para venda
func (s *InventoryService) SetProductStatus(ctx context.Context, id string, active bool) error {
	if err := s.products.UpdateStatus(ctx, id, active); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// AdjustStock aplica um ajuste manual de estoque. O delta pode ser
// positivo (reposição) ou negativo (perda, quebra), nunca deixando o
// saldo negativo.
func (s *InventoryService) AdjustStock(ctx context.Context, productID string, delta int, reason string) (*product.StockChange, error) {
	change, err := s.products.Adjust(ctx, productID, delta, reason)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, productID)
	return change, nil
}

// ListMovements lista as movimentações de estoque de um produto
func (s *InventoryService) ListMovements(ctx context.Context, productID string, limit, offset int) ([]*product.StockMovement, error) {
	return s.products.ListMovements(ctx, productID, limit, offset)
}

// ListAlerts lista os alertas de estoque baixo
func (s *InventoryService) ListAlerts(ctx context.Context, onlyUnresolved bool, limit, offset int) ([]*product.StockAlert, error) {
	return s.products.ListAlerts(ctx, onlyUnresolved, limit, offset)
}

func (s *InventoryService) invalidate(ctx context.Context, productID string) {
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logger.Warn("erro ao invalidar cache de produto", "product_id", productID, "error", err)
	}
}
