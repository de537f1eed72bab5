package cache

import (
	"context"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
)

// ProductCache é um cache de leitura do catálogo de produtos. É sempre
// melhor-esforço: toda escrita de estoque invalida a entrada e erros do
// cache nunca interrompem a operação.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*product.Product, bool, error)
	Set(ctx context.Context, p *product.Product, ttl time.Duration) error
	Invalidate(ctx context.Context, productID string) error
}

// NoopProductCache é usado quando o Redis não está configurado
type NoopProductCache struct{}

func (NoopProductCache) Get(_ context.Context, _ string) (*product.Product, bool, error) {
	return nil, false, nil
}

func (NoopProductCache) Set(_ context.Context, _ *product.Product, _ time.Duration) error {
	return nil
}

func (NoopProductCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
