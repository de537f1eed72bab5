package service

import (
	"context"
	"testing"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/cart"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	products *fakeProductRepo
	carts    *fakeCartRepo
	svc      *CartService
}

func newCartFixture(products ...*product.Product) *cartFixture {
	f := &cartFixture{
		products: newFakeProductRepo(products...),
		carts:    &fakeCartRepo{},
	}
	f.svc = NewCartService(f.carts, f.products, logger.NewLogger())
	return f
}

func TestCartAddItem(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Arroz 5kg", 21.90, 10, 2)
	f := newCartFixture(p)

	c, err := f.svc.AddItem(ctx, "owner-1", p.ID, 2)

	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 21.90, c.Lines[0].UnitPrice)
	assert.Equal(t, 2, c.Summary.ItemCount)
	assert.Equal(t, 43.80, c.Summary.Subtotal)
}

func TestCartAddItem_MergesQuantities(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Arroz 5kg", 10, 10, 2)
	f := newCartFixture(p)

	_, err := f.svc.AddItem(ctx, "owner-1", p.ID, 2)
	require.NoError(t, err)
	c, err := f.svc.AddItem(ctx, "owner-1", p.ID, 3)
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, 50.0, c.Summary.Subtotal)
}

func TestCartAddItem_CombinedQuantityExceedsStock(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Arroz 5kg", 10, 5, 2)
	f := newCartFixture(p)

	_, err := f.svc.AddItem(ctx, "owner-1", p.ID, 3)
	require.NoError(t, err)

	// 3 já no carrinho + 3 novos > 5 em estoque
	_, err = f.svc.AddItem(ctx, "owner-1", p.ID, 3)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
}

func TestCartAddItem_InactiveProduct(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Descontinuado", 10, 5, 2)
	p.Deactivate()
	f := newCartFixture(p)

	_, err := f.svc.AddItem(ctx, "owner-1", p.ID, 1)
	assert.ErrorIs(t, err, product.ErrProductUnavailable)
}

func TestCartAddItem_InvalidQuantity(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.AddItem(context.Background(), "owner-1", "prod-1", 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
}

func TestCartUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Feijão 1kg", 8.50, 10, 2)
	f := newCartFixture(p)

	c, err := f.svc.AddItem(ctx, "owner-1", p.ID, 1)
	require.NoError(t, err)

	c, err = f.svc.UpdateQuantity(ctx, "owner-1", c.Lines[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Lines[0].Quantity)
	assert.Equal(t, 34.0, c.Summary.Subtotal)

	_, err = f.svc.UpdateQuantity(ctx, "owner-1", c.Lines[0].ID, 11)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
}

func TestCartUpdateQuantity_LineNotFound(t *testing.T) {
	f := newCartFixture()

	_, err := f.svc.UpdateQuantity(context.Background(), "owner-1", "inexistente", 2)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)
}

func TestCartRemoveItem(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Leite 1L", 5, 10, 2)
	f := newCartFixture(p)

	c, err := f.svc.AddItem(ctx, "owner-1", p.ID, 2)
	require.NoError(t, err)

	c, err = f.svc.RemoveItem(ctx, "owner-1", c.Lines[0].ID)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
	assert.Zero(t, c.Summary.ItemCount)

	_, err = f.svc.RemoveItem(ctx, "owner-1", "inexistente")
	assert.ErrorIs(t, err, cart.ErrLineNotFound)
}

func TestCartIsolatedPerOwner(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Leite 1L", 5, 10, 2)
	f := newCartFixture(p)

	_, err := f.svc.AddItem(ctx, "owner-1", p.ID, 2)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "owner-2", p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.Clear(ctx, "owner-1"))

	a, err := f.svc.GetCart(ctx, "owner-1")
	require.NoError(t, err)
	b, err := f.svc.GetCart(ctx, "owner-2")
	require.NoError(t, err)

	assert.Empty(t, a.Lines)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, 1, b.Lines[0].Quantity)
}
