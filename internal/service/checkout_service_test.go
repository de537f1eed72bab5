package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hugohenrick/pdv-supermercado/internal/cache"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/cart"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/coupon"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/event"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	products  *fakeProductRepo
	carts     *fakeCartRepo
	coupons   *fakeCouponRepo
	sales     *fakeSaleRepo
	loyalties *fakeLoyaltyRepo
	svc       *CheckoutService
}

func newCheckoutFixture(products ...*product.Product) *checkoutFixture {
	f := &checkoutFixture{
		products:  newFakeProductRepo(products...),
		carts:     &fakeCartRepo{},
		coupons:   newFakeCouponRepo(),
		sales:     newFakeSaleRepo(),
		loyalties: newFakeLoyaltyRepo(),
	}
	tx := &fakeTransactor{stores: []txStore{f.products, f.carts, f.coupons, f.sales, f.loyalties}}
	f.svc = NewCheckoutService(tx, f.carts, f.products, f.coupons,
		f.sales, f.loyalties, ZeroTaxCalculator{}, event.NoopPublisher{}, cache.NoopProductCache{}, logger.NewLogger())
	return f
}

func (f *checkoutFixture) addToCart(t *testing.T, ownerID string, p *product.Product, qty int) *cart.Line {
	t.Helper()
	l, err := cart.NewLine(ownerID, p.ID, p.Name, qty, p.Price)
	require.NoError(t, err)
	require.NoError(t, f.carts.Create(context.Background(), l))
	return l
}

func mustProduct(t *testing.T, sku, name string, price float64, stock, minStock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(sku, name, price, stock, minStock)
	require.NoError(t, err)
	return p
}

func TestCheckout_WithCoupon(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 2)

	c, err := coupon.NewCoupon("SAVE10", coupon.DiscountPercentage, 10)
	require.NoError(t, err)
	require.NoError(t, f.coupons.Create(ctx, c))

	result, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		ClientID:       "client-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 20,
		CouponCode:     "SAVE10",
	})

	require.NoError(t, err)
	assert.Equal(t, 20.0, result.Sale.Subtotal)
	assert.Equal(t, 2.0, result.Sale.DiscountAmount)
	assert.Equal(t, 18.0, result.Sale.Total)
	assert.Equal(t, 2.0, result.Sale.ChangeAmount)
	assert.Len(t, result.Lines, 1)

	// Estoque debitado e venda persistida
	stored, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)
	_, err = f.sales.FindByID(ctx, result.Sale.ID)
	assert.NoError(t, err)

	// Resgate do cupom registrado
	assert.Equal(t, 1, c.UsageCount)
	usages, err := f.coupons.ListUsages(ctx, c.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, result.Sale.ID, usages[0].SaleID)
	assert.Equal(t, 2.0, usages[0].DiscountAmount)

	// Pontos sobre o total pago (18 -> 1 ponto)
	assert.Equal(t, 1, result.LoyaltyPoints)
	account, err := f.loyalties.FindByClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, 1, account.Points)

	// Carrinho limpo
	remaining, err := f.carts.FindActiveByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.Checkout(context.Background(), CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 10,
	})

	assert.ErrorIs(t, err, sale.ErrEmptyCart)
}

func TestCheckout_AnonymousClientSkipsLoyalty(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Leite 1L", 25, 5, 1)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 1)

	result, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentPix,
		TenderedAmount: 25,
	})

	require.NoError(t, err)
	assert.Zero(t, result.LoyaltyPoints)
	assert.Empty(t, f.loyalties.accounts)
}

func TestCheckout_PriceChanged(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Azeite 500ml", 10, 10, 2)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 2)

	// Preço do catálogo muda depois do item entrar no carrinho
	p.Price = 12
	require.NoError(t, f.products.Update(ctx, p))

	result, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 24,
	})

	require.ErrorIs(t, err, sale.ErrPriceChanged)
	require.NotNil(t, result)
	require.Len(t, result.PriceChanges, 1)
	assert.Equal(t, 10.0, result.PriceChanges[0].CartPrice)
	assert.Equal(t, 12.0, result.PriceChanges[0].CurrentPrice)

	// Nada foi aplicado
	stored, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Stock)
	assert.Empty(t, f.sales.sales)

	// Reconfirmado, o checkout segue com o preço atual do catálogo
	result, err = f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:             "owner-1",
		CashierID:           "cashier-1",
		PaymentMethod:       sale.PaymentCash,
		TenderedAmount:      24,
		ConfirmPriceChanges: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 24.0, result.Sale.Subtotal)
	assert.Equal(t, 24.0, result.Sale.Total)
	assert.Equal(t, 12.0, result.Lines[0].UnitPrice)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Farinha 1kg", 6, 3, 1)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 5)

	_, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 30,
	})

	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	assert.Empty(t, f.sales.sales)
}

func TestCheckout_InactiveProduct(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Produto descontinuado", 9, 10, 1)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 1)
	p.Deactivate()

	_, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 9,
	})

	assert.ErrorIs(t, err, product.ErrProductUnavailable)
}

func TestCheckout_InvalidCoupon(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Chocolate", 8, 10, 1)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 1)

	c, err := coupon.NewCoupon("DEAD", coupon.DiscountFixed, 5)
	require.NoError(t, err)
	c.Active = false
	require.NoError(t, f.coupons.Create(ctx, c))

	result, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 8,
		CouponCode:     "DEAD",
	})

	require.ErrorIs(t, err, coupon.ErrInvalidCoupon)
	require.NotNil(t, result)
	assert.Contains(t, result.CouponViolations, coupon.ViolationInactive)

	// Venda não acontece e o carrinho permanece intacto
	assert.Empty(t, f.sales.sales)
	remaining, err := f.carts.FindActiveByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestCheckout_CouponNotFound(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Biscoito", 4, 10, 1)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 1)

	_, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 4,
		CouponCode:     "NOPE",
	})

	assert.Error(t, err)
	assert.Empty(t, f.sales.sales)
}

func TestCheckout_LowStockWarning(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Óleo de soja", 7, 4, 4)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 1)

	result, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentDebitCard,
		TenderedAmount: 7,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Óleo de soja"}, result.LowStockProducts)
	assert.Equal(t, 1, f.products.unresolvedAlerts(p.ID))
}

func TestCheckout_LowStockAlertNotDuplicated(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Óleo de soja", 7, 4, 4)
	f := newCheckoutFixture(p)

	// Duas vendas seguidas abaixo do mínimo geram um único alerta aberto
	for i := 0; i < 2; i++ {
		f.addToCart(t, "owner-1", p, 1)
		_, err := f.svc.Checkout(ctx, CheckoutInput{
			OwnerID:        "owner-1",
			CashierID:      "cashier-1",
			PaymentMethod:  sale.PaymentCash,
			TenderedAmount: 7,
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, f.products.unresolvedAlerts(p.ID))
}

func TestCheckout_LastUnitContention(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Panetone", 30, 1, 0)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 1)
	f.addToCart(t, "owner-2", p, 1)

	// Dois caixas disputando a última unidade: apenas um fecha a venda
	_, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 30,
	})
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-2",
		CashierID:      "cashier-2",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 30,
	})
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	assert.Len(t, f.sales.sales, 1)
}

func TestCheckout_MidCommitFailureLeavesNoPartialState(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 2)

	c, err := coupon.NewCoupon("SAVE10", coupon.DiscountPercentage, 10)
	require.NoError(t, err)
	require.NoError(t, f.coupons.Create(ctx, c))

	// Falha no acúmulo de pontos, depois de estoque, venda e cupom já
	// terem sido aplicados dentro da transação
	f.loyalties.failAccrue = errors.New("conexão perdida")

	_, err = f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		ClientID:       "client-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 20,
		CouponCode:     "SAVE10",
	})
	require.Error(t, err)

	// Nenhum estado parcial observável: estoque, venda, cupom, pontos e
	// carrinho voltam ao estado anterior ao checkout
	stored, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Stock)
	assert.Empty(t, f.sales.sales)

	restoredCoupon, err := f.coupons.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Zero(t, restoredCoupon.UsageCount)
	usages, err := f.coupons.ListUsages(ctx, c.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, usages)

	assert.Empty(t, f.loyalties.accounts)

	remaining, err := f.carts.FindActiveByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	movements, err := f.products.ListMovements(ctx, p.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movements)

	// Com a falha removida, o mesmo checkout conclui normalmente
	f.loyalties.failAccrue = nil
	result, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		ClientID:       "client-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 20,
		CouponCode:     "SAVE10",
	})
	require.NoError(t, err)
	assert.Equal(t, 18.0, result.Sale.Total)
}

func TestCheckout_InsufficientPayment(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Queijo", 30, 10, 1)
	f := newCheckoutFixture(p)
	f.addToCart(t, "owner-1", p, 1)

	_, err := f.svc.Checkout(ctx, CheckoutInput{
		OwnerID:        "owner-1",
		CashierID:      "cashier-1",
		PaymentMethod:  sale.PaymentCash,
		TenderedAmount: 29.99,
	})

	assert.ErrorIs(t, err, sale.ErrInsufficientPayment)
	stored, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Stock)
}
