package service

import (
	"context"
	"testing"

	"github.com/hugohenrick/pdv-supermercado/internal/cache"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/refund"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/event"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refundFixture struct {
	products *fakeProductRepo
	sales    *fakeSaleRepo
	refunds  *fakeRefundRepo
	svc      *RefundService
}

func newRefundFixture(products ...*product.Product) *refundFixture {
	f := &refundFixture{
		products: newFakeProductRepo(products...),
		sales:    newFakeSaleRepo(),
		refunds:  newFakeRefundRepo(),
	}
	tx := &fakeTransactor{stores: []txStore{f.products, f.sales, f.refunds}}
	f.svc = NewRefundService(tx, f.sales, f.refunds, f.products,
		event.NoopPublisher{}, cache.NoopProductCache{}, logger.NewLogger())
	return f
}

// seedSale grava uma venda concluída e debita o estoque correspondente,
// como o checkout teria feito
func (f *refundFixture) seedSale(t *testing.T, items map[*product.Product]int) *sale.Sale {
	t.Helper()
	ctx := context.Background()

	var subtotal float64
	for p, qty := range items {
		subtotal += p.Price * float64(qty)
	}

	s, err := sale.NewSale("cashier-1", "client-1", "", subtotal, 0, 0, subtotal, sale.PaymentCash, "")
	require.NoError(t, err)

	var lines []*sale.Line
	for p, qty := range items {
		lines = append(lines, sale.NewLine(s.ID, p.ID, p.Name, qty, p.Price))
		_, err := f.products.ReserveOnSale(ctx, nil, p.ID, qty, s.ID)
		require.NoError(t, err)
	}
	require.NoError(t, f.sales.CreateTx(ctx, nil, s, lines))
	return s
}

func TestRefund_Partial(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newRefundFixture(p)
	s := f.seedSale(t, map[*product.Product]int{p: 5})

	result, err := f.svc.Refund(ctx, RefundInput{
		SaleID: s.ID,
		Type:   refund.TypePartial,
		Reason: "embalagem danificada",
		Items:  []RefundItemInput{{ProductID: p.ID, Quantity: 2}},
	})

	require.NoError(t, err)
	assert.Equal(t, refund.StatusCompleted, result.Refund.Status)
	assert.Equal(t, 20.0, result.Refund.TotalAmount)
	assert.False(t, result.SaleRefunded)
	assert.Equal(t, sale.StatusCompleted, s.Status)

	// Estoque devolvido: 10 - 5 + 2
	stored, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Stock)
}

func TestRefund_PartialExceedsAvailable(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newRefundFixture(p)
	s := f.seedSale(t, map[*product.Product]int{p: 5})

	_, err := f.svc.Refund(ctx, RefundInput{
		SaleID: s.ID,
		Type:   refund.TypePartial,
		Reason: "defeito",
		Items:  []RefundItemInput{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// Restam 3 unidades devolvíveis; pedir 4 excede
	_, err = f.svc.Refund(ctx, RefundInput{
		SaleID: s.ID,
		Type:   refund.TypePartial,
		Reason: "defeito",
		Items:  []RefundItemInput{{ProductID: p.ID, Quantity: 4}},
	})

	assert.ErrorIs(t, err, refund.ErrRefundExceedsAvailable)
	stored, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Stock)
}

func TestRefund_PartialDuplicateItemsExceedAvailable(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newRefundFixture(p)
	s := f.seedSale(t, map[*product.Product]int{p: 5})

	// O mesmo produto repetido na requisição soma 6 contra 5 vendidos
	_, err := f.svc.Refund(ctx, RefundInput{
		SaleID: s.ID,
		Type:   refund.TypePartial,
		Reason: "defeito",
		Items: []RefundItemInput{
			{ProductID: p.ID, Quantity: 3},
			{ProductID: p.ID, Quantity: 3},
		},
	})

	assert.ErrorIs(t, err, refund.ErrRefundExceedsAvailable)

	// Nada foi creditado: o estoque segue o debitado pela venda
	stored, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock)
	assert.Empty(t, f.refunds.refunds)
}

func TestRefund_PartialDuplicateItemsMerged(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newRefundFixture(p)
	s := f.seedSale(t, map[*product.Product]int{p: 5})

	// Itens repetidos dentro do disponível viram uma única linha somada
	result, err := f.svc.Refund(ctx, RefundInput{
		SaleID: s.ID,
		Type:   refund.TypePartial,
		Reason: "defeito",
		Items: []RefundItemInput{
			{ProductID: p.ID, Quantity: 2},
			{ProductID: p.ID, Quantity: 1},
		},
	})

	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, 3, result.Lines[0].Quantity)
	assert.Equal(t, 30.0, result.Refund.TotalAmount)

	// Estoque nunca ultrapassa o nível anterior à venda
	stored, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)
}

func TestRefund_FullAfterPartial(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newRefundFixture(p)
	s := f.seedSale(t, map[*product.Product]int{p: 5})

	_, err := f.svc.Refund(ctx, RefundInput{
		SaleID: s.ID,
		Type:   refund.TypePartial,
		Reason: "defeito",
		Items:  []RefundItemInput{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// Total devolve apenas o que resta (3 unidades)
	result, err := f.svc.Refund(ctx, RefundInput{
		SaleID: s.ID,
		Type:   refund.TypeFull,
		Reason: "desistência",
	})

	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, 3, result.Lines[0].Quantity)
	assert.Equal(t, 30.0, result.Refund.TotalAmount)
	assert.True(t, result.SaleRefunded)
	assert.Equal(t, sale.StatusRefunded, s.Status)

	// Estoque integralmente restaurado
	stored, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Stock)
}

func TestRefund_AlreadyFullyRefunded(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newRefundFixture(p)
	s := f.seedSale(t, map[*product.Product]int{p: 2})

	_, err := f.svc.Refund(ctx, RefundInput{SaleID: s.ID, Type: refund.TypeFull, Reason: "desistência"})
	require.NoError(t, err)

	_, err = f.svc.Refund(ctx, RefundInput{SaleID: s.ID, Type: refund.TypeFull, Reason: "desistência"})
	assert.ErrorIs(t, err, refund.ErrAlreadyFullyRefunded)
}

func TestRefund_FullMarksSaleRefunded(t *testing.T) {
	ctx := context.Background()
	a := mustProduct(t, "SKU-1", "Arroz 5kg", 20, 10, 2)
	b := mustProduct(t, "SKU-2", "Feijão 1kg", 8, 10, 2)
	f := newRefundFixture(a, b)
	s := f.seedSale(t, map[*product.Product]int{a: 1, b: 2})

	result, err := f.svc.Refund(ctx, RefundInput{SaleID: s.ID, Type: refund.TypeFull, Reason: "desistência"})

	require.NoError(t, err)
	assert.Len(t, result.Lines, 2)
	assert.Equal(t, 36.0, result.Refund.TotalAmount)
	assert.True(t, result.SaleRefunded)
	assert.Equal(t, sale.StatusRefunded, s.Status)
}

func TestRefund_PartialThatCompletesSale(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newRefundFixture(p)
	s := f.seedSale(t, map[*product.Product]int{p: 2})

	// Devolução parcial que esgota o restante também fecha a venda
	result, err := f.svc.Refund(ctx, RefundInput{
		SaleID: s.ID,
		Type:   refund.TypePartial,
		Reason: "defeito",
		Items:  []RefundItemInput{{ProductID: p.ID, Quantity: 2}},
	})

	require.NoError(t, err)
	assert.True(t, result.SaleRefunded)
	assert.Equal(t, sale.StatusRefunded, s.Status)
}

func TestRefund_LineNotInSale(t *testing.T) {
	ctx := context.Background()
	p := mustProduct(t, "SKU-1", "Café 500g", 10, 10, 2)
	f := newRefundFixture(p)
	s := f.seedSale(t, map[*product.Product]int{p: 2})

	_, err := f.svc.Refund(ctx, RefundInput{
		SaleID: s.ID,
		Type:   refund.TypePartial,
		Reason: "defeito",
		Items:  []RefundItemInput{{ProductID: "outro-produto", Quantity: 1}},
	})

	assert.ErrorIs(t, err, refund.ErrLineNotInSale)
}

func TestRefund_InvalidInput(t *testing.T) {
	f := newRefundFixture()

	_, err := f.svc.Refund(context.Background(), RefundInput{SaleID: "s", Type: refund.Type("void")})
	assert.ErrorIs(t, err, refund.ErrInvalidType)

	_, err = f.svc.Refund(context.Background(), RefundInput{SaleID: "s", Type: refund.TypePartial})
	assert.ErrorIs(t, err, refund.ErrEmptyItems)

	_, err = f.svc.Refund(context.Background(), RefundInput{
		SaleID: "s",
		Type:   refund.TypePartial,
		Items:  []RefundItemInput{{ProductID: "p", Quantity: 0}},
	})
	assert.Error(t, err)
}

func TestRefund_SaleNotFound(t *testing.T) {
	f := newRefundFixture()

	_, err := f.svc.Refund(context.Background(), RefundInput{
		SaleID: "inexistente",
		Type:   refund.TypeFull,
		Reason: "desistência",
	})

	assert.Error(t, err)
}
