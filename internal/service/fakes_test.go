package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/cart"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/coupon"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/loyalty"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/refund"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/jackc/pgx/v5"
)

// txStore é implementado pelos repositórios de teste que participam da
// transação simulada: snapshot devolve a função que restaura o estado
// anterior
type txStore interface {
	snapshot() (restore func())
}

// fakeTransactor executa a função diretamente, sem banco, com a mesma
// semântica tudo-ou-nada da transação real: em caso de erro, o estado
// de todos os repositórios participantes é restaurado. O tx recebido
// pelos repositórios de teste é sempre nil e é ignorado por eles.
type fakeTransactor struct {
	stores []txStore
}

func (f *fakeTransactor) Transaction(_ context.Context, txFunc func(tx pgx.Tx) error) error {
	restores := make([]func(), 0, len(f.stores))
	for _, s := range f.stores {
		restores = append(restores, s.snapshot())
	}

	if err := txFunc(nil); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}

// fakeProductRepo guarda produtos em memória e reproduz as guardas
// atômicas de estoque do repositório real
type fakeProductRepo struct {
	products  map[string]*product.Product
	movements []*product.StockMovement
	alerts    []*product.StockAlert
}

func newFakeProductRepo(products ...*product.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*product.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, sku string) (*product.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (r *fakeProductRepo) List(_ context.Context, _, _ int) ([]*product.Product, error) {
	var out []*product.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Count(_ context.Context) (int, error) {
	return len(r.products), nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *product.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) UpdateStatus(_ context.Context, id string, active bool) error {
	p, ok := r.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Active = active
	return nil
}

func (r *fakeProductRepo) ReserveOnSale(_ context.Context, _ pgx.Tx, productID string, qty int, saleRef string) (*product.StockChange, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if p.Stock < qty {
		return nil, product.ErrInsufficientStock
	}
	p.Stock -= qty
	r.record(p, -qty, product.CauseSale, saleRef)
	return &product.StockChange{ProductID: productID, Delta: -qty, NewStock: p.Stock, MinStock: p.MinStock}, nil
}

func (r *fakeProductRepo) RestoreOnRefund(_ context.Context, _ pgx.Tx, productID string, qty int, refundRef string) (*product.StockChange, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	p.Stock += qty
	r.record(p, qty, product.CauseRefund, refundRef)
	return &product.StockChange{ProductID: productID, Delta: qty, NewStock: p.Stock, MinStock: p.MinStock}, nil
}

func (r *fakeProductRepo) Adjust(_ context.Context, productID string, delta int, reason string) (*product.StockChange, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return nil, product.ErrNegativeStock
	}
	p.Stock += delta
	r.record(p, delta, product.CauseManual, reason)
	return &product.StockChange{ProductID: productID, Delta: delta, NewStock: p.Stock, MinStock: p.MinStock}, nil
}

func (r *fakeProductRepo) ListMovements(_ context.Context, productID string, _, _ int) ([]*product.StockMovement, error) {
	var out []*product.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListAlerts(_ context.Context, onlyUnresolved bool, _, _ int) ([]*product.StockAlert, error) {
	var out []*product.StockAlert
	for _, a := range r.alerts {
		if !onlyUnresolved || !a.Resolved {
			out = append(out, a)
		}
	}
	return out, nil
}

// record registra a movimentação e reavalia o alerta de estoque baixo,
// com no máximo um alerta não resolvido por produto
func (r *fakeProductRepo) record(p *product.Product, delta int, cause product.MovementCause, ref string) {
	r.movements = append(r.movements, &product.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      p.ID,
		Delta:          delta,
		ResultingStock: p.Stock,
		Cause:          cause,
		ReferenceID:    ref,
		CreatedAt:      time.Now(),
	})

	var open *product.StockAlert
	for _, a := range r.alerts {
		if a.ProductID == p.ID && !a.Resolved {
			open = a
			break
		}
	}

	if p.Stock < p.MinStock {
		if open == nil {
			r.alerts = append(r.alerts, &product.StockAlert{
				ID:        uuid.New().String(),
				ProductID: p.ID,
				AlertType: product.AlertLowStock,
				CreatedAt: time.Now(),
			})
		}
	} else if open != nil {
		now := time.Now()
		open.Resolved = true
		open.ResolvedAt = &now
	}
}

func (r *fakeProductRepo) snapshot() func() {
	products := make(map[string]*product.Product, len(r.products))
	for id, p := range r.products {
		copied := *p
		products[id] = &copied
	}
	movements := append([]*product.StockMovement(nil), r.movements...)
	alerts := make([]*product.StockAlert, 0, len(r.alerts))
	for _, a := range r.alerts {
		copied := *a
		alerts = append(alerts, &copied)
	}
	return func() {
		r.products = products
		r.movements = movements
		r.alerts = alerts
	}
}

func (r *fakeProductRepo) unresolvedAlerts(productID string) int {
	count := 0
	for _, a := range r.alerts {
		if a.ProductID == productID && !a.Resolved {
			count++
		}
	}
	return count
}

// fakeCartRepo guarda itens de carrinho em memória com remoção lógica
type fakeCartRepo struct {
	lines []*cart.Line
}

func (r *fakeCartRepo) Create(_ context.Context, l *cart.Line) error {
	r.lines = append(r.lines, l)
	return nil
}

func (r *fakeCartRepo) FindActiveByOwner(_ context.Context, ownerID string) ([]*cart.Line, error) {
	var out []*cart.Line
	for _, l := range r.lines {
		if l.OwnerID == ownerID && l.RemovedAt == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) FindLineByID(_ context.Context, ownerID, lineID string) (*cart.Line, error) {
	for _, l := range r.lines {
		if l.ID == lineID && l.OwnerID == ownerID && l.RemovedAt == nil {
			return l, nil
		}
	}
	return nil, repository.ErrCartLineNotFound
}

func (r *fakeCartRepo) FindLineByProduct(_ context.Context, ownerID, productID string) (*cart.Line, error) {
	for _, l := range r.lines {
		if l.ProductID == productID && l.OwnerID == ownerID && l.RemovedAt == nil {
			return l, nil
		}
	}
	return nil, repository.ErrCartLineNotFound
}

func (r *fakeCartRepo) UpdateQuantity(_ context.Context, l *cart.Line) error {
	for i, existing := range r.lines {
		if existing.ID == l.ID && existing.RemovedAt == nil {
			r.lines[i] = l
			return nil
		}
	}
	return repository.ErrCartLineNotFound
}

func (r *fakeCartRepo) SoftRemove(_ context.Context, ownerID, lineID string) error {
	for _, l := range r.lines {
		if l.ID == lineID && l.OwnerID == ownerID && l.RemovedAt == nil {
			now := time.Now()
			l.RemovedAt = &now
			return nil
		}
	}
	return repository.ErrCartLineNotFound
}

func (r *fakeCartRepo) SoftRemoveAll(_ context.Context, ownerID string) error {
	now := time.Now()
	for _, l := range r.lines {
		if l.OwnerID == ownerID && l.RemovedAt == nil {
			l.RemovedAt = &now
		}
	}
	return nil
}

func (r *fakeCartRepo) SoftRemoveAllTx(ctx context.Context, _ pgx.Tx, ownerID string) error {
	return r.SoftRemoveAll(ctx, ownerID)
}

func (r *fakeCartRepo) snapshot() func() {
	lines := make([]*cart.Line, 0, len(r.lines))
	for _, l := range r.lines {
		copied := *l
		lines = append(lines, &copied)
	}
	return func() { r.lines = lines }
}

// fakeCouponRepo guarda cupons em memória e reproduz a guarda atômica
// de limite de uso do resgate
type fakeCouponRepo struct {
	coupons map[string]*coupon.Coupon
	usages  []*coupon.Usage
}

func newFakeCouponRepo(coupons ...*coupon.Coupon) *fakeCouponRepo {
	r := &fakeCouponRepo{coupons: make(map[string]*coupon.Coupon)}
	for _, c := range coupons {
		r.coupons[c.Code] = c
	}
	return r
}

func (r *fakeCouponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	if _, ok := r.coupons[c.Code]; ok {
		return repository.ErrCouponDuplicateCode
	}
	r.coupons[c.Code] = c
	return nil
}

func (r *fakeCouponRepo) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := r.coupons[code]
	if !ok {
		return nil, repository.ErrCouponNotFound
	}
	return c, nil
}

func (r *fakeCouponRepo) List(_ context.Context, _, _ int) ([]*coupon.Coupon, error) {
	var out []*coupon.Coupon
	for _, c := range r.coupons {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCouponRepo) Count(_ context.Context) (int, error) {
	return len(r.coupons), nil
}

func (r *fakeCouponRepo) HasClientUsage(_ context.Context, couponID, clientID string) (bool, error) {
	for _, u := range r.usages {
		if u.CouponID == couponID && u.ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCouponRepo) RedeemTx(_ context.Context, _ pgx.Tx, couponID string, usage *coupon.Usage) error {
	for _, c := range r.coupons {
		if c.ID == couponID {
			if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
				return coupon.ErrUsageLimitReached
			}
			c.UsageCount++
			r.usages = append(r.usages, usage)
			return nil
		}
	}
	return repository.ErrCouponNotFound
}

func (r *fakeCouponRepo) snapshot() func() {
	coupons := make(map[string]*coupon.Coupon, len(r.coupons))
	for code, c := range r.coupons {
		copied := *c
		coupons[code] = &copied
	}
	usages := append([]*coupon.Usage(nil), r.usages...)
	return func() {
		r.coupons = coupons
		r.usages = usages
	}
}

func (r *fakeCouponRepo) ListUsages(_ context.Context, couponID string, _, _ int) ([]*coupon.Usage, error) {
	var out []*coupon.Usage
	for _, u := range r.usages {
		if u.CouponID == couponID {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeSaleRepo guarda vendas em memória
type fakeSaleRepo struct {
	sales map[string]*sale.Sale
	lines map[string][]*sale.Line
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales: make(map[string]*sale.Sale),
		lines: make(map[string][]*sale.Line),
	}
}

func (r *fakeSaleRepo) CreateTx(_ context.Context, _ pgx.Tx, s *sale.Sale, lines []*sale.Line) error {
	r.sales[s.ID] = s
	r.lines[s.ID] = lines
	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id string) (*sale.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) FindByIDForUpdateTx(ctx context.Context, _ pgx.Tx, id string) (*sale.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSaleRepo) FindLines(_ context.Context, saleID string) ([]*sale.Line, error) {
	return r.lines[saleID], nil
}

func (r *fakeSaleRepo) FindLinesTx(ctx context.Context, _ pgx.Tx, saleID string) ([]*sale.Line, error) {
	return r.FindLines(ctx, saleID)
}

func (r *fakeSaleRepo) List(_ context.Context, _, _ int) ([]*sale.Sale, error) {
	var out []*sale.Sale
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSaleRepo) Count(_ context.Context) (int, error) {
	return len(r.sales), nil
}

func (r *fakeSaleRepo) UpdateStatusTx(_ context.Context, _ pgx.Tx, id string, status sale.Status) error {
	s, ok := r.sales[id]
	if !ok {
		return repository.ErrSaleNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSaleRepo) snapshot() func() {
	sales := make(map[string]*sale.Sale, len(r.sales))
	for id, s := range r.sales {
		copied := *s
		sales[id] = &copied
	}
	lines := make(map[string][]*sale.Line, len(r.lines))
	for id, ls := range r.lines {
		lines[id] = append([]*sale.Line(nil), ls...)
	}
	return func() {
		r.sales = sales
		r.lines = lines
	}
}

// fakeRefundRepo guarda devoluções em memória
type fakeRefundRepo struct {
	refunds []*refund.Refund
	lines   map[string][]*refund.Line
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{lines: make(map[string][]*refund.Line)}
}

func (r *fakeRefundRepo) CreateTx(_ context.Context, _ pgx.Tx, rf *refund.Refund, lines []*refund.Line) error {
	r.refunds = append(r.refunds, rf)
	r.lines[rf.ID] = lines
	return nil
}

func (r *fakeRefundRepo) RefundedQuantitiesTx(_ context.Context, _ pgx.Tx, saleID string) (map[string]int, error) {
	refunded := make(map[string]int)
	for _, rf := range r.refunds {
		if rf.SaleID != saleID || rf.Status != refund.StatusCompleted {
			continue
		}
		for _, l := range r.lines[rf.ID] {
			refunded[l.ProductID] += l.Quantity
		}
	}
	return refunded, nil
}

func (r *fakeRefundRepo) FindByID(_ context.Context, id string) (*refund.Refund, []*refund.Line, error) {
	for _, rf := range r.refunds {
		if rf.ID == id {
			return rf, r.lines[rf.ID], nil
		}
	}
	return nil, nil, repository.ErrRefundNotFound
}

func (r *fakeRefundRepo) ListBySale(_ context.Context, saleID string) ([]*refund.Refund, map[string][]*refund.Line, error) {
	var out []*refund.Refund
	linesByRefund := make(map[string][]*refund.Line)
	for _, rf := range r.refunds {
		if rf.SaleID == saleID {
			out = append(out, rf)
			linesByRefund[rf.ID] = r.lines[rf.ID]
		}
	}
	return out, linesByRefund, nil
}

func (r *fakeRefundRepo) snapshot() func() {
	refunds := append([]*refund.Refund(nil), r.refunds...)
	lines := make(map[string][]*refund.Line, len(r.lines))
	for id, ls := range r.lines {
		lines[id] = append([]*refund.Line(nil), ls...)
	}
	return func() {
		r.refunds = refunds
		r.lines = lines
	}
}

// fakeLoyaltyRepo guarda contas de fidelidade em memória. failAccrue,
// quando definido, faz o acúmulo falhar para simular uma falha de
// infraestrutura no meio da transação.
type fakeLoyaltyRepo struct {
	accounts   map[string]*loyalty.Account
	movements  []*loyalty.Movement
	failAccrue error
}

func newFakeLoyaltyRepo() *fakeLoyaltyRepo {
	return &fakeLoyaltyRepo{accounts: make(map[string]*loyalty.Account)}
}

func (r *fakeLoyaltyRepo) AccrueTx(_ context.Context, _ pgx.Tx, clientID string, points int, saleID string) error {
	if r.failAccrue != nil {
		return r.failAccrue
	}
	a, ok := r.accounts[clientID]
	if !ok {
		a = &loyalty.Account{ClientID: clientID}
		r.accounts[clientID] = a
	}
	a.Points += points
	a.UpdatedAt = time.Now()
	r.movements = append(r.movements, loyalty.NewMovement(clientID, loyalty.MovementAccrual, points, saleID))
	return nil
}

func (r *fakeLoyaltyRepo) Redeem(_ context.Context, clientID string, points int, reason string) error {
	a, ok := r.accounts[clientID]
	if !ok || a.Points < points {
		return loyalty.ErrInsufficientPoints
	}
	a.Points -= points
	a.UpdatedAt = time.Now()
	r.movements = append(r.movements, loyalty.NewMovement(clientID, loyalty.MovementRedemption, -points, reason))
	return nil
}

func (r *fakeLoyaltyRepo) FindByClient(_ context.Context, clientID string) (*loyalty.Account, error) {
	a, ok := r.accounts[clientID]
	if !ok {
		return nil, repository.ErrLoyaltyAccountNotFound
	}
	return a, nil
}

func (r *fakeLoyaltyRepo) snapshot() func() {
	accounts := make(map[string]*loyalty.Account, len(r.accounts))
	for id, a := range r.accounts {
		copied := *a
		accounts[id] = &copied
	}
	movements := append([]*loyalty.Movement(nil), r.movements...)
	return func() {
		r.accounts = accounts
		r.movements = movements
	}
}

func (r *fakeLoyaltyRepo) ListMovements(_ context.Context, clientID string, _, _ int) ([]*loyalty.Movement, error) {
	var out []*loyalty.Movement
	for _, m := range r.movements {
		if m.ClientID == clientID {
			out = append(out, m)
		}
	}
	return out, nil
}
