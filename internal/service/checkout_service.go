package service

import (
	"context"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/cache"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/cart"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/coupon"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/loyalty"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/event"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// TaxCalculator é o gancho de cálculo de imposto sobre a base tributável
// (subtotal menos desconto). A implementação padrão retorna zero.
type TaxCalculator interface {
	Calculate(taxableAmount float64) float64
}

// ZeroTaxCalculator não aplica imposto
type ZeroTaxCalculator struct{}

// Calculate retorna zero para qualquer base
func (ZeroTaxCalculator) Calculate(_ float64) float64 { return 0 }

// CheckoutInput são os dados de entrada do checkout
type CheckoutInput struct {
	OwnerID             string             // Dono do carrinho
	CashierID           string             // Operador do caixa
	ClientID            string             // Cliente identificado (opcional)
	BranchID            string             // Filial (opcional)
	PaymentMethod       sale.PaymentMethod // Forma de pagamento
	TenderedAmount      float64            // Valor entregue pelo cliente
	CouponCode          string             // Código de cupom (opcional)
	ConfirmPriceChanges bool               // Aceita divergências de preço apontadas antes
}

// PriceChange descreve a divergência entre o preço congelado no carrinho
// e o preço atual do catálogo
type PriceChange struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	CartPrice    float64 `json:"cart_price"`
	CurrentPrice float64 `json:"current_price"`
}

// CheckoutResult é o resultado do checkout. Em caso de divergência de
// preço não confirmada, PriceChanges vem preenchido junto com o erro
// sale.ErrPriceChanged para o chamador reexibir o carrinho.
type CheckoutResult struct {
	Sale             *sale.Sale         `json:"sale,omitempty"`
	Lines            []*sale.Line       `json:"lines,omitempty"`
	PriceChanges     []PriceChange      `json:"price_changes,omitempty"`
	CouponViolations []coupon.Violation `json:"coupon_violations,omitempty"`
	LoyaltyPoints    int                `json:"loyalty_points"`
	LowStockProducts []string           `json:"low_stock_products,omitempty"`
}

// CheckoutService conduz o fechamento da venda: valida o carrinho,
// calcula os totais e aplica tudo (venda, baixa de estoque, resgate de
// cupom, pontos e limpeza do carrinho) em uma única transação. Nenhum
// estado parcial é observável em caso de falha.
type CheckoutService struct {
	tx        Transactor
	carts     cart.Repository
	products  product.Repository
	coupons   coupon.Repository
	sales     sale.Repository
	loyalties loyalty.Repository
	taxes     TaxCalculator
	publisher event.Publisher
	cache     cache.ProductCache
	logger    logger.Logger
}

// NewCheckoutService cria uma nova instância de CheckoutService
func NewCheckoutService(
	tx Transactor,
	carts cart.Repository,
	products product.Repository,
	coupons coupon.Repository,
	sales sale.Repository,
	loyalties loyalty.Repository,
	taxes TaxCalculator,
	publisher event.Publisher,
	productCache cache.ProductCache,
	log logger.Logger,
) *CheckoutService {
	if taxes == nil {
		taxes = ZeroTaxCalculator{}
	}
	return &CheckoutService{
		tx:        tx,
		carts:     carts,
		products:  products,
		coupons:   coupons,
		sales:     sales,
		loyalties: loyalties,
		taxes:     taxes,
		publisher: publisher,
		cache:     productCache,
		logger:    log,
	}
}

// Checkout fecha a venda do carrinho do dono informado
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	// Validação: recarrega cada item contra o catálogo atual
	lines, err := s.carts.FindActiveByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, sale.ErrEmptyCart
	}

	catalog := make(map[string]*product.Product, len(lines))
	var priceChanges []PriceChange
	for _, l := range lines {
		p, err := s.products.FindByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive() {
			return nil, product.ErrProductUnavailable
		}
		if l.Quantity > p.Stock {
			return nil, product.ErrInsufficientStock
		}
		if p.Price != l.UnitPrice {
			priceChanges = append(priceChanges, PriceChange{
				ProductID:    p.ID,
				ProductName:  p.Name,
				CartPrice:    l.UnitPrice,
				CurrentPrice: p.Price,
			})
		}
		catalog[l.ProductID] = p
	}

	// Divergência de preço é aviso, não falha definitiva: o chamador
	// reconfirma e o checkout segue com os preços atuais do catálogo.
	if len(priceChanges) > 0 && !input.ConfirmPriceChanges {
		return &CheckoutResult{PriceChanges: priceChanges}, sale.ErrPriceChanged
	}
	if input.ConfirmPriceChanges {
		for _, l := range lines {
			if p := catalog[l.ProductID]; p.Price != l.UnitPrice {
				l.UnitPrice = p.Price
				l.Subtotal = cart.LineSubtotal(l.Quantity, p.Price)
			}
		}
	}

	// Precificação
	subtotal := cart.Summarize(lines).Subtotal

	var discount float64
	var appliedCoupon *coupon.Coupon
	if input.CouponCode != "" {
		c, err := s.coupons.FindByCode(ctx, input.CouponCode)
		if err != nil {
			return nil, err
		}
		alreadyUsed := false
		if input.ClientID != "" {
			alreadyUsed, err = s.coupons.HasClientUsage(ctx, c.ID, input.ClientID)
			if err != nil {
				return nil, err
			}
		}
		validation := c.Evaluate(subtotal, input.ClientID, alreadyUsed, time.Now())
		if !validation.Valid {
			return &CheckoutResult{CouponViolations: validation.Violations}, coupon.ErrInvalidCoupon
		}
		discount = validation.Discount
		appliedCoupon = c
	}

	tax := s.taxes.Calculate(sale.Round(subtotal - discount))

	newSale, err := sale.NewSale(input.CashierID, input.ClientID, input.BranchID,
		subtotal, discount, tax, input.TenderedAmount, input.PaymentMethod, input.CouponCode)
	if err != nil {
		return nil, err
	}

	saleLines := make([]*sale.Line, 0, len(lines))
	for _, l := range lines {
		saleLines = append(saleLines, sale.NewLine(newSale.ID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice))
	}

	points := 0
	if input.ClientID != "" {
		points = sale.LoyaltyPoints(newSale.Total)
	}

	// Commit: tudo ou nada
	var lowStock []string
	err = s.tx.Transaction(ctx, func(tx pgx.Tx) error {
		for _, l := range saleLines {
			change, err := s.products.ReserveOnSale(ctx, tx, l.ProductID, l.Quantity, newSale.ID)
			if err != nil {
				return err
			}
			if change.NewStock < change.MinStock {
				lowStock = append(lowStock, l.ProductName)
			}
		}

		if err := s.sales.CreateTx(ctx, tx, newSale, saleLines); err != nil {
			return err
		}

		if appliedCoupon != nil {
			usage := coupon.NewUsage(appliedCoupon.ID, input.ClientID, newSale.ID, discount)
			if err := s.coupons.RedeemTx(ctx, tx, appliedCoupon.ID, usage); err != nil {
				return err
			}
		}

		if points > 0 {
			if err := s.loyalties.AccrueTx(ctx, tx, input.ClientID, points, newSale.ID); err != nil {
				return err
			}
		}

		return s.carts.SoftRemoveAllTx(ctx, tx, input.OwnerID)
	})
	if err != nil {
		return nil, err
	}

	s.afterCheckout(ctx, newSale, saleLines)

	return &CheckoutResult{
		Sale:             newSale,
		Lines:            saleLines,
		LoyaltyPoints:    points,
		LowStockProducts: lowStock,
	}, nil
}

// afterCheckout executa os efeitos pós-commit: publicação do evento e
// invalidação do cache de catálogo. Falhas aqui nunca desfazem a venda.
func (s *CheckoutService) afterCheckout(ctx context.Context, newSale *sale.Sale, lines []*sale.Line) {
	ev := event.SaleCompleted{
		SaleID:         newSale.ID,
		CashierID:      newSale.CashierID,
		ClientID:       newSale.ClientID,
		BranchID:       newSale.BranchID,
		Subtotal:       newSale.Subtotal,
		DiscountAmount: newSale.DiscountAmount,
		TaxAmount:      newSale.TaxAmount,
		Total:          newSale.Total,
		PaymentMethod:  string(newSale.PaymentMethod),
		CouponCode:     newSale.CouponCode,
		OccurredAt:     newSale.CreatedAt,
	}
	for _, l := range lines {
		ev.ItemCount += l.Quantity
	}
	if err := s.publisher.PublishSaleCompleted(ctx, ev); err != nil {
		s.logger.Error("erro ao publicar evento de venda", "sale_id", newSale.ID, "error", err)
	}

	for _, l := range lines {
		if err := s.cache.Invalidate(ctx, l.ProductID); err != nil {
			s.logger.Warn("erro ao invalidar cache de produto", "product_id", l.ProductID, "error", err)
		}
	}
}

// GetSale busca uma venda com seus itens
func (s *CheckoutService) GetSale(ctx context.Context, id string) (*sale.Sale, []*sale.Line, error) {
	found, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.sales.FindLines(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return found, lines, nil
}

// ListSales lista as vendas com paginação
func (s *CheckoutService) ListSales(ctx context.Context, limit, offset int) ([]*sale.Sale, int, error) {
	sales, err := s.sales.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.sales.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}
