package service

import (
	"context"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/cache"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/refund"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/event"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// RefundItemInput é um item solicitado em uma devolução parcial
type RefundItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// RefundInput são os dados de entrada de uma devolução
type RefundInput struct {
	SaleID string            `json:"sale_id"`
	Type   refund.Type       `json:"type"`
	Reason string            `json:"reason"`
	Items  []RefundItemInput `json:"items,omitempty"` // Obrigatório no tipo partial
}

// RefundResult é o resultado de uma devolução concluída
type RefundResult struct {
	Refund       *refund.Refund `json:"refund"`
	Lines        []*refund.Line `json:"lines"`
	SaleRefunded bool           `json:"sale_refunded"` // Venda ficou totalmente devolvida
}

// RefundService conduz devoluções totais e parciais. Toda a avaliação
// acontece com a venda bloqueada dentro da transação: a soma do já
// devolvido, a gravação da nova devolução e o estorno de estoque
// enxergam sempre um estado consistente, mesmo sob devoluções
// concorrentes.
type RefundService struct {
	tx        Transactor
	sales     sale.Repository
	refunds   refund.Repository
	products  product.Repository
	publisher event.Publisher
	cache     cache.ProductCache
	logger    logger.Logger
}

// NewRefundService cria uma nova instância de RefundService
func NewRefundService(
	tx Transactor,
	sales sale.Repository,
	refunds refund.Repository,
	products product.Repository,
	publisher event.Publisher,
	productCache cache.ProductCache,
	log logger.Logger,
) *RefundService {
	return &RefundService{
		tx:        tx,
		sales:     sales,
		refunds:   refunds,
		products:  products,
		publisher: publisher,
		cache:     productCache,
		logger:    log,
	}
}

// Refund executa uma devolução total ou parcial de uma venda. Pontos de
// fidelidade acumulados na venda original não são estornados.
func (s *RefundService) Refund(ctx context.Context, input RefundInput) (*RefundResult, error) {
	if input.Type != refund.TypeFull && input.Type != refund.TypePartial {
		return nil, refund.ErrInvalidType
	}
	if input.Type == refund.TypePartial && len(input.Items) == 0 {
		return nil, refund.ErrEmptyItems
	}

	var result *RefundResult
	err := s.tx.Transaction(ctx, func(tx pgx.Tx) error {
		orig, err := s.sales.FindByIDForUpdateTx(ctx, tx, input.SaleID)
		if err != nil {
			return err
		}
		if orig.Status == sale.StatusRefunded {
			return refund.ErrAlreadyFullyRefunded
		}

		saleLines, err := s.sales.FindLinesTx(ctx, tx, input.SaleID)
		if err != nil {
			return err
		}
		refunded, err := s.refunds.RefundedQuantitiesTx(ctx, tx, input.SaleID)
		if err != nil {
			return err
		}

		byProduct := make(map[string]*sale.Line, len(saleLines))
		available := make(map[string]int, len(saleLines))
		for _, l := range saleLines {
			byProduct[l.ProductID] = l
			available[l.ProductID] = l.Quantity - refunded[l.ProductID]
		}

		items, err := resolveRefundItems(input, saleLines, available)
		if err != nil {
			return err
		}

		rf, err := refund.NewRefund(input.SaleID, input.Type, input.Reason)
		if err != nil {
			return err
		}

		var lines []*refund.Line
		var total float64
		for _, it := range items {
			sl := byProduct[it.ProductID]
			line := refund.NewLine(rf.ID, sl.ProductID, sl.ProductName, it.Quantity, sl.UnitPrice)
			lines = append(lines, line)
			total += line.Subtotal
		}
		rf.TotalAmount = sale.Round(total)

		if err := s.refunds.CreateTx(ctx, tx, rf, lines); err != nil {
			return err
		}

		for _, l := range lines {
			if _, err := s.products.RestoreOnRefund(ctx, tx, l.ProductID, l.Quantity, rf.ID); err != nil {
				return err
			}
			available[l.ProductID] -= l.Quantity
		}

		saleRefunded := true
		for _, remaining := range available {
			if remaining > 0 {
				saleRefunded = false
				break
			}
		}
		if saleRefunded {
			if err := s.sales.UpdateStatusTx(ctx, tx, input.SaleID, sale.StatusRefunded); err != nil {
				return err
			}
		}

		result = &RefundResult{Refund: rf, Lines: lines, SaleRefunded: saleRefunded}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterRefund(ctx, result)
	return result, nil
}

// resolveRefundItems determina as quantidades a devolver por produto.
// No tipo full, devolve tudo o que ainda resta; no partial, valida os
// itens solicitados contra o disponível. Itens repetidos do mesmo
// produto são somados antes da validação: a soma nunca pode exceder o
// disponível.
func resolveRefundItems(input RefundInput, saleLines []*sale.Line, available map[string]int) ([]RefundItemInput, error) {
	if input.Type == refund.TypeFull {
		var items []RefundItemInput
		for _, l := range saleLines {
			if available[l.ProductID] > 0 {
				items = append(items, RefundItemInput{ProductID: l.ProductID, Quantity: available[l.ProductID]})
			}
		}
		if len(items) == 0 {
			return nil, refund.ErrNothingToRefund
		}
		return items, nil
	}

	requested := make(map[string]int, len(input.Items))
	var order []string
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			return nil, refund.ErrInvalidQuantity
		}
		avail, ok := available[it.ProductID]
		if !ok {
			return nil, refund.ErrLineNotInSale
		}
		if requested[it.ProductID] == 0 {
			order = append(order, it.ProductID)
		}
		requested[it.ProductID] += it.Quantity
		if requested[it.ProductID] > avail {
			return nil, refund.ErrRefundExceedsAvailable
		}
	}

	items := make([]RefundItemInput, 0, len(order))
	for _, id := range order {
		items = append(items, RefundItemInput{ProductID: id, Quantity: requested[id]})
	}
	return items, nil
}

// afterRefund executa os efeitos pós-commit: publicação do evento e
// invalidação do cache de catálogo. Falhas aqui nunca desfazem a
// devolução.
func (s *RefundService) afterRefund(ctx context.Context, result *RefundResult) {
	ev := event.RefundCompleted{
		RefundID:     result.Refund.ID,
		SaleID:       result.Refund.SaleID,
		Type:         string(result.Refund.Type),
		TotalAmount:  result.Refund.TotalAmount,
		SaleRefunded: result.SaleRefunded,
		OccurredAt:   time.Now(),
	}
	if err := s.publisher.PublishRefundCompleted(ctx, ev); err != nil {
		s.logger.Error("erro ao publicar evento de devolução", "refund_id", result.Refund.ID, "error", err)
	}

	for _, l := range result.Lines {
		if err := s.cache.Invalidate(ctx, l.ProductID); err != nil {
			s.logger.Warn("erro ao invalidar cache de produto", "product_id", l.ProductID, "error", err)
		}
	}
}

// GetRefund busca uma devolução pelo ID, com seus itens
func (s *RefundService) GetRefund(ctx context.Context, id string) (*refund.Refund, []*refund.Line, error) {
	return s.refunds.FindByID(ctx, id)
}

// ListBySale lista as devoluções de uma venda, com seus itens
func (s *RefundService) ListBySale(ctx context.Context, saleID string) ([]*refund.Refund, map[string][]*refund.Line, error) {
	return s.refunds.ListBySale(ctx, saleID)
}
