package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/refund"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrRefundNotFound = errors.New("devolução não encontrada")
)

// RefundRepository implementa a interface refund.Repository
type RefundRepository struct {
	db *pgxpool.Pool
}

// NewRefundRepository cria uma nova instância de RefundRepository
func NewRefundRepository(db *pgxpool.Pool) refund.Repository {
	return &RefundRepository{
		db: db,
	}
}

// CreateTx implementa refund.Repository.CreateTx
func (r *RefundRepository) CreateTx(ctx context.Context, tx pgx.Tx, rf *refund.Refund, lines []*refund.Line) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO refunds (id, sale_id, type, reason, total_amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rf.ID, rf.SaleID, rf.Type, rf.Reason, rf.TotalAmount, rf.Status, rf.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar devolução: %w", err)
	}

	for _, l := range lines {
		_, err := tx.Exec(ctx,
			`INSERT INTO refund_items (id, refund_id, product_id, product_name, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, l.RefundID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice, l.Subtotal)
		if err != nil {
			return fmt.Errorf("erro ao criar item de devolução: %w", err)
		}
	}

	return nil
}

// RefundedQuantitiesTx implementa refund.Repository.RefundedQuantitiesTx
func (r *RefundRepository) RefundedQuantitiesTx(ctx context.Context, tx pgx.Tx, saleID string) (map[string]int, error) {
	rows, err := tx.Query(ctx,
		`SELECT ri.product_id, COALESCE(SUM(ri.quantity), 0)
		 FROM refund_items ri
		 JOIN refunds r ON r.id = ri.refund_id
		 WHERE r.sale_id = $1 AND r.status = $2
		 GROUP BY ri.product_id`,
		saleID, refund.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("erro ao somar quantidades devolvidas: %w", err)
	}
	defer rows.Close()

	refunded := make(map[string]int)
	for rows.Next() {
		var productID string
		var qty int
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("erro ao ler quantidade devolvida: %w", err)
		}
		refunded[productID] = qty
	}

	return refunded, rows.Err()
}

// FindByID implementa refund.Repository.FindByID
func (r *RefundRepository) FindByID(ctx context.Context, id string) (*refund.Refund, []*refund.Line, error) {
	var rf refund.Refund
	err := r.db.QueryRow(ctx,
		`SELECT id, sale_id, type, reason, total_amount, status, created_at
		 FROM refunds WHERE id = $1`,
		id).Scan(&rf.ID, &rf.SaleID, &rf.Type, &rf.Reason, &rf.TotalAmount,
		&rf.Status, &rf.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrRefundNotFound
		}
		return nil, nil, fmt.Errorf("erro ao buscar devolução: %w", err)
	}

	lines, err := r.findLines(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return &rf, lines, nil
}

// ListBySale implementa refund.Repository.ListBySale
func (r *RefundRepository) ListBySale(ctx context.Context, saleID string) ([]*refund.Refund, map[string][]*refund.Line, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sale_id, type, reason, total_amount, status, created_at
		 FROM refunds WHERE sale_id = $1 ORDER BY created_at`,
		saleID)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao listar devoluções: %w", err)
	}
	defer rows.Close()

	var refunds []*refund.Refund
	for rows.Next() {
		var rf refund.Refund
		if err := rows.Scan(&rf.ID, &rf.SaleID, &rf.Type, &rf.Reason, &rf.TotalAmount,
			&rf.Status, &rf.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("erro ao ler devolução: %w", err)
		}
		refunds = append(refunds, &rf)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	linesByRefund := make(map[string][]*refund.Line)
	for _, rf := range refunds {
		lines, err := r.findLines(ctx, rf.ID)
		if err != nil {
			return nil, nil, err
		}
		linesByRefund[rf.ID] = lines
	}

	return refunds, linesByRefund, nil
}

func (r *RefundRepository) findLines(ctx context.Context, refundID string) ([]*refund.Line, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, refund_id, product_id, product_name, quantity, unit_price, subtotal
		 FROM refund_items WHERE refund_id = $1 ORDER BY product_name`,
		refundID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar itens da devolução: %w", err)
	}
	defer rows.Close()

	var lines []*refund.Line
	for rows.Next() {
		var l refund.Line
		if err := rows.Scan(&l.ID, &l.RefundID, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("erro ao ler item da devolução: %w", err)
		}
		lines = append(lines, &l)
	}

	return lines, rows.Err()
}
