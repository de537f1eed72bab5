package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrSaleNotFound = errors.New("venda não encontrada")
)

// SaleRepository implementa a interface sale.Repository
type SaleRepository struct {
	db *pgxpool.Pool
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *pgxpool.Pool) sale.Repository {
	return &SaleRepository{
		db: db,
	}
}

const saleColumns = `id, cashier_id, client_id, branch_id, subtotal, discount_amount,
	tax_amount, total, tendered_amount, change_amount, payment_method, coupon_code,
	status, created_at`

// CreateTx implementa sale.Repository.CreateTx
func (r *SaleRepository) CreateTx(ctx context.Context, tx pgx.Tx, s *sale.Sale, lines []*sale.Line) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO sales (id, cashier_id, client_id, branch_id, subtotal, discount_amount,
			tax_amount, total, tendered_amount, change_amount, payment_method, coupon_code,
			status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.CashierID, s.ClientID, s.BranchID, s.Subtotal, s.DiscountAmount,
		s.TaxAmount, s.Total, s.TenderedAmount, s.ChangeAmount, s.PaymentMethod,
		s.CouponCode, s.Status, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar venda: %w", err)
	}

	for _, l := range lines {
		_, err := tx.Exec(ctx,
			`INSERT INTO sale_items (id, sale_id, product_id, product_name, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, l.SaleID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice, l.Subtotal)
		if err != nil {
			return fmt.Errorf("erro ao criar item de venda: %w", err)
		}
	}

	return nil
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	return scanSale(row)
}

// FindByIDForUpdateTx implementa sale.Repository.FindByIDForUpdateTx. O
// FOR UPDATE serializa devoluções concorrentes sobre a mesma venda: a
// soma do já devolvido e a gravação da nova devolução enxergam sempre um
// estado consistente.
func (r *SaleRepository) FindByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*sale.Sale, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
	return scanSale(row)
}

// FindLines implementa sale.Repository.FindLines
func (r *SaleRepository) FindLines(ctx context.Context, saleID string) ([]*sale.Line, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sale_id, product_id, product_name, quantity, unit_price, subtotal
		 FROM sale_items WHERE sale_id = $1 ORDER BY product_name`,
		saleID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar itens da venda: %w", err)
	}
	defer rows.Close()

	return collectSaleLines(rows)
}

// FindLinesTx implementa sale.Repository.FindLinesTx
func (r *SaleRepository) FindLinesTx(ctx context.Context, tx pgx.Tx, saleID string) ([]*sale.Line, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, sale_id, product_id, product_name, quantity, unit_price, subtotal
		 FROM sale_items WHERE sale_id = $1 ORDER BY product_name`,
		saleID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar itens da venda: %w", err)
	}
	defer rows.Close()

	return collectSaleLines(rows)
}

// List implementa sale.Repository.List
func (r *SaleRepository) List(ctx context.Context, limit, offset int) ([]*sale.Sale, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale
	for rows.Next() {
		var s sale.Sale
		if err := rows.Scan(&s.ID, &s.CashierID, &s.ClientID, &s.BranchID, &s.Subtotal,
			&s.DiscountAmount, &s.TaxAmount, &s.Total, &s.TenderedAmount, &s.ChangeAmount,
			&s.PaymentMethod, &s.CouponCode, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler venda: %w", err)
		}
		sales = append(sales, &s)
	}

	return sales, rows.Err()
}

// Count implementa sale.Repository.Count
func (r *SaleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar vendas: %w", err)
	}
	return count, nil
}

// UpdateStatusTx implementa sale.Repository.UpdateStatusTx
func (r *SaleRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id string, status sale.Status) error {
	tag, err := tx.Exec(ctx,
		`UPDATE sales SET status = $2 WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status da venda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaleNotFound
	}
	return nil
}

func scanSale(row pgx.Row) (*sale.Sale, error) {
	var s sale.Sale
	err := row.Scan(&s.ID, &s.CashierID, &s.ClientID, &s.BranchID, &s.Subtotal,
		&s.DiscountAmount, &s.TaxAmount, &s.Total, &s.TenderedAmount, &s.ChangeAmount,
		&s.PaymentMethod, &s.CouponCode, &s.Status, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("erro ao buscar venda: %w", err)
	}
	return &s, nil
}

func collectSaleLines(rows pgx.Rows) ([]*sale.Line, error) {
	var lines []*sale.Line
	for rows.Next() {
		var l sale.Line
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("erro ao ler item da venda: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}
