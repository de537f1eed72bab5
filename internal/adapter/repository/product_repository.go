package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrProductNotFound     = errors.New("produto não encontrado")
	ErrProductDuplicateSKU = errors.New("produto com mesmo SKU já existe")
)

// ProductRepository implementa a interface product.Repository. As
// operações do livro de estoque (venda, devolução, ajuste) fazem a
// leitura-modificação-escrita do saldo em uma única instrução
// condicional e registram movimentação e alerta na mesma transação.
type ProductRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository cria uma nova instância de ProductRepository
func NewProductRepository(db *pgxpool.Pool) product.Repository {
	return &ProductRepository{
		db: db,
	}
}

const productColumns = "id, sku, name, price, stock, min_stock, active, created_at, updated_at"

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.MinStock,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("erro ao buscar produto: %w", err)
	}
	return &p, nil
}

// Create implementa product.Repository.Create
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, sku, name, price, stock, min_stock, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.SKU, p.Name, p.Price, p.Stock, p.MinStock, p.Active, p.CreatedAt, p.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductDuplicateSKU
		}
		return fmt.Errorf("erro ao criar produto: %w", err)
	}

	return nil
}

// FindByID implementa product.Repository.FindByID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// FindBySKU implementa product.Repository.FindBySKU
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
	return scanProduct(row)
}

// List implementa product.Repository.List
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*product.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar produtos: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.MinStock,
			&p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler produto: %w", err)
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

// Count implementa product.Repository.Count
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar produtos: %w", err)
	}
	return count, nil
}

// Update implementa product.Repository.Update. Não altera o saldo de
// estoque: isso é exclusivo das operações do livro.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET sku = $2, name = $3, price = $4, min_stock = $5,
		        active = $6, updated_at = $7
		 WHERE id = $1`,
		p.ID, p.SKU, p.Name, p.Price, p.MinStock, p.Active, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductDuplicateSKU
		}
		return fmt.Errorf("erro ao atualizar produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UpdateStatus implementa product.Repository.UpdateStatus
func (r *ProductRepository) UpdateStatus(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET active = $2, updated_at = now() WHERE id = $1`,
		id, active)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status do produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReserveOnSale implementa product.Repository.ReserveOnSale. A baixa é
// um decremento condicional (stock >= qty avaliado na própria escrita)
// para fechar a corrida entre a validação do carrinho e o commit.
func (r *ProductRepository) ReserveOnSale(ctx context.Context, tx pgx.Tx, productID string, qty int, saleRef string) (*product.StockChange, error) {
	if qty <= 0 {
		return nil, product.ErrInvalidQuantity
	}

	var newStock, minStock int
	err := tx.QueryRow(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now()
		 WHERE id = $1 AND stock >= $2
		 RETURNING stock, min_stock`,
		productID, qty).Scan(&newStock, &minStock)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguir saldo insuficiente de produto inexistente
			var exists bool
			if chkErr := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`,
				productID).Scan(&exists); chkErr != nil {
				return nil, fmt.Errorf("erro ao verificar produto: %w", chkErr)
			}
			if !exists {
				return nil, ErrProductNotFound
			}
			return nil, product.ErrInsufficientStock
		}
		return nil, fmt.Errorf("erro ao baixar estoque: %w", err)
	}

	change := &product.StockChange{ProductID: productID, Delta: -qty, NewStock: newStock, MinStock: minStock}
	if err := r.appendMovementTx(ctx, tx, change, product.CauseSale, saleRef); err != nil {
		return nil, err
	}
	if err := r.evaluateAlertTx(ctx, tx, change); err != nil {
		return nil, err
	}

	return change, nil
}

// RestoreOnRefund implementa product.Repository.RestoreOnRefund
func (r *ProductRepository) RestoreOnRefund(ctx context.Context, tx pgx.Tx, productID string, qty int, refundRef string) (*product.StockChange, error) {
	if qty <= 0 {
		return nil, product.ErrInvalidQuantity
	}

	var newStock, minStock int
	err := tx.QueryRow(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now()
		 WHERE id = $1
		 RETURNING stock, min_stock`,
		productID, qty).Scan(&newStock, &minStock)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("erro ao estornar estoque: %w", err)
	}

	change := &product.StockChange{ProductID: productID, Delta: qty, NewStock: newStock, MinStock: minStock}
	if err := r.appendMovementTx(ctx, tx, change, product.CauseRefund, refundRef); err != nil {
		return nil, err
	}
	if err := r.evaluateAlertTx(ctx, tx, change); err != nil {
		return nil, err
	}

	return change, nil
}

// Adjust implementa product.Repository.Adjust em transação própria
func (r *ProductRepository) Adjust(ctx context.Context, productID string, delta int, reason string) (*product.StockChange, error) {
	if delta == 0 {
		return nil, product.ErrInvalidQuantity
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	var newStock, minStock int
	err = tx.QueryRow(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now()
		 WHERE id = $1 AND stock + $2 >= 0
		 RETURNING stock, min_stock`,
		productID, delta).Scan(&newStock, &minStock)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if chkErr := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`,
				productID).Scan(&exists); chkErr != nil {
				return nil, fmt.Errorf("erro ao verificar produto: %w", chkErr)
			}
			if !exists {
				return nil, ErrProductNotFound
			}
			return nil, product.ErrNegativeStock
		}
		return nil, fmt.Errorf("erro ao ajustar estoque: %w", err)
	}

	change := &product.StockChange{ProductID: productID, Delta: delta, NewStock: newStock, MinStock: minStock}
	if err := r.appendMovementTx(ctx, tx, change, product.CauseManual, reason); err != nil {
		return nil, err
	}
	if err := r.evaluateAlertTx(ctx, tx, change); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("erro ao fazer commit: %w", err)
	}

	return change, nil
}

// appendMovementTx grava o registro imutável da movimentação
func (r *ProductRepository) appendMovementTx(ctx context.Context, tx pgx.Tx, change *product.StockChange, cause product.MovementCause, reference string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO stock_movements (id, product_id, delta, resulting_stock, cause, reference_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())`,
		uuid.New().String(), change.ProductID, change.Delta, change.NewStock, cause, reference)
	if err != nil {
		return fmt.Errorf("erro ao registrar movimentação de estoque: %w", err)
	}
	return nil
}

// evaluateAlertTx reavalia o alerta de estoque baixo após a escrita do
// saldo. O índice único parcial garante no máximo um alerta não
// resolvido por (produto, tipo) mesmo sob concorrência.
func (r *ProductRepository) evaluateAlertTx(ctx context.Context, tx pgx.Tx, change *product.StockChange) error {
	if change.NewStock < change.MinStock {
		_, err := tx.Exec(ctx,
			`INSERT INTO stock_alerts (id, product_id, alert_type, resolved, created_at)
			 VALUES ($1, $2, $3, FALSE, now())
			 ON CONFLICT (product_id, alert_type) WHERE NOT resolved DO NOTHING`,
			uuid.New().String(), change.ProductID, product.AlertLowStock)
		if err != nil {
			return fmt.Errorf("erro ao criar alerta de estoque: %w", err)
		}
		return nil
	}

	_, err := tx.Exec(ctx,
		`UPDATE stock_alerts SET resolved = TRUE, resolved_at = now()
		 WHERE product_id = $1 AND alert_type = $2 AND NOT resolved`,
		change.ProductID, product.AlertLowStock)
	if err != nil {
		return fmt.Errorf("erro ao resolver alerta de estoque: %w", err)
	}
	return nil
}

// ListMovements implementa product.Repository.ListMovements
func (r *ProductRepository) ListMovements(ctx context.Context, productID string, limit, offset int) ([]*product.StockMovement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, delta, resulting_stock, cause, reference_id, created_at
		 FROM stock_movements
		 WHERE product_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar movimentações: %w", err)
	}
	defer rows.Close()

	var movements []*product.StockMovement
	for rows.Next() {
		var m product.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.ResultingStock,
			&m.Cause, &m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler movimentação: %w", err)
		}
		movements = append(movements, &m)
	}

	return movements, rows.Err()
}

// ListAlerts implementa product.Repository.ListAlerts
func (r *ProductRepository) ListAlerts(ctx context.Context, onlyUnresolved bool, limit, offset int) ([]*product.StockAlert, error) {
	query := `SELECT id, product_id, alert_type, resolved, created_at, resolved_at
	          FROM stock_alerts`
	if onlyUnresolved {
		query += ` WHERE NOT resolved`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar alertas: %w", err)
	}
	defer rows.Close()

	var alerts []*product.StockAlert
	for rows.Next() {
		var a product.StockAlert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.AlertType, &a.Resolved,
			&a.CreatedAt, &a.ResolvedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler alerta: %w", err)
		}
		alerts = append(alerts, &a)
	}

	return alerts, rows.Err()
}
