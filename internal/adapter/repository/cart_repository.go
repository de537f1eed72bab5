package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/cart"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrCartLineNotFound = errors.New("item de carrinho não encontrado")
)

// CartRepository implementa a interface cart.Repository. Itens nunca são
// excluídos fisicamente: a remoção marca removed_at e preserva o
// histórico.
type CartRepository struct {
	db *pgxpool.Pool
}

// NewCartRepository cria uma nova instância de CartRepository
func NewCartRepository(db *pgxpool.Pool) cart.Repository {
	return &CartRepository{
		db: db,
	}
}

const cartColumns = "id, owner_id, product_id, product_name, quantity, unit_price, subtotal, created_at, updated_at, removed_at"

// Create implementa cart.Repository.Create
func (r *CartRepository) Create(ctx context.Context, l *cart.Line) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO cart_items (id, owner_id, product_id, product_name, quantity, unit_price, subtotal, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.OwnerID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice,
		l.Subtotal, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar item de carrinho: %w", err)
	}
	return nil
}

// FindActiveByOwner implementa cart.Repository.FindActiveByOwner
func (r *CartRepository) FindActiveByOwner(ctx context.Context, ownerID string) ([]*cart.Line, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+cartColumns+`
		 FROM cart_items
		 WHERE owner_id = $1 AND removed_at IS NULL
		 ORDER BY created_at`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar itens do carrinho: %w", err)
	}
	defer rows.Close()

	var lines []*cart.Line
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	return lines, rows.Err()
}

// FindLineByID implementa cart.Repository.FindLineByID
func (r *CartRepository) FindLineByID(ctx context.Context, ownerID, lineID string) (*cart.Line, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+cartColumns+`
		 FROM cart_items
		 WHERE id = $1 AND owner_id = $2 AND removed_at IS NULL`,
		lineID, ownerID)

	l, err := scanCartLine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartLineNotFound
		}
		return nil, err
	}
	return l, nil
}

// FindLineByProduct implementa cart.Repository.FindLineByProduct
func (r *CartRepository) FindLineByProduct(ctx context.Context, ownerID, productID string) (*cart.Line, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+cartColumns+`
		 FROM cart_items
		 WHERE owner_id = $1 AND product_id = $2 AND removed_at IS NULL`,
		ownerID, productID)

	l, err := scanCartLine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartLineNotFound
		}
		return nil, err
	}
	return l, nil
}

// UpdateQuantity implementa cart.Repository.UpdateQuantity
func (r *CartRepository) UpdateQuantity(ctx context.Context, l *cart.Line) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $2, subtotal = $3, updated_at = $4
		 WHERE id = $1 AND removed_at IS NULL`,
		l.ID, l.Quantity, l.Subtotal, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao atualizar item de carrinho: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

// SoftRemove implementa cart.Repository.SoftRemove
func (r *CartRepository) SoftRemove(ctx context.Context, ownerID, lineID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET removed_at = now()
		 WHERE id = $1 AND owner_id = $2 AND removed_at IS NULL`,
		lineID, ownerID)
	if err != nil {
		return fmt.Errorf("erro ao remover item de carrinho: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

// SoftRemoveAll implementa cart.Repository.SoftRemoveAll
func (r *CartRepository) SoftRemoveAll(ctx context.Context, ownerID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE cart_items SET removed_at = now()
		 WHERE owner_id = $1 AND removed_at IS NULL`,
		ownerID)
	if err != nil {
		return fmt.Errorf("erro ao limpar carrinho: %w", err)
	}
	return nil
}

// SoftRemoveAllTx implementa cart.Repository.SoftRemoveAllTx
func (r *CartRepository) SoftRemoveAllTx(ctx context.Context, tx pgx.Tx, ownerID string) error {
	_, err := tx.Exec(ctx,
		`UPDATE cart_items SET removed_at = now()
		 WHERE owner_id = $1 AND removed_at IS NULL`,
		ownerID)
	if err != nil {
		return fmt.Errorf("erro ao limpar carrinho: %w", err)
	}
	return nil
}

func scanCartLine(row pgx.Row) (*cart.Line, error) {
	var l cart.Line
	err := row.Scan(&l.ID, &l.OwnerID, &l.ProductID, &l.ProductName, &l.Quantity,
		&l.UnitPrice, &l.Subtotal, &l.CreatedAt, &l.UpdatedAt, &l.RemovedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("erro ao ler item de carrinho: %w", err)
	}
	return &l, nil
}
