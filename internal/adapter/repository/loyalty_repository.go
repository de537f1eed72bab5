package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/loyalty"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrLoyaltyAccountNotFound = errors.New("conta de fidelidade não encontrada")
)

// LoyaltyRepository implementa a interface loyalty.Repository
type LoyaltyRepository struct {
	db *pgxpool.Pool
}

// NewLoyaltyRepository cria uma nova instância de LoyaltyRepository
func NewLoyaltyRepository(db *pgxpool.Pool) loyalty.Repository {
	return &LoyaltyRepository{
		db: db,
	}
}

// AccrueTx implementa loyalty.Repository.AccrueTx
func (r *LoyaltyRepository) AccrueTx(ctx context.Context, tx pgx.Tx, clientID string, points int, saleID string) error {
	if clientID == "" {
		return loyalty.ErrEmptyClient
	}
	if points <= 0 {
		return loyalty.ErrInvalidPoints
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO loyalty_accounts (client_id, points, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (client_id)
		 DO UPDATE SET points = loyalty_accounts.points + EXCLUDED.points, updated_at = now()`,
		clientID, points)
	if err != nil {
		return fmt.Errorf("erro ao creditar pontos: %w", err)
	}

	m := loyalty.NewMovement(clientID, loyalty.MovementAccrual, points, saleID)
	_, err = tx.Exec(ctx,
		`INSERT INTO loyalty_movements (id, client_id, type, points, reference_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ClientID, m.Type, m.Points, m.ReferenceID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar movimentação de pontos: %w", err)
	}

	return nil
}

// Redeem implementa loyalty.Repository.Redeem. O débito carrega a guarda
// de saldo na própria instrução para nunca deixar a conta negativa.
func (r *LoyaltyRepository) Redeem(ctx context.Context, clientID string, points int, reason string) error {
	if clientID == "" {
		return loyalty.ErrEmptyClient
	}
	if points <= 0 {
		return loyalty.ErrInvalidPoints
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE loyalty_accounts SET points = points - $2, updated_at = now()
		 WHERE client_id = $1 AND points >= $2`,
		clientID, points)
	if err != nil {
		return fmt.Errorf("erro ao debitar pontos: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return loyalty.ErrInsufficientPoints
	}

	m := loyalty.NewMovement(clientID, loyalty.MovementRedemption, -points, reason)
	_, err = tx.Exec(ctx,
		`INSERT INTO loyalty_movements (id, client_id, type, points, reference_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ClientID, m.Type, m.Points, m.ReferenceID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar movimentação de pontos: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	return nil
}

// FindByClient implementa loyalty.Repository.FindByClient
func (r *LoyaltyRepository) FindByClient(ctx context.Context, clientID string) (*loyalty.Account, error) {
	var a loyalty.Account
	err := r.db.QueryRow(ctx,
		`SELECT client_id, points, updated_at FROM loyalty_accounts WHERE client_id = $1`,
		clientID).Scan(&a.ClientID, &a.Points, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoyaltyAccountNotFound
		}
		return nil, fmt.Errorf("erro ao buscar conta de fidelidade: %w", err)
	}
	return &a, nil
}

// ListMovements implementa loyalty.Repository.ListMovements
func (r *LoyaltyRepository) ListMovements(ctx context.Context, clientID string, limit, offset int) ([]*loyalty.Movement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, client_id, type, points, reference_id, created_at
		 FROM loyalty_movements
		 WHERE client_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar movimentações de pontos: %w", err)
	}
	defer rows.Close()

	var movements []*loyalty.Movement
	for rows.Next() {
		var m loyalty.Movement
		if err := rows.Scan(&m.ID, &m.ClientID, &m.Type, &m.Points,
			&m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler movimentação de pontos: %w", err)
		}
		movements = append(movements, &m)
	}

	return movements, rows.Err()
}
