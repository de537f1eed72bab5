package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/coupon"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrCouponNotFound      = errors.New("cupom não encontrado")
	ErrCouponDuplicateCode = errors.New("cupom com mesmo código já existe")
)

// CouponRepository implementa a interface coupon.Repository
type CouponRepository struct {
	db *pgxpool.Pool
}

// NewCouponRepository cria uma nova instância de CouponRepository
func NewCouponRepository(db *pgxpool.Pool) coupon.Repository {
	return &CouponRepository{
		db: db,
	}
}

const couponColumns = `id, code, discount_type, discount_value, min_purchase_amount,
	max_discount_amount, usage_limit, usage_count, expires_at, active, client_id,
	allow_multiple_use, created_at, updated_at`

// Create implementa coupon.Repository.Create
func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO coupons (id, code, discount_type, discount_value, min_purchase_amount,
			max_discount_amount, usage_limit, usage_count, expires_at, active, client_id,
			allow_multiple_use, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.Code, c.DiscountType, c.DiscountValue, c.MinPurchaseAmount,
		c.MaxDiscountAmount, c.UsageLimit, c.UsageCount, c.ExpiresAt, c.Active,
		c.ClientID, c.AllowMultipleUse, c.CreatedAt, c.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCouponDuplicateCode
		}
		return fmt.Errorf("erro ao criar cupom: %w", err)
	}

	return nil
}

// FindByCode implementa coupon.Repository.FindByCode
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`,
		strings.ToUpper(strings.TrimSpace(code)))

	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return c, nil
}

// List implementa coupon.Repository.List
func (r *CouponRepository) List(ctx context.Context, limit, offset int) ([]*coupon.Coupon, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar cupons: %w", err)
	}
	defer rows.Close()

	var coupons []*coupon.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}

	return coupons, rows.Err()
}

// Count implementa coupon.Repository.Count
func (r *CouponRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coupons`).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar cupons: %w", err)
	}
	return count, nil
}

// HasClientUsage implementa coupon.Repository.HasClientUsage
func (r *CouponRepository) HasClientUsage(ctx context.Context, couponID, clientID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM coupon_usages WHERE coupon_id = $1 AND client_id = $2
		 )`,
		couponID, clientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("erro ao verificar uso do cupom: %w", err)
	}
	return exists, nil
}

// RedeemTx implementa coupon.Repository.RedeemTx. O incremento do
// contador carrega a guarda de limite na própria instrução: dois
// resgates concorrentes do último uso disputam a mesma escrita e apenas
// um vê a linha afetada.
func (r *CouponRepository) RedeemTx(ctx context.Context, tx pgx.Tx, couponID string, usage *coupon.Usage) error {
	tag, err := tx.Exec(ctx,
		`UPDATE coupons SET usage_count = usage_count + 1, updated_at = now()
		 WHERE id = $1 AND (usage_limit = 0 OR usage_count < usage_limit)`,
		couponID)
	if err != nil {
		return fmt.Errorf("erro ao incrementar uso do cupom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrUsageLimitReached
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO coupon_usages (id, coupon_id, client_id, sale_id, discount_amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		usage.ID, usage.CouponID, usage.ClientID, usage.SaleID, usage.DiscountAmount, usage.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar uso do cupom: %w", err)
	}

	return nil
}

// ListUsages implementa coupon.Repository.ListUsages
func (r *CouponRepository) ListUsages(ctx context.Context, couponID string, limit, offset int) ([]*coupon.Usage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, coupon_id, client_id, sale_id, discount_amount, created_at
		 FROM coupon_usages
		 WHERE coupon_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		couponID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar usos do cupom: %w", err)
	}
	defer rows.Close()

	var usages []*coupon.Usage
	for rows.Next() {
		var u coupon.Usage
		if err := rows.Scan(&u.ID, &u.CouponID, &u.ClientID, &u.SaleID,
			&u.DiscountAmount, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler uso do cupom: %w", err)
		}
		usages = append(usages, &u)
	}

	return usages, rows.Err()
}

func scanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue,
		&c.MinPurchaseAmount, &c.MaxDiscountAmount, &c.UsageLimit, &c.UsageCount,
		&c.ExpiresAt, &c.Active, &c.ClientID, &c.AllowMultipleUse,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("erro ao ler cupom: %w", err)
	}
	return &c, nil
}
