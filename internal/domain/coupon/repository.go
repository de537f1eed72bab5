package coupon

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository define a interface para operações de repositório de cupons
type Repository interface {
	// Create cria um novo cupom
	Create(ctx context.Context, c *Coupon) error

	// FindByCode busca um cupom pelo código
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// List lista os cupons com paginação
	List(ctx context.Context, limit, offset int) ([]*Coupon, error)

	// Count conta os cupons cadastrados
	Count(ctx context.Context) (int, error)

	// HasClientUsage verifica pelos registros de resgate se o cliente já
	// usou o cupom
	HasClientUsage(ctx context.Context, couponID, clientID string) (bool, error)

	// RedeemTx registra o resgate dentro da transação do checkout: grava
	// o registro de uso e incrementa o contador com guarda atômica
	// (usage_count < usage_limit avaliado na própria escrita). Retorna
	// ErrUsageLimitReached quando o limite já foi atingido.
	RedeemTx(ctx context.Context, tx pgx.Tx, couponID string, usage *Usage) error

	// ListUsages lista os resgates de um cupom
	ListUsages(ctx context.Context, couponID string, limit, offset int) ([]*Usage, error)
}
