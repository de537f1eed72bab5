package loyalty

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository define a interface para operações de repositório de
// fidelidade
type Repository interface {
	// AccrueTx credita pontos ao cliente dentro da transação do checkout
	// e registra a movimentação. Cria a conta quando não existe.
	AccrueTx(ctx context.Context, tx pgx.Tx, clientID string, points int, saleID string) error

	// Redeem debita pontos do cliente com guarda atômica (points >=
	// débito avaliado na própria escrita). Retorna ErrInsufficientPoints
	// quando o saldo não cobre o resgate.
	Redeem(ctx context.Context, clientID string, points int, reason string) error

	// FindByClient busca o saldo de pontos de um cliente
	FindByClient(ctx context.Context, clientID string) (*Account, error)

	// ListMovements lista o histórico de movimentações de um cliente
	ListMovements(ctx context.Context, clientID string, limit, offset int) ([]*Movement, error)
}
