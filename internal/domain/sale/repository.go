package sale

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository define a interface para operações de repositório de vendas
type Repository interface {
	// CreateTx grava a venda e seus itens dentro da transação do checkout
	CreateTx(ctx context.Context, tx pgx.Tx, s *Sale, lines []*Line) error

	// FindByID busca uma venda pelo ID
	FindByID(ctx context.Context, id string) (*Sale, error)

	// FindByIDForUpdateTx busca e bloqueia a venda dentro de uma
	// transação de devolução. O bloqueio serializa devoluções
	// concorrentes sobre a mesma venda.
	FindByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*Sale, error)

	// FindLines lista os itens de uma venda
	FindLines(ctx context.Context, saleID string) ([]*Line, error)

	// FindLinesTx lista os itens de uma venda dentro de uma transação
	FindLinesTx(ctx context.Context, tx pgx.Tx, saleID string) ([]*Line, error)

	// List lista vendas com paginação, da mais recente para a mais antiga
	List(ctx context.Context, limit, offset int) ([]*Sale, error)

	// Count conta as vendas registradas
	Count(ctx context.Context) (int, error)

	// UpdateStatusTx atualiza o status da venda dentro de uma transação
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id string, status Status) error
}
