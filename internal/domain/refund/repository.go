package refund

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository define a interface para operações de repositório de
// devoluções
type Repository interface {
	// CreateTx grava a devolução e seus itens dentro da transação de
	// devolução
	CreateTx(ctx context.Context, tx pgx.Tx, r *Refund, lines []*Line) error

	// RefundedQuantitiesTx soma, por produto, as quantidades já
	// devolvidas em devoluções concluídas da venda. Deve ser chamada
	// dentro da mesma transação que grava a nova devolução, com a venda
	// bloqueada, para impedir que devoluções concorrentes ultrapassem o
	// vendido.
	RefundedQuantitiesTx(ctx context.Context, tx pgx.Tx, saleID string) (map[string]int, error)

	// FindByID busca uma devolução pelo ID, com seus itens
	FindByID(ctx context.Context, id string) (*Refund, []*Line, error)

	// ListBySale lista as devoluções de uma venda, com seus itens
	ListBySale(ctx context.Context, saleID string) ([]*Refund, map[string][]*Line, error)
}
