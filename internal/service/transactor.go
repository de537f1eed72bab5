package service

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor executa uma função dentro de uma transação do banco.
// Implementado por database.PostgresDB; os serviços dependem da
// interface para permitir testes sem banco.
type Transactor interface {
	Transaction(ctx context.Context, txFunc func(tx pgx.Tx) error) error
}
