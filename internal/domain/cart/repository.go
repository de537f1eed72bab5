package cart

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository define a interface para operações de repositório do
// carrinho. Remoções são sempre lógicas (removed_at) para preservar o
// histórico do que foi montado antes de cada venda.
type Repository interface {
	// Create cria um novo item de carrinho
	Create(ctx context.Context, l *Line) error

	// FindActiveByOwner lista os itens ativos (não removidos) de um dono
	FindActiveByOwner(ctx context.Context, ownerID string) ([]*Line, error)

	// FindLineByID busca um item ativo pelo ID, restrito ao dono
	FindLineByID(ctx context.Context, ownerID, lineID string) (*Line, error)

	// FindLineByProduct busca o item ativo de um dono para um produto
	FindLineByProduct(ctx context.Context, ownerID, productID string) (*Line, error)

	// UpdateQuantity atualiza quantidade e subtotal de um item
	UpdateQuantity(ctx context.Context, l *Line) error

	// SoftRemove marca um item como removido
	SoftRemove(ctx context.Context, ownerID, lineID string) error

	// SoftRemoveAll marca todos os itens ativos de um dono como removidos
	SoftRemoveAll(ctx context.Context, ownerID string) error

	// SoftRemoveAllTx limpa o carrinho dentro da transação do checkout
	SoftRemoveAllTx(ctx context.Context, tx pgx.Tx, ownerID string) error
}
