package product

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository define a interface para operações de repositório de produtos
// e do livro de estoque. As operações com sufixo Tx participam da
// transação do chamador: baixa de estoque, movimentação e reavaliação de
// alerta acontecem dentro do mesmo limite transacional da venda ou
// devolução que as originou.
type Repository interface {
	// Create cria um novo produto
	Create(ctx context.Context, p *Product) error

	// FindByID busca um produto pelo ID
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindBySKU busca um produto pelo SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// List lista os produtos com paginação
	List(ctx context.Context, limit, offset int) ([]*Product, error)

	// Count conta os produtos cadastrados
	Count(ctx context.Context) (int, error)

	// Update atualiza os dados cadastrais de um produto (não altera estoque)
	Update(ctx context.Context, p *Product) error

	// UpdateStatus ativa ou desativa um produto
	UpdateStatus(ctx context.Context, id string, active bool) error

	// ReserveOnSale aplica a baixa condicional de estoque de uma venda
	// (stock = stock - qty somente se stock >= qty), registra a
	// movimentação e reavalia o alerta de estoque baixo, tudo dentro da
	// transação recebida. Retorna ErrInsufficientStock quando o saldo
	// não cobre a quantidade.
	ReserveOnSale(ctx context.Context, tx pgx.Tx, productID string, qty int, saleRef string) (*StockChange, error)

	// RestoreOnRefund devolve quantidade ao estoque por devolução,
	// registra a movimentação e reavalia o alerta, dentro da transação
	// recebida.
	RestoreOnRefund(ctx context.Context, tx pgx.Tx, productID string, qty int, refundRef string) (*StockChange, error)

	// Adjust aplica um ajuste manual de estoque (delta positivo ou
	// negativo) em transação própria. Retorna ErrNegativeStock quando o
	// delta deixaria o saldo negativo.
	Adjust(ctx context.Context, productID string, delta int, reason string) (*StockChange, error)

	// ListMovements lista as movimentações de estoque de um produto
	ListMovements(ctx context.Context, productID string, limit, offset int) ([]*StockMovement, error)

	// ListAlerts lista os alertas de estoque; com onlyUnresolved retorna
	// apenas os pendentes
	ListAlerts(ctx context.Context, onlyUnresolved bool, limit, offset int) ([]*StockAlert, error)
}
