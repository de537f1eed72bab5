package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/cart"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// CartService agrega os itens de compra de um dono antes do checkout.
// O dono é sempre um parâmetro explícito; não existe estado de sessão
// escondido no serviço.
type CartService struct {
	carts    cart.Repository
	products product.Repository
	logger   logger.Logger
}

// NewCartService cria uma nova instância de CartService
func NewCartService(carts cart.Repository, products product.Repository, log logger.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   log,
	}
}

// AddItem adiciona um produto ao carrinho com o preço congelado no
// momento da inclusão. Quando o produto já está no carrinho, as
// quantidades são somadas; a soma é validada contra o saldo atual de
// estoque.
func (s *CartService) AddItem(ctx context.Context, ownerID, productID string, qty int) (*cart.Cart, error) {
	if qty <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, product.ErrProductUnavailable
	}

	existing, err := s.carts.FindLineByProduct(ctx, ownerID, productID)
	if err != nil && !errors.Is(err, repository.ErrCartLineNotFound) {
		return nil, err
	}

	combined := qty
	if existing != nil {
		combined += existing.Quantity
	}
	if combined > p.Stock {
		return nil, fmt.Errorf("%w: produto %s", product.ErrInsufficientStock, p.Name)
	}

	if existing != nil {
		if err := existing.SetQuantity(combined); err != nil {
			return nil, err
		}
		if err := s.carts.UpdateQuantity(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		line, err := cart.NewLine(ownerID, p.ID, p.Name, qty, p.Price)
		if err != nil {
			return nil, err
		}
		if err := s.carts.Create(ctx, line); err != nil {
			return nil, err
		}
	}

	return s.GetCart(ctx, ownerID)
}

// UpdateQuantity ajusta a quantidade de um item do carrinho
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID, lineID string, qty int) (*cart.Cart, error) {
	line, err := s.carts.FindLineByID(ctx, ownerID, lineID)
	if err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return nil, cart.ErrLineNotFound
		}
		return nil, err
	}

	p, err := s.products.FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if qty > p.Stock {
		return nil, fmt.Errorf("%w: produto %s", product.ErrInsufficientStock, p.Name)
	}

	if err := line.SetQuantity(qty); err != nil {
		return nil, err
	}
	if err := s.carts.UpdateQuantity(ctx, line); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, ownerID)
}

// RemoveItem remove um item do carrinho (remoção lógica)
func (s *CartService) RemoveItem(ctx context.Context, ownerID, lineID string) (*cart.Cart, error) {
	if err := s.carts.SoftRemove(ctx, ownerID, lineID); err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return nil, cart.ErrLineNotFound
		}
		return nil, err
	}
	return s.GetCart(ctx, ownerID)
}

// Clear remove todos os itens do carrinho de um dono
func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	return s.carts.SoftRemoveAll(ctx, ownerID)
}

// GetCart retorna os itens ativos de um dono com o resumo calculado
func (s *CartService) GetCart(ctx context.Context, ownerID string) (*cart.Cart, error) {
	lines, err := s.carts.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &cart.Cart{
		OwnerID: ownerID,
		Lines:   lines,
		Summary: cart.Summarize(lines),
	}, nil
}
