package service

import (
	"context"
	"errors"
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/loyalty"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// LoyaltyService expõe o saldo e o histórico de pontos dos clientes. O
// acúmulo acontece dentro da transação do checkout; aqui ficam as
// leituras e o resgate avulso.
type LoyaltyService struct {
	loyalties loyalty.Repository
	logger    logger.Logger
}

// NewLoyaltyService cria uma nova instância de LoyaltyService
func NewLoyaltyService(loyalties loyalty.Repository, log logger.Logger) *LoyaltyService {
	return &LoyaltyService{
		loyalties: loyalties,
		logger:    log,
	}
}

// Balance retorna o saldo de pontos de um cliente. Cliente sem conta
// tem saldo zero, não é erro.
func (s *LoyaltyService) Balance(ctx context.Context, clientID string) (*loyalty.Account, error) {
	if clientID == "" {
		return nil, loyalty.ErrEmptyClient
	}

	account, err := s.loyalties.FindByClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrLoyaltyAccountNotFound) {
			return &loyalty.Account{ClientID: clientID, Points: 0, UpdatedAt: time.Now()}, nil
		}
		return nil, err
	}
	return account, nil
}

// Redeem debita pontos do saldo do cliente
func (s *LoyaltyService) Redeem(ctx context.Context, clientID string, points int, reason string) error {
	return s.loyalties.Redeem(ctx, clientID, points, reason)
}

// History lista o histórico de movimentações de pontos de um cliente
func (s *LoyaltyService) History(ctx context.Context, clientID string, limit, offset int) ([]*loyalty.Movement, error) {
	if clientID == "" {
		return nil, loyalty.ErrEmptyClient
	}
	return s.loyalties.ListMovements(ctx, clientID, limit, offset)
}
