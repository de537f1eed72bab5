package loyalty

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyClient        = errors.New("cliente não informado")
	ErrInvalidPoints      = errors.New("quantidade de pontos deve ser maior que zero")
	ErrInsufficientPoints = errors.New("saldo de pontos insuficiente")
)

// MovementType identifica a origem de uma movimentação de pontos
type MovementType string

const (
	MovementAccrual    MovementType = "accrual"    // Acúmulo por venda
	MovementRedemption MovementType = "redemption" // Resgate pelo cliente
)

// Account representa o saldo de pontos de fidelidade de um cliente. O
// saldo nunca fica negativo.
type Account struct {
	ClientID  string    `json:"client_id"`
	Points    int       `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Movement representa o histórico imutável de movimentações de pontos
type Movement struct {
	ID          string       `json:"id"`
	ClientID    string       `json:"client_id"`
	Type        MovementType `json:"type"`
	Points      int          `json:"points"`
	ReferenceID string       `json:"reference_id,omitempty"` // Venda ou motivo do resgate
	CreatedAt   time.Time    `json:"created_at"`
}

// NewMovement cria uma movimentação de pontos
func NewMovement(clientID string, t MovementType, points int, referenceID string) *Movement {
	return &Movement{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Type:        t,
		Points:      points,
		ReferenceID: referenceID,
		CreatedAt:   time.Now(),
	}
}
