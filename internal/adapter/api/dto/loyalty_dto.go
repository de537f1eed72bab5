package dto

import (
	"time"

	"github.com/hugohenrick/pdv-supermercado/internal/domain/loyalty"
)

// LoyaltyRedeemRequest representa o resgate de pontos de um cliente
type LoyaltyRedeemRequest struct {
	Points int    `json:"points" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// LoyaltyBalanceResponse representa o saldo de pontos de um cliente
type LoyaltyBalanceResponse struct {
	ClientID  string    `json:"client_id"`
	Points    int       `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoyaltyMovementResponse representa uma movimentação de pontos
type LoyaltyMovementResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	Type        string    `json:"type"`
	Points      int       `json:"points"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToLoyaltyBalanceResponse converte uma conta de fidelidade para DTO
func ToLoyaltyBalanceResponse(a *loyalty.Account) *LoyaltyBalanceResponse {
	return &LoyaltyBalanceResponse{
		ClientID:  a.ClientID,
		Points:    a.Points,
		UpdatedAt: a.UpdatedAt,
	}
}

// ToLoyaltyMovementResponses converte movimentações de pontos para DTO
func ToLoyaltyMovementResponses(movements []*loyalty.Movement) []LoyaltyMovementResponse {
	items := make([]LoyaltyMovementResponse, len(movements))
	for i, m := range movements {
		items[i] = LoyaltyMovementResponse{
			ID:          m.ID,
			ClientID:    m.ClientID,
			Type:        string(m.Type),
			Points:      m.Points,
			ReferenceID: m.ReferenceID,
			CreatedAt:   m.CreatedAt,
		}
	}
	return items
}
