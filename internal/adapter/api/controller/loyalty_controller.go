package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/loyalty"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// LoyaltyController gerencia o saldo e o histórico de pontos dos clientes
type LoyaltyController struct {
	loyalties *service.LoyaltyService
	logger    logger.Logger
}

// NewLoyaltyController cria uma nova instância de LoyaltyController
func NewLoyaltyController(loyalties *service.LoyaltyService, logger logger.Logger) *LoyaltyController {
	return &LoyaltyController{
		loyalties: loyalties,
		logger:    logger,
	}
}

// Balance retorna o saldo de pontos de um cliente
// @Summary Consultar saldo de pontos
// @Description Retorna o saldo de pontos de fidelidade de um cliente; cliente sem conta tem saldo zero
// @Tags loyalty
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param clientId path string true "ID do cliente"
// @Success 200 {object} dto.LoyaltyBalanceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /loyalty/{clientId} [get]
func (c *LoyaltyController) Balance(ctx *gin.Context) {
	account, err := c.loyalties.Balance(ctx, ctx.Param("clientId"))
	if err != nil {
		if errors.Is(err, loyalty.ErrEmptyClient) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "cliente não informado", err.Error()))
			return
		}
		c.logger.Error("erro ao consultar saldo de pontos", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao consultar saldo", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLoyaltyBalanceResponse(account))
}

// Redeem debita pontos do saldo de um cliente
// @Summary Resgatar pontos
// @Description Debita pontos do saldo do cliente; o saldo nunca fica negativo
// @Tags loyalty
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param clientId path string true "ID do cliente"
// @Param redemption body dto.LoyaltyRedeemRequest true "Dados do resgate"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /loyalty/{clientId}/redeem [post]
func (c *LoyaltyController) Redeem(ctx *gin.Context) {
	var req dto.LoyaltyRedeemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	if err := c.loyalties.Redeem(ctx, ctx.Param("clientId"), req.Points, req.Reason); err != nil {
		switch {
		case errors.Is(err, loyalty.ErrEmptyClient), errors.Is(err, loyalty.ErrInvalidPoints):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "resgate inválido", err.Error()))
		case errors.Is(err, loyalty.ErrInsufficientPoints):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "saldo de pontos insuficiente", err.Error()))
		default:
			c.logger.Error("erro ao resgatar pontos", "error", err)
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao resgatar pontos", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("pontos resgatados com sucesso", nil))
}

// History lista o histórico de movimentações de pontos de um cliente
// @Summary Histórico de pontos
// @Description Lista o histórico de acúmulos e resgates de pontos de um cliente
// @Tags loyalty
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param clientId path string true "ID do cliente"
// @Param page query int false "Página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} dto.LoyaltyMovementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /loyalty/{clientId}/movements [get]
func (c *LoyaltyController) History(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	pagination := dto.GetPagination(page, size)

	movements, err := c.loyalties.History(ctx, ctx.Param("clientId"), pagination.PageSize, pagination.Offset())
	if err != nil {
		if errors.Is(err, loyalty.ErrEmptyClient) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "cliente não informado", err.Error()))
			return
		}
		c.logger.Error("erro ao listar movimentações de pontos", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar movimentações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLoyaltyMovementResponses(movements))
}
