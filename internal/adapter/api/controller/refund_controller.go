package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/refund"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// RefundController gerencia as devoluções de vendas. Operadores de
// caixa precisam do PIN de gerente; gerentes e administradores
// autorizam pela própria sessão.
type RefundController struct {
	refunds *service.RefundService
	pinHash string
	logger  logger.Logger
}

// NewRefundController cria uma nova instância de RefundController
func NewRefundController(refunds *service.RefundService, pinHash string, logger logger.Logger) *RefundController {
	return &RefundController{
		refunds: refunds,
		pinHash: pinHash,
		logger:  logger,
	}
}

// Create executa uma devolução total ou parcial de uma venda
// @Summary Devolver venda
// @Description Executa uma devolução total ou parcial, estornando o estoque em uma única transação
// @Tags refunds
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Param refund body dto.RefundRequest true "Dados da devolução"
// @Success 201 {object} dto.RefundResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id}/refunds [post]
func (c *RefundController) Create(ctx *gin.Context) {
	var req dto.RefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	if err := c.authorize(ctx, req.ManagerPIN); err != nil {
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "devolução não autorizada", err.Error()))
		return
	}

	result, err := c.refunds.Refund(ctx, req.ToRefundInput(ctx.Param("id")))
	if err != nil {
		c.respondRefundError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToRefundResponse(result.Refund, result.Lines, result.SaleRefunded))
}

// Get busca uma devolução pelo ID
// @Summary Buscar devolução
// @Description Busca uma devolução pelo ID, com seus itens
// @Tags refunds
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da devolução"
// @Success 200 {object} dto.RefundResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /refunds/{id} [get]
func (c *RefundController) Get(ctx *gin.Context) {
	rf, lines, err := c.refunds.GetRefund(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRefundNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "devolução não encontrada", err.Error()))
			return
		}
		c.logger.Error("erro ao buscar devolução", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar devolução", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRefundResponse(rf, lines, false))
}

// ListBySale lista as devoluções de uma venda
// @Summary Listar devoluções de uma venda
// @Description Lista o histórico de devoluções de uma venda, com seus itens
// @Tags refunds
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.RefundListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id}/refunds [get]
func (c *RefundController) ListBySale(ctx *gin.Context) {
	saleID := ctx.Param("id")
	refunds, linesByRefund, err := c.refunds.ListBySale(ctx, saleID)
	if err != nil {
		c.logger.Error("erro ao listar devoluções", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar devoluções", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRefundListResponse(saleID, refunds, linesByRefund))
}

// authorize libera a devolução para gerentes e administradores; para
// operadores de caixa exige o PIN de gerente.
func (c *RefundController) authorize(ctx *gin.Context, pin string) error {
	principal := auth.GetPrincipal(ctx)
	if principal != nil && (principal.Role == auth.RoleManager || principal.Role == auth.RoleAdmin) {
		return nil
	}
	return auth.CheckManagerPIN(c.pinHash, pin)
}

// respondRefundError mapeia os erros de domínio da devolução para HTTP
func (c *RefundController) respondRefundError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrSaleNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", err.Error()))
	case errors.Is(err, refund.ErrInvalidType), errors.Is(err, refund.ErrEmptyItems), errors.Is(err, refund.ErrInvalidQuantity):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "devolução inválida", err.Error()))
	case errors.Is(err, refund.ErrAlreadyFullyRefunded):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "venda já foi totalmente devolvida", err.Error()))
	case errors.Is(err, refund.ErrNothingToRefund):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "não há quantidade restante para devolver", err.Error()))
	case errors.Is(err, refund.ErrRefundExceedsAvailable):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "quantidade excede o disponível para devolução", err.Error()))
	case errors.Is(err, refund.ErrLineNotInSale):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "produto não pertence à venda original", err.Error()))
	default:
		c.logger.Error("erro ao devolver venda", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao devolver venda", err.Error()))
	}
}
