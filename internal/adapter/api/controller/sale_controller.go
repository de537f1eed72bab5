package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/coupon"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/sale"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// SaleController gerencia o fechamento e a consulta de vendas
type SaleController struct {
	checkout *service.CheckoutService
	logger   logger.Logger
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(checkout *service.CheckoutService, logger logger.Logger) *SaleController {
	return &SaleController{
		checkout: checkout,
		logger:   logger,
	}
}

// Checkout fecha a venda do carrinho do usuário autenticado
// @Summary Fechar venda
// @Description Valida o carrinho, calcula os totais e aplica venda, baixa de estoque, cupom e pontos em uma única transação
// @Tags sales
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param checkout body dto.CheckoutRequest true "Dados do fechamento"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.CheckoutRejectionResponse
// @Failure 422 {object} dto.CheckoutRejectionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/checkout [post]
func (c *SaleController) Checkout(ctx *gin.Context) {
	var req dto.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	principal := auth.GetPrincipal(ctx)
	if principal == nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "autenticação requerida", ""))
		return
	}

	input := service.CheckoutInput{
		OwnerID:             principal.UserID,
		CashierID:           principal.UserID,
		ClientID:            req.ClientID,
		BranchID:            principal.BranchID,
		PaymentMethod:       sale.PaymentMethod(req.PaymentMethod),
		TenderedAmount:      req.TenderedAmount,
		CouponCode:          req.CouponCode,
		ConfirmPriceChanges: req.ConfirmPriceChanges,
	}

	result, err := c.checkout.Checkout(ctx, input)
	if err != nil {
		c.respondCheckoutError(ctx, err, result)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCheckoutResponse(result))
}

// Get busca uma venda pelo ID, com seus itens
// @Summary Buscar venda
// @Description Busca uma venda pelo ID, com seus itens
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) Get(ctx *gin.Context) {
	s, lines, err := c.checkout.GetSale(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "venda não encontrada", err.Error()))
			return
		}
		c.logger.Error("erro ao buscar venda", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar venda", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s, lines))
}

// List lista as vendas com paginação
// @Summary Listar vendas
// @Description Lista as vendas registradas, da mais recente para a mais antiga
// @Tags sales
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página"
// @Param size query int false "Tamanho da página"
// @Success 200 {object} dto.SaleListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [get]
func (c *SaleController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	pagination := dto.GetPagination(page, size)

	sales, total, err := c.checkout.ListSales(ctx, pagination.PageSize, pagination.Offset())
	if err != nil {
		c.logger.Error("erro ao listar vendas", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar vendas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleListResponse(sales, total, pagination.Page, pagination.PageSize))
}

// respondCheckoutError mapeia as recusas do checkout para HTTP. Recusas
// carregam detalhes suficientes para o chamador reexibir o carrinho.
func (c *SaleController) respondCheckoutError(ctx *gin.Context, err error, result *service.CheckoutResult) {
	switch {
	case errors.Is(err, sale.ErrEmptyCart):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "carrinho vazio", err.Error()))
	case errors.Is(err, sale.ErrPriceChanged):
		ctx.JSON(http.StatusConflict, dto.ToCheckoutRejectionResponse(http.StatusConflict, "preços alterados desde a inclusão no carrinho; confirme para prosseguir", result))
	case errors.Is(err, coupon.ErrInvalidCoupon):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ToCheckoutRejectionResponse(http.StatusUnprocessableEntity, "cupom inválido para esta compra", result))
	case errors.Is(err, coupon.ErrUsageLimitReached):
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "limite de uso do cupom atingido", err.Error()))
	case errors.Is(err, repository.ErrCouponNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "cupom não encontrado", err.Error()))
	case errors.Is(err, repository.ErrProductNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
	case errors.Is(err, product.ErrProductUnavailable):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "produto indisponível para venda", err.Error()))
	case errors.Is(err, product.ErrInsufficientStock):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "estoque insuficiente", err.Error()))
	case errors.Is(err, sale.ErrInsufficientPayment):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "valor pago insuficiente", err.Error()))
	case errors.Is(err, sale.ErrInvalidPayment):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "forma de pagamento inválida", err.Error()))
	default:
		c.logger.Error("erro ao fechar venda", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao fechar venda", err.Error()))
	}
}
