package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/cart"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// CartController gerencia as requisições do carrinho. O dono do
// carrinho é sempre o usuário autenticado da requisição.
type CartController struct {
	carts  *service.CartService
	logger logger.Logger
}

// NewCartController cria uma nova instância de CartController
func NewCartController(carts *service.CartService, logger logger.Logger) *CartController {
	return &CartController{
		carts:  carts,
		logger: logger,
	}
}

// Get retorna o carrinho do usuário autenticado
// @Summary Consultar carrinho
// @Description Retorna os itens ativos do carrinho com o resumo calculado
// @Tags cart
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.CartResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /cart [get]
func (c *CartController) Get(ctx *gin.Context) {
	result, err := c.carts.GetCart(ctx, ctx.GetString("user_id"))
	if err != nil {
		c.logger.Error("erro ao consultar carrinho", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao consultar carrinho", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCartResponse(result))
}

// AddItem adiciona um produto ao carrinho
// @Summary Adicionar item ao carrinho
// @Description Adiciona um produto ao carrinho com o preço congelado no momento da inclusão
// @Tags cart
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param item body dto.CartAddItemRequest true "Item a adicionar"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /cart/items [post]
func (c *CartController) AddItem(ctx *gin.Context) {
	var req dto.CartAddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	result, err := c.carts.AddItem(ctx, ctx.GetString("user_id"), req.ProductID, req.Quantity)
	if err != nil {
		c.respondCartError(ctx, err, "erro ao adicionar item ao carrinho")
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCartResponse(result))
}

// UpdateQuantity altera a quantidade de um item do carrinho
// @Summary Alterar quantidade de item
// @Description Altera a quantidade de um item do carrinho, validando o estoque atual
// @Tags cart
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do item"
// @Param quantity body dto.CartQuantityRequest true "Nova quantidade"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /cart/items/{id} [put]
func (c *CartController) UpdateQuantity(ctx *gin.Context) {
	var req dto.CartQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	result, err := c.carts.UpdateQuantity(ctx, ctx.GetString("user_id"), ctx.Param("id"), req.Quantity)
	if err != nil {
		c.respondCartError(ctx, err, "erro ao alterar quantidade do item")
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCartResponse(result))
}

// RemoveItem remove um item do carrinho
// @Summary Remover item do carrinho
// @Description Remove um item do carrinho do usuário autenticado
// @Tags cart
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do item"
// @Success 200 {object} dto.CartResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /cart/items/{id} [delete]
func (c *CartController) RemoveItem(ctx *gin.Context) {
	result, err := c.carts.RemoveItem(ctx, ctx.GetString("user_id"), ctx.Param("id"))
	if err != nil {
		c.respondCartError(ctx, err, "erro ao remover item do carrinho")
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCartResponse(result))
}

// Clear remove todos os itens do carrinho
// @Summary Limpar carrinho
// @Description Remove todos os itens do carrinho do usuário autenticado
// @Tags cart
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /cart [delete]
func (c *CartController) Clear(ctx *gin.Context) {
	if err := c.carts.Clear(ctx, ctx.GetString("user_id")); err != nil {
		c.logger.Error("erro ao limpar carrinho", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao limpar carrinho", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("carrinho limpo com sucesso", nil))
}

// respondCartError mapeia os erros de domínio do carrinho para HTTP
func (c *CartController) respondCartError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
	case errors.Is(err, cart.ErrLineNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "item não encontrado no carrinho", err.Error()))
	case errors.Is(err, cart.ErrInvalidQuantity):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "quantidade inválida", err.Error()))
	case errors.Is(err, product.ErrProductUnavailable):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "produto indisponível para venda", err.Error()))
	case errors.Is(err, product.ErrInsufficientStock):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "estoque insuficiente", err.Error()))
	default:
		c.logger.Error(fallback, "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, fallback, err.Error()))
	}
}
