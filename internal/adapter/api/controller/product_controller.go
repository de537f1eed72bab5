package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/product"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// ProductController gerencia as requisições do catálogo e do estoque
type ProductController struct {
	inventory *service.InventoryService
	logger    logger.Logger
}

// NewProductController cria uma nova instância de ProductController
func NewProductController(inventory *service.InventoryService, logger logger.Logger) *ProductController {
	return &ProductController{
		inventory: inventory,
		logger:    logger,
	}
}

// Create cria um novo produto
// @Summary Criar produto
// @Description Cadastra um novo produto no catálogo
// @Tags products
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products [post]
func (c *ProductController) Create(ctx *gin.Context) {
	var req dto.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	p, err := c.inventory.CreateProduct(ctx, req.SKU, req.Name, req.Price, req.Stock, req.MinStock)
	if err != nil {
		if errors.Is(err, repository.ErrProductDuplicateSKU) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "SKU já cadastrado", err.Error()))
			return
		}
		if errors.Is(err, product.ErrEmptyName) || errors.Is(err, product.ErrInvalidPrice) || errors.Is(err, product.ErrNegativeStock) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar produto", err.Error()))
			return
		}
		c.logger.Error("erro ao criar produto no banco de dados", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao salvar produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToProductResponse(p))
}

// Get busca um produto pelo ID
// @Summary Buscar produto
// @Description Busca um produto pelo ID
// @Tags products
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do produto"
// @Success 200 {object} dto.ProductResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products/{id} [get]
func (c *ProductController) Get(ctx *gin.Context) {
	p, err := c.inventory.GetProduct(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
			return
		}
		c.logger.Error("erro ao buscar produto", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// List lista os produtos com paginação
// @Summary Listar produtos
// @Description Lista os produtos do catálogo com paginação
// @Tags products
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página"
// @Param size query int false "Tamanho da página"
// @Success 200 {object} dto.ProductListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products [get]
func (c *ProductController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	pagination := dto.GetPagination(page, size)

	products, total, err := c.inventory.ListProducts(ctx, pagination.PageSize, pagination.Offset())
	if err != nil {
		c.logger.Error("erro ao listar produtos", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar produtos", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductListResponse(products, total, pagination.Page, pagination.PageSize))
}

// Update atualiza os dados cadastrais de um produto
// @Summary Atualizar produto
// @Description Atualiza os dados cadastrais de um produto; o estoque só muda por ajuste, venda ou devolução
// @Tags products
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do produto"
// @Param product body dto.ProductUpdateRequest true "Dados do produto"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products/{id} [put]
func (c *ProductController) Update(ctx *gin.Context) {
	var req dto.ProductUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	p, err := c.inventory.UpdateProduct(ctx, ctx.Param("id"), req.SKU, req.Name, req.Price, req.MinStock)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
			return
		}
		if errors.Is(err, product.ErrEmptyName) || errors.Is(err, product.ErrInvalidPrice) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao atualizar produto", err.Error()))
			return
		}
		c.logger.Error("erro ao atualizar produto", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao atualizar produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductResponse(p))
}

// UpdateStatus ativa ou desativa um produto
// @Summary Atualizar status do produto
// @Description Ativa ou desativa um produto para venda
// @Tags products
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do produto"
// @Param status body dto.ProductStatusRequest true "Novo status"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products/{id}/status [patch]
func (c *ProductController) UpdateStatus(ctx *gin.Context) {
	var req dto.ProductStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	if err := c.inventory.SetProductStatus(ctx, ctx.Param("id"), req.Active); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
			return
		}
		c.logger.Error("erro ao atualizar status do produto", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao atualizar status", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("status atualizado com sucesso", nil))
}

// AdjustStock aplica um ajuste manual de estoque
// @Summary Ajustar estoque
// @Description Aplica um ajuste manual de estoque (reposição ou perda); o saldo nunca fica negativo
// @Tags products
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do produto"
// @Param adjustment body dto.StockAdjustRequest true "Ajuste de estoque"
// @Success 200 {object} dto.StockChangeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products/{id}/stock [post]
func (c *ProductController) AdjustStock(ctx *gin.Context) {
	var req dto.StockAdjustRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	change, err := c.inventory.AdjustStock(ctx, ctx.Param("id"), req.Delta, req.Reason)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "produto não encontrado", err.Error()))
			return
		}
		if errors.Is(err, product.ErrNegativeStock) {
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "ajuste deixaria o estoque negativo", err.Error()))
			return
		}
		c.logger.Error("erro ao ajustar estoque", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao ajustar estoque", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStockChangeResponse(change))
}

// ListMovements lista as movimentações de estoque de um produto
// @Summary Listar movimentações de estoque
// @Description Lista o histórico de movimentações de estoque de um produto
// @Tags products
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do produto"
// @Param page query int false "Página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} dto.StockMovementResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products/{id}/movements [get]
func (c *ProductController) ListMovements(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	pagination := dto.GetPagination(page, size)

	movements, err := c.inventory.ListMovements(ctx, ctx.Param("id"), pagination.PageSize, pagination.Offset())
	if err != nil {
		c.logger.Error("erro ao listar movimentações de estoque", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar movimentações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStockMovementResponses(movements))
}

// ListAlerts lista os alertas de estoque
// @Summary Listar alertas de estoque
// @Description Lista os alertas de estoque baixo; use unresolved=true para apenas os pendentes
// @Tags products
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param unresolved query bool false "Apenas alertas não resolvidos"
// @Param page query int false "Página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} dto.StockAlertResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stock-alerts [get]
func (c *ProductController) ListAlerts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	pagination := dto.GetPagination(page, size)
	onlyUnresolved := ctx.Query("unresolved") == "true"

	alerts, err := c.inventory.ListAlerts(ctx, onlyUnresolved, pagination.PageSize, pagination.Offset())
	if err != nil {
		c.logger.Error("erro ao listar alertas de estoque", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar alertas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStockAlertResponses(alerts))
}
