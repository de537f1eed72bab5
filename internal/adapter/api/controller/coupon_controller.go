package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/domain/coupon"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
)

// CouponController gerencia o cadastro e a validação de cupons
type CouponController struct {
	coupons *service.CouponService
	logger  logger.Logger
}

// NewCouponController cria uma nova instância de CouponController
func NewCouponController(coupons *service.CouponService, logger logger.Logger) *CouponController {
	return &CouponController{
		coupons: coupons,
		logger:  logger,
	}
}

// Create cadastra um novo cupom
// @Summary Criar cupom
// @Description Cadastra um novo cupom de desconto
// @Tags coupons
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param coupon body dto.CouponRequest true "Dados do cupom"
// @Success 201 {object} dto.CouponResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coupons [post]
func (c *CouponController) Create(ctx *gin.Context) {
	var req dto.CouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	created, err := c.coupons.Create(ctx, service.CreateCouponInput{
		Code:              req.Code,
		DiscountType:      coupon.DiscountType(req.DiscountType),
		DiscountValue:     req.DiscountValue,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		UsageLimit:        req.UsageLimit,
		ExpiresAt:         req.ExpiresAt,
		ClientID:          req.ClientID,
		AllowMultipleUse:  req.AllowMultipleUse,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCouponDuplicateCode) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "código de cupom já cadastrado", err.Error()))
			return
		}
		if errors.Is(err, coupon.ErrEmptyCode) || errors.Is(err, coupon.ErrInvalidType) || errors.Is(err, coupon.ErrInvalidValue) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "erro ao criar cupom", err.Error()))
			return
		}
		c.logger.Error("erro ao criar cupom no banco de dados", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao salvar cupom", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCouponResponse(created))
}

// Get busca um cupom pelo código
// @Summary Buscar cupom
// @Description Busca um cupom pelo código
// @Tags coupons
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param code path string true "Código do cupom"
// @Success 200 {object} dto.CouponResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coupons/{code} [get]
func (c *CouponController) Get(ctx *gin.Context) {
	found, err := c.coupons.GetByCode(ctx, ctx.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "cupom não encontrado", err.Error()))
			return
		}
		c.logger.Error("erro ao buscar cupom", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar cupom", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCouponResponse(found))
}

// List lista os cupons com paginação
// @Summary Listar cupons
// @Description Lista os cupons cadastrados com paginação
// @Tags coupons
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Página"
// @Param size query int false "Tamanho da página"
// @Success 200 {object} dto.CouponListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coupons [get]
func (c *CouponController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	pagination := dto.GetPagination(page, size)

	coupons, total, err := c.coupons.List(ctx, pagination.PageSize, pagination.Offset())
	if err != nil {
		c.logger.Error("erro ao listar cupons", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar cupons", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCouponListResponse(coupons, total, pagination.Page, pagination.PageSize))
}

// Validate valida um cupom contra uma compra sem resgatá-lo
// @Summary Validar cupom
// @Description Avalia um cupom contra uma compra e retorna todas as regras violadas de uma vez
// @Tags coupons
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param validation body dto.CouponValidateRequest true "Dados da validação"
// @Success 200 {object} dto.CouponValidationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coupons/validate [post]
func (c *CouponController) Validate(ctx *gin.Context) {
	var req dto.CouponValidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	result, err := c.coupons.Validate(ctx, req.Code, req.ClientID, req.PurchaseAmount)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "cupom não encontrado", err.Error()))
			return
		}
		c.logger.Error("erro ao validar cupom", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao validar cupom", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCouponValidationResponse(result))
}

// ListUsages lista os resgates de um cupom
// @Summary Listar resgates de cupom
// @Description Lista o histórico de resgates de um cupom
// @Tags coupons
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param code path string true "Código do cupom"
// @Param page query int false "Página"
// @Param size query int false "Tamanho da página"
// @Success 200 {array} dto.CouponUsageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coupons/{code}/usages [get]
func (c *CouponController) ListUsages(ctx *gin.Context) {
	found, err := c.coupons.GetByCode(ctx, ctx.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "cupom não encontrado", err.Error()))
			return
		}
		c.logger.Error("erro ao buscar cupom", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao buscar cupom", err.Error()))
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	pagination := dto.GetPagination(page, size)

	usages, err := c.coupons.ListUsages(ctx, found.ID, pagination.PageSize, pagination.Offset())
	if err != nil {
		c.logger.Error("erro ao listar resgates do cupom", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "erro ao listar resgates", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCouponUsageResponses(usages))
}
