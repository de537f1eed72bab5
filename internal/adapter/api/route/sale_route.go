package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
)

// RegisterSaleRoutes registra as rotas de vendas e devoluções. A
// autorização fina da devolução (PIN de gerente para operadores de
// caixa) fica no controller.
func RegisterSaleRoutes(r *gin.RouterGroup, saleController *controller.SaleController, refundController *controller.RefundController) {
	sales := r.Group("/sales")
	sales.Use(auth.JWTAuthMiddleware())
	{
		sales.POST("/checkout", saleController.Checkout)
		sales.GET("", saleController.List)
		sales.GET("/:id", saleController.Get)
		sales.POST("/:id/refunds", refundController.Create)
		sales.GET("/:id/refunds", refundController.ListBySale)
	}

	refunds := r.Group("/refunds")
	refunds.Use(auth.JWTAuthMiddleware())
	{
		refunds.GET("/:id", refundController.Get)
	}
}
