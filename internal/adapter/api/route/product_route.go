package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
)

// RegisterProductRoutes registra as rotas do catálogo e do estoque.
// Cadastro, ajuste de estoque e status exigem papel de gerente.
func RegisterProductRoutes(r *gin.RouterGroup, productController *controller.ProductController) {
	products := r.Group("/products")
	products.Use(auth.JWTAuthMiddleware())
	{
		products.GET("", productController.List)
		products.GET("/:id", productController.Get)
		products.GET("/:id/movements", productController.ListMovements)

		manager := products.Group("")
		manager.Use(auth.RequireRole(auth.RoleManager))
		{
			manager.POST("", productController.Create)
			manager.PUT("/:id", productController.Update)
			manager.PATCH("/:id/status", productController.UpdateStatus)
			manager.POST("/:id/stock", productController.AdjustStock)
		}
	}

	alerts := r.Group("/stock-alerts")
	alerts.Use(auth.JWTAuthMiddleware())
	{
		alerts.GET("", productController.ListAlerts)
	}
}
