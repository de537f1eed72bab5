package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
)

// RegisterCartRoutes registra as rotas do carrinho
func RegisterCartRoutes(r *gin.RouterGroup, cartController *controller.CartController) {
	cart := r.Group("/cart")
	cart.Use(auth.JWTAuthMiddleware())
	{
		cart.GET("", cartController.Get)
		cart.DELETE("", cartController.Clear)
		cart.POST("/items", cartController.AddItem)
		cart.PUT("/items/:id", cartController.UpdateQuantity)
		cart.DELETE("/items/:id", cartController.RemoveItem)
	}
}
