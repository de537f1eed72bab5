package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
)

// RegisterLoyaltyRoutes registra as rotas de fidelidade
func RegisterLoyaltyRoutes(r *gin.RouterGroup, loyaltyController *controller.LoyaltyController) {
	loyalty := r.Group("/loyalty")
	loyalty.Use(auth.JWTAuthMiddleware())
	{
		loyalty.GET("/:clientId", loyaltyController.Balance)
		loyalty.GET("/:clientId/movements", loyaltyController.History)
		loyalty.POST("/:clientId/redeem", loyaltyController.Redeem)
	}
}
