package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
)

// RegisterCouponRoutes registra as rotas de cupons. O cadastro exige
// papel de gerente; validação e consulta ficam abertas a qualquer
// operador autenticado.
func RegisterCouponRoutes(r *gin.RouterGroup, couponController *controller.CouponController) {
	coupons := r.Group("/coupons")
	coupons.Use(auth.JWTAuthMiddleware())
	{
		coupons.GET("", couponController.List)
		coupons.POST("/validate", couponController.Validate)
		coupons.GET("/:code", couponController.Get)
		coupons.GET("/:code/usages", couponController.ListUsages)

		manager := coupons.Group("")
		manager.Use(auth.RequireRole(auth.RoleManager))
		{
			manager.POST("", couponController.Create)
		}
	}
}
