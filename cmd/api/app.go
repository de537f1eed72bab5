package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/api/route"
	"github.com/hugohenrick/pdv-supermercado/internal/adapter/repository"
	"github.com/hugohenrick/pdv-supermercado/internal/cache"
	"github.com/hugohenrick/pdv-supermercado/internal/event"
	"github.com/hugohenrick/pdv-supermercado/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-supermercado/internal/infrastructure/kafka"
	"github.com/hugohenrick/pdv-supermercado/internal/service"
	"github.com/hugohenrick/pdv-supermercado/pkg/auth"
	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/hugohenrick/pdv-supermercado/pkg/metrics"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// App representa a aplicação e suas dependências
type App struct {
	router    *gin.Engine
	db        *database.PostgresDB
	publisher event.Publisher
	cache     cache.ProductCache
	logger    logger.Logger
}

// NewApp cria uma nova instância do aplicativo com todas as
// dependências conectadas
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	config := database.NewPostgresConfigFromEnv()
	db, err := database.NewPostgresDB(config)
	if err != nil {
		return nil, err
	}

	// Executar migrações pendentes
	if err := database.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	// Broker e cache são opcionais: sem configuração, viram no-ops
	publisher := kafka.NewPublisherFromEnv()
	productCache := cache.NewProductCacheFromEnv()

	// Criar repositórios
	pool := db.Pool()
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)
	refundRepo := repository.NewRefundRepository(pool)
	loyaltyRepo := repository.NewLoyaltyRepository(pool)

	// Criar serviços
	inventoryService := service.NewInventoryService(productRepo, productCache, log)
	cartService := service.NewCartService(cartRepo, productRepo, log)
	couponService := service.NewCouponService(couponRepo, log)
	checkoutService := service.NewCheckoutService(db, cartRepo, productRepo, couponRepo,
		saleRepo, loyaltyRepo, service.ZeroTaxCalculator{}, publisher, productCache, log)
	refundService := service.NewRefundService(db, saleRepo, refundRepo, productRepo,
		publisher, productCache, log)
	loyaltyService := service.NewLoyaltyService(loyaltyRepo, log)

	// Criar controllers
	productController := controller.NewProductController(inventoryService, log)
	cartController := controller.NewCartController(cartService, log)
	saleController := controller.NewSaleController(checkoutService, log)
	refundController := controller.NewRefundController(refundService, auth.ManagerPINHashFromEnv(), log)
	couponController := controller.NewCouponController(couponService, log)
	loyaltyController := controller.NewLoyaltyController(loyaltyService, log)

	// Configurar router
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Métricas HTTP
	serverMetrics := metrics.NewServerMetrics("api")
	router.Use(serverMetrics.Middleware())
	router.GET("/metrics", metrics.Handler())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	// Documentação Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Rotas da API
	api := router.Group("/api/v1")
	route.RegisterProductRoutes(api, productController)
	route.RegisterCartRoutes(api, cartController)
	route.RegisterSaleRoutes(api, saleController, refundController)
	route.RegisterCouponRoutes(api, couponController)
	route.RegisterLoyaltyRoutes(api, loyaltyController)

	return &App{
		router:    router,
		db:        db,
		publisher: publisher,
		cache:     productCache,
		logger:    log,
	}, nil
}

// Start inicia o servidor HTTP e aguarda o sinal de encerramento
func (a *App) Start() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: a.router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("servidor iniciado", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.Close()
		return err
	case sig := <-quit:
		a.logger.Info("encerrando servidor", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.logger.Error("erro no encerramento do servidor", "error", err)
	}

	a.Close()
	return nil
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("erro ao fechar publicador de eventos", "error", err)
	}
	if closer, ok := a.cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("erro ao fechar cache", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
