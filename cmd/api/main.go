package main

import (
	"log"
	"os"

	_ "procurement/api/swagger" // swagger docs
	"procurement/internal/authz"
	"procurement/internal/database"
	"procurement/internal/handler"
	"procurement/internal/middleware"
	"procurement/internal/repository"
	"procurement/internal/service"
	"procurement/internal/websocket"
	"procurement/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Procurement API
// @version         1.0
// @description     Procurement and supply-chain backend: clients, suppliers, items, quotations, purchase orders, pricing and reports with role-based access control.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	zlog, err := logger.New(env("LOG_LEVEL", "info"), env("LOG_FORMAT", "json"), "procurement-api")
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer zlog.Sync()

	dsn := "postgres://" + env("DB_USER", "postgres") + ":" + env("DB_PASSWORD", "postgres") +
		"@" + env("DB_HOST", "localhost") + ":" + env("DB_PORT", "5432") +
		"/" + env("DB_NAME", "procurement") + "?sslmode=" + env("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	zlog.Info("connected to PostgreSQL")

	// The permission table is fixed at startup; a role without a row is a
	// deployment error, caught here rather than at the first request.
	table := authz.Default()
	if err := table.Validate(); err != nil {
		zlog.Fatal("permission table is misconfigured", zap.Error(err))
	}

	wsHub := websocket.NewHub(zlog)
	go wsHub.Run()

	// Repository -> Service -> Handler
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	itemRepo := repository.NewItemRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	userService := service.NewUserService(userRepo, table, zlog)
	clientService := service.NewClientService(clientRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	itemService := service.NewItemService(itemRepo)
	quotationService := service.NewQuotationService(quotationRepo, itemRepo)
	poService := service.NewPurchaseOrderService(poRepo, quotationRepo, itemRepo)
	pricingService := service.NewPricingService(pricingRepo, itemRepo, zlog)
	activityService := service.NewActivityService(activityRepo, wsHub, zlog)
	statisticsService := service.NewStatisticsService(activityRepo, quotationRepo, poRepo)
	exportService := service.NewExportService(itemRepo, quotationRepo, poRepo, statisticsService, zlog)

	guard := middleware.NewGuard(table, userRepo, zlog)

	userHandler := handler.NewUserHandler(userService, activityService, guard)
	clientHandler := handler.NewClientHandler(clientService, activityService, guard)
	supplierHandler := handler.NewSupplierHandler(supplierService, activityService, guard)
	itemHandler := handler.NewItemHandler(itemService, activityService, guard)
	quotationHandler := handler.NewQuotationHandler(quotationService, activityService, guard)
	poHandler := handler.NewPurchaseOrderHandler(poService, activityService, guard)
	pricingHandler := handler.NewPricingHandler(pricingService, activityService, guard)
	reportHandler := handler.NewReportHandler(statisticsService, activityService, exportService, guard)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.TrackActivity(userRepo, zlog))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	api := router.Group("/api")
	userHandler.RegisterRoutes(api)
	clientHandler.RegisterRoutes(api)
	supplierHandler.RegisterRoutes(api)
	itemHandler.RegisterRoutes(api)
	quotationHandler.RegisterRoutes(api)
	poHandler.RegisterRoutes(api)
	pricingHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)

	port := env("PORT", "8080")
	zlog.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}
