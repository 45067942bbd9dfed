package main

import (
	"fmt"
	"net/http"
	"os"
	"paycycle/internal/config"
	"paycycle/internal/database"
	"paycycle/internal/handlers"
	"paycycle/internal/logger"
	"paycycle/internal/middleware"
	"paycycle/internal/services"
	"paycycle/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "paycycle/internal/docs" // Import swagger docs
)

// @title           Paycycle API
// @version         1.0
// @description     Paycycle tracks pay-cycle budgets, recurring commitments, and safe-to-spend metrics over 15th-to-14th pay windows.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	loc := appConfig.Location()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	settingService := services.NewSettingService(db)
	merchantRuleService := services.NewMerchantRuleService(db)
	categoryService := services.NewCategoryService(db)
	cycleService := services.NewCycleService(db, loc)
	transactionService := services.NewTransactionService(db, merchantRuleService, loc)
	budgetService := services.NewBudgetService(db)
	recurringService := services.NewRecurringService(db, settingService, loc)
	metricsService := services.NewMetricsService(db, cycleService, settingService, loc)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	cycleHandler := handlers.NewCycleHandler(cycleService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	recurringHandler := handlers.NewRecurringHandler(recurringService)
	metricsHandler := handlers.NewMetricsHandler(metricsService, transactionService)
	settingHandler := handlers.NewSettingHandler(settingService)
	merchantRuleHandler := handlers.NewMerchantRuleHandler(merchantRuleService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Cycle routes
	cycles := protected.Group("/cycles")
	cycles.POST("", cycleHandler.CreateCycle)
	cycles.GET("", cycleHandler.GetCycles)
	cycles.GET("/current", cycleHandler.GetCurrentCycle)
	cycles.POST("/close", cycleHandler.CloseCycle)
	cycles.GET("/:cycle_id", cycleHandler.GetCycle)
	cycles.PATCH("/:cycle_id", cycleHandler.UpdateCycle)
	cycles.GET("/:cycle_id/transactions", transactionHandler.GetTransactions)
	cycles.PUT("/:cycle_id/budgets", budgetHandler.UpsertBudget)
	cycles.GET("/:cycle_id/budgets", budgetHandler.GetBudgets)
	cycles.GET("/:cycle_id/metrics", metricsHandler.GetCycleMetrics)
	cycles.POST("/:cycle_id/generate-planned", recurringHandler.GeneratePlanned)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/pay", transactionHandler.MarkAsPaid)
	transactions.POST("/categorize", transactionHandler.BulkCategorize)
	transactions.POST("/convert-due", transactionHandler.ConvertDuePlanned)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Recurring transaction routes
	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("", recurringHandler.GetRecurring)
	recurring.PUT("/:id", recurringHandler.UpdateRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)

	// Budget routes
	protected.DELETE("/budgets/:id", budgetHandler.DeleteBudget)

	// Metrics routes
	protected.GET("/metrics/current", metricsHandler.GetCurrentMetrics)

	// Settings routes
	protected.GET("/settings", settingHandler.GetSettings)
	protected.PUT("/settings", settingHandler.UpdateSettings)

	// Merchant rule routes
	merchantRules := protected.Group("/merchant-rules")
	merchantRules.POST("", merchantRuleHandler.CreateRule)
	merchantRules.GET("", merchantRuleHandler.GetRules)
	merchantRules.DELETE("/:id", merchantRuleHandler.DeleteRule)

	log.Infof("Starting Paycycle backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
