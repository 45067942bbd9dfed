package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paycycle/internal/handlers"
	"paycycle/internal/logger"
	"paycycle/internal/middleware"
	"paycycle/internal/models"
	"paycycle/internal/services"
	"paycycle/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Cycle{},
		&models.Category{},
		&models.Transaction{},
		&models.RecurringTransaction{},
		&models.Budget{},
		&models.MerchantRule{},
		&models.Setting{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Fatalf("failed to load reference timezone: %v", err)
	}

	// Services
	userService := services.NewUserService(db)
	settingService := services.NewSettingService(db)
	merchantRuleService := services.NewMerchantRuleService(db)
	categoryService := services.NewCategoryService(db)
	cycleService := services.NewCycleService(db, loc)
	transactionService := services.NewTransactionService(db, merchantRuleService, loc)
	budgetService := services.NewBudgetService(db)
	recurringService := services.NewRecurringService(db, settingService, loc)
	metricsService := services.NewMetricsService(db, cycleService, settingService, loc)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	cycleHandler := handlers.NewCycleHandler(cycleService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	recurringHandler := handlers.NewRecurringHandler(recurringService)
	metricsHandler := handlers.NewMetricsHandler(metricsService, transactionService)
	settingHandler := handlers.NewSettingHandler(settingService)
	merchantRuleHandler := handlers.NewMerchantRuleHandler(merchantRuleService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

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

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/pay", transactionHandler.MarkAsPaid)
	transactions.POST("/categorize", transactionHandler.BulkCategorize)
	transactions.POST("/convert-due", transactionHandler.ConvertDuePlanned)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("", recurringHandler.GetRecurring)
	recurring.PUT("/:id", recurringHandler.UpdateRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)

	protected.DELETE("/budgets/:id", budgetHandler.DeleteBudget)
	protected.GET("/metrics/current", metricsHandler.GetCurrentMetrics)
	protected.GET("/settings", settingHandler.GetSettings)
	protected.PUT("/settings", settingHandler.UpdateSettings)

	merchantRules := protected.Group("/merchant-rules")
	merchantRules.POST("", merchantRuleHandler.CreateRule)
	merchantRules.GET("", merchantRuleHandler.GetRules)
	merchantRules.DELETE("/:id", merchantRuleHandler.DeleteRule)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// createCycle creates a cycle over an explicit window and returns its ID.
func (app *testApp) createCycle(t *testing.T, token, startDate, endDate string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"start_date":%q,"end_date":%q,"starting_balance":"1000","income_planned":"3000","target_end_balance":"500"}`,
		startDate, endDate)
	rec := app.request("POST", "/api/v1/cycles", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create cycle failed: %d %s", rec.Code, rec.Body.String())
	}
	cycle := parseJSON(t, rec)["cycle"].(map[string]interface{})
	return cycle["id"].(float64)
}

// createCategory creates a category and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name, categoryType string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"type":%q}`, name, categoryType)
	rec := app.request("POST", "/api/v1/categories", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	return category["id"].(float64)
}

// errorCode extracts the structured error code from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no error object: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}
