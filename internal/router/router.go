package router

import (
	"net/http"

	"github.com/keval2310/Expense-Manager/internal/config"
	"github.com/keval2310/Expense-Manager/internal/handler"
	"github.com/keval2310/Expense-Manager/internal/middleware"
	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/store"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, st store.Store) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(
		st, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.Authenticate(cfg.JWT.Secret, st),
		middleware.Audit(st),
	)

	userHandler := handler.NewUserHandler(st, cfg.Security.BcryptCost)
	protected.GET("/users/me", userHandler.Me)
	protected.PUT("/users/profile", userHandler.UpdateProfile)
	protected.PUT("/users/password", userHandler.ChangePassword)

	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/users", userHandler.List)
	admin.PUT("/users/:id", userHandler.Update)

	categoryHandler := handler.NewCategoryHandler(st)
	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	subcategoryHandler := handler.NewSubcategoryHandler(st)
	protected.GET("/subcategories", subcategoryHandler.List)
	protected.POST("/subcategories", subcategoryHandler.Create)
	protected.PUT("/subcategories/:id", subcategoryHandler.Update)
	protected.DELETE("/subcategories/:id", subcategoryHandler.Delete)

	projectHandler := handler.NewProjectHandler(st, cfg.App.PageSize)
	protected.GET("/projects", projectHandler.List)
	protected.POST("/projects", projectHandler.Create)
	protected.PUT("/projects/:id", projectHandler.Update)
	protected.DELETE("/projects/:id", projectHandler.Delete)

	expenseHandler := handler.NewTransactionHandler(st, models.KindExpense, cfg.App.PageSize)
	protected.GET("/expenses", expenseHandler.List)
	protected.POST("/expenses", expenseHandler.Create)
	protected.GET("/expenses/:id", expenseHandler.Get)
	protected.PUT("/expenses/:id", expenseHandler.Update)
	protected.DELETE("/expenses/:id", expenseHandler.Delete)

	incomeHandler := handler.NewTransactionHandler(st, models.KindIncome, cfg.App.PageSize)
	protected.GET("/incomes", incomeHandler.List)
	protected.POST("/incomes", incomeHandler.Create)
	protected.GET("/incomes/:id", incomeHandler.Get)
	protected.PUT("/incomes/:id", incomeHandler.Update)
	protected.DELETE("/incomes/:id", incomeHandler.Delete)

	analyticsHandler := handler.NewAnalyticsHandler(st, cfg.App.TrendMonths)
	protected.GET("/analytics/dashboard", analyticsHandler.Dashboard)
	protected.GET("/analytics/category-breakdown", analyticsHandler.CategoryBreakdown)
	protected.GET("/analytics/monthly-trends", analyticsHandler.MonthlyTrends)
	protected.GET("/analytics/project-breakdown", analyticsHandler.ProjectBreakdown)

	auditHandler := handler.NewAuditHandler(st, cfg.App.PageSize)
	protected.GET("/audit-logs", auditHandler.List)

	return r
}
