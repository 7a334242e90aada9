package router

import (
	"log/slog"
	"net/http"

	"github.com/gitKrishh/finance-tracker/internal/config"
	"github.com/gitKrishh/finance-tracker/internal/handler"
	"github.com/gitKrishh/finance-tracker/internal/middleware"
	"github.com/gitKrishh/finance-tracker/internal/report"
	"github.com/gitKrishh/finance-tracker/internal/store"
	"github.com/gitKrishh/finance-tracker/internal/token"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires stores, the token manager and handlers into a gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	users := store.NewUserStore(db, cfg.Security.BcryptCost)
	transactions := store.NewTransactionStore(db)
	tokens := token.NewManager(cfg.JWT)
	engine := report.NewEngine(db)

	authHandler := handler.NewAuthHandler(users, tokens, cfg.Server.SecureCookies)
	txHandler := handler.NewTransactionHandler(transactions)
	reportHandler := handler.NewReportHandler(engine)
	exportHandler := handler.NewExportHandler(transactions)

	api := r.Group("/api/v1")

	api.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Server is healthy and running.",
		})
	})

	userRoutes := api.Group("/users")
	userRoutes.POST("/register", authHandler.Register)
	userRoutes.POST("/login", authHandler.Login)
	// authenticates via the refresh token itself, so it stays public
	userRoutes.POST("/refresh-token", authHandler.RefreshToken)

	auth := middleware.Auth(tokens, users)

	securedUsers := userRoutes.Group("", auth)
	securedUsers.POST("/logout", authHandler.Logout)
	securedUsers.GET("/me", authHandler.GetMe)
	securedUsers.PATCH("/update-account", handler.UpdateAccount(users))
	securedUsers.POST("/change-password", handler.ChangePassword(users))

	txRoutes := api.Group("/transactions", auth)
	txRoutes.GET("/reports", reportHandler.Reports)
	txRoutes.GET("/stats", reportHandler.Stats)
	txRoutes.GET("/summary/categories", reportHandler.CategorySummary)
	txRoutes.GET("/export/csv", exportHandler.ExportCSV)
	txRoutes.GET("/export/xlsx", exportHandler.ExportXLSX)

	txRoutes.POST("", txHandler.Create)
	txRoutes.GET("", txHandler.List)
	txRoutes.GET("/:id", txHandler.GetByID)
	txRoutes.PATCH("/:id", txHandler.Update)
	txRoutes.DELETE("/:id", txHandler.Delete)

	return r
}
