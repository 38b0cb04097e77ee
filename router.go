package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourusername/helm-collect/cache"
	"github.com/yourusername/helm-collect/config"
	"github.com/yourusername/helm-collect/handlers"
	"github.com/yourusername/helm-collect/middleware"
	"github.com/yourusername/helm-collect/models"
	"github.com/yourusername/helm-collect/store"
	"github.com/yourusername/helm-collect/templates"
	"github.com/yourusername/helm-collect/utils"
)

// App holds everything the router needs.
type App struct {
	Config     *config.Config
	Store      *store.Store
	Principals cache.PrincipalLoader
	Dispatcher utils.DispatcherInterface
	Registry   *prometheus.Registry
}

// setupRouter honours X-Forwarded-For only from the configured proxies.
func setupRouter(app App) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(app.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.Use(middleware.NewMetrics(app.Registry).Middleware())
	router.SetHTMLTemplate(templates.MustLoad())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "helm-collect",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})))

	authHandler := handlers.NewAuthHandler(app.Store, app.Config)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	debtorHandler := handlers.NewDebtorHandler(app.Store, app.Config)
	limiter := middleware.NewRateLimiter(app.Config.RateLimitRPS, app.Config.RateLimitBurst)

	// Public debtor and provider endpoints
	public := router.Group("/api", limiter.Middleware())
	{
		public.GET("/landing/:token", debtorHandler.Landing)
		public.GET("/pay/:token", debtorHandler.PaymentPage)
		public.POST("/webhook/payment", debtorHandler.PaymentWebhook)
	}

	// Client integrations authenticate with an API key
	outboundHandler := handlers.NewOutboundHandler(app.Store, app.Dispatcher)
	keyed := router.Group("/api", middleware.APIKeyAuthMiddleware(app.Store))
	{
		keyed.POST("/send/sms", outboundHandler.SendSMS)
		keyed.POST("/send/email", outboundHandler.SendEmail)
		keyed.POST("/call/start", outboundHandler.StartCall)
	}

	caseHandler := handlers.NewCaseHandler(app.Store)
	searchHandler := handlers.NewSearchHandler(app.Store)
	apiKeyHandler := handlers.NewAPIKeyHandler(app.Store)

	staff := router.Group("/", middleware.SessionAuthMiddleware(app.Config.SessionSecret, app.Principals))
	{
		staff.GET("/", caseHandler.Dashboard)
		staff.GET("/dashboard", caseHandler.Dashboard)
		staff.GET("/client/:id", caseHandler.ClientDashboard)
		staff.POST("/client/add_client", caseHandler.AddClient)
		staff.POST("/case/add_case", caseHandler.AddCase)
		staff.POST("/case/:id/edit", caseHandler.EditCase)
		staff.POST("/case/:id/money", caseHandler.AddMoney)
		staff.POST("/case/:id/notes", caseHandler.AddNote)

		staff.GET("/search", searchHandler.Search)
		staff.GET("/client_search", searchHandler.ClientSearch)

		staff.POST("/api/case/:id/link", debtorHandler.GenerateLink)

		admin := staff.Group("/", middleware.RequireRole(models.RoleAdmin))
		admin.POST("/client/:id/delete", caseHandler.DeleteClient)
		admin.POST("/case/:id/delete", caseHandler.DeleteCase)
		admin.POST("/client/:id/api_keys", apiKeyHandler.Create)
		admin.POST("/api_keys/:id/deactivate", apiKeyHandler.Deactivate)
	}

	return router, nil
}
