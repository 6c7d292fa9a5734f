package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"motordesk/internal/core/numerator"
	"motordesk/internal/domain/catalogs/recipient"
	"motordesk/internal/domain/catalogs/vehicle"
	"motordesk/internal/domain/content"
	"motordesk/internal/domain/invoice"
	"motordesk/internal/domain/notification"
	"motordesk/internal/domain/triage"
	"motordesk/internal/infrastructure/http/v1/handlers"
	"motordesk/internal/infrastructure/http/v1/middleware"
	"motordesk/internal/infrastructure/storage/postgres"
	"motordesk/internal/infrastructure/storage/postgres/catalog_repo"
	"motordesk/internal/infrastructure/storage/postgres/content_repo"
	"motordesk/internal/infrastructure/storage/postgres/document_repo"
	"motordesk/internal/infrastructure/storage/postgres/triage_repo"
	"motordesk/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (health checks)
	Pool *postgres.Pool

	// TxManager drives transactions for all repositories
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// Numerator for code and invoice number generation
	Numerator numerator.Generator

	// Dispatcher delivers operator notifications via the outbox
	Dispatcher notification.Dispatcher
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	api := router.Group("/api/v1")
	{
		if err := registerCatalogRoutes(api, cfg); err != nil {
			return nil, err
		}
		registerInvoiceRoutes(api, cfg)
		registerTriageRoutes(api, cfg)
		registerNotificationRoutes(api, cfg)
		if err := registerContentRoutes(api, cfg); err != nil {
			return nil, err
		}
	}

	return router, nil
}

// registerCatalogRoutes registers recipient and vehicle directory endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) error {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- RECIPIENTS ---
	{
		repo := catalog_repo.NewRecipientRepo(cfg.TxManager)
		service := recipient.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewRecipientHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/recipients"), handler)
	}

	// --- VEHICLES ---
	{
		repo := catalog_repo.NewVehicleRepo(cfg.TxManager)
		service := vehicle.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewVehicleHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/vehicles"), handler)
	}

	return nil
}

// registerInvoiceRoutes registers the invoice document endpoints.
func registerInvoiceRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	recipientRepo := catalog_repo.NewRecipientRepo(cfg.TxManager)
	vehicleRepo := catalog_repo.NewVehicleRepo(cfg.TxManager)
	invoiceRepo := document_repo.NewInvoiceRepo(cfg.TxManager)

	service := invoice.NewService(
		invoiceRepo,
		recipientRepo,
		vehicleRepo,
		cfg.Numerator,
		cfg.Dispatcher,
		cfg.TxManager,
	)

	handler := handlers.NewInvoiceHandler(baseHandler, service)

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", handler.List)
		invoices.POST("", handler.Create)
		invoices.GET("/:id", handler.Get)
		invoices.PUT("/:id", handler.Update)
		invoices.DELETE("/:id", handler.Delete)
		invoices.POST("/:id/issue", handler.Issue)
		invoices.POST("/:id/pay", handler.MarkPaid)
		invoices.POST("/:id/cancel", handler.Cancel)
	}
}

// registerTriageRoutes registers contact message and lead endpoints.
func registerTriageRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	contactRepo := triage_repo.NewContactRepo(cfg.TxManager)
	leadRepo := triage_repo.NewLeadRepo(cfg.TxManager)
	service := triage.NewService(contactRepo, leadRepo, cfg.Dispatcher, cfg.TxManager)
	handler := handlers.NewTriageHandler(baseHandler, service)

	contacts := rg.Group("/contacts")
	{
		contacts.GET("", handler.ListContacts)
		contacts.POST("", handler.SubmitContact)
		contacts.GET("/:id", handler.GetContact)
		contacts.PATCH("/:id/status", handler.UpdateContactStatus)
	}

	leads := rg.Group("/leads")
	{
		leads.GET("", handler.ListLeads)
		leads.POST("", handler.SubmitLead)
		leads.GET("/:id", handler.GetLead)
		leads.PATCH("/:id/status", handler.UpdateLeadStatus)
	}
}

// registerNotificationRoutes registers the ad-hoc notification dispatch endpoint.
func registerNotificationRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handler := handlers.NewNotificationHandler(handlers.NewBaseHandler(), cfg.Dispatcher, cfg.TxManager)
	rg.POST("/notifications", handler.Send)
}

// registerContentRoutes registers the bilingual content store endpoints.
func registerContentRoutes(rg *gin.RouterGroup, cfg RouterConfig) error {
	baseHandler := handlers.NewBaseHandler()

	repo, err := content_repo.NewBlockRepo(cfg.TxManager)
	if err != nil {
		return fmt.Errorf("create content repo: %w", err)
	}

	service := content.NewService(repo, cfg.TxManager)
	handler := handlers.NewContentHandler(baseHandler, service)

	blocks := rg.Group("/content")
	{
		blocks.GET("", handler.List)
		blocks.GET("/:slug", handler.Get)
		blocks.PUT("/:slug", handler.Save)
	}

	return nil
}
