package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/gestion-stock/internal/application/analytics"
	"github.com/jhoicas/gestion-stock/internal/application/auth"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/application/report"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	LedgerUC      *inventory.LedgerUseCase
	HistoryUC     *usecase.HistoryUseCase
	PointOfSaleUC *usecase.PointOfSaleUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	StockReportUC *report.StockReportUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.LedgerUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/low-stock", productHandler.LowStock)
	products.Post("/import", productHandler.Import)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Movimientos, ventas y devoluciones
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.HistoryUC)
	protected.Get("/movements", inventoryHandler.ListMovements)
	protected.Post("/movements", inventoryHandler.ApplyMovements)
	protected.Get("/sales", inventoryHandler.ListSales)
	protected.Get("/returns", inventoryHandler.ListReturns)
	protected.Post("/returns", inventoryHandler.RecordReturn)

	// Points of sale
	pos := protected.Group("/points-of-sale")
	posHandler := NewPointOfSaleHandler(deps.PointOfSaleUC)
	pos.Get("/", posHandler.List)
	pos.Post("/", posHandler.Create)
	pos.Get("/:id", posHandler.GetByID)
	pos.Put("/:id", posHandler.Update)
	pos.Delete("/:id", adminOnly, posHandler.Delete)

	// Dashboard y reportes
	protected.Get("/stats", NewDashboardHandler(deps.DashboardUC).GetStats)
	protected.Get("/reports/stock.pdf", NewReportHandler(deps.StockReportUC).StockPDF)
}
