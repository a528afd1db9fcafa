package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/gestion-stock/docs"
	appanalytics "github.com/jhoicas/gestion-stock/internal/application/analytics"
	"github.com/jhoicas/gestion-stock/internal/application/auth"
	"github.com/jhoicas/gestion-stock/internal/application/backup"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/application/report"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/bootstrap"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/gestion-stock/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/gestion-stock/internal/interfaces/http"
	"github.com/jhoicas/gestion-stock/pkg/config"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// @title        Gestión de Stock API
// @version      1.0
// @description  Libro de inventario: productos, movimientos, ventas y devoluciones.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.StoreDriver).
		Str("cache", cfg.Cache.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repos, closeStore, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer closeStore()

	statsCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la caché")
	}
	defer statsCache.Close()

	dashboardUC := appanalytics.NewDashboardUseCase(repos.Analytics, repos.Sales, statsCache, cfg.Cache.TTL, log.Named("dashboard"))
	ledgerUC := inventory.NewLedgerUseCase(repos.TxRunner, dashboardUC, log.Named("ledger"))
	productUC := usecase.NewProductUseCase(repos.Products, dashboardUC)
	historyUC := usecase.NewHistoryUseCase(repos.Movements, repos.Sales, repos.Returns)
	posUC := usecase.NewPointOfSaleUseCase(repos.PointsOfSale)
	stockReportUC := report.NewStockReportUseCase(repos.Products, repos.Analytics, infrapdf.NewMarotoPDFGenerator(), "Reporte de existencias")
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Respaldo automático: solo si BACKUP_INTERVAL_MINUTES > 0
	if cfg.Backup.Interval > 0 {
		backupSvc := backup.NewService(repos.BackupSource(), cfg.Backup.Dir, cfg.App.Name, cfg.Backup.Keep, log.Named("backup"))
		go backup.NewScheduler(backupSvc, cfg.Backup.Interval, log.Named("backup")).Run(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.AccessLog(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestión de Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     productUC,
		LedgerUC:      ledgerUC,
		HistoryUC:     historyUC,
		PointOfSaleUC: posUC,
		DashboardUC:   dashboardUC,
		StockReportUC: stockReportUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
