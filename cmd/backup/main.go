// backup crea, lista y depura los respaldos JSON del inventario.
//
// Uso: go run ./cmd/backup [backup|list|clean|auto|restore <archivo>]
//
//	backup   crea un respaldo y depura los antiguos (por defecto)
//	list     muestra los respaldos, el más reciente primero
//	clean    conserva solo los BACKUP_KEEP más recientes
//	auto     respalda cada BACKUP_INTERVAL_MINUTES hasta SIGINT/SIGTERM
//	restore  reemplaza el inventario con el contenido del archivo; los usuarios no cambian
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jhoicas/gestion-stock/internal/application/analytics"
	"github.com/jhoicas/gestion-stock/internal/application/backup"
	"github.com/jhoicas/gestion-stock/internal/bootstrap"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/cache"
	"github.com/jhoicas/gestion-stock/pkg/config"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

func main() {
	command := "backup"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "backup"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer closeStore()

	svc := backup.NewService(repos.BackupSource(), cfg.Backup.Dir, cfg.App.Name, cfg.Backup.Keep, log)

	switch command {
	case "backup":
		info, err := svc.Create(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("crear respaldo")
		}
		fmt.Printf("respaldo creado: %s (%d bytes)\n", info.Path, info.Size)
		if _, err := svc.CleanOld(); err != nil {
			log.Error().Err(err).Msg("depurar respaldos")
		}

	case "list":
		infos, err := svc.List()
		if err != nil {
			log.Fatal().Err(err).Msg("listar respaldos")
		}
		if len(infos) == 0 {
			fmt.Println("no hay respaldos en", cfg.Backup.Dir)
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ARCHIVO\tFECHA\tBYTES")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%d\n", info.Name, info.CreatedAt.Format(time.DateTime), info.Size)
		}
		w.Flush()

	case "clean":
		removed, err := svc.CleanOld()
		if err != nil {
			log.Fatal().Err(err).Msg("depurar respaldos")
		}
		fmt.Printf("%d respaldos eliminados\n", len(removed))

	case "auto":
		interval := cfg.Backup.Interval
		if interval <= 0 {
			interval = 24 * time.Hour
		}
		log.Info().Dur("interval", interval).Str("dir", cfg.Backup.Dir).Msg("respaldo automático iniciado")
		scheduler := backup.NewScheduler(svc, interval, log)
		scheduler.RunOnce(ctx)
		scheduler.Run(ctx)
		log.Info().Msg("respaldo automático detenido")

	case "restore":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "uso: backup restore <archivo>")
			os.Exit(1)
		}
		snap, err := svc.Restore(ctx, repos.BackupStore, os.Args[2])
		if err != nil {
			log.Fatal().Err(err).Msg("restaurar respaldo")
		}
		fmt.Printf("respaldo restaurado: %d productos, %d movimientos, %d ventas, %d devoluciones\n",
			len(snap.Products), len(snap.Movements), len(snap.Sales), len(snap.Returns))
		dropStats(ctx, cfg, log)

	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (backup|list|clean|auto|restore)\n", command)
		os.Exit(1)
	}
}

// dropStats borra las estadísticas en caché que sirve la API, ya obsoletas tras restaurar.
func dropStats(ctx context.Context, cfg *config.Config, log *logger.Logger) {
	statsCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("caché no disponible; las estadísticas expiran solas")
		return
	}
	defer statsCache.Close()
	if err := statsCache.Del(ctx, analytics.StatsCacheKey); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la caché de estadísticas")
	}
}
