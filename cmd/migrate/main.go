// migrate aplica los scripts SQL embebidos en migrations/ contra PostgreSQL.
//
// Uso: go run ./cmd/migrate -action=up|down|version|force [-steps N] [-target V]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/gestion-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-stock/migrations"
	"github.com/jhoicas/gestion-stock/pkg/config"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

func main() {
	var (
		action = flag.String("action", "up", "Acción: up, down, version, force")
		steps  = flag.Int("steps", 1, "Migraciones a revertir con down")
		target = flag.Uint("target", 0, "Versión destino para version o force")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	migrator, err := postgres.NewMigrator(migrations.FS, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}

	switch *action {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down(*steps)
	case "version":
		if *target == 0 {
			log.Fatal().Msg("-target es requerido para version")
		}
		err = migrator.To(*target)
	case "force":
		// force acepta 0: esquema sin migraciones aplicadas
		err = migrator.Force(int(*target))
	default:
		fmt.Printf("Uso: %s -action=[up|down|version|force] [opciones]\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Ejemplos:")
		fmt.Println("  ./migrate -action=up")
		fmt.Println("  ./migrate -action=down -steps=1")
		fmt.Println("  ./migrate -action=version -target=1")
		fmt.Println("  ./migrate -action=force -target=0")
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("action", *action).Msg("migración fallida")
	}
}
