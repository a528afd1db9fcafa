package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registra el esquema pgx5://
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jhoicas/gestion-stock/pkg/config"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// Migrator aplica los scripts SQL embebidos con golang-migrate.
// Cada operación abre su propia conexión; el pool de la API no se comparte.
type Migrator struct {
	source fs.FS
	dbURL  string
	log    *logger.Logger
}

// NewMigrator construye el migrador sobre source (normalmente migrations.FS).
func NewMigrator(source fs.FS, cfg config.DBConfig, log *logger.Logger) (*Migrator, error) {
	dbURL, err := migrateURL(cfg.ConnectionString())
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Migrator{source: source, dbURL: dbURL, log: log.Named("migrate")}, nil
}

// migrateURL traduce postgres:// o postgresql:// al esquema del driver pgx/v5 de golang-migrate.
func migrateURL(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "", fmt.Errorf("migrate: DSN debe ser una URL postgres://")
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("migrate: esquema no soportado %q", u.Scheme)
	}
	return u.String(), nil
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	src, err := iofs.New(m.source, ".")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	mg, err := migrate.NewWithSourceInstance("iofs", src, m.dbURL)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return mg, nil
}

// currentVersion devuelve la versión actual; un esquema sucio es un error que exige Force.
func currentVersion(mg *migrate.Migrate) (uint, error) {
	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("get current version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("database is in dirty state at version %d, fix it and run force", version)
	}
	return version, nil
}

// Up aplica todas las migraciones pendientes.
func (m *Migrator) Up() error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()

	from, err := currentVersion(mg)
	if err != nil {
		return err
	}
	if err := mg.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info().Uint("version", from).Msg("sin migraciones pendientes")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}
	to, _, _ := mg.Version()
	m.log.Info().Uint("from_version", from).Uint("to_version", to).Msg("migraciones aplicadas")
	return nil
}

// Down revierte steps migraciones.
func (m *Migrator) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("migrate down: steps debe ser >= 1")
	}
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()

	from, err := currentVersion(mg)
	if err != nil {
		return err
	}
	if err := mg.Steps(-steps); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	to, _, _ := mg.Version()
	m.log.Warn().Uint("from_version", from).Uint("to_version", to).Int("steps", steps).Msg("migraciones revertidas")
	return nil
}

// To migra hacia arriba o hacia abajo hasta version.
func (m *Migrator) To(version uint) error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()

	from, err := currentVersion(mg)
	if err != nil {
		return err
	}
	if err := mg.Migrate(version); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info().Uint("version", version).Msg("ya en la versión solicitada")
			return nil
		}
		return fmt.Errorf("migrate to version %d: %w", version, err)
	}
	m.log.Info().Uint("from_version", from).Uint("to_version", version).Msg("migración a versión completada")
	return nil
}

// Force fija la versión sin ejecutar scripts y limpia el estado sucio.
func (m *Migrator) Force(version int) error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Force(version); err != nil {
		return fmt.Errorf("force migration version: %w", err)
	}
	m.log.Warn().Int("version", version).Msg("versión de migración forzada")
	return nil
}
