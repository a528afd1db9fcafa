// Package backup genera respaldos JSON del inventario en disco y conserva los N más recientes.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

const (
	filePrefix = "backup_"
	fileSuffix = ".json"
	// stampLayout fecha y hora del nombre de archivo: <YYYY-MM-DD>_<HH-MM-SS>.
	stampLayout = "2006-01-02_15-04-05"

	// maxSameSecond tope de respaldos con la misma marca de tiempo.
	maxSameSecond = 1000

	dirPerm  = 0o755
	filePerm = 0o644

	// SnapshotVersion formato del archivo de respaldo.
	SnapshotVersion = 1
)

// Snapshot contenido completo de un respaldo. Los usuarios no se respaldan.
type Snapshot struct {
	Version      int                   `json:"version"`
	CreatedAt    time.Time             `json:"created_at"`
	Products     []*entity.Product     `json:"products"`
	Movements    []*entity.Movement    `json:"movements"`
	Sales        []*entity.Sale        `json:"sales"`
	Returns      []*entity.SaleReturn  `json:"returns"`
	PointsOfSale []*entity.PointOfSale `json:"points_of_sale"`
}

// Source produce el contenido de un respaldo.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Reader ejecuta fn sobre una vista consistente de todas las tablas.
type Reader interface {
	ReadOnly(ctx context.Context, fn func(repos inventory.TxRepositories) error) error
}

// Restorer vacía las tablas respaldadas y ejecuta fn en la misma transacción.
type Restorer interface {
	Replace(ctx context.Context, fn func(repos inventory.TxRepositories) error) error
}

// Store almacenamiento que admite respaldo y restauración transaccionales.
type Store interface {
	Reader
	Restorer
}

// TxSource lee todas las tablas dentro de una sola lectura del almacenamiento, así un
// lote que se confirma a mitad del respaldo queda entero dentro o entero fuera.
type TxSource struct {
	Reader Reader
}

// Snapshot lee cada tabla completa (limit 0).
func (s TxSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := s.Reader.ReadOnly(ctx, func(repos inventory.TxRepositories) error {
		var err error
		if snap.Products, err = repos.Products.List(ctx, 0, 0); err != nil {
			return fmt.Errorf("backup: productos: %w", err)
		}
		if snap.Movements, err = repos.Movements.List(ctx, 0, 0); err != nil {
			return fmt.Errorf("backup: movimientos: %w", err)
		}
		if snap.Sales, err = repos.Sales.List(ctx, 0, 0); err != nil {
			return fmt.Errorf("backup: ventas: %w", err)
		}
		if snap.Returns, err = repos.Returns.List(ctx, 0, 0); err != nil {
			return fmt.Errorf("backup: devoluciones: %w", err)
		}
		if snap.PointsOfSale, err = repos.PointsOfSale.List(ctx); err != nil {
			return fmt.Errorf("backup: puntos de venta: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Info describe un archivo de respaldo.
type Info struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	seq       int
}

// Service crea, lista y depura respaldos en un directorio.
type Service struct {
	src  Source
	dir  string
	name string
	keep int
	log  *logger.Logger
	now  func() time.Time
}

// NewService construye el servicio. name forma parte del nombre de archivo (ej: el nombre de la base).
// keep < 1 conserva uno.
func NewService(src Source, dir, name string, keep int, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if keep < 1 {
		keep = 1
	}
	return &Service{src: src, dir: dir, name: name, keep: keep, log: log, now: time.Now}
}

// FileName nombre del respaldo para el instante t: backup_<name>_<YYYY-MM-DD>_<HH-MM-SS>.json.
// seq > 0 distingue respaldos del mismo segundo: backup_<name>_<fecha>_<hora>_<seq>.json.
func FileName(name string, t time.Time, seq int) string {
	stamp := t.Format(stampLayout)
	if seq > 0 {
		stamp += "_" + strconv.Itoa(seq)
	}
	return filePrefix + name + "_" + stamp + fileSuffix
}

// Create escribe un respaldo nuevo. El archivo aparece completo o no aparece.
func (s *Service) Create(ctx context.Context) (*Info, error) {
	snap, err := s.src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	snap.Version = SnapshotVersion
	snap.CreatedAt = now

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("backup: serializar: %w", err)
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return nil, fmt.Errorf("backup: crear directorio: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+filePrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("backup: archivo temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("backup: escribir temporal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("backup: sincronizar temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("backup: cerrar temporal: %w", err)
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return nil, fmt.Errorf("backup: permisos: %w", err)
	}
	name, path, err := s.publish(tmp.Name(), now)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("file", name).
		Int("bytes", len(data)).
		Int("products", len(snap.Products)).
		Int("movements", len(snap.Movements)).
		Msg("respaldo creado")
	return &Info{Name: name, Path: path, Size: int64(len(data)), CreatedAt: now}, nil
}

// publish enlaza el temporal con el primer nombre libre del instante now. os.Link no
// reemplaza un archivo existente, así dos respaldos del mismo segundo no se pisan.
func (s *Service) publish(tmpPath string, now time.Time) (string, string, error) {
	for seq := 0; seq < maxSameSecond; seq++ {
		name := FileName(s.name, now, seq)
		path := filepath.Join(s.dir, name)
		err := os.Link(tmpPath, path)
		if err == nil {
			return name, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", fmt.Errorf("backup: publicar %s: %w", name, err)
		}
	}
	return "", "", fmt.Errorf("backup: más de %d respaldos en el mismo segundo", maxSameSecond)
}

// List devuelve los respaldos del directorio, el más reciente primero.
// Un directorio inexistente equivale a ninguno.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("backup: leer directorio: %w", err)
	}
	var out []Info
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		created, seq, ok := stampFromName(name)
		if !ok {
			created = fi.ModTime()
		}
		out = append(out, Info{
			Name:      name,
			Path:      filepath.Join(s.dir, name),
			Size:      fi.Size(),
			CreatedAt: created,
			seq:       seq,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		if out[i].seq != out[j].seq {
			return out[i].seq > out[j].seq
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// CleanOld elimina los respaldos que exceden keep y devuelve los nombres borrados.
func (s *Service) CleanOld() ([]string, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(list) <= s.keep {
		return nil, nil
	}
	var removed []string
	for _, info := range list[s.keep:] {
		if err := os.Remove(info.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("backup: eliminar %s: %w", info.Name, err)
		}
		removed = append(removed, info.Name)
	}
	s.log.Info().Int("removed", len(removed)).Int("kept", s.keep).Msg("respaldos antiguos eliminados")
	return removed, nil
}

// Restore reemplaza el contenido de dst con el respaldo de path en una sola transacción.
// Si una fila falla no cambia nada. Los usuarios no se tocan.
func (s *Service) Restore(ctx context.Context, dst Restorer, path string) (*Snapshot, error) {
	snap, err := Load(path)
	if err != nil {
		return nil, err
	}
	err = dst.Replace(ctx, func(repos inventory.TxRepositories) error {
		return insertSnapshot(ctx, repos, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("backup: restaurar %s: %w", filepath.Base(path), err)
	}
	s.log.Info().
		Str("file", filepath.Base(path)).
		Int("products", len(snap.Products)).
		Int("movements", len(snap.Movements)).
		Int("sales", len(snap.Sales)).
		Int("returns", len(snap.Returns)).
		Msg("respaldo restaurado")
	return snap, nil
}

// insertSnapshot respeta las claves foráneas: productos, movimientos, ventas y devoluciones.
// Las listas vienen del más reciente al más antiguo; se insertan en orden cronológico.
func insertSnapshot(ctx context.Context, repos inventory.TxRepositories, snap *Snapshot) error {
	for _, p := range snap.Products {
		if err := repos.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("producto %s: %w", p.ID, err)
		}
	}
	for _, pos := range snap.PointsOfSale {
		if err := repos.PointsOfSale.Create(ctx, pos); err != nil {
			return fmt.Errorf("punto de venta %s: %w", pos.ID, err)
		}
	}
	for i := len(snap.Movements) - 1; i >= 0; i-- {
		if err := repos.Movements.Create(ctx, snap.Movements[i]); err != nil {
			return fmt.Errorf("movimiento %s: %w", snap.Movements[i].ID, err)
		}
	}
	for i := len(snap.Sales) - 1; i >= 0; i-- {
		if err := repos.Sales.Create(ctx, snap.Sales[i]); err != nil {
			return fmt.Errorf("venta %s: %w", snap.Sales[i].ID, err)
		}
	}
	for i := len(snap.Returns) - 1; i >= 0; i-- {
		if err := repos.Returns.Create(ctx, snap.Returns[i]); err != nil {
			return fmt.Errorf("devolución %s: %w", snap.Returns[i].ID, err)
		}
	}
	return nil
}

// Load lee un respaldo desde disco.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backup: leer %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("backup: formato inválido en %s: %w", path, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("backup: versión %d no soportada", snap.Version)
	}
	return &snap, nil
}

// stampFromName extrae fecha y secuencia de backup_<name>_<YYYY-MM-DD>_<HH-MM-SS>[_<seq>].json.
func stampFromName(name string) (time.Time, int, bool) {
	base := strings.TrimSuffix(name, fileSuffix)
	if t, ok := parseStamp(base); ok {
		return t, 0, true
	}
	cut := strings.LastIndexByte(base, '_')
	if cut < 0 {
		return time.Time{}, 0, false
	}
	seq, err := strconv.Atoi(base[cut+1:])
	if err != nil || seq <= 0 {
		return time.Time{}, 0, false
	}
	t, ok := parseStamp(base[:cut])
	return t, seq, ok
}

func parseStamp(base string) (time.Time, bool) {
	if len(base) < len(stampLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(stampLayout, base[len(base)-len(stampLayout):], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
