// Package cache abstrae la caché de lectura (estadísticas del dashboard) con implementaciones
// Redis, en memoria y nula. Los valores se serializan como JSON.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/gestion-stock/internal/application/analytics"
	"github.com/jhoicas/gestion-stock/pkg/config"
)

// ErrCacheMiss la clave no existe, expiró o la caché está desactivada.
// Es el mismo valor que espera el dashboard.
var ErrCacheMiss = analytics.ErrCacheMiss

// Cache operaciones de caché usadas por la aplicación.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ analytics.StatsCache = Cache(nil)

	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*NullCache)(nil)
	_ Cache = (*RedisCache)(nil)
)

// New construye la caché según CACHE_DRIVER.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.CacheDriverNone:
		return NewNullCache(), nil
	case config.CacheDriverMemory, "":
		return NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("cache: driver desconocido %q", cfg.Driver)
	}
}

// MemoryCache caché en proceso con expiración perezosa; segura para uso concurrente.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]memoryItem
	now  func() time.Time
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time // cero = sin expiración
}

// NewMemoryCache crea una caché vacía.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]memoryItem), now: time.Now}
}

// Get decodifica el valor en dest o devuelve ErrCacheMiss.
func (m *MemoryCache) Get(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	item, ok := m.data[key]
	if ok && !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		delete(m.data, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(item.value, dest)
}

// Set guarda value; ttl <= 0 no expira.
func (m *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: serializar %s: %w", key, err)
	}
	item := memoryItem{value: data}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = item
	m.mu.Unlock()
	return nil
}

// Del elimina las claves.
func (m *MemoryCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.data, key)
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Ping(context.Context) error { return nil }

// Close vacía la caché.
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	m.data = make(map[string]memoryItem)
	m.mu.Unlock()
	return nil
}

// NullCache caché desactivada: todo Get es un miss.
type NullCache struct{}

// NewNullCache crea la caché nula.
func NewNullCache() *NullCache { return &NullCache{} }

func (NullCache) Get(context.Context, string, any) error                { return ErrCacheMiss }
func (NullCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NullCache) Del(context.Context, ...string) error                  { return nil }
func (NullCache) Ping(context.Context) error                            { return nil }
func (NullCache) Close() error                                          { return nil }
