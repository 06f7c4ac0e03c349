package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.CashRegisterCache = (*LocalCache)(nil)

type cacheEntry struct {
	summary *entity.CashRegisterSummary // nil = confirmado ausente
}

// LocalCache caché local del resumen de caja en memoria del proceso (sin Redis).
type LocalCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	broken  error
}

// NewLocalCache crea un caché vacío.
func NewLocalCache() *LocalCache {
	return &LocalCache{entries: make(map[string]cacheEntry)}
}

func cacheKey(userID, date string) string { return userID + "|" + date }

// Get implementa repository.CashRegisterCache.
func (c *LocalCache) Get(_ context.Context, userID, date string) (*entity.CashRegisterSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.broken != nil {
		return nil, c.broken
	}
	e, ok := c.entries[cacheKey(userID, date)]
	if !ok {
		return nil, domain.ErrNotCached
	}
	return e.summary.Clone(), nil
}

// Put implementa repository.CashRegisterCache.
func (c *LocalCache) Put(_ context.Context, userID, date string, summary *entity.CashRegisterSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken != nil {
		return c.broken
	}
	c.entries[cacheKey(userID, date)] = cacheEntry{summary: summary.Clone()}
	return nil
}

// Clear vacía el caché.
func (c *LocalCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Break hace fallar todas las operaciones con err; nil lo restablece.
func (c *LocalCache) Break(err error) {
	c.mu.Lock()
	c.broken = err
	c.mu.Unlock()
}
