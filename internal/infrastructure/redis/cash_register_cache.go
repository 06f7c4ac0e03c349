// Package redis implementa el caché local persistente del resumen diario de caja.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/pkg/config"
)

var _ repository.CashRegisterCache = (*CashRegisterCache)(nil)

// entry valor guardado. Exists=false registra que el día se leyó y no existía.
type entry struct {
	Exists        bool            `json:"exists"`
	SalesTotal    decimal.Decimal `json:"salesTotal"`
	ExpensesTotal decimal.Decimal `json:"expensesTotal"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CashRegisterCache guarda el último resumen conocido por usuario y día.
type CashRegisterCache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewCashRegisterCache construye el caché sobre un cliente existente. ttl <= 0 no expira.
func NewCashRegisterCache(client *goredis.Client, prefix string, ttl time.Duration) *CashRegisterCache {
	if prefix == "" {
		prefix = "caja"
	}
	return &CashRegisterCache{client: client, prefix: prefix, ttl: ttl}
}

// Open conecta con REDIS_URL y verifica la conexión.
func Open(ctx context.Context, cfg config.RedisConfig) (*CashRegisterCache, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewCashRegisterCache(client, cfg.KeyPrefix, cfg.TTL()), nil
}

func (c *CashRegisterCache) key(userID, date string) string {
	return c.prefix + ":cash_register:" + userID + ":" + date
}

// Get devuelve el resumen cacheado; (nil, nil) si se confirmó ausente y domain.ErrNotCached si nunca se guardó.
func (c *CashRegisterCache) Get(ctx context.Context, userID, date string) (*entity.CashRegisterSummary, error) {
	val, err := c.client.Get(ctx, c.key(userID, date)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var e entry
	if err := json.Unmarshal(val, &e); err != nil {
		return nil, fmt.Errorf("redis decode %s: %w", date, err)
	}
	if !e.Exists {
		return nil, nil
	}
	return &entity.CashRegisterSummary{
		UserID: userID, Date: date, SalesTotal: e.SalesTotal, ExpensesTotal: e.ExpensesTotal, UpdatedAt: e.UpdatedAt,
	}, nil
}

// Put guarda el valor conocido; summary nil registra "confirmado ausente".
func (c *CashRegisterCache) Put(ctx context.Context, userID, date string, summary *entity.CashRegisterSummary) error {
	e := entry{}
	if summary != nil {
		e = entry{Exists: true, SalesTotal: summary.SalesTotal, ExpensesTotal: summary.ExpensesTotal, UpdatedAt: summary.UpdatedAt}
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(userID, date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping verifica la conexión (health check).
func (c *CashRegisterCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *CashRegisterCache) Close() error {
	return c.client.Close()
}
