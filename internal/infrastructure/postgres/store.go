package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Caja-api/pkg/config"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// Store agrupa los adaptadores PostgreSQL que comparten un pool.
type Store struct {
	Pool          *pgxpool.Pool
	Products      *ProductRepo
	Clients       *ClientRepo
	Sales         *SaleRepo
	Movements     *StockMovementRepo
	Expenses      *ExpenseRepo
	CashRegisters *CashRegisterRepo
	Writer        *BatchWriter
	Feed          *CatalogListener
}

// NewStore arma los adaptadores sobre un pool existente. No inicia el listener.
func NewStore(pool *pgxpool.Pool, log *logger.Logger) *Store {
	return &Store{
		Pool:          pool,
		Products:      NewProductRepository(pool),
		Clients:       NewClientRepository(pool),
		Sales:         NewSaleRepository(pool),
		Movements:     NewStockMovementRepository(pool),
		Expenses:      NewExpenseRepository(pool),
		CashRegisters: NewCashRegisterRepository(pool),
		Writer:        NewBatchWriter(pool),
		Feed:          NewCatalogListener(pool, log),
	}
}

// Open conecta, migra y arranca el listener del catálogo.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrar: %w", err)
	}
	s := NewStore(pool, log)
	s.Feed.Start(context.WithoutCancel(ctx))
	return s, nil
}

// Ping verifica la conexión (health check).
func (s *Store) Ping(ctx context.Context) error {
	return mapConnError(s.Pool.Ping(ctx))
}

// Close detiene el listener y cierra el pool.
func (s *Store) Close() {
	s.Feed.Stop()
	s.Pool.Close()
}
