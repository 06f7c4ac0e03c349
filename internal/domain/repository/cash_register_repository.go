package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// CashRegisterRepository lectura en línea del resumen diario.
// Get devuelve (nil, nil) si el día no existe y domain.ErrStoreUnavailable si no hay conexión.
type CashRegisterRepository interface {
	Get(ctx context.Context, userID, date string) (*entity.CashRegisterSummary, error)
	// ListRange resúmenes con fromDate <= date <= toDate (claves YYYY-MM-DD).
	ListRange(ctx context.Context, userID, fromDate, toDate string) ([]*entity.CashRegisterSummary, error)
}

// CashRegisterCache caché local persistente del último valor conocido de cada día.
// Get devuelve (nil, nil) cuando el caché confirmó que el día no existía y
// domain.ErrNotCached cuando nunca se guardó nada para ese día.
type CashRegisterCache interface {
	Get(ctx context.Context, userID, date string) (*entity.CashRegisterSummary, error)
	// Put guarda el valor conocido; summary nil registra "confirmado ausente".
	Put(ctx context.Context, userID, date string, summary *entity.CashRegisterSummary) error
}
