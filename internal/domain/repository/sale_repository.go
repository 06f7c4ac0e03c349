package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// SaleRepository lectura de ventas. Una venta sólo se crea dentro del Batch del checkout.
type SaleRepository interface {
	GetByID(ctx context.Context, userID, id string) (*entity.Sale, error)
	// ListByPeriod ventas con from <= timestamp < to, más recientes primero.
	ListByPeriod(ctx context.Context, userID string, from, to time.Time) ([]*entity.Sale, error)
}
