package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// StockMovementRepository lectura del historial de movimientos. Las altas van por Batch.
type StockMovementRepository interface {
	ListByProduct(ctx context.Context, userID, productID string, limit int) ([]*entity.StockMovement, error)
	ListByReason(ctx context.Context, userID, reason string) ([]*entity.StockMovement, error)
	ListByPeriod(ctx context.Context, userID string, from, to time.Time) ([]*entity.StockMovement, error)
}
