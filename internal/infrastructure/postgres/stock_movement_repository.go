package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementsTable = "stock_movements"

var movementColumns = []string{"id", "user_id", "product_id", "product_name", "type", "quantity", "reason", "created_at"}

type movementRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	ProductID   string    `db:"product_id"`
	ProductName string    `db:"product_name"`
	Type        string    `db:"type"`
	Quantity    int       `db:"quantity"`
	Reason      string    `db:"reason"`
	CreatedAt   time.Time `db:"created_at"`
}

// StockMovementRepo historial de movimientos sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// ListByProduct últimos movimientos de un producto. limit <= 0 no limita.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, userID, productID string, limit int) ([]*entity.StockMovement, error) {
	b := r.base(userID).Where(sq.Eq{"product_id": productID})
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return r.list(ctx, b)
}

// ListByReason movimientos con un motivo exacto (ej. los de una venta).
func (r *StockMovementRepo) ListByReason(ctx context.Context, userID, reason string) ([]*entity.StockMovement, error) {
	return r.list(ctx, r.base(userID).Where(sq.Eq{"reason": reason}))
}

// ListByPeriod movimientos con from <= created_at < to.
func (r *StockMovementRepo) ListByPeriod(ctx context.Context, userID string, from, to time.Time) ([]*entity.StockMovement, error) {
	return r.list(ctx, r.base(userID).
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}))
}

func (r *StockMovementRepo) base(userID string) sq.SelectBuilder {
	return psql.Select(movementColumns...).From(movementsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id")
}

func (r *StockMovementRepo) list(ctx context.Context, b sq.SelectBuilder) ([]*entity.StockMovement, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", mapConnError(err))
	}
	out := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.StockMovement{
			ID: row.ID, UserID: row.UserID, ProductID: row.ProductID, ProductName: row.ProductName,
			Type: entity.MovementType(row.Type), Quantity: row.Quantity, Reason: row.Reason, Timestamp: row.CreatedAt,
		})
	}
	return out, nil
}
