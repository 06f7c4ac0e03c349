package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const salesTable = "sales"

var saleColumns = []string{"id", "user_id", "client_id", "payment_method", "lines", "total", "created_at"}

type saleRow struct {
	ID            string            `db:"id"`
	UserID        string            `db:"user_id"`
	ClientID      string            `db:"client_id"`
	PaymentMethod string            `db:"payment_method"`
	Lines         []entity.SaleLine `db:"lines"`
	Total         decimal.Decimal   `db:"total"`
	CreatedAt     time.Time         `db:"created_at"`
}

func (r saleRow) toEntity() *entity.Sale {
	return &entity.Sale{
		ID: r.ID, UserID: r.UserID, ClientID: r.ClientID,
		PaymentMethod: entity.PaymentMethod(r.PaymentMethod),
		Lines:         r.Lines, Total: r.Total, Timestamp: r.CreatedAt,
	}
}

// SaleRepo lectura de ventas sobre PostgreSQL. Las altas van por BatchWriter.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// GetByID obtiene una venta; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, userID, id string) (*entity.Sale, error) {
	query, args, err := psql.Select(saleColumns...).From(salesTable).
		Where(sq.Eq{"user_id": userID, "id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get sale: %w", err)
	}
	var row saleRow
	if err := pgxscan.Get(ctx, r.q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", mapConnError(err))
	}
	return row.toEntity(), nil
}

// ListByPeriod ventas con from <= created_at < to, más recientes primero.
func (r *SaleRepo) ListByPeriod(ctx context.Context, userID string, from, to time.Time) ([]*entity.Sale, error) {
	query, args, err := psql.Select(saleColumns...).From(salesTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales: %w", err)
	}
	var rows []saleRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", mapConnError(err))
	}
	out := make([]*entity.Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
