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

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

const cashRegistersTable = "cash_registers"

var cashRegisterColumns = []string{"user_id", "date", "sales_total", "expenses_total", "updated_at"}

type cashRegisterRow struct {
	UserID        string          `db:"user_id"`
	Date          string          `db:"date"`
	SalesTotal    decimal.Decimal `db:"sales_total"`
	ExpensesTotal decimal.Decimal `db:"expenses_total"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r cashRegisterRow) toEntity() *entity.CashRegisterSummary {
	return &entity.CashRegisterSummary{
		UserID: r.UserID, Date: r.Date, SalesTotal: r.SalesTotal, ExpensesTotal: r.ExpensesTotal, UpdatedAt: r.UpdatedAt,
	}
}

// CashRegisterRepo lectura en línea del resumen diario.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador.
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

// Get devuelve el resumen del día; (nil, nil) si no existe y ErrStoreUnavailable sin conexión.
func (r *CashRegisterRepo) Get(ctx context.Context, userID, date string) (*entity.CashRegisterSummary, error) {
	query, args, err := psql.Select(cashRegisterColumns...).From(cashRegistersTable).
		Where(sq.Eq{"user_id": userID, "date": date}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get cash register: %w", err)
	}
	var row cashRegisterRow
	if err := pgxscan.Get(ctx, r.q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", mapConnError(err))
	}
	return row.toEntity(), nil
}

// ListRange resúmenes con fromDate <= date <= toDate, en orden de fecha.
func (r *CashRegisterRepo) ListRange(ctx context.Context, userID, fromDate, toDate string) ([]*entity.CashRegisterSummary, error) {
	query, args, err := psql.Select(cashRegisterColumns...).From(cashRegistersTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"date": fromDate}).
		Where(sq.LtOrEq{"date": toDate}).
		OrderBy("date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list cash registers: %w", err)
	}
	var rows []cashRegisterRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cash registers: %w", mapConnError(err))
	}
	out := make([]*entity.CashRegisterSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
