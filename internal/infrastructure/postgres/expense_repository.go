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

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

const expensesTable = "expenses"

var expenseColumns = []string{"id", "user_id", "description", "category", "amount", "date"}

type expenseRow struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	Amount      decimal.Decimal `db:"amount"`
	Date        time.Time       `db:"date"`
}

func (r expenseRow) toEntity() *entity.Expense {
	return &entity.Expense{ID: r.ID, UserID: r.UserID, Description: r.Description, Category: r.Category, Amount: r.Amount, Date: r.Date}
}

// ExpenseRepo lectura de gastos sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// GetByID obtiene un gasto; (nil, nil) si no existe.
func (r *ExpenseRepo) GetByID(ctx context.Context, userID, id string) (*entity.Expense, error) {
	query, args, err := psql.Select(expenseColumns...).From(expensesTable).
		Where(sq.Eq{"user_id": userID, "id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get expense: %w", err)
	}
	var row expenseRow
	if err := pgxscan.Get(ctx, r.q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", mapConnError(err))
	}
	return row.toEntity(), nil
}

// ListByPeriod gastos con from <= date < to, más recientes primero.
func (r *ExpenseRepo) ListByPeriod(ctx context.Context, userID string, from, to time.Time) ([]*entity.Expense, error) {
	query, args, err := psql.Select(expenseColumns...).From(expensesTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.Lt{"date": to}).
		OrderBy("date DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list expenses: %w", err)
	}
	var rows []expenseRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", mapConnError(err))
	}
	out := make([]*entity.Expense, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
