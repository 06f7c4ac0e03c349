package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var tracer = otel.Tracer("caja-api/postgres")

var _ repository.BatchWriter = (*BatchWriter)(nil)

// BatchWriter aplica un repository.Batch en una sola transacción: todo o nada.
type BatchWriter struct {
	runner *TxRunner
}

// NewBatchWriter construye el escritor sobre el pool.
func NewBatchWriter(pool *pgxpool.Pool) *BatchWriter {
	return &BatchWriter{runner: NewTxRunner(pool)}
}

// queued sentencia de una operación y cómo interpretar su resultado.
type queued struct {
	op        repository.Op
	sql       string
	args      []any
	mustMatch bool // 0 filas afectadas = ErrNotFound
}

// Commit implementa repository.BatchWriter. Las sentencias viajan juntas en un pgx.Batch
// dentro de la transacción; el primer error revierte todo.
func (w *BatchWriter) Commit(ctx context.Context, batch *repository.Batch) (err error) {
	ctx, span := tracer.Start(ctx, "postgres.Commit", trace.WithAttributes(attribute.Int("batch.ops", batch.Len())))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit batch: %w", mapConnError(err))
	}

	stmts := make([]queued, 0, batch.Len())
	for _, op := range batch.Ops() {
		q, err := build(op)
		if err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		stmts = append(stmts, q)
	}

	err = w.runner.RunTx(ctx, func(tx pgx.Tx) error {
		pb := &pgx.Batch{}
		for _, s := range stmts {
			pb.Queue(s.sql, s.args...)
		}
		br := tx.SendBatch(ctx, pb)
		for i, s := range stmts {
			tag, err := br.Exec()
			if err == nil && s.mustMatch && tag.RowsAffected() == 0 {
				err = domain.ErrNotFound
			}
			if err != nil {
				_ = br.Close()
				return fmt.Errorf("commit batch: op %d (%s): %w", i, repository.OpName(s.op), mapOpError(s.op, err))
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("commit batch: %w", mapConnError(err))
		}
		return nil
	})
	return err
}

func mapOpError(op repository.Op, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return err
	case isUniqueViolation(err):
		if _, ok := op.(repository.CreateCashRegister); ok {
			return domain.ErrConflict
		}
		return domain.ErrDuplicate
	case isCheckViolation(err):
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return mapConnError(err)
}

func build(op repository.Op) (queued, error) {
	var (
		b         sq.Sqlizer
		mustMatch bool
	)
	switch o := op.(type) {
	case repository.InsertSale:
		s := o.Sale
		lines := s.Lines
		if lines == nil {
			lines = []entity.SaleLine{}
		}
		b = psql.Insert(salesTable).Columns(saleColumns...).
			Values(s.ID, s.UserID, s.ClientID, string(s.PaymentMethod), lines, s.Total, s.Timestamp)

	case repository.SetProductStock:
		u := psql.Update(productsTable).
			Set("stock", o.Stock).
			Set("last_updated", sq.Expr("now()"))
		if o.CostPrice != nil {
			u = u.Set("cost_price", *o.CostPrice)
		}
		b = u.Where(sq.Eq{"user_id": o.UserID, "id": o.ProductID})
		mustMatch = true

	case repository.InsertStockMovement:
		m := o.Movement
		b = psql.Insert(movementsTable).Columns(movementColumns...).
			Values(m.ID, m.UserID, m.ProductID, m.ProductName, string(m.Type), m.Quantity, m.Reason, m.Timestamp)

	case repository.CreateCashRegister:
		s := o.Summary
		b = psql.Insert(cashRegistersTable).Columns(cashRegisterColumns...).
			Values(s.UserID, s.Date, s.SalesTotal, s.ExpensesTotal, s.UpdatedAt)

	case repository.IncrementCashRegister:
		b = psql.Update(cashRegistersTable).
			Set("sales_total", sq.Expr("GREATEST(sales_total + ?, 0)", o.SalesDelta)).
			Set("expenses_total", sq.Expr("GREATEST(expenses_total + ?, 0)", o.ExpensesDelta)).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"user_id": o.UserID, "date": o.Date})
		mustMatch = true

	case repository.IncrementClientDebt:
		b = psql.Update(clientsTable).
			Set("debt", sq.Expr("debt + ?", o.Amount)).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"user_id": o.UserID, "id": o.ClientID})
		mustMatch = true

	case repository.InsertExpense:
		e := o.Expense
		b = psql.Insert(expensesTable).Columns(expenseColumns...).
			Values(e.ID, e.UserID, e.Description, e.Category, e.Amount, e.Date)

	case repository.DeleteExpense:
		b = psql.Delete(expensesTable).Where(sq.Eq{"user_id": o.UserID, "id": o.ExpenseID})
		mustMatch = true

	default:
		return queued{}, fmt.Errorf("operación desconocida %T: %w", op, domain.ErrInvalidInput)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return queued{}, fmt.Errorf("build %s: %w", repository.OpName(op), err)
	}
	return queued{op: op, sql: query, args: args, mustMatch: mustMatch}, nil
}
