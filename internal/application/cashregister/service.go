package cashregister

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// ExpenseInput datos de un gasto nuevo.
type ExpenseInput struct {
	Description string
	Category    string
	Amount      decimal.Decimal
}

// DayBalance saldo de un día.
type DayBalance struct {
	Date          string
	SalesTotal    decimal.Decimal
	ExpensesTotal decimal.Decimal
	Balance       decimal.Decimal
	Exists        bool
	Source        Source
}

// MonthSummary totales de un mes (YYYY-MM) sumando los resúmenes diarios.
type MonthSummary struct {
	Month         string
	SalesTotal    decimal.Decimal
	ExpensesTotal decimal.Decimal
	Balance       decimal.Decimal
	Days          []*entity.CashRegisterSummary
}

// Service gastos y saldos de caja. Cada gasto y su efecto en el resumen van en un solo lote.
type Service struct {
	reader    *Reader
	writer    repository.BatchWriter
	expenses  repository.ExpenseRepository
	summaries repository.CashRegisterRepository
	loc       *time.Location
	log       *logger.Logger

	Now   func() time.Time
	NewID func() string
}

// NewService construye el servicio.
func NewService(
	reader *Reader,
	writer repository.BatchWriter,
	expenses repository.ExpenseRepository,
	summaries repository.CashRegisterRepository,
	loc *time.Location,
	log *logger.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		reader:    reader,
		writer:    writer,
		expenses:  expenses,
		summaries: summaries,
		loc:       loc,
		log:       log.Component("cashregister"),
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

// Location zona horaria del día de caja.
func (s *Service) Location() *time.Location { return s.loc }

// RegisterExpense registra un gasto y lo suma a los gastos del día (creando el resumen si no existe).
func (s *Service) RegisterExpense(ctx context.Context, userID string, in ExpenseInput) (*entity.Expense, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, fmt.Errorf("descripción requerida: %w", domain.ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("el valor debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}

	now := s.Now().UTC()
	date := DateKey(now, s.loc)
	snap, err := s.reader.Read(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	exp := &entity.Expense{
		ID:          s.NewID(),
		UserID:      userID,
		Description: desc,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Date:        now,
	}
	op, next := Plan(snap, userID, decimal.Zero, in.Amount, now)
	batch := repository.NewBatch().Add(repository.InsertExpense{Expense: exp}, op)
	if err := s.writer.Commit(ctx, batch); err != nil {
		return nil, fmt.Errorf("registrar gasto: %w", err)
	}
	s.reader.Remember(ctx, userID, date, next)
	s.log.Info().Str("user_id", userID).Str("expense_id", exp.ID).Str("amount", exp.Amount.StringFixed(2)).Msg("gasto registrado")
	return exp, nil
}

// DeleteExpense borra el gasto y descuenta su valor del día en que se registró (sin bajar de cero).
func (s *Service) DeleteExpense(ctx context.Context, userID, id string) error {
	exp, err := s.expenses.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("obtener gasto: %w", err)
	}
	if exp == nil {
		return domain.ErrNotFound
	}

	date := DateKey(exp.Date, s.loc)
	snap, err := s.reader.Read(ctx, userID, date)
	if err != nil {
		return err
	}

	batch := repository.NewBatch().Add(repository.DeleteExpense{UserID: userID, ExpenseID: id})
	var next *entity.CashRegisterSummary
	if snap.Exists() {
		var op repository.Op
		op, next = Plan(snap, userID, decimal.Zero, exp.Amount.Neg(), s.Now().UTC())
		batch.Add(op)
	}
	if err := s.writer.Commit(ctx, batch); err != nil {
		return fmt.Errorf("borrar gasto: %w", err)
	}
	if next != nil {
		s.reader.Remember(ctx, userID, date, next)
	}
	return nil
}

// ListExpenses gastos del período [from, to).
func (s *Service) ListExpenses(ctx context.Context, userID string, from, to time.Time) ([]*entity.Expense, error) {
	list, err := s.expenses.ListByPeriod(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listar gastos: %w", err)
	}
	return list, nil
}

// Balance saldo del día con el mismo protocolo de lectura del checkout; un día sin resumen vale cero.
func (s *Service) Balance(ctx context.Context, userID, date string) (*DayBalance, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("fecha %q: %w", date, domain.ErrInvalidInput)
	}
	snap, err := s.reader.Read(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	b := &DayBalance{Date: date, Exists: snap.Exists(), Source: snap.Source}
	if snap.Exists() {
		b.SalesTotal = snap.Summary.SalesTotal
		b.ExpensesTotal = snap.Summary.ExpensesTotal
		b.Balance = snap.Summary.Balance()
	}
	return b, nil
}

// Today saldo del día actual.
func (s *Service) Today(ctx context.Context, userID string) (*DayBalance, error) {
	return s.Balance(ctx, userID, DateKey(s.Now(), s.loc))
}

// Monthly suma los resúmenes del mes (YYYY-MM); vacío es el mes actual.
func (s *Service) Monthly(ctx context.Context, userID, month string) (*MonthSummary, error) {
	if month == "" {
		month = s.Now().In(s.loc).Format("2006-01")
	}
	start, err := time.ParseInLocation("2006-01", month, s.loc)
	if err != nil {
		return nil, fmt.Errorf("mes %q: %w", month, domain.ErrInvalidInput)
	}
	end := start.AddDate(0, 1, -1)

	days, err := s.summaries.ListRange(ctx, userID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listar resúmenes: %w", err)
	}
	out := &MonthSummary{Month: month, Days: days}
	for _, d := range days {
		out.SalesTotal = out.SalesTotal.Add(d.SalesTotal)
		out.ExpensesTotal = out.ExpensesTotal.Add(d.ExpensesTotal)
	}
	out.Balance = out.SalesTotal.Sub(out.ExpensesTotal)
	return out, nil
}
