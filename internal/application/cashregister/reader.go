// Package cashregister lee y acumula el resumen diario de caja.
package cashregister

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// DateKey clave del día de caja (YYYY-MM-DD) en la zona indicada; nil es UTC.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}

// Source origen del valor leído.
type Source string

const (
	SourceOnline     Source = "online"
	SourceLocalCache Source = "local_cache"
)

// Snapshot resultado de leer un día: el resumen existente o la confirmación de que no existe.
type Snapshot struct {
	Date    string
	Summary *entity.CashRegisterSummary
	Source  Source
}

// Exists indica si el día ya tiene resumen.
func (s *Snapshot) Exists() bool { return s.Summary != nil }

// Reader lectura en línea con respaldo en el caché local.
type Reader struct {
	online  repository.CashRegisterRepository
	local   repository.CashRegisterCache
	timeout time.Duration
	log     *logger.Logger
}

// NewReader construye el lector. timeout <= 0 no limita la lectura en línea.
func NewReader(online repository.CashRegisterRepository, local repository.CashRegisterCache, timeout time.Duration, log *logger.Logger) *Reader {
	if log == nil {
		log = logger.Nop()
	}
	return &Reader{online: online, local: local, timeout: timeout, log: log.Component("cashregister")}
}

// Read intenta la lectura en línea; si falla usa el caché local; si también falla devuelve
// un *domain.CheckoutError CashRegisterUnavailable. Nunca supone "ausente" por defecto.
func (r *Reader) Read(ctx context.Context, userID, date string) (*Snapshot, error) {
	summary, onlineErr := r.readOnline(ctx, userID, date)
	if onlineErr == nil {
		r.Remember(ctx, userID, date, summary)
		return &Snapshot{Date: date, Summary: summary, Source: SourceOnline}, nil
	}
	r.log.Warn().Err(onlineErr).Str("user_id", userID).Str("date", date).
		Msg("lectura en línea del resumen de caja fallida; usando caché local")

	if ctx.Err() != nil {
		return nil, domain.NewCashRegisterUnavailable(ctx.Err())
	}
	summary, cacheErr := r.local.Get(ctx, userID, date)
	if cacheErr != nil {
		r.log.Error().Err(cacheErr).Str("user_id", userID).Str("date", date).
			Msg("resumen de caja no disponible en línea ni en caché local")
		return nil, domain.NewCashRegisterUnavailable(errors.Join(onlineErr, cacheErr))
	}
	return &Snapshot{Date: date, Summary: summary, Source: SourceLocalCache}, nil
}

func (r *Reader) readOnline(ctx context.Context, userID, date string) (*entity.CashRegisterSummary, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	summary, err := r.online.Get(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("get cash register %s: %w", date, err)
	}
	return summary, nil
}

// Remember guarda el valor conocido en el caché local. Un fallo sólo se registra.
func (r *Reader) Remember(ctx context.Context, userID, date string, summary *entity.CashRegisterSummary) {
	if err := r.local.Put(ctx, userID, date, summary); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Str("date", date).Msg("no se pudo actualizar el caché local de caja")
	}
}

// Plan devuelve la operación del lote para el día leído: incremento atómico si existe,
// creación si se confirmó ausente, y el resumen resultante para el caché local.
func Plan(snap *Snapshot, userID string, salesDelta, expensesDelta decimal.Decimal, at time.Time) (repository.Op, *entity.CashRegisterSummary) {
	next := &entity.CashRegisterSummary{UserID: userID, Date: snap.Date, UpdatedAt: at}
	if snap.Exists() {
		next.SalesTotal = floorZero(snap.Summary.SalesTotal.Add(salesDelta))
		next.ExpensesTotal = floorZero(snap.Summary.ExpensesTotal.Add(expensesDelta))
		return repository.IncrementCashRegister{
			UserID:        userID,
			Date:          snap.Date,
			SalesDelta:    salesDelta,
			ExpensesDelta: expensesDelta,
		}, next
	}
	next.SalesTotal = floorZero(salesDelta)
	next.ExpensesTotal = floorZero(expensesDelta)
	return repository.CreateCashRegister{Summary: next.Clone()}, next
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
