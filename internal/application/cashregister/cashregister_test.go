package cashregister_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/cashregister"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

const user = "u1"

var day = time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store *memory.Store
	local *memory.LocalCache
	svc   *cashregister.Service
}

func newFixture() *fixture {
	store := memory.New()
	local := memory.NewLocalCache()
	reader := cashregister.NewReader(store.CashRegisters(), local, time.Second, nil)
	svc := cashregister.NewService(reader, store, store.Expenses(), store.CashRegisters(), time.UTC, nil)
	svc.Now = func() time.Time { return day }
	return &fixture{store: store, local: local, svc: svc}
}

func TestDateKey(t *testing.T) {
	late := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01", cashregister.DateKey(late, nil))

	saoPaulo := time.FixedZone("BRT", -3*3600)
	early := time.Date(2024, 5, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01", cashregister.DateKey(early, saoPaulo))
}

func TestReader_EnLineaEscribeEnCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	reader := cashregister.NewReader(f.store.CashRegisters(), f.local, 0, nil)

	snap, err := reader.Read(ctx, user, "2024-05-01")
	require.NoError(t, err)
	assert.False(t, snap.Exists())
	assert.Equal(t, cashregister.SourceOnline, snap.Source)

	// la ausencia confirmada queda en el caché local
	cached, err := f.local.Get(ctx, user, "2024-05-01")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestReader_RespaldoEnCacheLocal(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	reader := cashregister.NewReader(f.store.CashRegisters(), f.local, 0, nil)
	require.NoError(t, f.local.Put(ctx, user, "2024-05-01", &entity.CashRegisterSummary{UserID: user, Date: "2024-05-01", SalesTotal: dec("30")}))

	f.store.SetOnline(false)
	snap, err := reader.Read(ctx, user, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, cashregister.SourceLocalCache, snap.Source)
	require.True(t, snap.Exists())
	assert.True(t, snap.Summary.SalesTotal.Equal(dec("30")))
}

func TestReader_SinRedNiCache(t *testing.T) {
	f := newFixture()
	reader := cashregister.NewReader(f.store.CashRegisters(), f.local, 0, nil)
	f.store.SetOnline(false)

	_, err := reader.Read(context.Background(), user, "2024-05-01")
	var ce *domain.CheckoutError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.KindCashRegisterUnavailable, ce.Kind)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, domain.ErrNotCached)
}

func TestPlan(t *testing.T) {
	absent := &cashregister.Snapshot{Date: "2024-05-01"}
	op, next := cashregister.Plan(absent, user, dec("20"), decimal.Zero, day)
	create, ok := op.(repository.CreateCashRegister)
	require.True(t, ok)
	assert.True(t, create.Summary.SalesTotal.Equal(dec("20")))
	assert.True(t, create.Summary.ExpensesTotal.IsZero())
	assert.True(t, next.SalesTotal.Equal(dec("20")))

	existing := &cashregister.Snapshot{Date: "2024-05-01", Summary: &entity.CashRegisterSummary{SalesTotal: dec("5"), ExpensesTotal: dec("3")}}
	op, next = cashregister.Plan(existing, user, decimal.Zero, dec("-10"), day)
	inc, ok := op.(repository.IncrementCashRegister)
	require.True(t, ok)
	assert.True(t, inc.ExpensesDelta.Equal(dec("-10")))
	assert.True(t, next.ExpensesTotal.IsZero())
	assert.True(t, next.SalesTotal.Equal(dec("5")))
}

func TestService_RegistrarYBorrarGasto(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	e1, err := f.svc.RegisterExpense(ctx, user, cashregister.ExpenseInput{Description: "Luz", Amount: dec("40")})
	require.NoError(t, err)
	_, err = f.svc.RegisterExpense(ctx, user, cashregister.ExpenseInput{Description: "Água", Amount: dec("10.50")})
	require.NoError(t, err)

	bal, err := f.svc.Today(ctx, user)
	require.NoError(t, err)
	assert.True(t, bal.Exists)
	assert.Equal(t, "50.50", bal.ExpensesTotal.StringFixed(2))
	assert.Equal(t, "-50.50", bal.Balance.StringFixed(2))

	require.NoError(t, f.svc.DeleteExpense(ctx, user, e1.ID))
	bal, err = f.svc.Today(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "10.50", bal.ExpensesTotal.StringFixed(2))

	assert.ErrorIs(t, f.svc.DeleteExpense(ctx, user, e1.ID), domain.ErrNotFound)
}

func TestService_BorrarGastoNoBajaDeCero(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e, err := f.svc.RegisterExpense(ctx, user, cashregister.ExpenseInput{Description: "Luz", Amount: dec("40")})
	require.NoError(t, err)
	require.NoError(t, f.store.Commit(ctx, repository.NewBatch().Add(repository.IncrementCashRegister{
		UserID: user, Date: "2024-05-01", ExpensesDelta: dec("-35"),
	})))

	require.NoError(t, f.svc.DeleteExpense(ctx, user, e.ID))
	sum, err := f.store.CashRegisters().Get(ctx, user, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, sum.ExpensesTotal.IsZero())
}

func TestService_ValidacionGasto(t *testing.T) {
	f := newFixture()
	_, err := f.svc.RegisterExpense(context.Background(), user, cashregister.ExpenseInput{Description: " ", Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.svc.RegisterExpense(context.Background(), user, cashregister.ExpenseInput{Description: "x", Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.store.Commits())
}

func TestService_GastoSinCajaNoEscribe(t *testing.T) {
	f := newFixture()
	f.store.SetOnline(false)
	_, err := f.svc.RegisterExpense(context.Background(), user, cashregister.ExpenseInput{Description: "Luz", Amount: dec("1")})
	var ce *domain.CheckoutError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.KindCashRegisterUnavailable, ce.Kind)
}

func TestService_Monthly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for date, sales := range map[string]string{"2024-04-30": "100", "2024-05-01": "20", "2024-05-31": "30", "2024-06-01": "7"} {
		require.NoError(t, f.store.Commit(ctx, repository.NewBatch().Add(repository.CreateCashRegister{
			Summary: &entity.CashRegisterSummary{UserID: user, Date: date, SalesTotal: dec(sales), ExpensesTotal: dec("5")},
		})))
	}

	m, err := f.svc.Monthly(ctx, user, "2024-05")
	require.NoError(t, err)
	assert.Len(t, m.Days, 2)
	assert.True(t, m.SalesTotal.Equal(dec("50")))
	assert.True(t, m.ExpensesTotal.Equal(dec("10")))
	assert.True(t, m.Balance.Equal(dec("40")))

	_, err = f.svc.Monthly(ctx, user, "mayo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
