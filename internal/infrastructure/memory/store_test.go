package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

const user = "u1"

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", UserID: user, Name: "Arroz", Price: decimal.NewFromInt(10), Stock: 5}))
	require.NoError(t, s.Clients().Create(ctx, &entity.Client{ID: "c1", UserID: user, Name: "Ana", DocumentType: "CPF", DocumentNumber: "123"}))
	require.NoError(t, s.Commit(ctx, repository.NewBatch().Add(repository.CreateCashRegister{
		Summary: &entity.CashRegisterSummary{UserID: user, Date: "2024-05-01", SalesTotal: decimal.NewFromInt(7)},
	})))
}

func TestCommit_RevierteTodoAnteError(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seed(t, s)

	batch := repository.NewBatch().Add(
		repository.InsertSale{Sale: &entity.Sale{ID: "s1", UserID: user, Total: decimal.NewFromInt(20), Timestamp: time.Now()}},
		repository.SetProductStock{UserID: user, ProductID: "p1", Stock: 3},
		repository.InsertStockMovement{Movement: &entity.StockMovement{ID: "m1", UserID: user, ProductID: "p1", Quantity: 2}},
		repository.IncrementCashRegister{UserID: user, Date: "2024-05-01", SalesDelta: decimal.NewFromInt(20)},
		repository.IncrementClientDebt{UserID: user, ClientID: "c1", Amount: decimal.NewFromInt(20)},
		repository.CreateCashRegister{Summary: &entity.CashRegisterSummary{UserID: user, Date: "2024-05-01"}},
	)
	err := s.Commit(ctx, batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, _ := s.Products().GetByID(ctx, user, "p1")
	assert.Equal(t, 5, p.Stock)
	sale, _ := s.Sales().GetByID(ctx, user, "s1")
	assert.Nil(t, sale)
	movs, _ := s.Movements().ListByProduct(ctx, user, "p1", 0)
	assert.Empty(t, movs)
	sum, _ := s.CashRegisters().Get(ctx, user, "2024-05-01")
	assert.True(t, sum.SalesTotal.Equal(decimal.NewFromInt(7)))
	c, _ := s.Clients().GetByID(ctx, user, "c1")
	assert.True(t, c.Debt.IsZero())
}

func TestCommit_FueraDeLineaYFalloInyectado(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seed(t, s)
	before := s.Commits()

	s.SetOnline(false)
	err := s.Commit(ctx, repository.NewBatch().Add(repository.SetProductStock{UserID: user, ProductID: "p1", Stock: 0}))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	_, err = s.CashRegisters().Get(ctx, user, "2024-05-01")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	s.SetOnline(true)

	boom := errors.New("quota exceeded")
	s.FailNextCommit(boom)
	err = s.Commit(ctx, repository.NewBatch().Add(repository.SetProductStock{UserID: user, ProductID: "p1", Stock: 0}))
	assert.ErrorIs(t, err, boom)
	p, _ := s.Products().GetByID(ctx, user, "p1")
	assert.Equal(t, 5, p.Stock)

	require.NoError(t, s.Commit(ctx, repository.NewBatch().Add(repository.SetProductStock{UserID: user, ProductID: "p1", Stock: 0})))
	assert.Equal(t, before+1, s.Commits())
}

func TestIncrementCashRegister_NoBajaDeCero(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seed(t, s)

	require.NoError(t, s.Commit(ctx, repository.NewBatch().Add(repository.IncrementCashRegister{
		UserID: user, Date: "2024-05-01", ExpensesDelta: decimal.NewFromInt(-50),
	})))
	sum, err := s.CashRegisters().Get(ctx, user, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, sum.ExpensesTotal.IsZero())
}

func TestSubscribeProducts_RecibeConjuntoCompleto(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seed(t, s)

	var got [][]*entity.Product
	cancel, err := s.SubscribeProducts(ctx, user, func(ps []*entity.Product) { got = append(got, ps) })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0], 1)

	require.NoError(t, s.Commit(ctx, repository.NewBatch().Add(repository.SetProductStock{UserID: user, ProductID: "p1", Stock: 1})))
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[1][0].Stock)

	cancel()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p2", UserID: user, Name: "Feijão"}))
	assert.Len(t, got, 2)
}

func TestClientRepo_DocumentoUnico(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seed(t, s)

	err := s.Clients().Create(ctx, &entity.Client{ID: "c2", UserID: user, Name: "Bia", DocumentType: "cpf", DocumentNumber: "123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLocalCache_AusenteVsNuncaGuardado(t *testing.T) {
	ctx := context.Background()
	c := memory.NewLocalCache()

	_, err := c.Get(ctx, user, "2024-05-01")
	assert.ErrorIs(t, err, domain.ErrNotCached)

	require.NoError(t, c.Put(ctx, user, "2024-05-01", nil))
	sum, err := c.Get(ctx, user, "2024-05-01")
	require.NoError(t, err)
	assert.Nil(t, sum)
}
