package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/report"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

func sale(id string, method entity.PaymentMethod, at time.Time, lines ...entity.SaleLine) *entity.Sale {
	return &entity.Sale{ID: id, UserID: "u", PaymentMethod: method, Lines: lines, Total: entity.LinesTotal(lines), Timestamp: at}
}

func line(id string, price, cost int64, qty int) entity.SaleLine {
	return entity.SaleLine{ProductID: id, Name: "P" + id, Price: decimal.NewFromInt(price), CostPrice: decimal.NewFromInt(cost), Quantity: qty}
}

func TestAggregate(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	sales := []*entity.Sale{
		sale("s1", entity.PaymentCash, now, line("a", 10, 6, 2)),
		sale("s2", entity.PaymentDeferred, now, line("b", 50, 20, 1), line("a", 10, 6, 1)),
		sale("s3", entity.PaymentPIX, now, line("c", 5, 1, 1)),
	}
	sales[1].ClientID = "d"
	sales[2].ClientID = "d"

	got := report.Aggregate(sales, 2)

	assert.Equal(t, 3, got.SalesCount)
	assert.True(t, got.Revenue.Equal(decimal.NewFromInt(85)), got.Revenue.String())
	assert.True(t, got.Cost.Equal(decimal.NewFromInt(39)), got.Cost.String())
	assert.True(t, got.GrossProfit.Equal(decimal.NewFromInt(46)))
	assert.True(t, got.Deferred.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "54.12", got.GrossMarginPct.StringFixed(2))
	assert.Equal(t, "28.33", got.AverageTicket.StringFixed(2))
	assert.Equal(t, 1, got.AttendedClients)

	require.Len(t, got.ByPayment, 3)
	assert.Equal(t, string(entity.PaymentCash), got.ByPayment[0].PaymentMethod)

	require.Len(t, got.TopProducts, 2)
	assert.Equal(t, "a", got.TopProducts[0].ProductID)
	assert.Equal(t, 3, got.TopProducts[0].Quantity)
	assert.Equal(t, "b", got.TopProducts[1].ProductID)
}

func TestAggregate_Vacio(t *testing.T) {
	got := report.Aggregate(nil, 5)
	assert.Zero(t, got.SalesCount)
	assert.True(t, got.GrossMarginPct.IsZero())
	assert.NotNil(t, got.ByPayment)
}

func TestSummary_Periodo(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	in := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	out := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Commit(ctx, repository.NewBatch().Add(
		repository.InsertSale{Sale: sale("s1", entity.PaymentCash, in, line("a", 10, 5, 1))},
		repository.InsertSale{Sale: sale("s2", entity.PaymentCash, out, line("a", 10, 5, 1))},
	)))

	uc := report.NewSalesUseCase(s.Sales(), s.Clients(), time.UTC)
	got, err := uc.Summary(ctx, "u", "2024-05-10", "2024-05-11", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SalesCount)
	assert.Equal(t, "2024-05-10", got.From)
	assert.Equal(t, "2024-05-11", got.To)

	_, err = uc.Summary(ctx, "u", "10/05/2024", "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Summary(ctx, "u", "2024-05-12", "2024-05-10", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Get(ctx, "u", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummary_DeudaDeClientes(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	for _, c := range []*entity.Client{
		{ID: "d", UserID: "u", Name: "Dora"},
		{ID: "e", UserID: "u", Name: "Edu"},
		{ID: "f", UserID: "u", Name: "Fabi"},
	} {
		require.NoError(t, s.Clients().Create(ctx, c))
	}
	at := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	fiado := sale("s1", entity.PaymentDeferred, at, line("a", 10, 5, 3))
	fiado.ClientID = "d"
	pix := sale("s2", entity.PaymentPIX, at, line("a", 10, 5, 1))
	pix.ClientID = "f"
	require.NoError(t, s.Commit(ctx, repository.NewBatch().Add(
		repository.InsertSale{Sale: fiado},
		repository.InsertSale{Sale: pix},
		repository.IncrementClientDebt{UserID: "u", ClientID: "d", Amount: decimal.NewFromInt(30)},
		repository.IncrementClientDebt{UserID: "u", ClientID: "e", Amount: decimal.NewFromInt(45)},
	)))

	uc := report.NewSalesUseCase(s.Sales(), s.Clients(), time.UTC)
	got, err := uc.Summary(ctx, "u", "2024-05-10", "2024-05-10", 0)
	require.NoError(t, err)

	assert.Equal(t, 2, got.AttendedClients)
	assert.True(t, got.TotalDebt.Equal(decimal.NewFromInt(75)), got.TotalDebt.String())
	assert.Equal(t, 2, got.DebtorsCount)
	require.Len(t, got.Debtors, 2)
	assert.Equal(t, "e", got.Debtors[0].ClientID)
	assert.Equal(t, "Dora", got.Debtors[1].Name)
	assert.True(t, got.Debtors[1].Debt.Equal(decimal.NewFromInt(30)))
}
