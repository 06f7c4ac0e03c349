package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/catalog"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

func TestCache_SigueAlFeed(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "a", UserID: "u", Name: "A", Price: decimal.NewFromInt(10), Stock: 5}))

	c := catalog.NewCache(store, "u")
	require.NoError(t, c.Start(ctx))
	defer c.Stop()

	stock, ok := c.CurrentStock("a")
	require.True(t, ok)
	assert.Equal(t, 5, stock)

	require.NoError(t, store.Commit(ctx, repository.NewBatch().Add(repository.SetProductStock{UserID: "u", ProductID: "a", Stock: 2})))
	stock, _ = c.CurrentStock("a")
	assert.Equal(t, 2, stock)

	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "d", UserID: "u", Name: "D"}))
	_, ok = c.Client("d")
	assert.True(t, ok)
	assert.Len(t, c.CurrentClients(), 1)
}

func TestCache_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "a", UserID: "u", Name: "A", Stock: 5}))
	c := catalog.NewCache(store, "u")
	require.NoError(t, c.Start(ctx))

	p, _ := c.Product("a")
	p.Stock = 0
	again, _ := c.Product("a")
	assert.Equal(t, 5, again.Stock)
}

func TestCache_StopConservaUltimoConjunto(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "a", UserID: "u", Name: "A", Stock: 5}))
	c := catalog.NewCache(store, "u")
	require.NoError(t, c.Start(ctx))
	c.Stop()

	require.NoError(t, store.Commit(ctx, repository.NewBatch().Add(repository.SetProductStock{UserID: "u", ProductID: "a", Stock: 1})))
	stock, _ := c.CurrentStock("a")
	assert.Equal(t, 5, stock)
}

func TestStatic(t *testing.T) {
	s := &catalog.Static{Products: []*entity.Product{{ID: "a", Stock: 1}}}
	_, ok := s.Product("a")
	assert.True(t, ok)
	_, ok = s.Client("x")
	assert.False(t, ok)
}

// manualFeed entrega conjuntos sólo cuando el test lo pide.
type manualFeed struct {
	products func([]*entity.Product)
	clients  func([]*entity.Client)
}

func (f *manualFeed) SubscribeProducts(_ context.Context, _ string, fn func([]*entity.Product)) (func(), error) {
	f.products = fn
	return func() {}, nil
}

func (f *manualFeed) SubscribeClients(_ context.Context, _ string, fn func([]*entity.Client)) (func(), error) {
	f.clients = fn
	return func() {}, nil
}

func TestCache_ApplyLocalHastaLaSiguienteEntrega(t *testing.T) {
	feed := &manualFeed{}
	c := catalog.NewCache(feed, "u")
	require.NoError(t, c.Start(context.Background()))
	feed.products([]*entity.Product{{ID: "a", Name: "A", Stock: 10}, {ID: "b", Name: "B", Stock: 1}})
	feed.clients([]*entity.Client{{ID: "d", Name: "D"}})

	c.ApplyLocal(
		[]*entity.Product{{ID: "a", Name: "A", Stock: 6}, {ID: "x", Name: "X", Stock: 3}},
		[]*entity.Client{{ID: "d", Name: "D", Debt: decimal.NewFromInt(7)}},
	)

	stock, _ := c.CurrentStock("a")
	assert.Equal(t, 6, stock)
	assert.Equal(t, 6, c.CurrentProducts()[0].Stock)
	_, ok := c.Product("x")
	assert.False(t, ok, "ApplyLocal no agrega productos desconocidos")
	cl, _ := c.Client("d")
	assert.True(t, cl.Debt.Equal(decimal.NewFromInt(7)))
	assert.True(t, c.CurrentClients()[0].Debt.Equal(decimal.NewFromInt(7)))

	feed.products([]*entity.Product{{ID: "a", Name: "A", Stock: 2}})
	stock, _ = c.CurrentStock("a")
	assert.Equal(t, 2, stock)
	assert.Len(t, c.CurrentProducts(), 1)
}
