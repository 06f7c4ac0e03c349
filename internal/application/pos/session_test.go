package pos_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/cart"
	"github.com/jhoicas/Caja-api/internal/application/cashregister"
	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/application/notify"
	"github.com/jhoicas/Caja-api/internal/application/pos"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

const user = "u1"

// gatedWriter retiene el Commit hasta que se cierre release.
type gatedWriter struct {
	inner   repository.BatchWriter
	entered chan struct{}
	release chan struct{}
}

func (g *gatedWriter) Commit(ctx context.Context, b *repository.Batch) error {
	close(g.entered)
	<-g.release
	return g.inner.Commit(ctx, b)
}

func setup(t *testing.T, writer func(*memory.Store) repository.BatchWriter) (*memory.Store, *pos.Registry, *notify.Inbox) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "a", UserID: user, Name: "Café", Price: decimal.NewFromInt(8), Stock: 3}))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "d", UserID: user, Name: "Dora"}))

	var w repository.BatchWriter = store
	if writer != nil {
		w = writer(store)
	}
	inbox := notify.NewInbox(0)
	return store, newRegistry(t, store, w, store, inbox), inbox
}

func newRegistry(t *testing.T, store *memory.Store, w repository.BatchWriter, feed repository.CatalogFeed, n notify.Notifier) *pos.Registry {
	t.Helper()
	reader := cashregister.NewReader(store.CashRegisters(), memory.NewLocalCache(), 0, nil)
	engine := checkout.NewEngine(reader, w, n, checkout.Config{}, nil)
	reg := pos.NewRegistry(feed, engine, n, nil)
	t.Cleanup(reg.Close)
	return reg
}

// reentrantNotifier vuelve a pedir el checkout de la sesión al recibir el primer aviso de éxito.
type reentrantNotifier struct {
	inner   notify.Notifier
	session *pos.Session
	done    bool
	err     error
}

func (n *reentrantNotifier) Notify(ctx context.Context, userID, message string, severity notify.Severity) {
	n.inner.Notify(ctx, userID, message, severity)
	if severity != notify.Success || n.done {
		return
	}
	n.done = true
	_, n.err = n.session.Checkout(ctx)
}

// staleFeed entrega el conjunto inicial de cada suscripción y descarta las actualizaciones.
type staleFeed struct {
	inner repository.CatalogFeed
}

func (f staleFeed) SubscribeProducts(ctx context.Context, userID string, fn func([]*entity.Product)) (func(), error) {
	first := true
	return f.inner.SubscribeProducts(ctx, userID, func(list []*entity.Product) {
		if first {
			first = false
			fn(list)
		}
	})
}

func (f staleFeed) SubscribeClients(ctx context.Context, userID string, fn func([]*entity.Client)) (func(), error) {
	first := true
	return f.inner.SubscribeClients(ctx, userID, func(list []*entity.Client) {
		if first {
			first = false
			fn(list)
		}
	})
}

func TestSession_CheckoutLimpiaCarritoYCliente(t *testing.T) {
	ctx := context.Background()
	store, reg, _ := setup(t, nil)
	s, err := reg.Session(ctx, user)
	require.NoError(t, err)

	require.NoError(t, s.AddProduct("a"))
	require.NoError(t, s.ChangeQuantity("a", 1))
	require.NoError(t, s.SelectClient("d"))
	require.NoError(t, s.SetPaymentMethod(entity.PaymentDeferred))

	v := s.View()
	assert.Equal(t, "16", v.Total.String())

	rec, err := s.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d", rec.Sale.ClientID)

	v = s.View()
	assert.Empty(t, v.Lines)
	assert.Empty(t, v.ClientID)
	assert.Equal(t, checkout.StateIdle, v.State)

	// el catálogo de la sesión ve el stock nuevo
	stock, _ := s.Catalog().CurrentStock("a")
	assert.Equal(t, 1, stock)
	c, _ := store.Clients().GetByID(ctx, user, "d")
	assert.True(t, c.Debt.Equal(decimal.NewFromInt(16)))

	same, err := reg.Session(ctx, user)
	require.NoError(t, err)
	assert.Same(t, s, same)
}

func TestSession_FalloConservaCarrito(t *testing.T) {
	ctx := context.Background()
	_, reg, _ := setup(t, nil)
	s, err := reg.Session(ctx, user)
	require.NoError(t, err)

	require.NoError(t, s.AddProduct("a"))
	require.NoError(t, s.SetPaymentMethod(entity.PaymentDeferred))

	_, err = s.Checkout(ctx)
	var ce *domain.CheckoutError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.KindClientRequired, ce.Kind)
	assert.Len(t, s.View().Lines, 1)
}

func TestSession_ErroresDeCarrito(t *testing.T) {
	ctx := context.Background()
	_, reg, _ := setup(t, nil)
	s, err := reg.Session(ctx, user)
	require.NoError(t, err)

	assert.ErrorIs(t, s.AddProduct("x"), domain.ErrNotFound)
	assert.ErrorIs(t, s.SelectClient("x"), domain.ErrNotFound)
	assert.Error(t, s.SetPaymentMethod("Cheque"))

	require.NoError(t, s.AddProduct("a"))
	assert.ErrorIs(t, s.ChangeQuantity("a", 5), cart.ErrStockLimit)
	require.NoError(t, s.RemoveProduct("a"))
	assert.Empty(t, s.View().Lines)
}

func TestSession_RechazaCheckoutSimultaneo(t *testing.T) {
	ctx := context.Background()
	gate := &gatedWriter{entered: make(chan struct{}), release: make(chan struct{})}
	_, reg, inbox := setup(t, func(s *memory.Store) repository.BatchWriter { gate.inner = s; return gate })
	s, err := reg.Session(ctx, user)
	require.NoError(t, err)
	require.NoError(t, s.AddProduct("a"))

	done := make(chan error, 1)
	go func() {
		_, err := s.Checkout(ctx)
		done <- err
	}()

	select {
	case <-gate.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("el checkout no llegó al commit")
	}
	assert.Equal(t, checkout.StateCommitting, s.View().State)

	_, err = s.Checkout(ctx)
	var ce *domain.CheckoutError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.KindCheckoutInProgress, ce.Kind)
	assert.Error(t, s.AddProduct("a"))

	close(gate.release)
	require.NoError(t, <-done)
	assert.Empty(t, s.View().Lines)

	notes := inbox.Drain(user)
	require.Len(t, notes, 2)
	assert.Equal(t, notify.Warning, notes[0].Severity)
	assert.Equal(t, notify.Success, notes[1].Severity)
}

func TestSession_CheckoutDesdeElAvisoDeExitoNoRepiteLaVenta(t *testing.T) {
	ctx := context.Background()
	store, _, inbox := setup(t, nil)
	n := &reentrantNotifier{inner: inbox}
	reg := newRegistry(t, store, store, store, n)
	s, err := reg.Session(ctx, user)
	require.NoError(t, err)
	n.session = s
	require.NoError(t, s.AddProduct("a"))

	_, err = s.Checkout(ctx)
	require.NoError(t, err)

	require.True(t, n.done)
	var ce *domain.CheckoutError
	require.True(t, errors.As(n.err, &ce), "el checkout reentrante debió rechazarse, fue %v", n.err)
	assert.Equal(t, domain.KindCheckoutInProgress, ce.Kind)

	sales, err := store.Sales().ListByPeriod(ctx, user, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, sales, 1)
	p, _ := store.Products().GetByID(ctx, user, "a")
	assert.Equal(t, 2, p.Stock)
	assert.Empty(t, s.View().Lines)
	assert.Equal(t, checkout.StateIdle, s.View().State)
}

func TestSession_FeedAtrasadoNoPierdeDescuentos(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "b", UserID: user, Name: "Pão", Price: decimal.NewFromInt(2), Stock: 10}))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "d", UserID: user, Name: "Dora"}))
	reg := newRegistry(t, store, store, staleFeed{inner: store}, notify.Nop{})
	s, err := reg.Session(ctx, user)
	require.NoError(t, err)

	sell := func(qty int) *checkout.Receipt {
		t.Helper()
		require.NoError(t, s.AddProduct("b"))
		if qty > 1 {
			require.NoError(t, s.ChangeQuantity("b", qty-1))
		}
		require.NoError(t, s.SelectClient("d"))
		require.NoError(t, s.SetPaymentMethod(entity.PaymentDeferred))
		rec, err := s.Checkout(ctx)
		require.NoError(t, err)
		return rec
	}

	sell(4)
	stock, _ := s.Catalog().CurrentStock("b")
	assert.Equal(t, 6, stock)

	rec := sell(6)
	require.NotNil(t, rec.ClientDebt)
	assert.True(t, rec.ClientDebt.Equal(decimal.NewFromInt(20)))

	p, _ := store.Products().GetByID(ctx, user, "b")
	assert.Equal(t, 0, p.Stock)
	c, _ := store.Clients().GetByID(ctx, user, "d")
	assert.True(t, c.Debt.Equal(decimal.NewFromInt(20)))

	// sin stock en el caché ya no se puede volver a vender
	assert.ErrorIs(t, s.AddProduct("b"), cart.ErrOutOfStock)
}

func TestRegistry_SesionUnicaBajoConcurrencia(t *testing.T) {
	ctx := context.Background()
	_, reg, _ := setup(t, nil)

	const n = 16
	got := make([]*pos.Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := reg.Session(ctx, user)
			assert.NoError(t, err)
			got[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}
