package postgres

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// CatalogChannel canal NOTIFY que emiten los triggers de products y clients.
const CatalogChannel = "catalog_changes"

var _ repository.CatalogFeed = (*CatalogListener)(nil)

// CatalogListener implementa repository.CatalogFeed con LISTEN/NOTIFY: ante cada aviso
// "<tabla>:<user_id>" relee la colección del usuario y la entrega a sus suscriptores.
type CatalogListener struct {
	pool     *pgxpool.Pool
	products *ProductRepo
	clients  *ClientRepo
	log      *logger.Logger

	mu          sync.Mutex
	nextID      int
	productSubs map[string]map[int]func([]*entity.Product)
	clientSubs  map[string]map[int]func([]*entity.Client)

	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewCatalogListener construye el listener; Start abre la conexión dedicada.
func NewCatalogListener(pool *pgxpool.Pool, log *logger.Logger) *CatalogListener {
	return &CatalogListener{
		pool:        pool,
		products:    NewProductRepository(pool),
		clients:     NewClientRepository(pool),
		log:         log.Component("catalog_listener"),
		productSubs: make(map[string]map[int]func([]*entity.Product)),
		clientSubs:  make(map[string]map[int]func([]*entity.Client)),
	}
}

// Start lanza el loop de LISTEN. Llamarlo dos veces no tiene efecto.
func (l *CatalogListener) Start(ctx context.Context) {
	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()
	if l.cancel != nil {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.wg.Add(1)
	go l.listenLoop(ctx)
}

// Stop detiene el loop y espera a que termine.
func (l *CatalogListener) Stop() {
	l.lifecycleMu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.lifecycleMu.Unlock()
	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}

// SubscribeProducts implementa repository.CatalogFeed.
func (l *CatalogListener) SubscribeProducts(ctx context.Context, userID string, fn func([]*entity.Product)) (func(), error) {
	list, err := l.products.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	subs, ok := l.productSubs[userID]
	if !ok {
		subs = make(map[int]func([]*entity.Product))
		l.productSubs[userID] = subs
	}
	subs[id] = fn
	l.mu.Unlock()

	fn(list)
	return func() {
		l.mu.Lock()
		delete(l.productSubs[userID], id)
		l.mu.Unlock()
	}, nil
}

// SubscribeClients implementa repository.CatalogFeed.
func (l *CatalogListener) SubscribeClients(ctx context.Context, userID string, fn func([]*entity.Client)) (func(), error) {
	list, err := l.clients.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	subs, ok := l.clientSubs[userID]
	if !ok {
		subs = make(map[int]func([]*entity.Client))
		l.clientSubs[userID] = subs
	}
	subs[id] = fn
	l.mu.Unlock()

	fn(list)
	return func() {
		l.mu.Lock()
		delete(l.clientSubs[userID], id)
		l.mu.Unlock()
	}, nil
}

func (l *CatalogListener) listenLoop(ctx context.Context) {
	defer l.wg.Done()
	for ctx.Err() == nil {
		conn, err := l.pool.Acquire(ctx)
		if err != nil {
			l.log.Error().Err(err).Msg("no se pudo adquirir conexión para LISTEN")
			sleep(ctx, time.Second)
			continue
		}
		if _, err := conn.Exec(ctx, "LISTEN "+CatalogChannel); err != nil {
			l.log.Error().Err(err).Msg("LISTEN falló")
			conn.Release()
			sleep(ctx, time.Second)
			continue
		}
		l.log.Info().Str("channel", CatalogChannel).Msg("escuchando cambios del catálogo")
		// Los avisos perdidos durante la reconexión se compensan releyendo todo.
		l.refreshAll(ctx)

		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					l.log.Warn().Err(err).Msg("conexión LISTEN perdida, reintentando")
				}
				break
			}
			l.handle(ctx, n.Payload)
		}
		// La conexión queda con LISTEN activo: se saca del pool y se cierra.
		_ = conn.Hijack().Close(context.Background())
	}
}

func (l *CatalogListener) handle(ctx context.Context, payload string) {
	table, userID, ok := strings.Cut(payload, ":")
	if !ok || userID == "" {
		l.log.Debug().Str("payload", payload).Msg("aviso de catálogo ignorado")
		return
	}
	switch table {
	case productsTable:
		l.refreshProducts(ctx, userID)
	case clientsTable:
		l.refreshClients(ctx, userID)
	}
}

func (l *CatalogListener) refreshAll(ctx context.Context) {
	l.mu.Lock()
	var pUsers, cUsers []string
	for u := range l.productSubs {
		pUsers = append(pUsers, u)
	}
	for u := range l.clientSubs {
		cUsers = append(cUsers, u)
	}
	l.mu.Unlock()
	for _, u := range pUsers {
		l.refreshProducts(ctx, u)
	}
	for _, u := range cUsers {
		l.refreshClients(ctx, u)
	}
}

func (l *CatalogListener) refreshProducts(ctx context.Context, userID string) {
	l.mu.Lock()
	subs := make([]func([]*entity.Product), 0, len(l.productSubs[userID]))
	for _, fn := range l.productSubs[userID] {
		subs = append(subs, fn)
	}
	l.mu.Unlock()
	if len(subs) == 0 {
		return
	}
	list, err := l.products.ListByUser(ctx, userID)
	if err != nil {
		l.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo releer productos")
		return
	}
	for _, fn := range subs {
		fn(cloneProducts(list))
	}
}

func (l *CatalogListener) refreshClients(ctx context.Context, userID string) {
	l.mu.Lock()
	subs := make([]func([]*entity.Client), 0, len(l.clientSubs[userID]))
	for _, fn := range l.clientSubs[userID] {
		subs = append(subs, fn)
	}
	l.mu.Unlock()
	if len(subs) == 0 {
		return
	}
	list, err := l.clients.ListByUser(ctx, userID)
	if err != nil {
		l.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo releer clientes")
		return
	}
	for _, fn := range subs {
		out := make([]*entity.Client, 0, len(list))
		for _, c := range list {
			out = append(out, c.Clone())
		}
		fn(out)
	}
}

func cloneProducts(list []*entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		out = append(out, p.Clone())
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
