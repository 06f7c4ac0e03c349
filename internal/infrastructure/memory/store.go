package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Store almacén de documentos en memoria: repositorios, Batch atómico y feed del catálogo.
// Permite simular falta de red (SetOnline) y rechazos del lote (FailNextCommit).
type Store struct {
	mu         sync.RWMutex
	products   map[string]map[string]*entity.Product // userID -> id -> producto
	clients    map[string]map[string]*entity.Client
	sales      map[string]map[string]*entity.Sale
	movements  map[string][]*entity.StockMovement
	summaries  map[string]map[string]*entity.CashRegisterSummary // userID -> fecha -> resumen
	expenses   map[string]map[string]*entity.Expense
	online     bool
	failCommit error
	commits    int

	subMu       sync.Mutex
	nextSubID   int
	productSubs map[string]map[int]func([]*entity.Product)
	clientSubs  map[string]map[int]func([]*entity.Client)
}

var (
	_ repository.BatchWriter             = (*Store)(nil)
	_ repository.CatalogFeed             = (*Store)(nil)
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.ClientRepository        = (*ClientRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.ExpenseRepository       = (*ExpenseRepo)(nil)
	_ repository.CashRegisterRepository  = (*CashRegisterRepo)(nil)
)

// New crea un almacén vacío y en línea.
func New() *Store {
	return &Store{
		products:    make(map[string]map[string]*entity.Product),
		clients:     make(map[string]map[string]*entity.Client),
		sales:       make(map[string]map[string]*entity.Sale),
		movements:   make(map[string][]*entity.StockMovement),
		summaries:   make(map[string]map[string]*entity.CashRegisterSummary),
		expenses:    make(map[string]map[string]*entity.Expense),
		online:      true,
		productSubs: make(map[string]map[int]func([]*entity.Product)),
		clientSubs:  make(map[string]map[int]func([]*entity.Client)),
	}
}

// SetOnline simula conexión o desconexión. Fuera de línea, lecturas y Commit fallan con domain.ErrStoreUnavailable.
func (s *Store) SetOnline(online bool) {
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
}

// FailNextCommit hace que el próximo Commit falle con err sin aplicar nada.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	s.failCommit = err
	s.mu.Unlock()
}

// Commits cantidad de lotes aplicados con éxito.
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Repositorios (vistas sobre el mismo almacén).

func (s *Store) Products() *ProductRepo           { return &ProductRepo{s: s} }
func (s *Store) Clients() *ClientRepo             { return &ClientRepo{s: s} }
func (s *Store) Sales() *SaleRepo                 { return &SaleRepo{s: s} }
func (s *Store) Movements() *StockMovementRepo    { return &StockMovementRepo{s: s} }
func (s *Store) Expenses() *ExpenseRepo           { return &ExpenseRepo{s: s} }
func (s *Store) CashRegisters() *CashRegisterRepo { return &CashRegisterRepo{s: s} }

// checkOnline debe llamarse con el lock tomado.
func (s *Store) checkOnline() error {
	if !s.online {
		return domain.ErrStoreUnavailable
	}
	return nil
}

func userMap[T any](m map[string]map[string]T, userID string) map[string]T {
	um, ok := m[userID]
	if !ok {
		um = make(map[string]T)
		m[userID] = um
	}
	return um
}

// SubscribeProducts implementa repository.CatalogFeed; entrega el conjunto actual de inmediato.
func (s *Store) SubscribeProducts(_ context.Context, userID string, fn func([]*entity.Product)) (func(), error) {
	s.subMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	userSubs(s.productSubs, userID)[id] = fn
	s.subMu.Unlock()

	fn(s.snapshotProducts(userID))
	return func() {
		s.subMu.Lock()
		delete(s.productSubs[userID], id)
		s.subMu.Unlock()
	}, nil
}

// SubscribeClients implementa repository.CatalogFeed.
func (s *Store) SubscribeClients(_ context.Context, userID string, fn func([]*entity.Client)) (func(), error) {
	s.subMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	userSubs(s.clientSubs, userID)[id] = fn
	s.subMu.Unlock()

	fn(s.snapshotClients(userID))
	return func() {
		s.subMu.Lock()
		delete(s.clientSubs[userID], id)
		s.subMu.Unlock()
	}, nil
}

func userSubs[T any](m map[string]map[int]T, userID string) map[int]T {
	um, ok := m[userID]
	if !ok {
		um = make(map[int]T)
		m[userID] = um
	}
	return um
}

func (s *Store) snapshotProducts(userID string) []*entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(s.products[userID]))
	for _, p := range s.products[userID] {
		out = append(out, p.Clone())
	}
	sortProducts(out)
	return out
}

func (s *Store) snapshotClients(userID string) []*entity.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Client, 0, len(s.clients[userID]))
	for _, c := range s.clients[userID] {
		out = append(out, c.Clone())
	}
	sortClients(out)
	return out
}

// notify se llama sin el lock de datos tomado.
func (s *Store) notify(productUsers, clientUsers map[string]struct{}) {
	for userID := range productUsers {
		snap := s.snapshotProducts(userID)
		s.subMu.Lock()
		fns := make([]func([]*entity.Product), 0, len(s.productSubs[userID]))
		for _, fn := range s.productSubs[userID] {
			fns = append(fns, fn)
		}
		s.subMu.Unlock()
		for _, fn := range fns {
			fn(snap)
		}
	}
	for userID := range clientUsers {
		snap := s.snapshotClients(userID)
		s.subMu.Lock()
		fns := make([]func([]*entity.Client), 0, len(s.clientSubs[userID]))
		for _, fn := range s.clientSubs[userID] {
			fns = append(fns, fn)
		}
		s.subMu.Unlock()
		for _, fn := range fns {
			fn(snap)
		}
	}
}

func touched(userID string) map[string]struct{} {
	return map[string]struct{}{userID: {}}
}
