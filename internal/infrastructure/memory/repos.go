package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// ProductRepo vista de productos.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	s := r.s
	s.mu.Lock()
	if err := s.checkOnline(); err != nil {
		s.mu.Unlock()
		return err
	}
	um := userMap(s.products, product.UserID)
	if _, ok := um[product.ID]; ok {
		s.mu.Unlock()
		return domain.ErrDuplicate
	}
	um[product.ID] = product.Clone()
	s.mu.Unlock()
	s.notify(touched(product.UserID), nil)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, userID, id string) (*entity.Product, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	p, ok := s.products[userID][id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	s := r.s
	s.mu.Lock()
	if err := s.checkOnline(); err != nil {
		s.mu.Unlock()
		return err
	}
	if _, ok := s.products[product.UserID][product.ID]; !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	s.products[product.UserID][product.ID] = product.Clone()
	s.mu.Unlock()
	s.notify(touched(product.UserID), nil)
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, userID, id string) error {
	s := r.s
	s.mu.Lock()
	if err := s.checkOnline(); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.products[userID], id)
	s.mu.Unlock()
	s.notify(touched(userID), nil)
	return nil
}

func (r *ProductRepo) ListByUser(_ context.Context, userID string) ([]*entity.Product, error) {
	s := r.s
	s.mu.RLock()
	if err := s.checkOnline(); err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	s.mu.RUnlock()
	return s.snapshotProducts(userID), nil
}

func (r *ProductRepo) ListLowStock(ctx context.Context, userID string) ([]*entity.Product, error) {
	all, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0)
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

// ClientRepo vista de clientes.
type ClientRepo struct{ s *Store }

func (r *ClientRepo) Create(_ context.Context, client *entity.Client) error {
	s := r.s
	s.mu.Lock()
	if err := s.checkOnline(); err != nil {
		s.mu.Unlock()
		return err
	}
	um := userMap(s.clients, client.UserID)
	for _, c := range um {
		if c.ID == client.ID || sameDocument(c, client) {
			s.mu.Unlock()
			return domain.ErrDuplicate
		}
	}
	um[client.ID] = client.Clone()
	s.mu.Unlock()
	s.notify(nil, touched(client.UserID))
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, userID, id string) (*entity.Client, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	c, ok := s.clients[userID][id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *ClientRepo) GetByDocument(_ context.Context, userID, documentType, documentNumber string) (*entity.Client, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	want := &entity.Client{DocumentType: documentType, DocumentNumber: documentNumber}
	for _, c := range s.clients[userID] {
		if sameDocument(c, want) {
			return c.Clone(), nil
		}
	}
	return nil, nil
}

// Update reemplaza los datos del cliente conservando la deuda almacenada.
func (r *ClientRepo) Update(_ context.Context, client *entity.Client) error {
	s := r.s
	s.mu.Lock()
	if err := s.checkOnline(); err != nil {
		s.mu.Unlock()
		return err
	}
	um := s.clients[client.UserID]
	cur, ok := um[client.ID]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	for _, c := range um {
		if c.ID != client.ID && sameDocument(c, client) {
			s.mu.Unlock()
			return domain.ErrDuplicate
		}
	}
	next := client.Clone()
	next.Debt = cur.Debt
	um[client.ID] = next
	s.mu.Unlock()
	s.notify(nil, touched(client.UserID))
	return nil
}

func (r *ClientRepo) Delete(_ context.Context, userID, id string) error {
	s := r.s
	s.mu.Lock()
	if err := s.checkOnline(); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.clients[userID], id)
	s.mu.Unlock()
	s.notify(nil, touched(userID))
	return nil
}

func (r *ClientRepo) ListByUser(_ context.Context, userID string) ([]*entity.Client, error) {
	s := r.s
	s.mu.RLock()
	if err := s.checkOnline(); err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	s.mu.RUnlock()
	return s.snapshotClients(userID), nil
}

func sameDocument(a, b *entity.Client) bool {
	if a.DocumentNumber == "" || b.DocumentNumber == "" {
		return false
	}
	return strings.EqualFold(a.DocumentType, b.DocumentType) && a.DocumentNumber == b.DocumentNumber
}

// SaleRepo vista de ventas.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) GetByID(_ context.Context, userID, id string) (*entity.Sale, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	sale, ok := s.sales[userID][id]
	if !ok {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r *SaleRepo) ListByPeriod(_ context.Context, userID string, from, to time.Time) ([]*entity.Sale, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	out := make([]*entity.Sale, 0)
	for _, sale := range s.sales[userID] {
		if inPeriod(sale.Timestamp, from, to) {
			out = append(out, cloneSale(sale))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// StockMovementRepo vista del historial de movimientos.
type StockMovementRepo struct{ s *Store }

func (r *StockMovementRepo) ListByProduct(_ context.Context, userID, productID string, limit int) ([]*entity.StockMovement, error) {
	return r.filter(userID, limit, func(m *entity.StockMovement) bool { return m.ProductID == productID })
}

func (r *StockMovementRepo) ListByReason(_ context.Context, userID, reason string) ([]*entity.StockMovement, error) {
	return r.filter(userID, 0, func(m *entity.StockMovement) bool { return m.Reason == reason })
}

func (r *StockMovementRepo) ListByPeriod(_ context.Context, userID string, from, to time.Time) ([]*entity.StockMovement, error) {
	return r.filter(userID, 0, func(m *entity.StockMovement) bool { return inPeriod(m.Timestamp, from, to) })
}

// filter devuelve los movimientos más recientes primero; limit <= 0 es sin límite.
func (r *StockMovementRepo) filter(userID string, limit int, keep func(*entity.StockMovement) bool) ([]*entity.StockMovement, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	all := s.movements[userID]
	out := make([]*entity.StockMovement, 0)
	for i := len(all) - 1; i >= 0; i-- {
		if keep(all[i]) {
			m := *all[i]
			out = append(out, &m)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ExpenseRepo vista de gastos.
type ExpenseRepo struct{ s *Store }

func (r *ExpenseRepo) GetByID(_ context.Context, userID, id string) (*entity.Expense, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	e, ok := s.expenses[userID][id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *ExpenseRepo) ListByPeriod(_ context.Context, userID string, from, to time.Time) ([]*entity.Expense, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	out := make([]*entity.Expense, 0)
	for _, e := range s.expenses[userID] {
		if inPeriod(e.Date, from, to) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// CashRegisterRepo lectura en línea de los resúmenes diarios.
type CashRegisterRepo struct{ s *Store }

func (r *CashRegisterRepo) Get(ctx context.Context, userID, date string) (*entity.CashRegisterSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	return s.summaries[userID][date].Clone(), nil
}

func (r *CashRegisterRepo) ListRange(_ context.Context, userID, fromDate, toDate string) ([]*entity.CashRegisterSummary, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOnline(); err != nil {
		return nil, err
	}
	out := make([]*entity.CashRegisterSummary, 0)
	for date, sum := range s.summaries[userID] {
		if date >= fromDate && date <= toDate {
			out = append(out, sum.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func inPeriod(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func sortProducts(list []*entity.Product) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
}

func sortClients(list []*entity.Client) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
}

func cloneSale(src *entity.Sale) *entity.Sale {
	cp := *src
	cp.Lines = append([]entity.SaleLine(nil), src.Lines...)
	return &cp
}
