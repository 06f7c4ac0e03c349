// Package pos mantiene la sesión de punto de venta de cada usuario: carrito, cliente, forma de pago.
package pos

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/cart"
	"github.com/jhoicas/Caja-api/internal/application/catalog"
	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/application/notify"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// View estado visible de la sesión.
type View struct {
	Lines         []cart.Line
	Total         decimal.Decimal
	ClientID      string
	PaymentMethod entity.PaymentMethod
	State         checkout.State
}

// Session sesión de un usuario. Mientras hay un checkout en curso no acepta otro
// ni cambios en el carrito.
type Session struct {
	userID   string
	catalog  *catalog.Cache
	engine   *checkout.Engine
	notifier notify.Notifier

	mu       sync.Mutex
	cart     *cart.Cart
	clientID string
	payment  entity.PaymentMethod
	state    checkout.State
	inFlight bool // sólo Checkout lo cambia; el observador del motor no
}

func newSession(userID string, cache *catalog.Cache, engine *checkout.Engine, notifier notify.Notifier) *Session {
	return &Session{
		userID:   userID,
		catalog:  cache,
		engine:   engine,
		notifier: notifier,
		cart:     cart.New(),
		payment:  entity.PaymentCash,
		state:    checkout.StateIdle,
	}
}

// Catalog caché del catálogo de la sesión.
func (s *Session) Catalog() *catalog.Cache { return s.catalog }

func (s *Session) busy() bool { return s.inFlight }

// AddProduct agrega una unidad del producto tal como está en el catálogo ahora.
func (s *Session) AddProduct(productID string) error {
	p, ok := s.catalog.Product(productID)
	if !ok {
		return fmt.Errorf("produto %s: %w", productID, domain.ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return domain.NewCheckoutInProgress()
	}
	return s.cart.Add(p)
}

// ChangeQuantity suma delta a la línea, limitado por el stock actual del catálogo.
func (s *Session) ChangeQuantity(productID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return domain.NewCheckoutInProgress()
	}
	return s.cart.ChangeQuantity(productID, delta, s.catalog.CurrentStock)
}

// RemoveProduct quita la línea.
func (s *Session) RemoveProduct(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return domain.NewCheckoutInProgress()
	}
	s.cart.Remove(productID)
	return nil
}

// SelectClient elige el cliente; vacío lo deselecciona.
func (s *Session) SelectClient(clientID string) error {
	if clientID != "" {
		if _, ok := s.catalog.Client(clientID); !ok {
			return fmt.Errorf("cliente %s: %w", clientID, domain.ErrNotFound)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return domain.NewCheckoutInProgress()
	}
	s.clientID = clientID
	return nil
}

// SetPaymentMethod elige la forma de pago.
func (s *Session) SetPaymentMethod(pm entity.PaymentMethod) error {
	if !pm.Valid() {
		return domain.NewInvalidPaymentMethod(string(pm))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return domain.NewCheckoutInProgress()
	}
	s.payment = pm
	return nil
}

// View copia del estado actual.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Lines:         s.cart.Lines(),
		Total:         s.cart.Total(),
		ClientID:      s.clientID,
		PaymentMethod: s.payment,
		State:         s.state,
	}
}

// Checkout confirma la venta del carrito actual. Sólo si se confirma se vacían el carrito y el cliente.
func (s *Session) Checkout(ctx context.Context) (*checkout.Receipt, error) {
	s.mu.Lock()
	if s.busy() {
		s.mu.Unlock()
		err := domain.NewCheckoutInProgress()
		s.notifier.Notify(ctx, s.userID, err.Error(), notify.Warning)
		return nil, err
	}
	req := checkout.Request{
		UserID:        s.userID,
		Lines:         s.cart.Lines(),
		PaymentMethod: s.payment,
		ClientID:      s.clientID,
		Catalog:       s.catalog,
		OnState:       s.setState,
	}
	s.state = checkout.StateValidating
	s.inFlight = true
	s.mu.Unlock()

	receipt, err := s.engine.Checkout(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.applyCommitted(receipt)
		s.cart.Clear()
		s.clientID = ""
	}
	s.state = checkout.StateIdle
	s.inFlight = false
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// setState refleja el estado del motor. Idle lo fija Checkout al terminar, con el carrito ya resuelto.
func (s *Session) setState(st checkout.State) {
	if st == checkout.StateIdle {
		return
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// applyCommitted lleva al caché el stock y la deuda que se acaban de escribir, sin esperar al feed.
func (s *Session) applyCommitted(r *checkout.Receipt) {
	products := make([]*entity.Product, 0, len(r.StockLevels))
	for id, stock := range r.StockLevels {
		if p, ok := s.catalog.Product(id); ok {
			p.Stock = stock
			products = append(products, p)
		}
	}
	var clients []*entity.Client
	if r.ClientDebt != nil && r.Sale.ClientID != "" {
		if c, ok := s.catalog.Client(r.Sale.ClientID); ok {
			c.Debt = *r.ClientDebt
			clients = append(clients, c)
		}
	}
	s.catalog.ApplyLocal(products, clients)
}
