// Package catalog mantiene el espejo en memoria de productos y clientes del usuario.
// Sólo se usa para validar del lado de lectura; no es transaccional.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Snapshot acceso de sólo lectura al catálogo actual.
type Snapshot interface {
	Product(id string) (*entity.Product, bool)
	Client(id string) (*entity.Client, bool)
	CurrentProducts() []*entity.Product
	CurrentClients() []*entity.Client
}

// Cache espejo alimentado por CatalogFeed; cada notificación reemplaza el conjunto completo.
type Cache struct {
	feed   repository.CatalogFeed
	userID string

	mu       sync.RWMutex
	products map[string]*entity.Product
	clients  map[string]*entity.Client
	pOrder   []*entity.Product
	cOrder   []*entity.Client
	stops    []func()
}

var _ Snapshot = (*Cache)(nil)

// NewCache construye el caché para un usuario. No recibe datos hasta Start.
func NewCache(feed repository.CatalogFeed, userID string) *Cache {
	return &Cache{
		feed:     feed,
		userID:   userID,
		products: map[string]*entity.Product{},
		clients:  map[string]*entity.Client{},
	}
}

// Start se suscribe a productos y clientes.
func (c *Cache) Start(ctx context.Context) error {
	stopProducts, err := c.feed.SubscribeProducts(ctx, c.userID, c.replaceProducts)
	if err != nil {
		return fmt.Errorf("subscribe products: %w", err)
	}
	stopClients, err := c.feed.SubscribeClients(ctx, c.userID, c.replaceClients)
	if err != nil {
		stopProducts()
		return fmt.Errorf("subscribe clients: %w", err)
	}
	c.mu.Lock()
	c.stops = append(c.stops, stopProducts, stopClients)
	c.mu.Unlock()
	return nil
}

// Stop cancela las suscripciones; el último conjunto recibido sigue disponible.
func (c *Cache) Stop() {
	c.mu.Lock()
	stops := c.stops
	c.stops = nil
	c.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
}

func (c *Cache) replaceProducts(list []*entity.Product) {
	m := make(map[string]*entity.Product, len(list))
	order := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		cp := p.Clone()
		m[cp.ID] = cp
		order = append(order, cp)
	}
	c.mu.Lock()
	c.products, c.pOrder = m, order
	c.mu.Unlock()
}

func (c *Cache) replaceClients(list []*entity.Client) {
	m := make(map[string]*entity.Client, len(list))
	order := make([]*entity.Client, 0, len(list))
	for _, cl := range list {
		cp := cl.Clone()
		m[cp.ID] = cp
		order = append(order, cp)
	}
	c.mu.Lock()
	c.clients, c.cOrder = m, order
	c.mu.Unlock()
}

// ApplyLocal reemplaza, por id, las entradas indicadas con escrituras propias ya confirmadas.
// La próxima entrega del feed vuelve a reemplazar el conjunto completo.
func (c *Cache) ApplyLocal(products []*entity.Product, clients []*entity.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		cp := p.Clone()
		if _, ok := c.products[cp.ID]; !ok {
			continue
		}
		c.products[cp.ID] = cp
		for i := range c.pOrder {
			if c.pOrder[i].ID == cp.ID {
				c.pOrder[i] = cp
				break
			}
		}
	}
	for _, cl := range clients {
		cp := cl.Clone()
		if _, ok := c.clients[cp.ID]; !ok {
			continue
		}
		c.clients[cp.ID] = cp
		for i := range c.cOrder {
			if c.cOrder[i].ID == cp.ID {
				c.cOrder[i] = cp
				break
			}
		}
	}
}

// Product copia del producto en caché.
func (c *Cache) Product(id string) (*entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	return p.Clone(), ok
}

// Client copia del cliente en caché.
func (c *Cache) Client(id string) (*entity.Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cl, ok := c.clients[id]
	return cl.Clone(), ok
}

// CurrentStock stock en caché; ok=false si el producto no está.
func (c *Cache) CurrentStock(id string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return 0, false
	}
	return p.Stock, true
}

// CurrentProducts copia del conjunto actual en el orden del feed.
func (c *Cache) CurrentProducts() []*entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*entity.Product, len(c.pOrder))
	for i, p := range c.pOrder {
		out[i] = p.Clone()
	}
	return out
}

// CurrentClients copia del conjunto actual en el orden del feed.
func (c *Cache) CurrentClients() []*entity.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*entity.Client, len(c.cOrder))
	for i, cl := range c.cOrder {
		out[i] = cl.Clone()
	}
	return out
}
