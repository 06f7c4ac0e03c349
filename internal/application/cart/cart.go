// Package cart mantiene la selección en curso del punto de venta. No es seguro para uso concurrente.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

var (
	ErrOutOfStock   = errors.New("produto sem estoque")
	ErrStockLimit   = errors.New("quantidade excede o estoque disponível")
	ErrItemNotFound = errors.New("produto não está no carrinho")
)

// Line instantánea del producto al agregarlo más la cantidad.
type Line struct {
	Product  entity.Product
	Quantity int
}

// Subtotal precio × cantidad.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// StockLookup stock actual en caché; ok=false si el producto ya no está.
type StockLookup func(productID string) (stock int, ok bool)

// Cart líneas en orden de inserción, una por producto.
type Cart struct {
	lines []Line
}

// New crea un carrito vacío.
func New() *Cart { return &Cart{} }

func (c *Cart) index(productID string) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add agrega una unidad. Sin stock no hace nada; si ya está, suma uno sin pasar del stock del producto.
func (c *Cart) Add(p *entity.Product) error {
	if p.Stock <= 0 {
		return ErrOutOfStock
	}
	if i := c.index(p.ID); i >= 0 {
		if c.lines[i].Quantity+1 > p.Stock {
			return ErrStockLimit
		}
		c.lines[i].Quantity++
		return nil
	}
	c.lines = append(c.lines, Line{Product: *p, Quantity: 1})
	return nil
}

// Remove quita la línea sin condiciones.
func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// ChangeQuantity aplica delta. Si queda en <= 0 se quita la línea; si supera el stock actual
// en caché se rechaza sin cambios. Un producto ausente del caché no limita la cantidad.
func (c *Cart) ChangeQuantity(productID string, delta int, current StockLookup) error {
	i := c.index(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	next := c.lines[i].Quantity + delta
	if next <= 0 {
		c.Remove(productID)
		return nil
	}
	if current != nil {
		if stock, ok := current(productID); ok && next > stock {
			return ErrStockLimit
		}
	}
	c.lines[i].Quantity = next
	return nil
}

// Total Σ(precio × cantidad).
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines copia de las líneas.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Len cantidad de líneas.
func (c *Cart) Len() int { return len(c.lines) }

// IsEmpty indica si no hay líneas.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Clear vacía el carrito.
func (c *Cart) Clear() { c.lines = nil }
