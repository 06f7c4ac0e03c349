package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo del usuario.
// Stock es la cantidad disponible; MinStock es sólo el umbral de reposición (informativo).
type Product struct {
	ID          string
	UserID      string
	Name        string
	Category    string
	Price       decimal.Decimal // precio de venta (> 0)
	CostPrice   decimal.Decimal // costo (>= 0)
	Stock       int
	MinStock    int
	LastUpdated time.Time
}

// IsLowStock indica si el producto está en o por debajo del umbral de reposición.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// Clone copia el producto; el carrito guarda instantáneas independientes del catálogo.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
