package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	Category  string          `json:"category" validate:"max=100"`
	Price     decimal.Decimal `json:"price" validate:"gt=0"`
	CostPrice decimal.Decimal `json:"costPrice" validate:"gte=0"`
	Stock     int             `json:"stock" validate:"gte=0"`
	MinStock  int             `json:"minStock" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock sólo cambia por ajustes o ventas.
type UpdateProductRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category  *string          `json:"category" validate:"omitempty,max=100"`
	Price     *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	CostPrice *decimal.Decimal `json:"costPrice" validate:"omitempty,gte=0"`
	MinStock  *int             `json:"minStock" validate:"omitempty,gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"minStock"`
	LowStock    bool            `json:"lowStock"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
