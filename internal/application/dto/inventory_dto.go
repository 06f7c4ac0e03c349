package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustmentRequest body para POST /api/inventory/adjustments.
type StockAdjustmentRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Reason    string `json:"reason" validate:"required,max=500"`
	// UnitCost costo unitario de una Compra; recalcula el costo promedio ponderado del producto.
	UnitCost *decimal.Decimal `json:"unitCost,omitempty"`
}

// StockMovementResponse fila del historial de movimientos.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"productId"`
	ProductName        string          `json:"productName"`
	CurrentStock       int             `json:"currentStock"`
	MinStock           int             `json:"minStock"`
	SuggestedOrderQty  int             `json:"suggestedOrderQty"`  // hasta 1,5 × mínimo
	EstimatedOrderCost decimal.Decimal `json:"estimatedOrderCost"` // cantidad × costo
	GrossMarginPct     decimal.Decimal `json:"grossMarginPct"`
	UnitsSold          int             `json:"unitsSold"` // últimos 90 días
	Priority           int             `json:"priority"`  // 1 = más urgente
}
