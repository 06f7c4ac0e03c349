package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddCartItemRequest body para POST /api/pos/cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// ChangeQuantityRequest body para PATCH /api/pos/cart/items/:productId.
type ChangeQuantityRequest struct {
	Delta int `json:"delta" validate:"required,ne=0"`
}

// SelectClientRequest body para PUT /api/pos/client; vacío deselecciona.
type SelectClientRequest struct {
	ClientID string `json:"clientId"`
}

// PaymentMethodRequest body para PUT /api/pos/payment-method.
type PaymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

// CartLineResponse línea del carrito.
type CartLineResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse estado de la sesión de venta.
type CartResponse struct {
	Lines         []CartLineResponse `json:"lines"`
	Total         decimal.Decimal    `json:"total"`
	ClientID      string             `json:"clientId,omitempty"`
	PaymentMethod string             `json:"paymentMethod"`
	State         string             `json:"state"`
}

// SaleLineResponse línea de una venta.
type SaleLineResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Quantity  int             `json:"quantity"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Lines         []SaleLineResponse `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	ClientID      string             `json:"clientId,omitempty"`
}

// CheckoutResponse resultado de POST /api/pos/checkout.
type CheckoutResponse struct {
	Sale               SaleResponse     `json:"sale"`
	CashRegister       DayBalanceDTO    `json:"cashRegister"`
	ClientDebt         *decimal.Decimal `json:"clientDebt,omitempty"`
	StockMovementCount int              `json:"stockMovements"`
}

// NotificationResponse aviso pendiente.
type NotificationResponse struct {
	Message  string    `json:"message"`
	Severity string    `json:"severity"`
	At       time.Time `json:"at"`
}
