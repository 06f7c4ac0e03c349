package entity

import "time"

// MovementType tipo de movimiento de stock; el signo lo implica el tipo.
type MovementType string

const (
	MovementSale     MovementType = "Venda"             // débito por venta
	MovementInbound  MovementType = "Ajuste de Entrada" // ajuste positivo
	MovementOutbound MovementType = "Ajuste de Saída"   // ajuste negativo
	MovementPurchase MovementType = "Compra"            // crédito por compra
)

// IsDebit indica si el movimiento resta stock.
func (t MovementType) IsDebit() bool {
	return t == MovementSale || t == MovementOutbound
}

// Valid indica si el tipo pertenece a la enumeración.
func (t MovementType) Valid() bool {
	switch t {
	case MovementSale, MovementInbound, MovementOutbound, MovementPurchase:
		return true
	}
	return false
}

// StockMovement fila de auditoría (sólo se agregan, nunca se editan).
// Quantity es siempre la magnitud positiva.
type StockMovement struct {
	ID          string
	UserID      string
	ProductID   string
	ProductName string
	Type        MovementType
	Quantity    int
	Reason      string
	Timestamp   time.Time
}

// SaleReason texto de motivo que referencia la venta de origen.
func SaleReason(saleID string) string {
	return "Venda ID: " + saleID
}
