package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod forma de pago de una venta.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "Dinheiro"
	PaymentCreditCard PaymentMethod = "Cartão de Crédito"
	PaymentDebitCard  PaymentMethod = "Cartão de Débito"
	PaymentPIX        PaymentMethod = "PIX"
	PaymentDeferred   PaymentMethod = "Fiado" // a crédito: suma la venta a la deuda del cliente
)

// PaymentMethods lista cerrada, en el orden en que se ofrecen en el punto de venta.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPIX, PaymentDeferred}

// Valid indica si el método pertenece a la enumeración.
func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// IsDeferred indica venta fiado.
func (m PaymentMethod) IsDeferred() bool { return m == PaymentDeferred }

// Sale registro contable inmutable de una venta.
type Sale struct {
	ID            string
	UserID        string
	ClientID      string // vacío si no hay cliente
	PaymentMethod PaymentMethod
	Lines         []SaleLine
	Total         decimal.Decimal
	Timestamp     time.Time
}

// SaleLine línea capturada al momento de la venta (independiente de ediciones posteriores del producto).
type SaleLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal precio × cantidad.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cost costo × cantidad.
func (l SaleLine) Cost() decimal.Decimal {
	return l.CostPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LinesTotal Σ(precio × cantidad).
func LinesTotal(lines []SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Cost costo total de la venta.
func (s *Sale) Cost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Cost())
	}
	return total
}
