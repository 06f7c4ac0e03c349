package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashRegisterSummary resumen diario de caja: un documento por día y usuario.
// Se crea con la primera venta o gasto del día y nunca se borra.
type CashRegisterSummary struct {
	UserID        string
	Date          string // YYYY-MM-DD
	SalesTotal    decimal.Decimal
	ExpensesTotal decimal.Decimal
	UpdatedAt     time.Time
}

// Balance ventas menos gastos.
func (s *CashRegisterSummary) Balance() decimal.Decimal {
	return s.SalesTotal.Sub(s.ExpensesTotal)
}

// Clone copia el resumen.
func (s *CashRegisterSummary) Clone() *CashRegisterSummary {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
