package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense gasto registrado en la caja del día.
type Expense struct {
	ID          string
	UserID      string
	Description string
	Category    string
	Amount      decimal.Decimal
	Date        time.Time
}
