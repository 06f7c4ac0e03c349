package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest body para POST /api/expenses.
type CreateExpenseRequest struct {
	Description string          `json:"description" validate:"required,max=300"`
	Category    string          `json:"category" validate:"max=100"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
}

// ExpenseResponse gasto registrado.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
}

// DayBalanceDTO saldo de caja de un día.
type DayBalanceDTO struct {
	Date          string          `json:"date"`
	SalesTotal    decimal.Decimal `json:"salesTotal"`
	ExpensesTotal decimal.Decimal `json:"expensesTotal"`
	Balance       decimal.Decimal `json:"balance"`
	Exists        bool            `json:"exists"`
	Source        string          `json:"source,omitempty"`
}

// MonthBalanceDTO saldo de caja de un mes.
type MonthBalanceDTO struct {
	Month         string          `json:"month"`
	SalesTotal    decimal.Decimal `json:"salesTotal"`
	ExpensesTotal decimal.Decimal `json:"expensesTotal"`
	Balance       decimal.Decimal `json:"balance"`
	Days          []DayBalanceDTO `json:"days"`
}
