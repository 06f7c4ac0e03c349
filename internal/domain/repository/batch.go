package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// BatchWriter aplica un Batch completo o nada.
// Un Commit fallido no deja efectos parciales; los errores de las operaciones se envuelven
// (domain.ErrNotFound, domain.ErrConflict, domain.ErrStoreUnavailable).
type BatchWriter interface {
	Commit(ctx context.Context, batch *Batch) error
}

// Op operación de escritura dentro de un Batch.
type Op interface {
	opName() string
}

// InsertSale inserta la venta.
type InsertSale struct{ Sale *entity.Sale }

// SetProductStock fija el stock del producto (sobrescritura, no decremento condicional).
// CostPrice no nil reemplaza también el costo (compras con costo promedio).
type SetProductStock struct {
	UserID    string
	ProductID string
	Stock     int
	CostPrice *decimal.Decimal
}

// InsertStockMovement agrega una fila de auditoría.
type InsertStockMovement struct{ Movement *entity.StockMovement }

// CreateCashRegister crea el resumen del día. Falla con domain.ErrConflict si ya existe.
type CreateCashRegister struct{ Summary *entity.CashRegisterSummary }

// IncrementCashRegister suma atómicamente a los totales del día (no lee y reescribe).
// Los deltas pueden ser negativos; cada total queda en >= 0. Falla con domain.ErrNotFound si el día no existe.
type IncrementCashRegister struct {
	UserID        string
	Date          string
	SalesDelta    decimal.Decimal
	ExpensesDelta decimal.Decimal
}

// IncrementClientDebt suma atómicamente a la deuda del cliente. Falla con domain.ErrNotFound si no existe.
type IncrementClientDebt struct {
	UserID   string
	ClientID string
	Amount   decimal.Decimal
}

// InsertExpense inserta un gasto.
type InsertExpense struct{ Expense *entity.Expense }

// DeleteExpense borra un gasto. Falla con domain.ErrNotFound si no existe.
type DeleteExpense struct {
	UserID    string
	ExpenseID string
}

func (InsertSale) opName() string            { return "insert_sale" }
func (SetProductStock) opName() string       { return "set_product_stock" }
func (InsertStockMovement) opName() string   { return "insert_stock_movement" }
func (CreateCashRegister) opName() string    { return "create_cash_register" }
func (IncrementCashRegister) opName() string { return "increment_cash_register" }
func (IncrementClientDebt) opName() string   { return "increment_client_debt" }
func (InsertExpense) opName() string         { return "insert_expense" }
func (DeleteExpense) opName() string         { return "delete_expense" }

// OpName nombre estable de la operación (logs, trazas).
func OpName(op Op) string { return op.opName() }

// Batch lista ordenada de operaciones a aplicar como una unidad.
type Batch struct {
	ops []Op
}

// NewBatch crea un Batch vacío.
func NewBatch() *Batch { return &Batch{} }

// Add agrega operaciones en orden.
func (b *Batch) Add(ops ...Op) *Batch {
	b.ops = append(b.ops, ops...)
	return b
}

// Ops devuelve las operaciones en el orden agregado.
func (b *Batch) Ops() []Op { return b.ops }

// Len cantidad de operaciones.
func (b *Batch) Len() int { return len(b.ops) }
