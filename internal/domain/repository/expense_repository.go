package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// ExpenseRepository lectura de gastos. Altas y bajas van por Batch junto con el resumen de caja.
type ExpenseRepository interface {
	GetByID(ctx context.Context, userID, id string) (*entity.Expense, error)
	ListByPeriod(ctx context.Context, userID string, from, to time.Time) ([]*entity.Expense, error)
}
