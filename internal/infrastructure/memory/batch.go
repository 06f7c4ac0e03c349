package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Commit implementa repository.BatchWriter. Aplica las operaciones en orden guardando
// cómo deshacer cada una; ante el primer error revierte todo lo aplicado.
func (s *Store) Commit(ctx context.Context, batch *repository.Batch) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	productUsers := map[string]struct{}{}
	clientUsers := map[string]struct{}{}

	s.mu.Lock()
	if err := s.checkOnline(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("commit batch: %w", err)
	}
	if s.failCommit != nil {
		err := s.failCommit
		s.failCommit = nil
		s.mu.Unlock()
		return fmt.Errorf("commit batch: %w", err)
	}

	var undo []func()
	for i, op := range batch.Ops() {
		u, err := s.apply(op, productUsers, clientUsers)
		if err != nil {
			for j := len(undo) - 1; j >= 0; j-- {
				undo[j]()
			}
			s.mu.Unlock()
			return fmt.Errorf("commit batch: op %d (%s): %w", i, repository.OpName(op), err)
		}
		undo = append(undo, u)
	}
	s.commits++
	s.mu.Unlock()

	s.notify(productUsers, clientUsers)
	return nil
}

func (s *Store) apply(op repository.Op, productUsers, clientUsers map[string]struct{}) (func(), error) {
	switch o := op.(type) {
	case repository.InsertSale:
		sale := cloneSale(o.Sale)
		um := userMap(s.sales, sale.UserID)
		if _, ok := um[sale.ID]; ok {
			return nil, domain.ErrDuplicate
		}
		um[sale.ID] = sale
		return func() { delete(um, sale.ID) }, nil

	case repository.SetProductStock:
		p, ok := s.products[o.UserID][o.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", o.ProductID, domain.ErrNotFound)
		}
		prevStock, prevCost, prevUpdated := p.Stock, p.CostPrice, p.LastUpdated
		p.Stock = o.Stock
		if o.CostPrice != nil {
			p.CostPrice = *o.CostPrice
		}
		p.LastUpdated = time.Now().UTC()
		productUsers[o.UserID] = struct{}{}
		return func() { p.Stock, p.CostPrice, p.LastUpdated = prevStock, prevCost, prevUpdated }, nil

	case repository.InsertStockMovement:
		m := *o.Movement
		userID := m.UserID
		s.movements[userID] = append(s.movements[userID], &m)
		n := len(s.movements[userID])
		return func() { s.movements[userID] = s.movements[userID][:n-1] }, nil

	case repository.CreateCashRegister:
		sum := o.Summary.Clone()
		um := userMap(s.summaries, sum.UserID)
		if _, ok := um[sum.Date]; ok {
			return nil, fmt.Errorf("cash register %s: %w", sum.Date, domain.ErrConflict)
		}
		um[sum.Date] = sum
		return func() { delete(um, sum.Date) }, nil

	case repository.IncrementCashRegister:
		sum, ok := s.summaries[o.UserID][o.Date]
		if !ok {
			return nil, fmt.Errorf("cash register %s: %w", o.Date, domain.ErrNotFound)
		}
		prev := *sum
		sum.SalesTotal = floorZero(sum.SalesTotal.Add(o.SalesDelta))
		sum.ExpensesTotal = floorZero(sum.ExpensesTotal.Add(o.ExpensesDelta))
		sum.UpdatedAt = time.Now().UTC()
		return func() { *sum = prev }, nil

	case repository.IncrementClientDebt:
		c, ok := s.clients[o.UserID][o.ClientID]
		if !ok {
			return nil, fmt.Errorf("client %s: %w", o.ClientID, domain.ErrNotFound)
		}
		prevDebt := c.Debt
		c.Debt = c.Debt.Add(o.Amount)
		clientUsers[o.UserID] = struct{}{}
		return func() { c.Debt = prevDebt }, nil

	case repository.InsertExpense:
		e := *o.Expense
		um := userMap(s.expenses, e.UserID)
		if _, ok := um[e.ID]; ok {
			return nil, domain.ErrDuplicate
		}
		um[e.ID] = &e
		return func() { delete(um, e.ID) }, nil

	case repository.DeleteExpense:
		um := s.expenses[o.UserID]
		e, ok := um[o.ExpenseID]
		if !ok {
			return nil, fmt.Errorf("expense %s: %w", o.ExpenseID, domain.ErrNotFound)
		}
		delete(um, o.ExpenseID)
		return func() { um[o.ExpenseID] = e }, nil
	}
	return nil, fmt.Errorf("operación desconocida %T: %w", op, domain.ErrInvalidInput)
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
