package http

import (
	"github.com/jhoicas/Caja-api/internal/application/cashregister"
	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/pos"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

func toCartResponse(v pos.View) dto.CartResponse {
	lines := make([]dto.CartLineResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, dto.CartLineResponse{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		})
	}
	return dto.CartResponse{
		Lines:         lines,
		Total:         v.Total,
		ClientID:      v.ClientID,
		PaymentMethod: string(v.PaymentMethod),
		State:         v.State.String(),
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SaleLineResponse{
			ProductID: l.ProductID, Name: l.Name, Price: l.Price, CostPrice: l.CostPrice, Quantity: l.Quantity,
		})
	}
	return dto.SaleResponse{
		ID:            s.ID,
		Timestamp:     s.Timestamp,
		Lines:         lines,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		ClientID:      s.ClientID,
	}
}

func toSummaryDTO(s *entity.CashRegisterSummary, source cashregister.Source) dto.DayBalanceDTO {
	out := dto.DayBalanceDTO{Source: string(source)}
	if s == nil {
		return out
	}
	out.Date = s.Date
	out.SalesTotal = s.SalesTotal
	out.ExpensesTotal = s.ExpensesTotal
	out.Balance = s.Balance()
	out.Exists = true
	return out
}

func toDayBalanceDTO(b *cashregister.DayBalance) dto.DayBalanceDTO {
	return dto.DayBalanceDTO{
		Date:          b.Date,
		SalesTotal:    b.SalesTotal,
		ExpensesTotal: b.ExpensesTotal,
		Balance:       b.Balance,
		Exists:        b.Exists,
		Source:        string(b.Source),
	}
}

func toExpenseResponse(e *entity.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{ID: e.ID, Description: e.Description, Category: e.Category, Amount: e.Amount, Date: e.Date}
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID: m.ID, ProductID: m.ProductID, ProductName: m.ProductName, Type: string(m.Type),
		Quantity: m.Quantity, Reason: m.Reason, Timestamp: m.Timestamp,
	}
}
