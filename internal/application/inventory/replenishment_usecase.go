package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// ReplenishmentUseCase lista de reposición: productos en o bajo su stock mínimo,
// priorizados por margen y por ventas recientes. Es sólo informativa.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	Now         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, saleRepo: saleRepo, Now: time.Now}
}

// LowStock devuelve las sugerencias ordenadas (prioridad 1 = más urgente).
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context, userID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	products, err := uc.productRepo.ListLowStock(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// Unidades vendidas en los últimos 90 días; sin historial el orden sigue por margen.
	end := uc.Now()
	sold := map[string]int{}
	if sales, err := uc.saleRepo.ListByPeriod(ctx, userID, end.AddDate(0, 0, -90), end); err == nil {
		for _, s := range sales {
			for _, l := range s.Lines {
				sold[l.ProductID] += l.Quantity
			}
		}
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		ideal := (p.MinStock*3 + 1) / 2 // 1,5 × mínimo, redondeado hacia arriba
		qty := ideal - p.Stock
		if qty < 0 {
			qty = 0
		}
		var margin decimal.Decimal
		if p.Price.IsPositive() {
			margin = p.Price.Sub(p.CostPrice).Div(p.Price).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			ProductName:        p.Name,
			CurrentStock:       p.Stock,
			MinStock:           p.MinStock,
			SuggestedOrderQty:  qty,
			EstimatedOrderCost: p.CostPrice.Mul(decimal.NewFromInt(int64(qty))),
			GrossMarginPct:     margin,
			UnitsSold:          sold[p.ID],
		})
	}

	// Primero mayor margen, luego mayor volumen, luego mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsSold != b.UnitsSold {
			return a.UnitsSold > b.UnitsSold
		}
		return a.MinStock-a.CurrentStock > b.MinStock-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
