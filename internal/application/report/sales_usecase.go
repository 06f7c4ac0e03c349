package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// DefaultTopProducts cantidad de productos en el ranking.
const DefaultTopProducts = 5

var hundred = decimal.NewFromInt(100)

// SalesUseCase resume las ventas de un período.
type SalesUseCase struct {
	sales   repository.SaleRepository
	clients repository.ClientRepository
	loc     *time.Location
	Now     func() time.Time
}

// NewSalesUseCase construye el caso de uso. loc define los límites de día.
func NewSalesUseCase(sales repository.SaleRepository, clients repository.ClientRepository, loc *time.Location) *SalesUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &SalesUseCase{sales: sales, clients: clients, loc: loc, Now: time.Now}
}

// Period resuelve [from, to] como días inclusivos. Vacíos: últimos 30 días.
func (uc *SalesUseCase) Period(from, to string) (time.Time, time.Time, error) {
	today := uc.Now().In(uc.loc)
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, uc.loc).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -30)
	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha inicial %q", domain.ErrInvalidInput, from)
		}
		start = t
	}
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: fecha final %q", domain.ErrInvalidInput, to)
		}
		end = t.AddDate(0, 0, 1)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: período vacío", domain.ErrInvalidInput)
	}
	return start, end, nil
}

// List ventas del período, más recientes primero.
func (uc *SalesUseCase) List(ctx context.Context, userID, from, to string) ([]*entity.Sale, error) {
	start, end, err := uc.Period(from, to)
	if err != nil {
		return nil, err
	}
	return uc.sales.ListByPeriod(ctx, userID, start, end)
}

// Get devuelve una venta; ErrNotFound si no existe.
func (uc *SalesUseCase) Get(ctx context.Context, userID, id string) (*entity.Sale, error) {
	sale, err := uc.sales.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// Summary agrega ingresos, costo, margen, formas de pago y ranking de productos.
func (uc *SalesUseCase) Summary(ctx context.Context, userID, from, to string, top int) (*dto.SalesReportDTO, error) {
	start, end, err := uc.Period(from, to)
	if err != nil {
		return nil, err
	}
	sales, err := uc.sales.ListByPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("report: listar ventas: %w", err)
	}
	if top <= 0 {
		top = DefaultTopProducts
	}
	clients, err := uc.clients.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("report: listar clientes: %w", err)
	}
	out := Aggregate(sales, top)
	Debts(out, clients)
	out.From = start.Format(dateLayout)
	out.To = end.AddDate(0, 0, -1).Format(dateLayout)
	return out, nil
}

// Debts completa la deuda total y los deudores, mayor deuda primero.
func Debts(out *dto.SalesReportDTO, clients []*entity.Client) {
	out.TotalDebt = decimal.Zero
	out.Debtors = []dto.DebtorDTO{}
	for _, c := range clients {
		if !c.Debt.IsPositive() {
			continue
		}
		out.TotalDebt = out.TotalDebt.Add(c.Debt)
		out.Debtors = append(out.Debtors, dto.DebtorDTO{ClientID: c.ID, Name: c.Name, Debt: c.Debt})
	}
	sort.Slice(out.Debtors, func(i, j int) bool {
		if c := out.Debtors[i].Debt.Cmp(out.Debtors[j].Debt); c != 0 {
			return c > 0
		}
		return out.Debtors[i].Name < out.Debtors[j].Name
	})
	out.DebtorsCount = len(out.Debtors)
}

// Aggregate calcula el resumen sobre un conjunto de ventas.
func Aggregate(sales []*entity.Sale, top int) *dto.SalesReportDTO {
	out := &dto.SalesReportDTO{
		Revenue:        decimal.Zero,
		Cost:           decimal.Zero,
		GrossProfit:    decimal.Zero,
		GrossMarginPct: decimal.Zero,
		AverageTicket:  decimal.Zero,
		Deferred:       decimal.Zero,
		ByPayment:      []dto.PaymentBreakdownDTO{},
		TopProducts:    []dto.TopProductDTO{},
		TotalDebt:      decimal.Zero,
		Debtors:        []dto.DebtorDTO{},
	}
	byPayment := make(map[entity.PaymentMethod]*dto.PaymentBreakdownDTO)
	attended := make(map[string]struct{})
	byProduct := make(map[string]*dto.TopProductDTO)

	for _, s := range sales {
		out.SalesCount++
		out.Revenue = out.Revenue.Add(s.Total)
		out.Cost = out.Cost.Add(s.Cost())
		if s.ClientID != "" {
			attended[s.ClientID] = struct{}{}
		}
		if s.PaymentMethod.IsDeferred() {
			out.Deferred = out.Deferred.Add(s.Total)
		}
		pb, ok := byPayment[s.PaymentMethod]
		if !ok {
			pb = &dto.PaymentBreakdownDTO{PaymentMethod: string(s.PaymentMethod), Total: decimal.Zero}
			byPayment[s.PaymentMethod] = pb
		}
		pb.Count++
		pb.Total = pb.Total.Add(s.Total)

		for _, l := range s.Lines {
			tp, ok := byProduct[l.ProductID]
			if !ok {
				tp = &dto.TopProductDTO{ProductID: l.ProductID, Name: l.Name, Revenue: decimal.Zero}
				byProduct[l.ProductID] = tp
			}
			tp.Quantity += l.Quantity
			tp.Revenue = tp.Revenue.Add(l.Subtotal())
		}
	}

	out.AttendedClients = len(attended)
	out.GrossProfit = out.Revenue.Sub(out.Cost)
	if out.Revenue.IsPositive() {
		out.GrossMarginPct = out.GrossProfit.Div(out.Revenue).Mul(hundred).Round(2)
	}
	if out.SalesCount > 0 {
		out.AverageTicket = out.Revenue.Div(decimal.NewFromInt(int64(out.SalesCount))).Round(2)
	}

	for _, m := range entity.PaymentMethods {
		if pb, ok := byPayment[m]; ok {
			out.ByPayment = append(out.ByPayment, *pb)
		}
	}

	ranking := make([]dto.TopProductDTO, 0, len(byProduct))
	for _, tp := range byProduct {
		ranking = append(ranking, *tp)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Quantity != ranking[j].Quantity {
			return ranking[i].Quantity > ranking[j].Quantity
		}
		if c := ranking[i].Revenue.Cmp(ranking[j].Revenue); c != 0 {
			return c > 0
		}
		return ranking[i].ProductID < ranking[j].ProductID
	})
	if len(ranking) > top {
		ranking = ranking[:top]
	}
	out.TopProducts = ranking
	return out
}
