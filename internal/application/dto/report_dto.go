package dto

import "github.com/shopspring/decimal"

// PaymentBreakdownDTO totales por forma de pago.
type PaymentBreakdownDTO struct {
	PaymentMethod string          `json:"paymentMethod"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

// TopProductDTO producto más vendido del período.
type TopProductDTO struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DebtorDTO cliente con fiado pendiente.
type DebtorDTO struct {
	ClientID string          `json:"clientId"`
	Name     string          `json:"name"`
	Debt     decimal.Decimal `json:"debt"`
}

// SalesReportDTO resumen de ventas de un período.
type SalesReportDTO struct {
	From           string                `json:"from"`
	To             string                `json:"to"`
	SalesCount     int                   `json:"salesCount"`
	Revenue        decimal.Decimal       `json:"revenue"`
	Cost           decimal.Decimal       `json:"cost"`
	GrossProfit    decimal.Decimal       `json:"grossProfit"`
	GrossMarginPct decimal.Decimal       `json:"grossMarginPct"`
	AverageTicket  decimal.Decimal       `json:"averageTicket"`
	Deferred       decimal.Decimal       `json:"deferredTotal"`
	ByPayment      []PaymentBreakdownDTO `json:"byPaymentMethod"`
	TopProducts    []TopProductDTO       `json:"topProducts"`
	// clientes distintos con venta en el período
	AttendedClients int `json:"attendedClients"`
	// deuda vigente al momento de la consulta, no sólo la del período
	TotalDebt    decimal.Decimal `json:"totalDebt"`
	DebtorsCount int             `json:"debtorsCount"`
	Debtors      []DebtorDTO     `json:"debtors"`
}
