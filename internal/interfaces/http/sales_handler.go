package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/receipt"
	"github.com/jhoicas/Caja-api/internal/application/report"
)

// SalesHandler consulta de ventas, comprobante PDF y resumen del período.
type SalesHandler struct {
	sales    *report.SalesUseCase
	receipts *receipt.UseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(sales *report.SalesUseCase, receipts *receipt.UseCase) *SalesHandler {
	return &SalesHandler{sales: sales, receipts: receipts}
}

// List godoc
// @Summary      Ventas del período (por defecto los últimos 30 días)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD (inclusivo)"
// @Success      200   {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	list, err := h.sales.List(c.UserContext(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	s, err := h.sales.Get(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(s))
}

// Receipt godoc
// @Summary      Comprobante de venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	pdf, name, err := h.receipts.Download(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(pdf)
}

// Report godoc
// @Summary      Resumen de ventas: ingresos, margen, ticket medio, formas de pago y más vendidos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        top   query  int     false  "Cantidad de productos más vendidos"  default(5)
// @Success      200   {object}  dto.SalesReportDTO
// @Router       /api/reports/sales [get]
func (h *SalesHandler) Report(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	out, err := h.sales.Summary(c.UserContext(), userID, c.Query("from"), c.Query("to"), c.QueryInt("top", report.DefaultTopProducts))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
