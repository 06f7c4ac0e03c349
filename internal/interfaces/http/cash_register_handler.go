package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/cashregister"
	"github.com/jhoicas/Caja-api/internal/application/dto"
)

// CashRegisterHandler gastos y saldo de caja.
type CashRegisterHandler struct {
	svc *cashregister.Service
	now func() time.Time
}

// NewCashRegisterHandler construye el handler.
func NewCashRegisterHandler(svc *cashregister.Service) *CashRegisterHandler {
	return &CashRegisterHandler{svc: svc, now: time.Now}
}

// CreateExpense godoc
// @Summary      Registrar gasto (suma al resumen del día)
// @Tags         cash-register
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseRequest  true  "Gasto"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *CashRegisterHandler) CreateExpense(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	var in dto.CreateExpenseRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	e, err := h.svc.RegisterExpense(c.UserContext(), userID, cashregister.ExpenseInput{
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(e))
}

// DeleteExpense godoc
// @Summary      Eliminar gasto (descuenta del resumen de su día)
// @Tags         cash-register
// @Security     Bearer
// @Param        id  path  string  true  "ID del gasto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [delete]
func (h *CashRegisterHandler) DeleteExpense(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	if err := h.svc.DeleteExpense(c.UserContext(), userID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListExpenses godoc
// @Summary      Gastos del período (por defecto el mes en curso)
// @Tags         cash-register
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD (inclusivo)"
// @Success      200   {array}  dto.ExpenseResponse
// @Router       /api/expenses [get]
func (h *CashRegisterHandler) ListExpenses(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	var q dto.PeriodQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	if ok, err := validateStruct(c, &q); !ok {
		return err
	}
	from, to, err := periodBounds(q, h.svc.Location(), h.now())
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.svc.ListExpenses(c.UserContext(), userID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toExpenseResponse(e))
	}
	return c.JSON(out)
}

// Today godoc
// @Summary      Saldo de caja del día
// @Tags         cash-register
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DayBalanceDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cash-register/today [get]
func (h *CashRegisterHandler) Today(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	b, err := h.svc.Today(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDayBalanceDTO(b))
}

// Day godoc
// @Summary      Saldo de caja de una fecha
// @Tags         cash-register
// @Security     Bearer
// @Produce      json
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200   {object}  dto.DayBalanceDTO
// @Router       /api/cash-register/days/{date} [get]
func (h *CashRegisterHandler) Day(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	b, err := h.svc.Balance(c.UserContext(), userID, c.Params("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDayBalanceDTO(b))
}

// Monthly godoc
// @Summary      Totales del mes
// @Tags         cash-register
// @Security     Bearer
// @Produce      json
// @Param        month  query  string  false  "YYYY-MM (por defecto el mes en curso)"
// @Success      200    {object}  dto.MonthBalanceDTO
// @Router       /api/cash-register/monthly [get]
func (h *CashRegisterHandler) Monthly(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	m, err := h.svc.Monthly(c.UserContext(), userID, c.Query("month"))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MonthBalanceDTO{
		Month:         m.Month,
		SalesTotal:    m.SalesTotal,
		ExpensesTotal: m.ExpensesTotal,
		Balance:       m.Balance,
		Days:          make([]dto.DayBalanceDTO, 0, len(m.Days)),
	}
	for _, d := range m.Days {
		out.Days = append(out.Days, toSummaryDTO(d, ""))
	}
	return c.JSON(out)
}
