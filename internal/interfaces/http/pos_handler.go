package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/notify"
	"github.com/jhoicas/Caja-api/internal/application/pos"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// POSHandler sesión de venta: catálogo en caché, carrito y checkout.
type POSHandler struct {
	registry *pos.Registry
	inbox    *notify.Inbox
}

// NewPOSHandler construye el handler. inbox puede ser nil (sin avisos pendientes).
func NewPOSHandler(registry *pos.Registry, inbox *notify.Inbox) *POSHandler {
	return &POSHandler{registry: registry, inbox: inbox}
}

func (h *POSHandler) session(c *fiber.Ctx) (*pos.Session, bool, error) {
	userID, ok, err := requireUser(c)
	if !ok {
		return nil, false, err
	}
	s, err := h.registry.Session(c.UserContext(), userID)
	if err != nil {
		return nil, false, writeError(c, err)
	}
	return s, true, nil
}

func (h *POSHandler) cart(c *fiber.Ctx, s *pos.Session) error {
	return c.JSON(toCartResponse(s.View()))
}

// CatalogProducts godoc
// @Summary      Productos del catálogo en caché de la sesión
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/catalog/products [get]
func (h *POSHandler) CatalogProducts(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	return c.JSON(usecase.ToProductList(s.Catalog().CurrentProducts()))
}

// Cart godoc
// @Summary      Estado del carrito
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/pos/cart [get]
func (h *POSHandler) Cart(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	return h.cart(c, s)
}

// AddItem godoc
// @Summary      Agregar una unidad de un producto
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "Producto"
// @Success      200   {object}  dto.CartResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/cart/items [post]
func (h *POSHandler) AddItem(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	var in dto.AddCartItemRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := s.AddProduct(in.ProductID); err != nil {
		return writeError(c, err)
	}
	return h.cart(c, s)
}

// ChangeQuantity godoc
// @Summary      Cambiar la cantidad de una línea
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string  true  "Producto"
// @Param        body       body  dto.ChangeQuantityRequest  true  "Delta"
// @Success      200        {object}  dto.CartResponse
// @Router       /api/pos/cart/items/{productId} [patch]
func (h *POSHandler) ChangeQuantity(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	var in dto.ChangeQuantityRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := s.ChangeQuantity(c.Params("productId"), in.Delta); err != nil {
		return writeError(c, err)
	}
	return h.cart(c, s)
}

// RemoveItem godoc
// @Summary      Quitar una línea
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "Producto"
// @Success      200        {object}  dto.CartResponse
// @Router       /api/pos/cart/items/{productId} [delete]
func (h *POSHandler) RemoveItem(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	if err := s.RemoveProduct(c.Params("productId")); err != nil {
		return writeError(c, err)
	}
	return h.cart(c, s)
}

// SelectClient godoc
// @Summary      Elegir cliente (vacío deselecciona)
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectClientRequest  true  "Cliente"
// @Success      200   {object}  dto.CartResponse
// @Router       /api/pos/client [put]
func (h *POSHandler) SelectClient(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	var in dto.SelectClientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := s.SelectClient(in.ClientID); err != nil {
		return writeError(c, err)
	}
	return h.cart(c, s)
}

// SetPaymentMethod godoc
// @Summary      Elegir forma de pago
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentMethodRequest  true  "Dinheiro | Cartão de Crédito | Cartão de Débito | PIX | Fiado"
// @Success      200   {object}  dto.CartResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/pos/payment-method [put]
func (h *POSHandler) SetPaymentMethod(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	var in dto.PaymentMethodRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := s.SetPaymentMethod(entity.PaymentMethod(in.PaymentMethod)); err != nil {
		return writeError(c, err)
	}
	return h.cart(c, s)
}

// Checkout godoc
// @Summary      Finalizar la venta
// @Description  Revalida el carrito contra el catálogo en caché, lee el resumen de caja (en línea o caché local)
// @Description  y confirma venta, stock, movimientos, resumen y deuda en un solo lote atómico.
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.CheckoutResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/pos/checkout [post]
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	s, ok, err := h.session(c)
	if !ok {
		return err
	}
	receipt, err := s.Checkout(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CheckoutResponse{
		Sale:               toSaleResponse(receipt.Sale),
		CashRegister:       toSummaryDTO(receipt.Summary, receipt.CashRegisterSource),
		ClientDebt:         receipt.ClientDebt,
		StockMovementCount: len(receipt.Movements),
	})
}

// Notifications godoc
// @Summary      Avisos pendientes (se vacían al leerlos)
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/pos/notifications [get]
func (h *POSHandler) Notifications(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	out := []dto.NotificationResponse{}
	if h.inbox != nil {
		for _, n := range h.inbox.Drain(userID) {
			out = append(out, dto.NotificationResponse{Message: n.Message, Severity: string(n.Severity), At: n.At})
		}
	}
	return c.JSON(out)
}
