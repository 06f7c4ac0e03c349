package http

import (
	"errors"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/cart"
	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número (gt=0, gte=0).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate parsea el JSON y aplica los tags de validator.
// Si falla ya escribió la respuesta: el handler debe retornar false sin escribir otra.
func bindAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
	}
	return validateStruct(c, req)
}

func validateStruct(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos", Fields: fields,
		})
	}
	return true, nil
}

// requireUser devuelve el user_id del token o responde 401.
func requireUser(c *fiber.Ctx) (string, bool, error) {
	userID := GetUserID(c)
	if userID == "" {
		return "", false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	return userID, true, nil
}

// writeError traduce errores de dominio y de checkout a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var ce *domain.CheckoutError
	if errors.As(err, &ce) {
		return writeCheckoutError(c, ce)
	}
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, cart.ErrItemNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, cart.ErrOutOfStock), errors.Is(err, cart.ErrStockLimit):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrStoreUnavailable):
		status, code = fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	default:
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func writeCheckoutError(c *fiber.Ctx, ce *domain.CheckoutError) error {
	status := fiber.StatusInternalServerError
	switch ce.Kind.Category() {
	case domain.CategoryValidation:
		status = fiber.StatusUnprocessableEntity
		if ce.Kind == domain.KindCheckoutInProgress {
			status = fiber.StatusConflict
		}
	case domain.CategoryStaleness:
		status = fiber.StatusConflict
	case domain.CategoryReadUnavailable, domain.CategoryWriteFailure:
		status = fiber.StatusServiceUnavailable
	}

	msg := ce.Error()
	if ce.Kind == domain.KindUnexpected {
		msg = "erro inesperado ao finalizar a venda"
	}
	details := map[string]any{}
	if ce.ProductID != "" {
		details["productId"] = ce.ProductID
		details["productName"] = ce.ProductName
	}
	if ce.Kind == domain.KindInsufficientStock {
		details["available"] = ce.Available
		details["requested"] = ce.Requested
	}
	if ce.ClientID != "" {
		details["clientId"] = ce.ClientID
	}
	if len(details) == 0 {
		details = nil
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: ce.Kind.String(), Message: msg, Details: details})
}

// periodBounds convierte from/to (YYYY-MM-DD, to inclusivo) en [start, end). Vacíos: mes en curso.
func periodBounds(q dto.PeriodQuery, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	if q.From != "" {
		t, err := time.ParseInLocation("2006-01-02", q.From, loc)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		start = t
	}
	if q.To != "" {
		t, err := time.ParseInLocation("2006-01-02", q.To, loc)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		end = t.AddDate(0, 0, 1)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return start, end, nil
}
