package domain

import (
	"errors"
	"fmt"
)

// ErrorKind enumeración cerrada de fallos del checkout.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindEmptyCart
	KindClientRequired
	KindInvalidQuantity
	KindInvalidPaymentMethod
	KindProductNotFound
	KindInsufficientStock
	KindClientNotFound
	KindCashRegisterUnavailable
	KindCommitFailed
	KindCheckoutInProgress
)

var kindNames = map[ErrorKind]string{
	KindUnexpected:              "UNEXPECTED",
	KindEmptyCart:               "EMPTY_CART",
	KindClientRequired:          "CLIENT_REQUIRED",
	KindInvalidQuantity:         "INVALID_QUANTITY",
	KindInvalidPaymentMethod:    "INVALID_PAYMENT_METHOD",
	KindProductNotFound:         "PRODUCT_NOT_FOUND",
	KindInsufficientStock:       "INSUFFICIENT_STOCK",
	KindClientNotFound:          "CLIENT_NOT_FOUND",
	KindCashRegisterUnavailable: "CASH_REGISTER_UNAVAILABLE",
	KindCommitFailed:            "COMMIT_FAILED",
	KindCheckoutInProgress:      "CHECKOUT_IN_PROGRESS",
}

// String código estable para APIs y logs.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNEXPECTED"
}

// Category agrupa los tipos de error según cómo se recuperan.
type Category int

const (
	CategoryUnexpected      Category = iota
	CategoryValidation               // detectado antes de cualquier I/O; se corrige en la interfaz
	CategoryStaleness                // el caché contradice el carrito; el carrito se conserva
	CategoryReadUnavailable          // no se pudo leer el resumen de caja; aborto fatal
	CategoryWriteFailure             // el lote atómico fue rechazado; sin efectos parciales
)

// Category devuelve la categoría del tipo.
func (k ErrorKind) Category() Category {
	switch k {
	case KindEmptyCart, KindClientRequired, KindInvalidQuantity, KindInvalidPaymentMethod, KindCheckoutInProgress:
		return CategoryValidation
	case KindProductNotFound, KindInsufficientStock, KindClientNotFound:
		return CategoryStaleness
	case KindCashRegisterUnavailable:
		return CategoryReadUnavailable
	case KindCommitFailed:
		return CategoryWriteFailure
	default:
		return CategoryUnexpected
	}
}

// CheckoutError error estructurado de un intento de checkout.
// Los campos de producto sólo se llenan en los tipos que los necesitan.
type CheckoutError struct {
	Kind        ErrorKind
	ProductID   string
	ProductName string
	Available   int
	Requested   int
	ClientID    string
	Err         error
}

func (e *CheckoutError) Error() string {
	var msg string
	switch e.Kind {
	case KindEmptyCart:
		msg = "o carrinho está vazio"
	case KindClientRequired:
		msg = "vendas fiado exigem um cliente selecionado"
	case KindInvalidQuantity:
		msg = fmt.Sprintf("quantidade inválida para %s: %d", e.ProductName, e.Requested)
	case KindInvalidPaymentMethod:
		msg = "método de pagamento inválido"
	case KindProductNotFound:
		msg = fmt.Sprintf("produto %s não foi encontrado nos dados locais", e.ProductName)
	case KindInsufficientStock:
		msg = fmt.Sprintf("estoque insuficiente para %s: atual %d, pedido %d", e.ProductName, e.Available, e.Requested)
	case KindClientNotFound:
		msg = fmt.Sprintf("cliente %s não foi encontrado", e.ClientID)
	case KindCashRegisterUnavailable:
		msg = "não foi possível acessar os dados do caixa; a venda não pode ser concluída"
	case KindCommitFailed:
		msg = "a venda não foi gravada"
	case KindCheckoutInProgress:
		msg = "já existe uma venda em andamento"
	default:
		msg = "erro inesperado"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrInsufficientStock) y comparar contra otro *CheckoutError por tipo.
func (e *CheckoutError) Is(target error) bool {
	switch t := target.(type) {
	case *CheckoutError:
		return t.Kind == e.Kind
	}
	switch target {
	case ErrInsufficientStock:
		return e.Kind == KindInsufficientStock
	case ErrNotFound:
		return e.Kind == KindProductNotFound || e.Kind == KindClientNotFound
	case ErrInvalidInput:
		return e.Kind.Category() == CategoryValidation
	}
	return false
}

// Constructores.

func NewEmptyCart() *CheckoutError      { return &CheckoutError{Kind: KindEmptyCart} }
func NewClientRequired() *CheckoutError { return &CheckoutError{Kind: KindClientRequired} }

func NewInvalidPaymentMethod(method string) *CheckoutError {
	return &CheckoutError{Kind: KindInvalidPaymentMethod, Err: fmt.Errorf("%q", method)}
}

func NewInvalidQuantity(productID, productName string, requested int) *CheckoutError {
	return &CheckoutError{Kind: KindInvalidQuantity, ProductID: productID, ProductName: productName, Requested: requested}
}

func NewProductNotFound(productID, productName string) *CheckoutError {
	return &CheckoutError{Kind: KindProductNotFound, ProductID: productID, ProductName: productName}
}

func NewInsufficientStock(productID, productName string, available, requested int) *CheckoutError {
	return &CheckoutError{
		Kind:        KindInsufficientStock,
		ProductID:   productID,
		ProductName: productName,
		Available:   available,
		Requested:   requested,
	}
}

func NewClientNotFound(clientID string) *CheckoutError {
	return &CheckoutError{Kind: KindClientNotFound, ClientID: clientID}
}

func NewCashRegisterUnavailable(cause error) *CheckoutError {
	return &CheckoutError{Kind: KindCashRegisterUnavailable, Err: cause}
}

func NewCommitFailed(cause error) *CheckoutError {
	return &CheckoutError{Kind: KindCommitFailed, Err: cause}
}

func NewCheckoutInProgress() *CheckoutError { return &CheckoutError{Kind: KindCheckoutInProgress} }

func NewUnexpected(cause error) *CheckoutError {
	return &CheckoutError{Kind: KindUnexpected, Err: cause}
}

// AsCheckoutError convierte cualquier error en *CheckoutError; los desconocidos quedan como Unexpected.
func AsCheckoutError(err error) *CheckoutError {
	if err == nil {
		return nil
	}
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce
	}
	return NewUnexpected(err)
}
