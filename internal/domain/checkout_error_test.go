package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/domain"
)

func TestCheckoutError_InsufficientStockCampos(t *testing.T) {
	err := fmt.Errorf("checkout: %w", domain.NewInsufficientStock("p-b", "B", 1, 2))

	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ce *domain.CheckoutError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.KindInsufficientStock, ce.Kind)
	assert.Equal(t, "B", ce.ProductName)
	assert.Equal(t, 1, ce.Available)
	assert.Equal(t, 2, ce.Requested)
	assert.Equal(t, domain.CategoryStaleness, ce.Kind.Category())
}

func TestCheckoutError_IsPorTipo(t *testing.T) {
	err := domain.NewClientRequired()
	assert.True(t, errors.Is(err, &domain.CheckoutError{Kind: domain.KindClientRequired}))
	assert.False(t, errors.Is(err, &domain.CheckoutError{Kind: domain.KindEmptyCart}))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCheckoutError_UnwrapCausa(t *testing.T) {
	cause := errors.New("conexión rechazada")
	err := domain.NewCommitFailed(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, domain.CategoryWriteFailure, err.Kind.Category())
	assert.Contains(t, err.Error(), "conexión rechazada")
}

func TestAsCheckoutError(t *testing.T) {
	assert.Nil(t, domain.AsCheckoutError(nil))

	ce := domain.AsCheckoutError(errors.New("boom"))
	assert.Equal(t, domain.KindUnexpected, ce.Kind)

	orig := domain.NewEmptyCart()
	assert.Same(t, orig, domain.AsCheckoutError(fmt.Errorf("wrap: %w", orig)))
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "CASH_REGISTER_UNAVAILABLE", domain.KindCashRegisterUnavailable.String())
	assert.Equal(t, "UNEXPECTED", domain.ErrorKind(99).String())
}
