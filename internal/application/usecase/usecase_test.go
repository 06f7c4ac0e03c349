package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

func TestProductUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	uc := usecase.NewProductUseCase(s.Products())

	created, err := uc.Create(ctx, "u", dto.CreateProductRequest{Name: " Arroz ", Price: decimal.NewFromInt(10), Stock: 3, MinStock: 5})
	require.NoError(t, err)
	assert.Equal(t, "Arroz", created.Name)
	assert.True(t, created.LowStock)

	price := decimal.NewFromInt(12)
	updated, err := uc.Update(ctx, "u", created.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, 3, updated.Stock)

	zero := decimal.Zero
	_, err = uc.Update(ctx, "u", created.ID, dto.UpdateProductRequest{Price: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing, err := uc.Update(ctx, "u", "nope", dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := uc.List(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	other, err := uc.List(ctx, "otro")
	require.NoError(t, err)
	assert.Zero(t, other.Total)

	require.NoError(t, uc.Delete(ctx, "u", created.ID))
	got, err := uc.GetByID(ctx, "u", created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = uc.Create(ctx, "u", dto.CreateProductRequest{Name: "x", Price: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClientUseCase_DocumentoUnicoYDeudaIntacta(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	uc := usecase.NewClientUseCase(s.Clients())

	ana, err := uc.Create(ctx, "u", dto.CreateClientRequest{Name: "Ana", DocumentType: "cpf", DocumentNumber: "111"})
	require.NoError(t, err)
	assert.Equal(t, "CPF", ana.DocumentType)

	_, err = uc.Create(ctx, "u", dto.CreateClientRequest{Name: "Outra", DocumentType: "CPF", DocumentNumber: "111"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	bia, err := uc.Create(ctx, "u", dto.CreateClientRequest{Name: "Bia", DocumentType: "CPF", DocumentNumber: "222"})
	require.NoError(t, err)
	dup := "111"
	_, err = uc.Update(ctx, "u", bia.ID, dto.UpdateClientRequest{DocumentNumber: &dup})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, s.Commit(ctx, repository.NewBatch().Add(repository.IncrementClientDebt{UserID: "u", ClientID: ana.ID, Amount: decimal.NewFromInt(50)})))
	phone := "11 99999-0000"
	notes := []dto.AttachmentDTO{{Name: "nota.pdf", URL: "https://example.com/nota.pdf"}}
	updated, err := uc.Update(ctx, "u", ana.ID, dto.UpdateClientRequest{Phone: &phone, InvoicingNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	require.Len(t, updated.InvoicingNotes, 1)
	assert.False(t, updated.InvoicingNotes[0].UploadedAt.IsZero())

	stored, err := uc.GetByID(ctx, "u", ana.ID)
	require.NoError(t, err)
	assert.True(t, stored.Debt.Equal(decimal.NewFromInt(50)))
}
