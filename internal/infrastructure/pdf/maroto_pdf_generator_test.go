package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/receipt"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/infrastructure/pdf"
)

func TestGenerateReceiptPDF(t *testing.T) {
	lines := []entity.SaleLine{{ProductID: "p1", Name: "Café", Price: decimal.NewFromInt(10), Quantity: 2}}
	doc := receipt.Document{
		StoreName: "Mercadinho",
		Sale: &entity.Sale{
			ID: "s1", PaymentMethod: entity.PaymentDeferred, Lines: lines,
			Total: entity.LinesTotal(lines), Timestamp: time.Now(),
		},
		Client: &entity.Client{Name: "Ana", DocumentType: entity.DocumentCPF, DocumentNumber: "123"},
	}

	out, err := pdf.NewMarotoPDFGenerator(nil).GenerateReceiptPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceiptPDF_SinVenta(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator(nil).GenerateReceiptPDF(context.Background(), receipt.Document{})
	assert.Error(t, err)
}
