package receipt

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// Document datos necesarios para renderizar el comprobante de una venta.
type Document struct {
	StoreName string
	Sale      *entity.Sale
	// Client puede ser nil (venta sin cliente o cliente eliminado).
	Client   *entity.Client
	Location *time.Location
}

// Generator genera el PDF del comprobante.
type Generator interface {
	GenerateReceiptPDF(ctx context.Context, doc Document) ([]byte, error)
}
