package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// UseCase genera el comprobante PDF de una venta confirmada.
type UseCase struct {
	sales     repository.SaleRepository
	clients   repository.ClientRepository
	generator Generator
	storeName string
	loc       *time.Location
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	sales repository.SaleRepository,
	clients repository.ClientRepository,
	generator Generator,
	storeName string,
	loc *time.Location,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{sales: sales, clients: clients, generator: generator, storeName: storeName, loc: loc}
}

// Download devuelve los bytes del PDF y el nombre de archivo sugerido.
//
// Retorna domain.ErrNotFound si la venta no existe para el usuario.
func (uc *UseCase) Download(ctx context.Context, userID, saleID string) ([]byte, string, error) {
	sale, err := uc.sales.GetByID(ctx, userID, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	doc := Document{StoreName: uc.storeName, Sale: sale, Location: uc.loc}
	if sale.ClientID != "" {
		// El cliente pudo haber sido eliminado; el comprobante sale igual.
		if c, cErr := uc.clients.GetByID(ctx, userID, sale.ClientID); cErr == nil {
			doc.Client = c
		}
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}
	return pdfBytes, Filename(sale.ID, sale.Timestamp.In(uc.loc)), nil
}

// Filename nombre del archivo del comprobante.
func Filename(saleID string, at time.Time) string {
	short := saleID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("comprovante_%s_%s.pdf", at.Format("20060102"), short)
}
