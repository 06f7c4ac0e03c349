package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de identificación del cliente.
const (
	DocumentCPF  = "CPF"
	DocumentCNPJ = "CNPJ"
	DocumentRG   = "RG"
)

// Client representa un cliente (CRM). Debt acumula las ventas fiado pendientes.
// DocumentType + DocumentNumber es único por usuario.
type Client struct {
	ID             string
	UserID         string
	Name           string
	DocumentType   string
	DocumentNumber string
	Email          string
	Phone          string
	Address        string
	Debt           decimal.Decimal
	InvoicingNotes []Attachment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Attachment adjunto en las notas de facturación del cliente.
type Attachment struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Clone copia el cliente incluyendo sus adjuntos.
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	cp := *c
	if c.InvoicingNotes != nil {
		cp.InvoicingNotes = append([]Attachment(nil), c.InvoicingNotes...)
	}
	return &cp
}
