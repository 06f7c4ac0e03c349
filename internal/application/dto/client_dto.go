package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttachmentDTO adjunto de las notas de facturación.
type AttachmentDTO struct {
	Name       string    `json:"name" validate:"required,max=200"`
	URL        string    `json:"url" validate:"required,url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// CreateClientRequest entrada para crear un cliente.
type CreateClientRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	DocumentType   string          `json:"documentType" validate:"omitempty,oneof=CPF CNPJ RG"`
	DocumentNumber string          `json:"documentNumber" validate:"required_with=DocumentType,max=30"`
	Email          string          `json:"email" validate:"omitempty,email"`
	Phone          string          `json:"phone" validate:"max=30"`
	Address        string          `json:"address" validate:"max=300"`
	InvoicingNotes []AttachmentDTO `json:"invoicingNotes" validate:"dive"`
}

// UpdateClientRequest entrada para actualizar un cliente. La deuda no se edita aquí.
type UpdateClientRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	DocumentType   *string          `json:"documentType" validate:"omitempty,oneof=CPF CNPJ RG"`
	DocumentNumber *string          `json:"documentNumber" validate:"omitempty,max=30"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	Phone          *string          `json:"phone" validate:"omitempty,max=30"`
	Address        *string          `json:"address" validate:"omitempty,max=300"`
	InvoicingNotes *[]AttachmentDTO `json:"invoicingNotes" validate:"omitempty,dive"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	DocumentType   string          `json:"documentType"`
	DocumentNumber string          `json:"documentNumber"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	Debt           decimal.Decimal `json:"debt"`
	InvoicingNotes []AttachmentDTO `json:"invoicingNotes"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
