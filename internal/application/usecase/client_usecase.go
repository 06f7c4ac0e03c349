package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// ClientUseCase casos de uso CRUD para clientes. La deuda sólo la modifica el checkout fiado.
type ClientUseCase struct {
	repo repository.ClientRepository
	Now  func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo, Now: time.Now}
}

// Create crea un cliente. Tipo + número de documento es único por usuario.
func (uc *ClientUseCase) Create(ctx context.Context, userID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	docType := strings.ToUpper(strings.TrimSpace(in.DocumentType))
	docNumber := strings.TrimSpace(in.DocumentNumber)
	if docNumber != "" {
		existing, err := uc.repo.GetByDocument(ctx, userID, docType, docNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := uc.Now().UTC()
	client := &entity.Client{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           name,
		DocumentType:   docType,
		DocumentNumber: docNumber,
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Address:        strings.TrimSpace(in.Address),
		InvoicingNotes: toAttachments(in.InvoicingNotes, now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente; (nil, nil) si no existe.
func (uc *ClientUseCase) GetByID(ctx context.Context, userID, id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	return toClientResponse(client), nil
}

// Update actualiza los datos de contacto y adjuntos; (nil, nil) si no existe.
func (uc *ClientUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		client.Name = name
	}
	if in.DocumentType != nil {
		client.DocumentType = strings.ToUpper(strings.TrimSpace(*in.DocumentType))
	}
	if in.DocumentNumber != nil {
		client.DocumentNumber = strings.TrimSpace(*in.DocumentNumber)
	}
	if in.Email != nil {
		client.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		client.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		client.Address = strings.TrimSpace(*in.Address)
	}
	now := uc.Now().UTC()
	if in.InvoicingNotes != nil {
		client.InvoicingNotes = toAttachments(*in.InvoicingNotes, now)
	}
	if client.DocumentNumber != "" {
		existing, err := uc.repo.GetByDocument(ctx, userID, client.DocumentType, client.DocumentNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != client.ID {
			return nil, domain.ErrDuplicate
		}
	}
	client.UpdatedAt = now
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista los clientes del usuario.
func (uc *ClientUseCase) List(ctx context.Context, userID string) ([]dto.ClientResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

// Delete elimina un cliente. Las ventas que lo referencian no cambian.
func (uc *ClientUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.repo.Delete(ctx, userID, id)
}

func toAttachments(in []dto.AttachmentDTO, now time.Time) []entity.Attachment {
	out := make([]entity.Attachment, 0, len(in))
	for _, a := range in {
		at := a.UploadedAt
		if at.IsZero() {
			at = now
		}
		out = append(out, entity.Attachment{Name: a.Name, URL: a.URL, UploadedAt: at})
	}
	return out
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	notes := make([]dto.AttachmentDTO, 0, len(c.InvoicingNotes))
	for _, a := range c.InvoicingNotes {
		notes = append(notes, dto.AttachmentDTO{Name: a.Name, URL: a.URL, UploadedAt: a.UploadedAt})
	}
	return &dto.ClientResponse{
		ID:             c.ID,
		Name:           c.Name,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		Debt:           c.Debt,
		InvoicingNotes: notes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
