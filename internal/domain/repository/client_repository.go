package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// La deuda sólo cambia dentro de un Batch (IncrementClientDebt); Update no la toca.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, userID, id string) (*entity.Client, error)
	GetByDocument(ctx context.Context, userID, documentType, documentNumber string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Client, error)
}
