package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// CatalogFeed suscripciones en tiempo real a las colecciones del usuario.
// El callback recibe el conjunto completo actual en cada cambio (y una vez al suscribirse).
// La función devuelta cancela la suscripción.
type CatalogFeed interface {
	SubscribeProducts(ctx context.Context, userID string, fn func([]*entity.Product)) (func(), error)
	SubscribeClients(ctx context.Context, userID string, fn func([]*entity.Client)) (func(), error)
}
