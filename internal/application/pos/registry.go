package pos

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Caja-api/internal/application/catalog"
	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/application/notify"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// Registry sesiones por usuario, cada una con su propio caché de catálogo suscrito al feed.
type Registry struct {
	feed     repository.CatalogFeed
	engine   *checkout.Engine
	notifier notify.Notifier
	log      *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry construye el registro.
func NewRegistry(feed repository.CatalogFeed, engine *checkout.Engine, notifier notify.Notifier, log *logger.Logger) *Registry {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		feed:     feed,
		engine:   engine,
		notifier: notifier,
		log:      log.Component("pos"),
		sessions: make(map[string]*Session),
	}
}

// Session devuelve la sesión del usuario, creándola y suscribiendo su catálogo la primera vez.
// La suscripción se hace fuera del lock; si dos llamadas compiten gana la primera en registrarse.
func (r *Registry) Session(ctx context.Context, userID string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	r.mu.Unlock()
	if ok {
		return s, nil
	}

	cache := catalog.NewCache(r.feed, userID)
	// la suscripción vive más que la petición que la crea
	if err := cache.Start(context.WithoutCancel(ctx)); err != nil {
		return nil, fmt.Errorf("iniciar catálogo: %w", err)
	}

	r.mu.Lock()
	if existing, ok := r.sessions[userID]; ok {
		r.mu.Unlock()
		cache.Stop()
		return existing, nil
	}
	s = newSession(userID, cache, r.engine, r.notifier)
	r.sessions[userID] = s
	r.mu.Unlock()
	r.log.Info().Str("user_id", userID).Msg("sesión de punto de venta iniciada")
	return s, nil
}

// Close detiene los catálogos de todas las sesiones.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.catalog.Stop()
		delete(r.sessions, id)
	}
}
