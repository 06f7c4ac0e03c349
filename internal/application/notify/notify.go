// Package notify entrega avisos de éxito o fallo al usuario (fire-and-forget).
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Caja-api/pkg/logger"
)

// Severity gravedad del aviso.
type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notification aviso entregado al usuario.
type Notification struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

// Notifier destino de avisos. Notify no devuelve error ni bloquea al llamador.
type Notifier interface {
	Notify(ctx context.Context, userID, message string, severity Severity)
}

// LogNotifier escribe cada aviso en el log estructurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("notify")}
}

func (n *LogNotifier) Notify(_ context.Context, userID, message string, severity Severity) {
	ev := n.log.Info()
	if severity == Error {
		ev = n.log.Warn()
	}
	ev.Str("user_id", userID).Str("severity", string(severity)).Msg(message)
}

const defaultInboxSize = 50

// Inbox cola acotada de avisos por usuario; la API HTTP la vacía en cada consulta.
type Inbox struct {
	mu    sync.Mutex
	size  int
	queue map[string][]Notification
	now   func() time.Time
}

// NewInbox crea la bandeja; size <= 0 usa 50. Se descartan los avisos más antiguos.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = defaultInboxSize
	}
	return &Inbox{size: size, queue: map[string][]Notification{}, now: time.Now}
}

func (b *Inbox) Notify(_ context.Context, userID, message string, severity Severity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := append(b.queue[userID], Notification{Message: message, Severity: severity, At: b.now().UTC()})
	if len(q) > b.size {
		q = q[len(q)-b.size:]
	}
	b.queue[userID] = q
}

// Drain devuelve y borra los avisos pendientes del usuario.
func (b *Inbox) Drain(userID string) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.queue[userID]
	delete(b.queue, userID)
	if q == nil {
		return []Notification{}
	}
	return q
}

// Multi reenvía a varios notificadores.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, userID, message string, severity Severity) {
	for _, n := range m {
		n.Notify(ctx, userID, message, severity)
	}
}

// Nop descarta los avisos.
type Nop struct{}

func (Nop) Notify(context.Context, string, string, Severity) {}
