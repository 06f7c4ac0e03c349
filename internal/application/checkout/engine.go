// Package checkout convierte un carrito en una venta confirmada con todos sus efectos,
// o falla sin efectos parciales.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Caja-api/internal/application/cart"
	"github.com/jhoicas/Caja-api/internal/application/cashregister"
	"github.com/jhoicas/Caja-api/internal/application/catalog"
	"github.com/jhoicas/Caja-api/internal/application/notify"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/pkg/logger"
	"github.com/jhoicas/Caja-api/pkg/money"
)

var tracer = otel.Tracer("caja-api/checkout")

// Request entrada de un intento. Catalog es la instantánea contra la que se revalida el carrito.
type Request struct {
	UserID        string
	Lines         []cart.Line
	PaymentMethod entity.PaymentMethod
	ClientID      string
	Catalog       catalog.Snapshot
	// OnState recibe cada cambio de estado, terminando siempre en StateIdle.
	OnState func(State)
}

// Receipt resultado de un checkout confirmado.
type Receipt struct {
	Sale               *entity.Sale
	Movements          []*entity.StockMovement
	Summary            *entity.CashRegisterSummary // resumen del día tras la venta
	CashRegisterSource cashregister.Source
	ClientDebt         *decimal.Decimal // deuda resultante; nil si la venta no es fiado
	StockLevels        map[string]int   // stock escrito por producto
}

// Config parámetros del motor.
type Config struct {
	Location      *time.Location // día de caja; nil es UTC
	CommitTimeout time.Duration
	Money         *money.Formatter
}

// Engine coordinador del checkout. No guarda estado entre intentos; la exclusión
// de intentos simultáneos de una misma sesión la hace pos.Session.
type Engine struct {
	reader   *cashregister.Reader
	writer   repository.BatchWriter
	notifier notify.Notifier
	cfg      Config
	log      *logger.Logger

	Now   func() time.Time
	NewID func() string
}

// NewEngine construye el motor.
func NewEngine(reader *cashregister.Reader, writer repository.BatchWriter, notifier notify.Notifier, cfg Config, log *logger.Logger) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Money == nil {
		cfg.Money = money.NewFormatter("pt-BR", "R$")
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		reader:   reader,
		writer:   writer,
		notifier: notifier,
		cfg:      cfg,
		log:      log.Component("checkout"),
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// attempt estado de trabajo de un intento.
type attempt struct {
	req      Request
	id       string
	m        machine
	lines    []cart.Line
	stock    map[string]int // stock en caché al validar
	total    decimal.Decimal
	client   *entity.Client
	snapshot *cashregister.Snapshot
}

// Checkout ejecuta un intento completo. El error, si lo hay, es siempre *domain.CheckoutError;
// en ese caso no se escribió nada. Cada intento emite exactamente un aviso.
func (e *Engine) Checkout(ctx context.Context, req Request) (receipt *Receipt, err error) {
	a := &attempt{req: req, id: e.NewID(), m: machine{state: StateIdle, observe: req.OnState}}

	ctx, span := tracer.Start(ctx, "checkout.Checkout", trace.WithAttributes(
		attribute.String("user.id", req.UserID),
		attribute.String("checkout.attempt_id", a.id),
		attribute.String("checkout.payment_method", string(req.PaymentMethod)),
		attribute.Int("checkout.lines", len(req.Lines)),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			receipt = nil
			err = domain.NewUnexpected(fmt.Errorf("panic: %v", r))
		}
		e.finish(ctx, span, a, receipt, err)
	}()

	a.m.to(StateValidating)
	if verr := e.validate(a); verr != nil {
		a.m.to(StateRejected)
		return nil, verr
	}

	a.m.to(StateReadingCashRegister)
	date := cashregister.DateKey(e.Now(), e.cfg.Location)
	snap, rerr := e.reader.Read(ctx, req.UserID, date)
	if rerr != nil {
		a.m.to(StateUnavailable)
		return nil, domain.AsCheckoutError(rerr)
	}
	a.snapshot = snap

	a.m.to(StateCommitting)
	receipt, cerr := e.commit(ctx, a)
	if cerr != nil {
		a.m.to(StateFailed)
		return nil, cerr
	}
	a.m.to(StateCommitted)
	return receipt, nil
}

// validate revisa todo antes de cualquier E/S, contra el caché actual y no contra la instantánea del carrito.
func (e *Engine) validate(a *attempt) *domain.CheckoutError {
	req := a.req
	if len(req.Lines) == 0 {
		return domain.NewEmptyCart()
	}
	if !req.PaymentMethod.Valid() {
		return domain.NewInvalidPaymentMethod(string(req.PaymentMethod))
	}
	if req.PaymentMethod.IsDeferred() && req.ClientID == "" {
		return domain.NewClientRequired()
	}

	lines := mergeLines(req.Lines)
	for _, l := range lines {
		if l.Quantity <= 0 {
			return domain.NewInvalidQuantity(l.Product.ID, l.Product.Name, l.Quantity)
		}
	}
	if req.Catalog == nil {
		return domain.NewUnexpected(fmt.Errorf("catálogo no disponible"))
	}

	a.stock = make(map[string]int, len(lines))
	for _, l := range lines {
		cached, ok := req.Catalog.Product(l.Product.ID)
		if !ok {
			return domain.NewProductNotFound(l.Product.ID, l.Product.Name)
		}
		if cached.Stock < l.Quantity {
			return domain.NewInsufficientStock(l.Product.ID, cached.Name, cached.Stock, l.Quantity)
		}
		a.stock[l.Product.ID] = cached.Stock
	}

	if req.PaymentMethod.IsDeferred() {
		client, ok := req.Catalog.Client(req.ClientID)
		if !ok {
			return domain.NewClientNotFound(req.ClientID)
		}
		a.client = client
	}

	a.lines = lines
	a.total = decimal.Zero
	for _, l := range lines {
		a.total = a.total.Add(l.Subtotal())
	}
	return nil
}

// mergeLines agrupa líneas repetidas del mismo producto conservando el orden de aparición.
func mergeLines(lines []cart.Line) []cart.Line {
	out := make([]cart.Line, 0, len(lines))
	idx := make(map[string]int, len(lines))
	for _, l := range lines {
		if i, ok := idx[l.Product.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.Product.ID] = len(out)
		out = append(out, l)
	}
	return out
}

// commit arma y envía el lote único de la venta.
func (e *Engine) commit(ctx context.Context, a *attempt) (*Receipt, *domain.CheckoutError) {
	req := a.req
	now := e.Now().UTC()

	sale := &entity.Sale{
		ID:            e.NewID(),
		UserID:        req.UserID,
		PaymentMethod: req.PaymentMethod,
		Lines:         make([]entity.SaleLine, 0, len(a.lines)),
		Total:         a.total,
		Timestamp:     now,
	}
	if req.ClientID != "" {
		sale.ClientID = req.ClientID
	}

	batch := repository.NewBatch()
	movements := make([]*entity.StockMovement, 0, len(a.lines))
	levels := make(map[string]int, len(a.lines))
	for _, l := range a.lines {
		sale.Lines = append(sale.Lines, entity.SaleLine{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			CostPrice: l.Product.CostPrice,
			Quantity:  l.Quantity,
		})
	}
	batch.Add(repository.InsertSale{Sale: sale})

	for _, l := range a.lines {
		mov := &entity.StockMovement{
			ID:          e.NewID(),
			UserID:      req.UserID,
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Type:        entity.MovementSale,
			Quantity:    l.Quantity,
			Reason:      entity.SaleReason(sale.ID),
			Timestamp:   now,
		}
		movements = append(movements, mov)
		levels[l.Product.ID] = a.stock[l.Product.ID] - l.Quantity
		batch.Add(
			repository.SetProductStock{UserID: req.UserID, ProductID: l.Product.ID, Stock: levels[l.Product.ID]},
			repository.InsertStockMovement{Movement: mov},
		)
	}

	summaryOp, summary := cashregister.Plan(a.snapshot, req.UserID, a.total, decimal.Zero, now)
	batch.Add(summaryOp)

	var debt *decimal.Decimal
	if req.PaymentMethod.IsDeferred() {
		batch.Add(repository.IncrementClientDebt{UserID: req.UserID, ClientID: req.ClientID, Amount: a.total})
		d := a.client.Debt.Add(a.total)
		debt = &d
	}

	commitCtx := ctx
	if e.cfg.CommitTimeout > 0 {
		var cancel context.CancelFunc
		commitCtx, cancel = context.WithTimeout(ctx, e.cfg.CommitTimeout)
		defer cancel()
	}
	if err := e.writer.Commit(commitCtx, batch); err != nil {
		return nil, domain.NewCommitFailed(err)
	}

	e.reader.Remember(ctx, req.UserID, a.snapshot.Date, summary)

	return &Receipt{
		Sale:               sale,
		Movements:          movements,
		Summary:            summary,
		CashRegisterSource: a.snapshot.Source,
		ClientDebt:         debt,
		StockLevels:        levels,
	}, nil
}

// finish deja la máquina en Idle, registra el intento, cierra la traza y emite el aviso.
func (e *Engine) finish(ctx context.Context, span trace.Span, a *attempt, receipt *Receipt, err error) {
	// la venta ya está decidida; un fallo al avisar no la cambia
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().
				Str("user_id", a.req.UserID).
				Str("attempt_id", a.id).
				Interface("panic", r).
				Msg("checkout: fallo al notificar el resultado")
		}
	}()
	final := a.m.state
	if err != nil && !final.Terminal() {
		if final != StateIdle {
			a.m.to(StateFailed)
		}
		final = StateFailed
	}
	if a.m.state != StateIdle {
		a.m.to(StateIdle)
	}

	ev := e.log.Info()
	if err != nil {
		ce := domain.AsCheckoutError(err)
		if ce.Kind == domain.KindUnexpected {
			ev = e.log.Error().Err(ce)
		} else {
			ev = e.log.Warn().Err(ce)
		}
		ev = ev.Str("kind", ce.Kind.String())
		span.RecordError(ce)
		span.SetStatus(codes.Error, ce.Kind.String())
	}
	ev.Str("user_id", a.req.UserID).
		Str("attempt_id", a.id).
		Str("payment_method", string(a.req.PaymentMethod)).
		Int("lines", len(a.req.Lines)).
		Str("total", a.total.StringFixed(2)).
		Str("state", final.String()).
		Msg("checkout")

	if err != nil {
		e.notifier.Notify(ctx, a.req.UserID, userMessage(domain.AsCheckoutError(err)), notify.Error)
		return
	}
	span.SetAttributes(attribute.String("sale.id", receipt.Sale.ID))
	e.notifier.Notify(ctx, a.req.UserID,
		fmt.Sprintf("Venda finalizada com sucesso! Total: %s", e.cfg.Money.Format(receipt.Sale.Total)), notify.Success)
}

// userMessage texto del aviso; los errores inesperados no exponen su causa.
func userMessage(ce *domain.CheckoutError) string {
	switch ce.Kind {
	case domain.KindUnexpected:
		return "Erro inesperado ao finalizar a venda. Tente novamente."
	case domain.KindCommitFailed:
		return "Erro ao finalizar a venda: " + ce.Error()
	}
	return ce.Error()
}
