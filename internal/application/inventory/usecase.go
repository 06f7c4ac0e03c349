package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Caja-api/internal/domain/inventory"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// AdjustmentUseCase ajustes manuales de stock. Cada ajuste escribe, en un solo lote,
// el stock nuevo del producto y su fila de auditoría.
type AdjustmentUseCase struct {
	writer      repository.BatchWriter
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	log         *logger.Logger

	Now   func() time.Time
	NewID func() string
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	writer repository.BatchWriter,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	log *logger.Logger,
) *AdjustmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdjustmentUseCase{
		writer:      writer,
		productRepo: productRepo,
		movRepo:     movRepo,
		log:         log.Component("inventory"),
		Now:         time.Now,
		NewID:       uuid.NewString,
	}
}

// AdjustmentInput entrada de un ajuste. Quantity es la magnitud; el signo lo da Type.
type AdjustmentInput struct {
	UserID    string
	ProductID string
	Type      entity.MovementType
	Quantity  int
	Reason    string
	UnitCost  *decimal.Decimal // sólo Compra
}

// RegisterAdjustment valida y aplica el ajuste sobre el stock actual del almacén.
// Una salida que dejaría el stock negativo se rechaza con domain.ErrInsufficientStock.
func (uc *AdjustmentUseCase) RegisterAdjustment(ctx context.Context, in AdjustmentInput) (*entity.StockMovement, error) {
	switch in.Type {
	case entity.MovementInbound, entity.MovementOutbound, entity.MovementPurchase:
	default:
		return nil, fmt.Errorf("tipo de ajuste %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("la cantidad debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("motivo requerido: %w", domain.ErrInvalidInput)
	}

	product, err := uc.productRepo.GetByID(ctx, in.UserID, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	next := product.Stock + in.Quantity
	if in.Type.IsDebit() {
		next = product.Stock - in.Quantity
	}
	if next < 0 {
		return nil, fmt.Errorf("%s: disponible %d, pedido %d: %w", product.Name, product.Stock, in.Quantity, domain.ErrInsufficientStock)
	}

	mov := &entity.StockMovement{
		ID:          uc.NewID(),
		UserID:      in.UserID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Reason:      reason,
		Timestamp:   uc.Now().UTC(),
	}
	set := repository.SetProductStock{UserID: in.UserID, ProductID: product.ID, Stock: next}
	if in.UnitCost != nil {
		if in.Type != entity.MovementPurchase || in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("costo unitario sólo en compras y no negativo: %w", domain.ErrInvalidInput)
		}
		cost := domaininv.WeightedAverageCost(
			decimal.NewFromInt(int64(product.Stock)), product.CostPrice,
			decimal.NewFromInt(int64(in.Quantity)), *in.UnitCost,
		).Round(2)
		set.CostPrice = &cost
	}
	batch := repository.NewBatch().Add(
		set,
		repository.InsertStockMovement{Movement: mov},
	)
	if err := uc.writer.Commit(ctx, batch); err != nil {
		return nil, fmt.Errorf("registrar ajuste: %w", err)
	}
	uc.log.Info().Str("user_id", in.UserID).Str("product_id", product.ID).Str("type", string(in.Type)).
		Int("quantity", in.Quantity).Int("stock", next).Msg("ajuste de stock registrado")
	return mov, nil
}

// History movimientos del producto, más recientes primero. limit <= 0 usa 100.
func (uc *AdjustmentUseCase) History(ctx context.Context, userID, productID string, limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	product, err := uc.productRepo.GetByID(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movRepo.ListByProduct(ctx, userID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	return list, nil
}
