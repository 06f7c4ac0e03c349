package inventory

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// RegisterAdjustmentFromRequest adapta el request HTTP al caso de uso RegisterAdjustment.
func (uc *AdjustmentUseCase) RegisterAdjustmentFromRequest(ctx context.Context, userID string, in dto.StockAdjustmentRequest) (*entity.StockMovement, error) {
	return uc.RegisterAdjustment(ctx, AdjustmentInput{
		UserID:    userID,
		ProductID: in.ProductID,
		Type:      entity.MovementType(in.Type),
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		UnitCost:  in.UnitCost,
	})
}
