package ledger

import (
	"context"

	"github.com/minimarket/kardex-api/internal/application/dto"
)

// ApplyFromRequest adapta el request HTTP al caso de uso Apply(ctx, TransactionInputDTO).
func (uc *ApplyTransactionUseCase) ApplyFromRequest(ctx context.Context, in dto.ApplyTransactionRequest) (*dto.TransactionResponse, error) {
	input := TransactionInputDTO{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Date:      in.Date,
		Notes:     in.Notes,
	}
	return uc.Apply(ctx, input)
}
