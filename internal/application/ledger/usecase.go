package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/minimarket/kardex-api/internal/application/dto"
	"github.com/minimarket/kardex-api/internal/domain"
	"github.com/minimarket/kardex-api/internal/domain/entity"
	"github.com/minimarket/kardex-api/internal/domain/repository"
)

// maxApplyAttempts acota los reintentos internos ante conflictos de
// concurrencia transitorios (serialización/deadlock). Superado el límite,
// el conflicto se devuelve al caller.
const maxApplyAttempts = 3

// ApplyTransactionUseCase aplica transacciones de stock de forma atómica:
// bloquea la fila del producto (SELECT FOR UPDATE), valida que una salida
// no deje existencias negativas, actualiza el stock y registra el asiento
// del kardex, todo con Commit/Rollback.
type ApplyTransactionUseCase struct {
	txRunner TxRunner
}

// NewApplyTransactionUseCase construye el caso de uso.
func NewApplyTransactionUseCase(txRunner TxRunner) *ApplyTransactionUseCase {
	return &ApplyTransactionUseCase{txRunner: txRunner}
}

// TransactionInputDTO entrada para aplicar una transacción de stock.
// Date es opcional; si viene nil se asigna la hora del servidor.
type TransactionInputDTO struct {
	ProductID string
	Type      string
	Quantity  int64
	Date      *time.Time
	Notes     string
}

// Apply valida la entrada, ejecuta la transacción y devuelve el asiento
// creado. Las validaciones que no requieren I/O (tipo y cantidad) ocurren
// antes de abrir la transacción; ninguna falla de validación deja rastro
// en la base. Ante domain.ErrConcurrencyConflict reintenta hasta
// maxApplyAttempts veces.
func (uc *ApplyTransactionUseCase) Apply(ctx context.Context, input TransactionInputDTO) (*dto.TransactionResponse, error) {
	if !entity.ValidTransactionType(input.Type) {
		return nil, domain.ErrInvalidDirection
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var txn *entity.StockTransaction
	var err error
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		txn, err = uc.applyOnce(ctx, input)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(txn), nil
}

// applyOnce ejecuta un intento: bloquea la fila del producto, verifica
// StockActual >= CantidadSolicitada en salidas, fija el stock resultante y
// guarda el asiento, todo dentro de TxRunner.Run.
func (uc *ApplyTransactionUseCase) applyOnce(ctx context.Context, input TransactionInputDTO) (*entity.StockTransaction, error) {
	now := time.Now().UTC()
	date := now
	if input.Date != nil {
		date = input.Date.UTC()
	}
	txn := &entity.StockTransaction{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Type:      input.Type,
		Quantity:  input.Quantity,
		Date:      date,
		Notes:     input.Notes,
		CreatedAt: now,
	}

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		txnRepo repository.StockTransactionRepository,
	) error {
		// Bloquea la fila del producto para evitar condiciones de carrera
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}

		newQty := product.StockQuantity
		switch input.Type {
		case entity.TransactionTypeIN:
			newQty += input.Quantity
		case entity.TransactionTypeOUT:
			if input.Quantity > product.StockQuantity {
				return &domain.InsufficientStockError{
					ProductName: product.Name,
					Available:   product.StockQuantity,
					Requested:   input.Quantity,
				}
			}
			newQty -= input.Quantity
		}

		if err := productRepo.UpdateStock(product.ID, newQty); err != nil {
			return err
		}
		return txnRepo.Create(txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}
