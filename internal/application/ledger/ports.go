package ledger

import (
	"context"

	"github.com/minimarket/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La actualización de stock y el asiento del
// kardex se confirman o revierten como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		txnRepo repository.StockTransactionRepository,
	) error) error
}
