package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/minimarket/kardex-api/internal/application/ledger"
	"github.com/minimarket/kardex-api/internal/domain"
	"github.com/minimarket/kardex-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta funciones dentro de una transacción SQLite. El mutex
// serializa las escrituras: SQLite admite un solo escritor a la vez, así
// que la exclusión dentro del proceso reemplaza al SELECT FOR UPDATE.
type TxRunner struct {
	db *sql.DB
	mu sync.Mutex
}

// NewTxRunner construye el ejecutor transaccional sobre la base dada.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run abre una transacción, construye repositorios ligados a ella y ejecuta fn.
// Si fn devuelve error se revierte todo; un SQLITE_BUSY (otro proceso con la
// base tomada) se traduce a domain.ErrConcurrencyConflict para que el caso de
// uso pueda reintentar.
func (r *TxRunner) Run(ctx context.Context, fn func(productRepo repository.ProductRepository, txnRepo repository.StockTransactionRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		if isBusy(err) {
			return domain.ErrConcurrencyConflict
		}
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewProductRepository(tx), NewStockTransactionRepository(tx)); err != nil {
		if isBusy(err) {
			return domain.ErrConcurrencyConflict
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isBusy(err) {
			return domain.ErrConcurrencyConflict
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
