package repository

import (
	"time"

	"github.com/minimarket/kardex-api/internal/domain/entity"
)

// StockTransactionRepository define el puerto de persistencia para los
// asientos del kardex. El libro es solo-anexar: no existen Update ni Delete.
type StockTransactionRepository interface {
	Create(txn *entity.StockTransaction) error
	GetByID(id string) (*entity.StockTransaction, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error)
}
