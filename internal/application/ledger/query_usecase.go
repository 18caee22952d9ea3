package ledger

import (
	"time"

	"github.com/minimarket/kardex-api/internal/application/dto"
	"github.com/minimarket/kardex-api/internal/domain"
	"github.com/minimarket/kardex-api/internal/domain/entity"
	"github.com/minimarket/kardex-api/internal/domain/repository"
)

// TransactionQueryUseCase consultas de solo lectura sobre el kardex.
type TransactionQueryUseCase struct {
	txnRepo     repository.StockTransactionRepository
	productRepo repository.ProductRepository
}

// NewTransactionQueryUseCase construye el caso de uso.
func NewTransactionQueryUseCase(txnRepo repository.StockTransactionRepository, productRepo repository.ProductRepository) *TransactionQueryUseCase {
	return &TransactionQueryUseCase{txnRepo: txnRepo, productRepo: productRepo}
}

// GetByID obtiene un asiento por ID.
func (uc *TransactionQueryUseCase) GetByID(id string) (*dto.TransactionResponse, error) {
	txn, err := uc.txnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, nil
	}
	return toTransactionResponse(txn), nil
}

// List lista asientos de todo el kardex con filtros de fecha opcionales.
func (uc *TransactionQueryUseCase) List(from, to *time.Time, limit, offset int) (*dto.TransactionListResponse, error) {
	list, err := uc.txnRepo.List(from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return toTransactionListResponse(list, limit, offset), nil
}

// ListByProduct lista el kardex de un producto. Devuelve
// domain.ErrProductNotFound si el producto no existe.
func (uc *TransactionQueryUseCase) ListByProduct(productID string, from, to *time.Time, limit, offset int) (*dto.TransactionListResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	list, err := uc.txnRepo.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return toTransactionListResponse(list, limit, offset), nil
}

func toTransactionResponse(t *entity.StockTransaction) *dto.TransactionResponse {
	if t == nil {
		return nil
	}
	return &dto.TransactionResponse{
		ID:        t.ID,
		ProductID: t.ProductID,
		Type:      t.Type,
		Quantity:  t.Quantity,
		Date:      t.Date,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
	}
}

func toTransactionListResponse(list []*entity.StockTransaction, limit, offset int) *dto.TransactionListResponse {
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransactionResponse(t))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}
