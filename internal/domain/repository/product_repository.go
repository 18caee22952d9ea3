package repository

import "github.com/minimarket/kardex-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto dentro de la transacción en
	// curso (SELECT FOR UPDATE). Solo tiene sentido vía TxRunner.
	GetForUpdate(id string) (*entity.Product, error)
	// Update modifica los datos de catálogo; nunca toca StockQuantity.
	Update(product *entity.Product) error
	// UpdateStock fija la existencia resultante de aplicar una transacción.
	UpdateStock(productID string, quantity int64) error
	List(categoryID string, limit, offset int) ([]*entity.Product, error)
	Count(categoryID string) (int64, error)
	Delete(id string) error
}
