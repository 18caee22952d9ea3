package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minimarket/kardex-api/internal/domain"
	"github.com/minimarket/kardex-api/internal/domain/entity"
	"github.com/minimarket/kardex-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, category_id, name, description, price, stock_quantity, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre SQLite.
// El precio se guarda como TEXT decimal y las fechas como TEXT RFC3339.
type ProductRepo struct {
	q dbtx
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar *sql.DB o *sql.Tx.
func NewProductRepository(q dbtx) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con su existencia inicial.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, category_id, name, description, price, stock_quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.Exec(query,
		product.ID, product.CategoryID, product.Name, product.Description,
		product.Price.String(), product.StockQuantity,
		formatTime(product.CreatedAt), formatTime(product.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return r.scanOne(query, id, "get product")
}

// GetByName obtiene un producto por nombre (único en el catálogo).
func (r *ProductRepo) GetByName(name string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = ?`
	return r.scanOne(query, name, "get product by name")
}

// GetForUpdate obtiene el producto dentro de la transacción en curso. SQLite
// bloquea la base completa al escribir y el TxRunner ya serializa con mutex,
// así que la lectura simple equivale al SELECT FOR UPDATE de PostgreSQL.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return r.scanOne(query, id, "get product for update")
}

func (r *ProductRepo) scanOne(query, arg, op string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProduct(s scanner) (*entity.Product, error) {
	var (
		p         entity.Product
		price     string
		createdAt string
		updatedAt string
	)
	if err := s.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &price,
		&p.StockQuantity, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// Update actualiza datos de catálogo. No toca stock_quantity (se maneja vía transacciones).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET category_id = ?, name = ?, description = ?, price = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.q.Exec(query,
		product.CategoryID, product.Name, product.Description,
		product.Price.String(), formatTime(product.UpdatedAt), product.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock fija la existencia del producto (usado por el motor del kardex).
func (r *ProductRepo) UpdateStock(productID string, quantity int64) error {
	_, err := r.q.Exec(
		`UPDATE products SET stock_quantity = ?, updated_at = ? WHERE id = ?`,
		quantity, formatTime(time.Now()), productID,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// List lista productos con paginación y filtro opcional por categoría.
func (r *ProductRepo) List(categoryID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if categoryID != "" {
		query += ` WHERE category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count cuenta productos, con filtro opcional por categoría.
func (r *ProductRepo) Count(categoryID string) (int64, error) {
	query := `SELECT count(*) FROM products`
	args := []any{}
	if categoryID != "" {
		query += ` WHERE category_id = ?`
		args = append(args, categoryID)
	}
	var total int64
	if err := r.q.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// Delete elimina un producto por ID; sus asientos caen por FK ON DELETE CASCADE.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
