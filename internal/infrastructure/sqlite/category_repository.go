package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/minimarket/kardex-api/internal/domain"
	"github.com/minimarket/kardex-api/internal/domain/entity"
	"github.com/minimarket/kardex-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre SQLite.
type CategoryRepo struct {
	q dbtx
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(q dbtx) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `INSERT INTO categories (id, name, description, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.q.Exec(query,
		category.ID, category.Name, category.Description, formatTime(category.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	query := `SELECT id, name, description, created_at FROM categories WHERE id = ?`
	return r.scanOne(query, id, "get category")
}

// GetByName obtiene una categoría por nombre (único).
func (r *CategoryRepo) GetByName(name string) (*entity.Category, error) {
	query := `SELECT id, name, description, created_at FROM categories WHERE name = ?`
	return r.scanOne(query, name, "get category by name")
}

func (r *CategoryRepo) scanOne(query, arg, op string) (*entity.Category, error) {
	var (
		c         entity.Category
		createdAt string
	)
	err := r.q.QueryRow(query, arg).Scan(&c.ID, &c.Name, &c.Description, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

// Update actualiza una categoría existente.
func (r *CategoryRepo) Update(category *entity.Category) error {
	query := `UPDATE categories SET name = ?, description = ? WHERE id = ?`
	_, err := r.q.Exec(query, category.Name, category.Description, category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// List devuelve categorías con paginación.
func (r *CategoryRepo) List(limit, offset int) ([]*entity.Category, error) {
	query := `SELECT id, name, description, created_at FROM categories ORDER BY name LIMIT ? OFFSET ?`
	rows, err := r.q.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		var (
			c         entity.Category
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina una categoría por ID; productos y asientos caen en cascada.
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.q.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
