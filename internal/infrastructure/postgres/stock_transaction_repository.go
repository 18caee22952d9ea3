package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/minimarket/kardex-api/internal/domain/entity"
	"github.com/minimarket/kardex-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const transactionColumns = `id, product_id, type, quantity, date, notes, created_at`

// StockTransactionRepo implementación sobre PostgreSQL (usable con pool o tx).
// El kardex es solo-anexar: este adaptador no expone UPDATE ni DELETE.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create persiste un asiento del kardex.
func (r *StockTransactionRepo) Create(txn *entity.StockTransaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, product_id, type, quantity, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.ProductID, txn.Type, txn.Quantity, txn.Date, txn.Notes, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *StockTransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE id = $1`
	var t entity.StockTransaction
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.Date, &t.Notes, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	return &t, nil
}

// List lista asientos de todo el kardex en un rango de fechas opcional.
func (r *StockTransactionRepo) List(from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE 1=1`
	return r.listWithRange(query, nil, from, to, limit, offset, "list transactions")
}

// ListByProduct lista el kardex de un producto en un rango de fechas opcional.
func (r *StockTransactionRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE product_id = $1`
	return r.listWithRange(query, []any{productID}, from, to, limit, offset, "list by product")
}

func (r *StockTransactionRepo) listWithRange(query string, args []any, from, to *time.Time, limit, offset int, op string) ([]*entity.StockTransaction, error) {
	pos := len(args) + 1
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.Date, &t.Notes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
