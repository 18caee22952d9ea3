package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minimarket/kardex-api/internal/domain/entity"
	"github.com/minimarket/kardex-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const transactionColumns = `id, product_id, type, quantity, date, notes, created_at`

// StockTransactionRepo implementación sobre SQLite. El kardex es
// solo-anexar: este adaptador no expone UPDATE ni DELETE.
type StockTransactionRepo struct {
	q dbtx
}

// NewStockTransactionRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewStockTransactionRepository(q dbtx) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create persiste un asiento del kardex.
func (r *StockTransactionRepo) Create(txn *entity.StockTransaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, product_id, type, quantity, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.Exec(query,
		txn.ID, txn.ProductID, txn.Type, txn.Quantity,
		formatTime(txn.Date), txn.Notes, formatTime(txn.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *StockTransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE id = ?`
	t, err := scanTransaction(r.q.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	return t, nil
}

// List lista asientos de todo el kardex en un rango de fechas opcional.
func (r *StockTransactionRepo) List(from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE 1=1`
	return r.listWithRange(query, nil, from, to, limit, offset, "list transactions")
}

// ListByProduct lista el kardex de un producto en un rango de fechas opcional.
func (r *StockTransactionRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE product_id = ?`
	return r.listWithRange(query, []any{productID}, from, to, limit, offset, "list by product")
}

func (r *StockTransactionRepo) listWithRange(query string, args []any, from, to *time.Time, limit, offset int, op string) ([]*entity.StockTransaction, error) {
	if from != nil {
		query += ` AND date >= ?`
		args = append(args, formatTime(*from))
	}
	if to != nil {
		query += ` AND date <= ?`
		args = append(args, formatTime(*to))
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransaction(s scanner) (*entity.StockTransaction, error) {
	var (
		t         entity.StockTransaction
		date      string
		createdAt string
	)
	if err := s.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &date, &t.Notes, &createdAt); err != nil {
		return nil, err
	}
	t.Date = parseTime(date)
	t.CreatedAt = parseTime(createdAt)
	return &t, nil
}
