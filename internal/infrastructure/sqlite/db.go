// Package sqlite implementa los puertos de persistencia sobre SQLite,
// pensado para despliegues locales, demos y pruebas. La base se abre en
// modo WAL y el TxRunner serializa las escrituras con un mutex, de modo
// que las garantías del kardex son las mismas que en PostgreSQL.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// dbtx es el subconjunto de database/sql que comparten *sql.DB y *sql.Tx.
// Permite que un mismo repositorio opere dentro o fuera de una transacción.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

var (
	_ dbtx = (*sql.DB)(nil)
	_ dbtx = (*sql.Tx)(nil)
)

// scanner lo satisfacen *sql.Row y *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id             TEXT PRIMARY KEY,
	category_id    TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
	name           TEXT NOT NULL UNIQUE,
	description    TEXT NOT NULL DEFAULT '',
	price          TEXT NOT NULL,
	stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);

CREATE TABLE IF NOT EXISTS stock_transactions (
	id         TEXT PRIMARY KEY,
	product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	type       TEXT NOT NULL CHECK (type IN ('IN', 'OUT')),
	quantity   INTEGER NOT NULL CHECK (quantity > 0),
	date       TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stock_transactions_product_date
	ON stock_transactions(product_id, date DESC);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('admin', 'vendedor')),
	status        TEXT NOT NULL DEFAULT 'active',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
`

// New abre (o crea) la base en path y aplica el esquema. Usar ":memory:"
// para una base en memoria, útil en pruebas.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("abrir base sqlite: %w", err)
	}
	// Una sola conexión: evita SQLITE_BUSY entre escritores del mismo
	// proceso y mantiene las bases ":memory:" en una única instancia.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("aplicar esquema: %w", err)
	}
	return db, nil
}

// Las fechas se guardan como TEXT en UTC (RFC3339): el orden lexicográfico
// coincide con el cronológico.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// isUniqueViolation detecta violaciones de restricción UNIQUE en SQLite.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isBusy detecta SQLITE_BUSY y SQLITE_LOCKED, que aparecen cuando otro
// proceso mantiene la base bloqueada.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
