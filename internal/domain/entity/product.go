package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del minimarket. StockQuantity es la
// existencia actual y solo cambia a través del libro de transacciones
// (aparte del valor inicial asignado al crearlo); nunca queda negativa.
type Product struct {
	ID            string
	CategoryID    string
	Name          string // único en todo el catálogo
	Description   string
	Price         decimal.Decimal // precio unitario de venta, >= 0
	StockQuantity int64           // existencias actuales, >= 0
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
