package entity

import "time"

// Tipos de transacción de stock.
const (
	TransactionTypeIN  = "IN"  // entrada: compra, reposición
	TransactionTypeOUT = "OUT" // salida: venta, merma
)

// ValidTransactionType reporta si t es un tipo de transacción conocido.
func ValidTransactionType(t string) bool {
	return t == TransactionTypeIN || t == TransactionTypeOUT
}

// StockTransaction es un asiento inmutable del kardex: registra una entrada
// o salida de unidades de un producto. Una vez persistido no se modifica ni
// se borra; solo desaparece en cascada si se elimina el producto.
type StockTransaction struct {
	ID        string
	ProductID string
	Type      string // IN u OUT
	Quantity  int64  // siempre positivo; el tipo indica el sentido
	Date      time.Time
	Notes     string
	CreatedAt time.Time
}
