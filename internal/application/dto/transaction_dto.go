package dto

import "time"

// ApplyTransactionRequest entrada para aplicar una transacción de stock.
// Date es opcional; si se omite, el servidor asigna la hora actual.
type ApplyTransactionRequest struct {
	ProductID string     `json:"product_id" validate:"required,uuid"`
	Type      string     `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int64      `json:"quantity" validate:"required,gt=0"`
	Date      *time.Time `json:"date"`
	Notes     string     `json:"notes"`
}

// TransactionResponse salida de un asiento del kardex.
type TransactionResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionListResponse lista paginada de asientos.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
