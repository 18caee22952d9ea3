package entity

import "time"

// Category agrupa productos. El nombre es único; la descripción es opcional.
// Eliminar una categoría arrastra sus productos (y las transacciones de estos).
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
