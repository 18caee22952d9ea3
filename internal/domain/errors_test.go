package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimarket/kardex-api/internal/domain"
)

func TestInsufficientStockError_Mensaje(t *testing.T) {
	err := &domain.InsufficientStockError{
		ProductName: "Arroz premium 1kg",
		Available:   70,
		Requested:   100,
	}
	assert.Equal(t,
		"stock insuficiente para Arroz premium 1kg: disponible 70, solicitado 100",
		err.Error())
}

func TestInsufficientStockError_RespondeAlCentinela(t *testing.T) {
	var err error = &domain.InsufficientStockError{ProductName: "Aceite 1L", Available: 3, Requested: 9}

	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"errors.Is debe funcionar a través del Unwrap")

	// También cuando el error viene envuelto por capas superiores.
	wrapped := fmt.Errorf("aplicar transacción: %w", err)
	assert.ErrorIs(t, wrapped, domain.ErrInsufficientStock)

	var insuff *domain.InsufficientStockError
	require.ErrorAs(t, wrapped, &insuff)
	assert.Equal(t, int64(3), insuff.Available)
	assert.Equal(t, int64(9), insuff.Requested)
}

func TestErroresDeDominio_SonDistinguibles(t *testing.T) {
	// Cada centinela debe ser independiente: el manejo HTTP mapea cada uno
	// a un código distinto.
	sentinels := []error{
		domain.ErrProductNotFound,
		domain.ErrCategoryNotFound,
		domain.ErrInvalidQuantity,
		domain.ErrInvalidDirection,
		domain.ErrInsufficientStock,
		domain.ErrConcurrencyConflict,
		domain.ErrDuplicate,
		domain.ErrEmailAlreadyExists,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v no debe confundirse con %v", a, b)
		}
	}
}
