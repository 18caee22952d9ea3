package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/minimarket/kardex-api/internal/application/dto"
	"github.com/minimarket/kardex-api/internal/application/ledger"
	"github.com/minimarket/kardex-api/internal/domain"
)

// LedgerHandler maneja las peticiones HTTP del kardex: aplicar transacciones
// de stock y consultar el libro.
type LedgerHandler struct {
	apply *ledger.ApplyTransactionUseCase
	query *ledger.TransactionQueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(apply *ledger.ApplyTransactionUseCase, query *ledger.TransactionQueryUseCase) *LedgerHandler {
	return &LedgerHandler{apply: apply, query: query}
}

// Apply godoc
// @Summary      Aplicar transacción de stock
// @Description  Registra una entrada (IN) o salida (OUT) de stock de forma
//
//	atómica. Una salida nunca deja existencias negativas: si no
//	alcanza el stock responde 409 con el disponible y lo pedido.
//
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyTransactionRequest  true  "product_id, type (IN|OUT), quantity, date (opcional), notes"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *LedgerHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	out, err := h.apply.ApplyFromRequest(c.Context(), in)
	if err != nil {
		return h.mapApplyError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// mapApplyError traduce la taxonomía de errores del kardex a HTTP.
func (h *LedgerHandler) mapApplyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidDirection):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DIRECTION", Message: err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		// El mensaje incluye disponible y solicitado (InsufficientStockError).
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// GetByID godoc
// @Summary      Obtener asiento del kardex por ID
// @Tags         transactions
// @Produce      json
// @Param        id   path  string  true  "ID del asiento"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *LedgerHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.query.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TRANSACTION_NOT_FOUND", Message: "asiento no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar asientos del kardex
// @Description  Todo el libro, más reciente primero, con rango de fechas opcional.
// @Tags         transactions
// @Produce      json
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	from, to, limit, offset, err := parseListQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "from/to deben ser RFC3339"})
	}
	out, err := h.query.List(from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Kardex de un producto
// @Description  Asientos del producto, más reciente primero, con rango de fechas opcional.
// @Tags         transactions
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/transactions [get]
func (h *LedgerHandler) ListByProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	from, to, limit, offset, err := parseListQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "from/to deben ser RFC3339"})
	}
	out, err := h.query.ListByProduct(id, from, to, limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// parseListQuery extrae rango de fechas y paginación de la query string.
func parseListQuery(c *fiber.Ctx) (from, to *time.Time, limit, offset int, err error) {
	if from, err = parseTimeQuery(c, "from"); err != nil {
		return nil, nil, 0, 0, err
	}
	if to, err = parseTimeQuery(c, "to"); err != nil {
		return nil, nil, 0, 0, err
	}
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return from, to, limit, offset, nil
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
