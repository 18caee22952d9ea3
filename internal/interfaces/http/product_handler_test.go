package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdto "github.com/minimarket/kardex-api/internal/application/dto"
)

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo: productos
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogoAPI_CicloDeVidaProducto(t *testing.T) {
	app := buildAPITestApp(t)
	admin := tokenForRole(t, "admin")
	cat := createCategory(t, app, "Lácteos")

	// Alta
	prod := createProduct(t, app, "Queso campesino 500g", cat.ID, 25)
	assert.Equal(t, "Queso campesino 500g", prod.Name)
	assert.Equal(t, cat.ID, prod.CategoryID)
	assert.Equal(t, int64(25), prod.StockQuantity)

	// Nombre duplicado
	resp := doJSON(t, app, http.MethodPost, "/api/products", admin, fiber.Map{
		"name":           "Queso campesino 500g",
		"category_id":    cat.ID,
		"price":          9.90,
		"stock_quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody appdto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "DUPLICATE", errBody.Code)

	// Categoría inexistente
	resp = doJSON(t, app, http.MethodPost, "/api/products", admin, fiber.Map{
		"name":           "Yogur natural",
		"category_id":    "99999999-9999-9999-9999-999999999999",
		"price":          3.20,
		"stock_quantity": 10,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	decode(t, resp, &errBody)
	assert.Equal(t, "CATEGORY_NOT_FOUND", errBody.Code)

	// Actualización de catálogo: renombra y cambia precio, el stock no se toca
	resp = doJSON(t, app, http.MethodPut, "/api/products/"+prod.ID, admin, fiber.Map{
		"name":  "Queso campesino 500g bloque",
		"price": 11.50,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated appdto.ProductResponse
	decode(t, resp, &updated)
	assert.Equal(t, "Queso campesino 500g bloque", updated.Name)
	assert.Equal(t, int64(25), updated.StockQuantity,
		"el update de catálogo nunca modifica el stock")

	// Baja
	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+prod.ID, admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+prod.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	decode(t, resp, &errBody)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errBody.Code)
}

func TestCatalogoAPI_ListadoFiltraPorCategoria(t *testing.T) {
	app := buildAPITestApp(t)
	bebidas := createCategory(t, app, "Bebidas")
	aseo := createCategory(t, app, "Aseo")
	createProduct(t, app, "Agua 600ml", bebidas.ID, 40)
	createProduct(t, app, "Jugo de caja", bebidas.ID, 30)
	createProduct(t, app, "Jabón en barra", aseo.ID, 15)

	resp := doJSON(t, app, http.MethodGet, "/api/products?category_id="+bebidas.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list appdto.ProductListResponse
	decode(t, resp, &list)
	require.Len(t, list.Items, 2, "solo los productos de la categoría pedida")
	for _, item := range list.Items {
		assert.Equal(t, bebidas.ID, item.CategoryID)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	assert.Len(t, list.Items, 3, "sin filtro se listan todos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos: lecturas públicas, escrituras solo admin
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogoAPI_EscriturasSoloAdmin(t *testing.T) {
	app := buildAPITestApp(t)

	// Vendedor no puede tocar el catálogo.
	resp := doJSON(t, app, http.MethodPost, "/api/categories", tokenForRole(t, "vendedor"),
		fiber.Map{"name": "Dulces"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var errBody appdto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "FORBIDDEN", errBody.Code)

	// Sin token tampoco.
	resp = doJSON(t, app, http.MethodPost, "/api/categories", "", fiber.Map{"name": "Dulces"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Las lecturas son públicas.
	resp = doJSON(t, app, http.MethodGet, "/api/categories", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrados en cascada
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogoAPI_BorrarProductoEliminaSuKardex(t *testing.T) {
	app := buildAPITestApp(t)
	cat := createCategory(t, app, "Panadería")
	prod := createProduct(t, app, "Pan artesanal", cat.ID, 20)

	resp := doJSON(t, app, http.MethodPost, "/api/transactions", tokenForRole(t, "vendedor"), fiber.Map{
		"product_id": prod.ID,
		"type":       "OUT",
		"quantity":   3,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+prod.ID, tokenForRole(t, "admin"), nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// El kardex del producto desaparece con él.
	resp = doJSON(t, app, http.MethodGet, "/api/transactions", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list appdto.TransactionListResponse
	decode(t, resp, &list)
	assert.Empty(t, list.Items, "los asientos caen en cascada con el producto")
}

func TestCatalogoAPI_BorrarCategoriaEliminaSusProductos(t *testing.T) {
	app := buildAPITestApp(t)
	cat := createCategory(t, app, "Congelados")
	prod := createProduct(t, app, "Helado 1L", cat.ID, 12)

	resp := doJSON(t, app, http.MethodDelete, "/api/categories/"+cat.ID, tokenForRole(t, "admin"), nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+prod.ID, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode,
		"los productos caen en cascada con la categoría")
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth: login y alta de usuarios vía API
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthAPI_AltaDeUsuarioYLogin(t *testing.T) {
	app := buildAPITestApp(t)
	admin := tokenForRole(t, "admin")

	// Solo un admin puede dar de alta personal.
	resp := doJSON(t, app, http.MethodPost, "/api/auth/users", tokenForRole(t, "vendedor"), fiber.Map{
		"email":    "caja@minimarket.local",
		"password": "clave-segura-123",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/users", admin, fiber.Map{
		"email":    "caja@minimarket.local",
		"password": "clave-segura-123",
		"role":     "vendedor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var user appdto.UserResponse
	decode(t, resp, &user)
	assert.Equal(t, "vendedor", user.Role)

	// Email repetido
	resp = doJSON(t, app, http.MethodPost, "/api/auth/users", admin, fiber.Map{
		"email":    "caja@minimarket.local",
		"password": "otra-clave-456",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody appdto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "EMAIL_EXISTS", errBody.Code)

	// Login correcto entrega un token utilizable contra la propia API.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "caja@minimarket.local",
		"password": "clave-segura-123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login appdto.LoginResponse
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)

	cat := createCategory(t, app, "Abarrotes")
	prod := createProduct(t, app, "Sal 1kg", cat.ID, 8)
	resp = doJSON(t, app, http.MethodPost, "/api/transactions", "Bearer "+login.Token, fiber.Map{
		"product_id": prod.ID,
		"type":       "IN",
		"quantity":   2,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode,
		"el token emitido por login debe servir para registrar movimientos")

	// Credenciales inválidas
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "caja@minimarket.local",
		"password": "clave-equivocada",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	decode(t, resp, &errBody)
	assert.Equal(t, "UNAUTHORIZED", errBody.Code)
}
