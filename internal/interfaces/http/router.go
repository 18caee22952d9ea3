package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minimarket/kardex-api/internal/application/auth"
	"github.com/minimarket/kardex-api/internal/application/ledger"
	"github.com/minimarket/kardex-api/internal/application/usecase"
	"github.com/minimarket/kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	ApplyTransaction *ledger.ApplyTransactionUseCase
	TransactionQuery *ledger.TransactionQueryUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Las lecturas de catálogo y kardex son
// públicas; las escrituras requieren Bearer Token: catálogo y usuarios solo
// admin, transacciones de stock admin o vendedor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authRequired := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)
	staff := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/users", authRequired, adminOnly, authHandler.CreateUser)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", authRequired, adminOnly, categoryHandler.Create)
	categories.Put("/:id", authRequired, adminOnly, categoryHandler.Update)
	categories.Delete("/:id", authRequired, adminOnly, categoryHandler.Delete)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authRequired, adminOnly, productHandler.Create)
	products.Put("/:id", authRequired, adminOnly, productHandler.Update)
	products.Delete("/:id", authRequired, adminOnly, productHandler.Delete)

	// Kardex
	transactions := api.Group("/transactions")
	ledgerHandler := NewLedgerHandler(deps.ApplyTransaction, deps.TransactionQuery)
	transactions.Get("/", ledgerHandler.List)
	transactions.Get("/:id", ledgerHandler.GetByID)
	transactions.Post("/", authRequired, staff, ledgerHandler.Apply)
	products.Get("/:id/transactions", ledgerHandler.ListByProduct)
}
