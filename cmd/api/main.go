package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/minimarket/kardex-api/internal/application/auth"
	"github.com/minimarket/kardex-api/internal/application/ledger"
	"github.com/minimarket/kardex-api/internal/application/usecase"
	"github.com/minimarket/kardex-api/internal/domain/repository"
	"github.com/minimarket/kardex-api/internal/infrastructure/postgres"
	"github.com/minimarket/kardex-api/internal/infrastructure/sqlite"
	httpRouter "github.com/minimarket/kardex-api/internal/interfaces/http"
	"github.com/minimarket/kardex-api/pkg/config"
	"github.com/minimarket/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		productRepo  repository.ProductRepository
		categoryRepo repository.CategoryRepository
		txnRepo      repository.StockTransactionRepository
		userRepo     repository.UserRepository
		txRunner     ledger.TxRunner
	)

	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		productRepo = postgres.NewProductRepository(pool)
		categoryRepo = postgres.NewCategoryRepository(pool)
		txnRepo = postgres.NewStockTransactionRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
		txRunner = postgres.NewTxRunner(pool)

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.DB.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("apertura de SQLite")
		}
		defer db.Close()
		productRepo = sqlite.NewProductRepository(db)
		categoryRepo = sqlite.NewCategoryRepository(db)
		txnRepo = sqlite.NewStockTransactionRepository(db)
		userRepo = sqlite.NewUserRepository(db)
		txRunner = sqlite.NewTxRunner(db)
	}

	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	applyUC := ledger.NewApplyTransactionUseCase(txRunner)
	queryUC := ledger.NewTransactionQueryUseCase(txnRepo, productRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		ApplyTransaction: applyUC,
		TransactionQuery: queryUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
