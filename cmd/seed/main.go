// seed puebla la base con datos de demostración del minimarket: categorías,
// productos y transacciones de stock aplicadas a través del motor del kardex
// (las salidas que dejarían stock negativo se descartan y se reintenta con
// otro producto).
//
// Uso: go run ./cmd/seed [-wipe] [-categories N] [-products N] [-transactions N]
//
//	[-csv archivo.csv] [-admin-email correo] [-admin-password clave]
//
// El CSV se lee en ISO-8859-1 (export típico de planilla local), sin
// encabezado, con campos: nombre;categoria;precio;stock;descripcion.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/minimarket/kardex-api/internal/application/auth"
	"github.com/minimarket/kardex-api/internal/application/dto"
	"github.com/minimarket/kardex-api/internal/application/ledger"
	"github.com/minimarket/kardex-api/internal/application/usecase"
	"github.com/minimarket/kardex-api/internal/domain"
	"github.com/minimarket/kardex-api/internal/domain/entity"
	"github.com/minimarket/kardex-api/internal/domain/repository"
	"github.com/minimarket/kardex-api/internal/infrastructure/postgres"
	"github.com/minimarket/kardex-api/internal/infrastructure/sqlite"
	"github.com/minimarket/kardex-api/pkg/config"
	"github.com/minimarket/kardex-api/pkg/logger"
)

// Vocabulario de demo del minimarket.
var (
	categoryNames = []string{
		"Lácteos", "Bebidas", "Panadería", "Aseo", "Snacks", "Abarrotes",
		"Carnes", "Frutas y Verduras", "Congelados", "Dulces", "Licores",
		"Papelería", "Mascotas", "Desechables",
	}
	productBases = []string{
		"Leche", "Arroz", "Aceite", "Pan", "Queso", "Jabón", "Gaseosa",
		"Café", "Azúcar", "Sal", "Harina", "Pasta", "Atún", "Galletas",
		"Jugo", "Detergente", "Huevos", "Mantequilla", "Yogur", "Chocolate",
		"Cerveza", "Agua", "Papel higiénico", "Shampoo", "Lentejas",
	}
	productVariants = []string{
		"entera", "premium", "familiar", "tradicional", "light", "integral",
		"x6", "x12", "500g", "1kg", "1L", "2L", "personal", "económico",
		"importado", "campesino", "artesanal", "sin azúcar",
	}
	demoNotes = []string{
		"compra a proveedor", "venta mostrador", "reposición semanal",
		"pedido mayorista", "ajuste por conteo físico", "promoción fin de semana",
		"devolución de cliente", "venta fiada anotada en cuaderno",
	}
	demoDescriptions = []string{
		"producto de alta rotación", "se agota rápido los fines de semana",
		"línea básica de la canasta familiar", "proveedor entrega los martes",
		"mantener refrigerado", "revisar fecha de vencimiento al recibir",
	}
)

// wipeQueries en orden inverso a las FKs (igual vale el CASCADE, pero el
// orden explícito no depende de él).
var wipeQueries = []string{
	`DELETE FROM stock_transactions`,
	`DELETE FROM products`,
	`DELETE FROM categories`,
}

type seeder struct {
	log        *logger.Logger
	categoryUC *usecase.CategoryUseCase
	productUC  *usecase.ProductUseCase
	applyUC    *ledger.ApplyTransactionUseCase
	authUC     *auth.AuthUseCase
	catRepo    repository.CategoryRepository
	wipe       func(context.Context) error
}

func main() {
	var (
		nCategories   = flag.Int("categories", 10, "categorías a crear")
		nProducts     = flag.Int("products", 50, "productos a crear")
		nTransactions = flag.Int("transactions", 100, "transacciones a aplicar vía kardex")
		csvPath       = flag.String("csv", "", "importar productos desde CSV ISO-8859-1 (nombre;categoria;precio;stock;descripcion)")
		wipeFirst     = flag.Bool("wipe", false, "borrar categorías, productos y asientos antes de sembrar")
		adminEmail    = flag.String("admin-email", "admin@minimarket.local", "email del usuario admin")
		adminPassword = flag.String("admin-password", "", "password del admin; vacío = no crear usuario")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: "seed"})

	ctx := context.Background()

	var (
		productRepo  repository.ProductRepository
		categoryRepo repository.CategoryRepository
		userRepo     repository.UserRepository
		txRunner     ledger.TxRunner
		wipe         func(context.Context) error
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
		userRepo = postgres.NewUserRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
		wipe = func(ctx context.Context) error {
			for _, q := range wipeQueries {
				if _, err := pool.Exec(ctx, q); err != nil {
					return err
				}
			}
			return nil
		}

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.DB.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("apertura de SQLite")
		}
		defer db.Close()
		productRepo = sqlite.NewProductRepository(db)
		categoryRepo = sqlite.NewCategoryRepository(db)
		userRepo = sqlite.NewUserRepository(db)
		txRunner = sqlite.NewTxRunner(db)
		wipe = func(context.Context) error {
			for _, q := range wipeQueries {
				if _, err := db.Exec(q); err != nil {
					return err
				}
			}
			return nil
		}
	}

	s := &seeder{
		log:        log,
		categoryUC: usecase.NewCategoryUseCase(categoryRepo),
		productUC:  usecase.NewProductUseCase(productRepo, categoryRepo),
		applyUC:    ledger.NewApplyTransactionUseCase(txRunner),
		authUC: auth.NewAuthUseCase(userRepo, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		catRepo: categoryRepo,
		wipe:    wipe,
	}

	if *wipeFirst {
		log.Info().Msg("borrando datos anteriores...")
		if err := s.wipe(ctx); err != nil {
			log.Fatal().Err(err).Msg("borrado de datos")
		}
	}

	if *adminPassword != "" {
		s.createAdmin(*adminEmail, *adminPassword)
	}

	log.Info().Int("objetivo", *nCategories).Msg("creando categorías...")
	catIDs := s.seedCategories(*nCategories)

	log.Info().Int("objetivo", *nProducts).Msg("creando productos...")
	prodIDs := s.seedProducts(*nProducts, catIDs)

	if *csvPath != "" {
		log.Info().Str("archivo", *csvPath).Msg("importando productos desde CSV...")
		imported, err := s.importCSV(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Msg("importación CSV")
		}
		log.Info().Int("importados", imported).Msg("CSV importado")
	}

	log.Info().Int("objetivo", *nTransactions).Msg("aplicando transacciones...")
	s.seedTransactions(ctx, *nTransactions, prodIDs)

	log.Info().Msg("datos de demostración listos")
}

// createAdmin da de alta el usuario admin; si ya existe solo lo informa.
func (s *seeder) createAdmin(email, password string) {
	_, err := s.authUC.CreateUser(dto.CreateUserRequest{
		Email:    email,
		Password: password,
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	switch {
	case err == nil:
		s.log.Info().Str("email", email).Msg("usuario admin creado")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		s.log.Info().Str("email", email).Msg("usuario admin ya existe")
	default:
		s.log.Fatal().Err(err).Msg("creación del admin")
	}
}

// seedCategories crea hasta n categorías del vocabulario y devuelve sus IDs.
// Las que ya existen se reutilizan.
func (s *seeder) seedCategories(n int) []string {
	if n > len(categoryNames) {
		n = len(categoryNames)
	}
	ids := make([]string, 0, n)
	for _, name := range categoryNames[:n] {
		out, err := s.categoryUC.Create(dto.CreateCategoryRequest{
			Name:        name,
			Description: pick(demoDescriptions),
		})
		if errors.Is(err, domain.ErrDuplicate) {
			existing, gerr := s.catRepo.GetByName(name)
			if gerr != nil || existing == nil {
				s.log.Warn().Str("categoria", name).Msg("duplicada y no recuperable, se omite")
				continue
			}
			ids = append(ids, existing.ID)
			continue
		}
		if err != nil {
			s.log.Fatal().Err(err).Str("categoria", name).Msg("creación de categoría")
		}
		ids = append(ids, out.ID)
	}
	return ids
}

// seedProducts crea n productos con nombre único, categoría al azar, precio
// entre 1.00 y 100.00 y stock inicial entre 10 y 100.
func (s *seeder) seedProducts(n int, catIDs []string) []string {
	if len(catIDs) == 0 {
		s.log.Warn().Msg("sin categorías: no se crean productos")
		return nil
	}
	ids := make([]string, 0, n)
	used := make(map[string]bool)
	for len(ids) < n {
		name := fmt.Sprintf("%s %s", pick(productBases), pick(productVariants))
		if used[name] {
			name = fmt.Sprintf("%s %d", name, len(ids)+1)
		}
		used[name] = true

		// Precio en centavos: 100..10000 => 1.00..100.00
		price := decimal.New(int64(rand.Intn(9901)+100), -2)
		out, err := s.productUC.Create(dto.CreateProductRequest{
			Name:          name,
			CategoryID:    pick(catIDs),
			Description:   pick(demoDescriptions),
			Price:         price,
			StockQuantity: int64(rand.Intn(91) + 10),
		})
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			s.log.Fatal().Err(err).Str("producto", name).Msg("creación de producto")
		}
		ids = append(ids, out.ID)
	}
	return ids
}

// seedTransactions aplica n transacciones al azar (IN u OUT, cantidad 1..20)
// a través del caso de uso del kardex. Las salidas sin stock suficiente se
// descartan y se intenta con otra combinación; el tope de intentos evita un
// bucle infinito cuando el stock global se agota.
func (s *seeder) seedTransactions(ctx context.Context, n int, prodIDs []string) {
	if len(prodIDs) == 0 {
		s.log.Warn().Msg("sin productos: no se aplican transacciones")
		return
	}
	types := []string{entity.TransactionTypeIN, entity.TransactionTypeOUT}
	created := 0
	maxAttempts := n * 10
	for attempts := 0; created < n && attempts < maxAttempts; attempts++ {
		_, err := s.applyUC.Apply(ctx, ledger.TransactionInputDTO{
			ProductID: pick(prodIDs),
			Type:      pick(types),
			Quantity:  int64(rand.Intn(20) + 1),
			Notes:     pick(demoNotes),
		})
		if errors.Is(err, domain.ErrInsufficientStock) {
			continue
		}
		if err != nil {
			s.log.Fatal().Err(err).Msg("aplicación de transacción")
		}
		created++
	}
	if created < n {
		s.log.Warn().Int("creadas", created).Int("objetivo", n).
			Msg("no se alcanzó el objetivo por falta de stock; considere subir el stock inicial")
	} else {
		s.log.Info().Int("creadas", created).Msg("transacciones aplicadas")
	}
}

// importCSV importa productos desde un CSV ISO-8859-1 separado por ';'.
// Crea las categorías que no existan y omite productos duplicados.
func (s *seeder) importCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()

	// Los exports de planilla local vienen en ISO-8859-1, no UTF-8.
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = 5

	imported := 0
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("línea %d: %w", line, err)
		}

		name := strings.TrimSpace(record[0])
		catName := strings.TrimSpace(record[1])
		if name == "" || catName == "" {
			return imported, fmt.Errorf("línea %d: nombre y categoría son requeridos", line)
		}
		// Acepta coma decimal (formato planilla local).
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(record[2]), ",", "."))
		if err != nil {
			return imported, fmt.Errorf("línea %d: precio inválido %q", line, record[2])
		}
		stock, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		if err != nil {
			return imported, fmt.Errorf("línea %d: stock inválido %q", line, record[3])
		}

		categoryID, err := s.ensureCategory(catName)
		if err != nil {
			return imported, fmt.Errorf("línea %d: %w", line, err)
		}

		_, err = s.productUC.Create(dto.CreateProductRequest{
			Name:          name,
			CategoryID:    categoryID,
			Description:   strings.TrimSpace(record[4]),
			Price:         price,
			StockQuantity: stock,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			s.log.Warn().Str("producto", name).Msg("ya existe, se omite")
			continue
		}
		if err != nil {
			return imported, fmt.Errorf("línea %d: %w", line, err)
		}
		imported++
	}
	return imported, nil
}

// ensureCategory devuelve el ID de la categoría, creándola si no existe.
func (s *seeder) ensureCategory(name string) (string, error) {
	existing, err := s.catRepo.GetByName(name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	out, err := s.categoryUC.Create(dto.CreateCategoryRequest{Name: name})
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

func pick(list []string) string {
	return list[rand.Intn(len(list))]
}
