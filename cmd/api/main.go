package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Caja-api/docs"
	"github.com/jhoicas/Caja-api/internal/application/cashregister"
	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/notify"
	"github.com/jhoicas/Caja-api/internal/application/pos"
	"github.com/jhoicas/Caja-api/internal/application/receipt"
	"github.com/jhoicas/Caja-api/internal/application/report"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Caja-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Caja-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Caja-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Caja-api/internal/interfaces/http"
	"github.com/jhoicas/Caja-api/pkg/config"
	"github.com/jhoicas/Caja-api/pkg/logger"
	"github.com/jhoicas/Caja-api/pkg/money"
)

// backend repositorios, lote atómico y feed del catálogo del driver elegido.
type backend struct {
	products      repository.ProductRepository
	clients       repository.ClientRepository
	sales         repository.SaleRepository
	movements     repository.StockMovementRepository
	expenses      repository.ExpenseRepository
	cashRegisters repository.CashRegisterRepository
	writer        repository.BatchWriter
	feed          repository.CatalogFeed
	ping          func(ctx context.Context) error
	close         func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.New()
		return &backend{
			products: s.Products(), clients: s.Clients(), sales: s.Sales(), movements: s.Movements(),
			expenses: s.Expenses(), cashRegisters: s.CashRegisters(), writer: s, feed: s,
			ping:  func(context.Context) error { return nil },
			close: func() {},
		}, nil
	}
	s, err := postgres.Open(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	return &backend{
		products: s.Products, clients: s.Clients, sales: s.Sales, movements: s.Movements,
		expenses: s.Expenses, cashRegisters: s.CashRegisters, writer: s.Writer, feed: s.Feed,
		ping: s.Ping, close: s.Close,
	}, nil
}

// @title                       Caja API
// @version                     1.0
// @description                 Punto de venta: catálogo, carrito, checkout atómico, caja diaria e inventario.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacén de documentos")
	}
	defer be.close()

	checks := []httpRouter.HealthCheck{{Name: cfg.Store.Driver, Ping: be.ping}}

	// Caché local del resumen de caja: Redis si está configurado, si no memoria del proceso.
	var local repository.CashRegisterCache = memory.NewLocalCache()
	if cfg.Redis.URL != "" {
		rc, err := infraredis.Open(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, se usa caché en memoria")
		} else {
			defer rc.Close()
			local = rc
			checks = append(checks, httpRouter.HealthCheck{Name: "redis", Ping: rc.Ping, Optional: true})
		}
	}

	loc := cfg.App.Location()
	formatter := money.NewFormatter(cfg.App.Locale, cfg.App.Currency)
	inbox := notify.NewInbox(0)
	notifier := notify.Multi{notify.NewLogNotifier(log), inbox}

	reader := cashregister.NewReader(be.cashRegisters, local, cfg.Checkout.ReadTimeout, log)
	engine := checkout.NewEngine(reader, be.writer, notifier, checkout.Config{
		Location:      loc,
		CommitTimeout: cfg.Checkout.CommitTimeout,
		Money:         formatter,
	}, log)
	registry := pos.NewRegistry(be.feed, engine, notifier, log)
	defer registry.Close()

	cashSvc := cashregister.NewService(reader, be.writer, be.expenses, be.cashRegisters, loc, log)
	adjustmentUC := inventory.NewAdjustmentUseCase(be.writer, be.products, be.movements, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(be.products, be.sales)
	salesUC := report.NewSalesUseCase(be.sales, be.clients, loc)
	receiptUC := receipt.NewUseCase(be.sales, be.clients, infrapdf.NewMarotoPDFGenerator(formatter), cfg.App.StoreName, loc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Caja API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(be.products),
		ClientUC:      usecase.NewClientUseCase(be.clients),
		POS:           registry,
		Inbox:         inbox,
		Adjustments:   adjustmentUC,
		Replenishment: replenishmentUC,
		CashRegister:  cashSvc,
		Sales:         salesUC,
		Receipts:      receiptUC,
		Health:        httpRouter.NewHealthHandler(cfg.App.Name, checks...),
		JWTSecret:     cfg.JWT.Secret,
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
