package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Puntoventa-api/internal/application/auth"
	"github.com/jhoicas/Puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/Puntoventa-api/internal/application/purchases"
	"github.com/jhoicas/Puntoventa-api/internal/application/reports"
	"github.com/jhoicas/Puntoventa-api/internal/application/sales"
	"github.com/jhoicas/Puntoventa-api/internal/application/usecase"
	"github.com/jhoicas/Puntoventa-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/Puntoventa-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Puntoventa-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Puntoventa-api/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/Puntoventa-api/internal/interfaces/http"
	"github.com/jhoicas/Puntoventa-api/pkg/config"
	"github.com/jhoicas/Puntoventa-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tokenStore, err := redisstore.NewTokenStore(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer tokenStore.Close()

	// Mailer: SMTP real si hay host configurado, si no solo log (development).
	var mailer auth.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
	} else {
		mailer = mail.NewLogMailer(log)
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewLedgerUseCase(txRunner, movementRepo)
	productUC := usecase.NewProductUseCase(productRepo, txRunner, ledger)
	userUC := usecase.NewUserUseCase(userRepo)
	createSaleUC := sales.NewCreateSaleUseCase(txRunner, ledger)
	saleQueryUC := sales.NewQueryUseCase(saleRepo)
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	receiptUC := sales.NewReceiptUseCase(saleRepo, productRepo, receiptGenerator)
	createPurchaseUC := purchases.NewCreatePurchaseUseCase(txRunner, ledger)
	purchaseQueryUC := purchases.NewQueryUseCase(purchaseRepo)
	reportUC := reports.NewReportUseCase(reportRepo)
	authUC := auth.NewAuthUseCase(userRepo, tokenStore, mailer, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		ProductUC:      productUC,
		Ledger:         ledger,
		CreateSale:     createSaleUC,
		SaleQuery:      saleQueryUC,
		Receipt:        receiptUC,
		CreatePurchase: createPurchaseUC,
		PurchaseQuery:  purchaseQueryUC,
		ReportUC:       reportUC,
		JWTSecret:      cfg.JWT.Secret,
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
