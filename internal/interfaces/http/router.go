package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Puntoventa-api/internal/application/auth"
	"github.com/jhoicas/Puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/Puntoventa-api/internal/application/purchases"
	"github.com/jhoicas/Puntoventa-api/internal/application/reports"
	"github.com/jhoicas/Puntoventa-api/internal/application/sales"
	"github.com/jhoicas/Puntoventa-api/internal/application/usecase"
	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	ProductUC      *usecase.ProductUseCase
	Ledger         *inventory.LedgerUseCase
	CreateSale     *sales.CreateSaleUseCase
	SaleQuery      *sales.QueryUseCase
	Receipt        *sales.ReceiptUseCase
	CreatePurchase *purchases.CreatePurchaseUseCase
	PurchaseQuery  *purchases.QueryUseCase
	ReportUC       *reports.ReportUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/verify-email", authHandler.VerifyEmail)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Auth (protegido)
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Products y ledger de movimientos (protegido).
	// stock-movements se registra antes de /:id para que no lo capture el wildcard.
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	products.Post("/stock-movements", inventoryHandler.RegisterMovement)
	products.Get("/stock-movements", inventoryHandler.History)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.SaleQuery, deps.Receipt)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Purchases (protegido)
	purchasesGroup := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.CreatePurchase, deps.PurchaseQuery)
	purchasesGroup.Post("/", purchaseHandler.Create)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)

	// Reports (protegido)
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup.Get("/inventory", reportHandler.InventorySummary)
	reportsGroup.Get("/sales", reportHandler.SalesReport)
	// Reporte de movimientos: misma consulta de historial, expuesta como reporte.
	reportsGroup.Get("/stock-movements", inventoryHandler.History)

	// Users (protegido, solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Delete("/:id", userHandler.Delete)
}
