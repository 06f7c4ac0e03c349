package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/cashregister"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/notify"
	"github.com/jhoicas/Caja-api/internal/application/pos"
	"github.com/jhoicas/Caja-api/internal/application/receipt"
	"github.com/jhoicas/Caja-api/internal/application/report"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	ClientUC      *usecase.ClientUseCase
	POS           *pos.Registry
	Inbox         *notify.Inbox
	Adjustments   *inventory.AdjustmentUseCase
	Replenishment *inventory.ReplenishmentUseCase
	CashRegister  *cashregister.Service
	Sales         *report.SalesUseCase
	Receipts      *receipt.UseCase
	Health        *HealthHandler
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Health != nil {
		app.Get("/health", deps.Health.Health)
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(RoleAdmin, RoleCashier)
	adminOnly := RequireRole(RoleAdmin)

	// Productos: lectura para todos, escritura solo admin
	products := api.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	clients := api.Group("/clients", anyRole)
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", adminOnly, clientHandler.Delete)

	// Punto de venta
	posHandler := NewPOSHandler(deps.POS, deps.Inbox)
	api.Get("/catalog/products", anyRole, posHandler.CatalogProducts)
	posGroup := api.Group("/pos", anyRole)
	posGroup.Get("/cart", posHandler.Cart)
	posGroup.Post("/cart/items", posHandler.AddItem)
	posGroup.Patch("/cart/items/:productId", posHandler.ChangeQuantity)
	posGroup.Delete("/cart/items/:productId", posHandler.RemoveItem)
	posGroup.Put("/client", posHandler.SelectClient)
	posGroup.Put("/payment-method", posHandler.SetPaymentMethod)
	posGroup.Post("/checkout", posHandler.Checkout)
	posGroup.Get("/notifications", posHandler.Notifications)

	invGroup := api.Group("/inventory", anyRole)
	inventoryHandler := NewInventoryHandler(deps.Adjustments, deps.Replenishment)
	invGroup.Post("/adjustments", adminOnly, inventoryHandler.RegisterAdjustment)
	invGroup.Get("/products/:id/movements", inventoryHandler.History)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Caja
	cashHandler := NewCashRegisterHandler(deps.CashRegister)
	expenses := api.Group("/expenses", anyRole)
	expenses.Post("/", cashHandler.CreateExpense)
	expenses.Get("/", cashHandler.ListExpenses)
	expenses.Delete("/:id", cashHandler.DeleteExpense)
	cash := api.Group("/cash-register", anyRole)
	cash.Get("/today", cashHandler.Today)
	cash.Get("/monthly", cashHandler.Monthly)
	cash.Get("/days/:date", cashHandler.Day)

	salesHandler := NewSalesHandler(deps.Sales, deps.Receipts)
	sales := api.Group("/sales", anyRole)
	sales.Get("/", salesHandler.List)
	sales.Get("/:id", salesHandler.GetByID)
	sales.Get("/:id/receipt", salesHandler.Receipt)
	api.Get("/reports/sales", adminOnly, salesHandler.Report)
}
