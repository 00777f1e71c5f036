package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdvalencia/fieldops-api/internal/application/auth"
	"github.com/jdvalencia/fieldops-api/internal/application/inventory"
	"github.com/jdvalencia/fieldops-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC          *inventory.ItemUseCase
	LedgerUC        *inventory.LedgerUseCase
	AllocationUC    *inventory.AllocationUseCase
	PurchaseOrderUC *inventory.PurchaseOrderUseCase
	PurchasePDFUC   *inventory.PurchaseOrderPDFUseCase
	AlertUC         *inventory.StockAlertUseCase
	CountUC         *inventory.CountUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	SupplierUC      *usecase.SupplierUseCase
	LocationUC      *usecase.LocationUseCase
	CategoryUC      *usecase.CategoryUseCase
	UnitUC          *usecase.UnitUseCase
	AuthUC          *auth.UseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.ReplenishmentUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	// la ruta fija va antes que /:id para que Fiber no la capture como parámetro
	items.Get("/replenishment", itemHandler.GetReplenishmentList)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", RequireRole("admin", "bodeguero"), itemHandler.Delete)

	// Ledger de inventario (protegido)
	invGroup := protected.Group("/inventory")
	txHandler := NewTransactionHandler(deps.LedgerUC)
	invGroup.Post("/transactions", txHandler.Append)
	invGroup.Get("/transactions", txHandler.List)
	invGroup.Post("/transfers", txHandler.Transfer)
	invGroup.Get("/items/:itemId/transactions", txHandler.ListByItem)
	invGroup.Get("/items/:itemId/reconcile", txHandler.Reconcile)

	// Allocations (protegido)
	allocations := protected.Group("/allocations")
	allocationHandler := NewAllocationHandler(deps.AllocationUC)
	allocations.Post("/", allocationHandler.Create)
	allocations.Get("/", allocationHandler.List)
	allocations.Get("/:id", allocationHandler.GetByID)
	allocations.Post("/:id/issue", allocationHandler.Issue)
	allocations.Post("/:id/return", allocationHandler.Return)
	allocations.Post("/:id/complete", allocationHandler.Complete)
	allocations.Post("/:id/cancel", allocationHandler.Cancel)

	// Purchase orders (protegido)
	purchaseOrders := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC, deps.PurchasePDFUC)
	purchaseOrders.Post("/", poHandler.Create)
	purchaseOrders.Get("/", poHandler.List)
	purchaseOrders.Get("/:id", poHandler.GetByID)
	purchaseOrders.Get("/:id/pdf", poHandler.GetPDF)
	purchaseOrders.Post("/:id/submit", poHandler.Submit)
	purchaseOrders.Post("/:id/approve", RequireRole("admin"), poHandler.Approve)
	purchaseOrders.Post("/:id/send", poHandler.Send)
	purchaseOrders.Post("/:id/receive", poHandler.Receive)
	purchaseOrders.Post("/:id/cancel", poHandler.Cancel)
	purchaseOrders.Post("/:id/close", poHandler.Close)

	// Alertas de stock (protegido)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Get("/", alertHandler.ListOpen)
	alerts.Post("/check", alertHandler.RunCheck)
	alerts.Post("/:id/acknowledge", alertHandler.Acknowledge)
	alerts.Post("/:id/resolve", alertHandler.Resolve)

	// Conteos físicos (protegido)
	counts := protected.Group("/counts")
	countHandler := NewCountHandler(deps.CountUC)
	counts.Post("/", countHandler.Start)
	counts.Get("/", countHandler.List)
	counts.Get("/:id", countHandler.GetByID)
	counts.Post("/:id/items/:itemId", countHandler.Record)
	counts.Post("/:id/complete", RequireRole("admin", "bodeguero"), countHandler.Complete)
	counts.Post("/:id/cancel", countHandler.Cancel)

	// Registros de referencia (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Deactivate)

	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Deactivate)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Deactivate)

	units := protected.Group("/units")
	unitHandler := NewUnitHandler(deps.UnitUC)
	units.Post("/", unitHandler.Create)
	units.Get("/", unitHandler.List)
	units.Get("/:id", unitHandler.GetByID)
	units.Put("/:id", unitHandler.Update)
	units.Delete("/:id", unitHandler.Deactivate)
}
