package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dcastano/VerdePOS-api/internal/application/analytics"
	"github.com/dcastano/VerdePOS-api/internal/application/audit"
	"github.com/dcastano/VerdePOS-api/internal/application/auth"
	"github.com/dcastano/VerdePOS-api/internal/application/inventory"
	"github.com/dcastano/VerdePOS-api/internal/application/processors"
	"github.com/dcastano/VerdePOS-api/internal/application/sales"
	"github.com/dcastano/VerdePOS-api/internal/application/transfer"
	"github.com/dcastano/VerdePOS-api/internal/application/usecase"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	VendorUC     *usecase.VendorUseCase
	UserUC       *usecase.UserUseCase
	LocationUC   *usecase.LocationUseCase
	CategoryUC   *usecase.CategoryUseCase
	ProductUC    *usecase.ProductUseCase
	AdjustmentUC *inventory.AdjustmentUseCase
	LevelsUC     *inventory.LevelsUseCase
	AuditUC      *audit.AuditUseCase
	TransferUC   *transfer.TransferUseCase
	SaleUC       *sales.SaleUseCase
	SessionUC    *sales.SessionUseCase
	ProcessorUC  *processors.ProcessorUseCase
	DashboardUC  *analytics.DashboardUseCase
	Modules      *usecase.ModuleService
	JWTSecret    string
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

	managerOnly := RequireRole(entity.RoleAdmin, entity.RoleManager)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Vendor (protegido; cambios solo admin)
	vendor := protected.Group("/vendor")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendor.Get("/", vendorHandler.Get)
	vendor.Put("/", adminOnly, vendorHandler.Update)
	vendor.Get("/modules", vendorHandler.ListModules)
	vendor.Post("/modules", adminOnly, vendorHandler.SetModule)

	// Users (protegido, solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustmentUC, deps.LevelsUC)
	invGroup.Post("/adjustments", inventoryHandler.CreateAdjustment)
	invGroup.Get("/adjustments", inventoryHandler.ListAdjustments)
	invGroup.Get("/adjustments/export.xlsx", inventoryHandler.ExportAdjustments)
	invGroup.Get("/adjustments/:id", inventoryHandler.GetAdjustment)
	invGroup.Get("/levels", inventoryHandler.Levels)
	invGroup.Get("/levels/export.xlsx", inventoryHandler.ExportLevels)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Audits (protegido, módulo contratado; crear solo manager o admin)
	audits := protected.Group("/audits", RequireModule(entity.ModuleAudits, deps.Modules))
	auditHandler := NewAuditHandler(deps.AuditUC)
	audits.Post("/", managerOnly, auditHandler.Create)
	audits.Get("/", auditHandler.List)
	audits.Get("/feed", auditHandler.Feed)
	audits.Get("/:id", auditHandler.GetByID)

	// Transfers (protegido, módulo contratado; aprobar solo manager o admin)
	transfers := protected.Group("/transfers", RequireModule(entity.ModuleTransfers, deps.Modules))
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Post("/ship", transferHandler.CreateAndShip)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Put("/:id", transferHandler.SaveDraft)
	transfers.Delete("/:id", transferHandler.Cancel)
	transfers.Post("/:id/approve", managerOnly, transferHandler.Approve)
	transfers.Post("/:id/ship", transferHandler.Ship)
	transfers.Post("/:id/complete", transferHandler.Complete)

	// Sales (protegido; anular solo manager o admin)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/export.xlsx", saleHandler.Export)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/void", managerOnly, saleHandler.Void)
	salesGroup.Get("/:id/receipt.pdf", saleHandler.ReceiptPDF)
	salesGroup.Post("/:id/receipt/email", saleHandler.EmailReceipt)

	// Register sessions (protegido)
	sessions := protected.Group("/sessions")
	sessionHandler := NewSessionHandler(deps.SessionUC)
	sessions.Post("/", sessionHandler.Open)
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/current", sessionHandler.Current)
	sessions.Post("/:id/close", sessionHandler.Close)

	// Payment processors (protegido, módulo contratado, solo admin)
	processorsGroup := protected.Group("/processors", RequireModule(entity.ModuleProcessors, deps.Modules), adminOnly)
	processorHandler := NewProcessorHandler(deps.ProcessorUC)
	processorsGroup.Post("/", processorHandler.Create)
	processorsGroup.Get("/", processorHandler.List)
	processorsGroup.Post("/test-all", processorHandler.TestAll)
	processorsGroup.Get("/:id", processorHandler.GetByID)
	processorsGroup.Put("/:id", processorHandler.Update)
	processorsGroup.Delete("/:id", processorHandler.Delete)
	processorsGroup.Post("/:id/test", processorHandler.Test)

	// Analytics (protegido)
	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.DashboardUC)
	analyticsGroup.Get("/dashboard", analyticsHandler.Dashboard)
}
