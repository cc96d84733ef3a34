package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ensambla/ems-api/internal/application/allocation"
	"github.com/ensambla/ems-api/internal/application/auth"
	"github.com/ensambla/ems-api/internal/application/inventory"
	"github.com/ensambla/ems-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	RegisterReceipt *inventory.RegisterReceiptUseCase
	StockQuery      *inventory.StockQueryUseCase
	Catalog         *inventory.ComponentCatalogUseCase
	AllocationUC    *allocation.AllocationUseCase
	AllocationQuery *allocation.AllocationQueryUseCase
	BomUC           *allocation.BomAllocationUseCase
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

	// Components: catálogo, libro de movimientos y reconciliación (protegido)
	components := protected.Group("/components")
	componentHandler := NewComponentHandler(deps.StockQuery, deps.Catalog)
	components.Post("/", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista), componentHandler.Create)
	components.Get("/", componentHandler.List)
	components.Get("/:id", componentHandler.GetByID)
	components.Get("/:id/movements", componentHandler.ListMovements)
	components.Get("/:id/reconcile", componentHandler.Reconcile)

	// Inventory receipts: solo admin y almacenista reciben material
	invGroup := protected.Group("/inventory", RequireRole(entity.RoleAdmin, entity.RoleAlmacenista))
	inventoryHandler := NewInventoryHandler(deps.RegisterReceipt)
	invGroup.Post("/receipts", inventoryHandler.RegisterReceipt)

	// Allocations (protegido)
	allocations := protected.Group("/allocations")
	allocationHandler := NewAllocationHandler(deps.AllocationUC, deps.AllocationQuery)
	allocations.Post("/", allocationHandler.Allocate)
	allocations.Get("/", allocationHandler.ListByProject)
	allocations.Get("/:id", allocationHandler.GetByID)
	allocations.Post("/:id/use", allocationHandler.MarkUsed)
	allocations.Post("/:id/return", allocationHandler.Return)

	// BOMs: solo admin e ingeniero asignan/desasignan BOMs completos
	boms := protected.Group("/boms", RequireRole(entity.RoleAdmin, entity.RoleIngeniero))
	bomHandler := NewBomHandler(deps.BomUC)
	boms.Post("/:id/allocate", bomHandler.Allocate)
	boms.Post("/:id/deallocate", bomHandler.Deallocate)
}
