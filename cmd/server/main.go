package main

import (
	"log"
	"strings"

	"lokanta-backend/internal/admin"
	"lokanta-backend/internal/apperrors"
	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/auth"
	"lokanta-backend/internal/config"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/inventory"
	"lokanta-backend/internal/invoice"
	"lokanta-backend/internal/kitchen"
	"lokanta-backend/internal/menu"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/notify"
	"lokanta-backend/internal/order"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Veritabanı bağlantısı kurulamadı:", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration başarısız:", err)
	}

	// Servisler
	batchStore := inventory.NewBatchStore(db)
	engine := inventory.NewEngine(db)
	evaluator := inventory.NewEvaluator(db)
	registry := menu.NewRegistry(db)
	notifier := notify.NewLogNotifier()
	orchestrator := kitchen.NewOrchestrator(db, engine, notifier)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperrors.ErrorHandler,
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg, db))
	api.Post("/auth/login", auth.LoginHandler(cfg, db))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	adminRoutes.Post("/restaurants", admin.CreateRestaurantHandler(db))
	adminRoutes.Get("/restaurants", admin.ListRestaurantsHandler(db))
	adminRoutes.Put("/restaurants/:id", admin.UpdateRestaurantHandler(db))

	// Personel ve masa yönetimi (super_admin + manager)
	management := protected.Group("")
	management.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleManager))

	management.Post("/staff", admin.CreateStaffHandler(db))
	management.Get("/staff", admin.ListStaffHandler(db))
	management.Post("/tables", admin.CreateTableHandler(db))
	management.Put("/tables/:id", admin.UpdateTableHandler(db))

	protected.Get("/tables", admin.ListTablesHandler(db))

	// Menü yönetimi
	management.Post("/menu-items", menu.CreateMenuItemHandler(db))
	management.Put("/menu-items/:id", menu.UpdateMenuItemHandler(db))
	management.Delete("/menu-items/:id", menu.DeleteMenuItemHandler(db))
	management.Put("/menu-items/:id/recipe", menu.SetRecipeHandler(registry))

	protected.Get("/menu-items", menu.ListMenuItemsHandler(db))
	protected.Get("/menu-items/:id/recipe", menu.GetRecipeHandler(registry))
	protected.Get("/menu-items/:id/availability", menu.GetAvailabilityHandler(evaluator))
	protected.Post("/menu-items/:id/validate", menu.ValidateAvailabilityHandler(evaluator))
	protected.Post("/orders/validate", menu.ValidateOrderAvailabilityHandler(evaluator))

	// Stok kalemleri ve tedarikçiler
	management.Post("/inventory-items", inventory.CreateInventoryItemHandler(db))
	management.Put("/inventory-items/:id", inventory.UpdateInventoryItemHandler(db))
	management.Delete("/inventory-items/:id", inventory.DeleteInventoryItemHandler(db))
	protected.Get("/inventory-items", inventory.ListInventoryItemsHandler(db))

	management.Post("/suppliers", inventory.CreateSupplierHandler(db))
	management.Put("/suppliers/:id", inventory.UpdateSupplierHandler(db))
	protected.Get("/suppliers", inventory.ListSuppliersHandler(db))

	// Parti (batch) yönetimi
	management.Post("/inventory-batches", inventory.CreateBatchHandler(batchStore, db))
	management.Put("/inventory-batches/:id", inventory.UpdateBatchHandler(batchStore, db))
	management.Post("/inventory-batches/import", inventory.ImportBatchesHandler(batchStore, db))
	protected.Get("/inventory-batches", inventory.ListBatchesHandler(batchStore))
	protected.Get("/inventory-batches/expiring", inventory.GetExpiringBatchesHandler(batchStore))
	protected.Get("/inventory-items/:id/batches", inventory.ListBatchesForItemHandler(batchStore))
	protected.Get("/inventory-batches/:id/movements", inventory.ListBatchMovementsHandler(db))
	protected.Get("/stock-report", inventory.StockReportHandler(db))

	// Sipariş akışı
	waiterRoutes := protected.Group("")
	waiterRoutes.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleManager, models.RoleWaiter, models.RoleCaptain))
	waiterRoutes.Post("/orders", order.CreateOrderHandler(db))
	waiterRoutes.Post("/orders/:id/serve", order.ServeOrderHandler(db))
	waiterRoutes.Post("/orders/:id/cancel", order.CancelOrderHandler(db))

	captainRoutes := protected.Group("")
	captainRoutes.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleManager, models.RoleCaptain))
	captainRoutes.Post("/orders/:id/approve", order.ApproveOrderHandler(db))

	protected.Get("/orders", order.ListOrdersHandler(db))
	protected.Get("/orders/:id", order.GetOrderHandler(db))

	// Mutfak
	kitchenRoutes := protected.Group("")
	kitchenRoutes.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleManager, models.RoleKitchen))
	kitchenRoutes.Post("/orders/:id/start-preparation", kitchen.StartPreparationHandler(orchestrator, db))
	kitchenRoutes.Post("/orders/:id/complete", kitchen.CompletePreparationHandler(orchestrator, db))
	kitchenRoutes.Get("/kitchen/queue", kitchen.KitchenQueueHandler(db))
	protected.Get("/orders/:id/consumption", kitchen.OrderConsumptionHandler(db))

	// Fatura
	cashierRoutes := protected.Group("")
	cashierRoutes.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleManager, models.RoleCashier))
	cashierRoutes.Post("/invoices", invoice.CreateInvoiceHandler(db))
	cashierRoutes.Get("/invoices", invoice.ListInvoicesHandler(db))
	cashierRoutes.Get("/invoices/:id", invoice.GetInvoiceHandler(db))

	// Audit logs
	management.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
