package main

import (
	"log"

	"workshop-inventory/clients"
	"workshop-inventory/config"
	"workshop-inventory/controllers"
	"workshop-inventory/logger"
	"workshop-inventory/models"
	"workshop-inventory/routes"
	"workshop-inventory/scheduler"
	"workshop-inventory/service"
	"workshop-inventory/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	utils.Secret = []byte(cfg.JWTSecret)

	zlog := logger.Must(logger.New())
	defer func() { _ = zlog.Sync() }()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Supplier{},
		&models.Material{},
		&models.Product{},
		&models.Tool{},
		&models.StockRecord{},
		&models.StockTransaction{},
		&models.LocationHistory{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},
		&models.ToolList{},
		&models.ToolListItem{},
		&models.ToolCheckout{},
	); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	catalog := service.NewCatalog(db)
	suppliers := service.NewSupplierDirectory(db)
	stock := service.NewStockService(db, catalog, logger.Named(zlog, "stock"))
	procurement := service.NewProcurementService(db, suppliers, catalog, stock, logger.Named(zlog, "procurement"))
	reorder := service.NewReorderService(stock, procurement, catalog, suppliers, logger.Named(zlog, "reorder"))

	var checkout service.CheckoutService
	if cfg.CheckoutServiceURL != "" {
		checkout = clients.NewCheckoutClient(cfg.CheckoutServiceURL)
	} else {
		checkout = service.NewLocalCheckout(db)
	}
	toolLists := service.NewToolListService(db, checkout, logger.Named(zlog, "toollist"))

	if cfg.LowStockCron != "" {
		sched := scheduler.New(reorder, cfg.LowStockCron, logger.Named(zlog, "scheduler"))
		if err := sched.Start(); err != nil {
			zlog.Error("scheduler start failed", zap.Error(err))
		}
		defer sched.Stop()
	}

	r := gin.Default()
	routes.SetupRoutes(r, routes.Controllers{
		Auth:      controllers.NewAuthController(db),
		Catalog:   controllers.NewCatalogController(db),
		Stock:     controllers.NewStockController(stock),
		Purchase:  controllers.NewPurchaseController(procurement),
		Reorder:   controllers.NewReorderController(reorder),
		ToolLists: controllers.NewToolListController(toolLists),
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "workshop inventory API is running"})
	})

	zlog.Info("starting server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
