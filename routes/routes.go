package routes

import (
	"workshop-inventory/controllers"
	"workshop-inventory/middlewares"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything SetupRoutes mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	Catalog   *controllers.CatalogController
	Stock     *controllers.StockController
	Purchase  *controllers.PurchaseController
	Reorder   *controllers.ReorderController
	ToolLists *controllers.ToolListController
}

func SetupRoutes(r *gin.Engine, ctrl Controllers) {
	api := r.Group("/api")
	{
		api.POST("/auth/register", ctrl.Auth.Register)
		api.POST("/auth/login", ctrl.Auth.Login)

		// Everything below needs a token.
		auth := api.Group("/", middlewares.AuthMiddleware())

		catalog := auth.Group("/catalog")
		{
			catalog.GET("/materials", ctrl.Catalog.ListMaterials)
			catalog.POST("/materials", ctrl.Catalog.CreateMaterial)
			catalog.GET("/products", ctrl.Catalog.ListProducts)
			catalog.POST("/products", ctrl.Catalog.CreateProduct)
			catalog.GET("/tools", ctrl.Catalog.ListTools)
			catalog.POST("/tools", ctrl.Catalog.CreateTool)
			catalog.GET("/suppliers", ctrl.Catalog.ListSuppliers)
			catalog.POST("/suppliers", ctrl.Catalog.CreateSupplier)
		}

		stock := auth.Group("/stock")
		{
			stock.POST("", ctrl.Stock.Ensure)
			stock.POST("/recompute-statuses", ctrl.Stock.RecomputeStatuses)
			stock.GET("/:item_type/:item_id", ctrl.Stock.Get)
			stock.POST("/records/:id/adjust", ctrl.Stock.Adjust)
			stock.POST("/records/:id/move", ctrl.Stock.Move)
			stock.GET("/records/:id/transactions", ctrl.Stock.Transactions)
		}

		orders := auth.Group("/purchase-orders")
		{
			orders.GET("", ctrl.Purchase.List)
			orders.POST("", ctrl.Purchase.Create)
			orders.GET("/:id", ctrl.Purchase.Get)
			orders.DELETE("/:id", ctrl.Purchase.Delete)
			orders.POST("/:id/lines", ctrl.Purchase.AddLine)
			orders.PUT("/:id/lines/:line_id", ctrl.Purchase.UpdateLine)
			orders.DELETE("/:id/lines/:line_id", ctrl.Purchase.RemoveLine)
			orders.PUT("/:id/fees", ctrl.Purchase.UpdateFees)
			orders.POST("/:id/place", ctrl.Purchase.Place)
			orders.POST("/:id/receive", ctrl.Purchase.Receive)
		}

		reorder := auth.Group("/reorder")
		{
			reorder.GET("/low-stock", ctrl.Reorder.LowStock)
			reorder.POST("/generate", ctrl.Reorder.Generate)
		}

		toolLists := auth.Group("/tool-lists")
		{
			toolLists.POST("", ctrl.ToolLists.Create)
			toolLists.GET("/:id", ctrl.ToolLists.Get)
			toolLists.POST("/:id/tools", ctrl.ToolLists.AddTool)
			toolLists.PUT("/:id/tools/:item_id", ctrl.ToolLists.UpdateToolQuantity)
			toolLists.DELETE("/:id/tools/:item_id", ctrl.ToolLists.RemoveTool)
			toolLists.POST("/:id/allocate", ctrl.ToolLists.Allocate)
			toolLists.POST("/:id/return", ctrl.ToolLists.Return)
			toolLists.POST("/:id/complete", ctrl.ToolLists.Complete)
			toolLists.POST("/:id/cancel", ctrl.ToolLists.Cancel)
			toolLists.GET("/:id/availability", ctrl.ToolLists.Availability)
		}
	}
}
