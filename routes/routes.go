package routes

import (
	"net/http"

	"shopzeo-backend/controllers"
	"shopzeo-backend/middleware"
	"shopzeo-backend/models"
	"shopzeo-backend/repository"

	"github.com/gin-gonic/gin"
)

// Dependencies carries everything the router needs.
type Dependencies struct {
	JWTSecret string
	StoreRepo repository.StoreRepository

	Auth       *controllers.AuthController
	Stores     *controllers.StoreController
	Categories *controllers.CategoryController
	Products   *controllers.ProductController
	BulkImport *controllers.BulkImportController
	Presign    *controllers.PresignedURLHandler
	Orders     *controllers.OrderController
	Wallets    *controllers.WalletController
	Analytics  *controllers.AnalyticsController
}

// Setup registers all routes on the engine.
func Setup(r *gin.Engine, deps *Dependencies) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/auth/login", deps.Auth.Login)

	auth := middleware.JWTAuth(deps.JWTSecret)
	vendor := middleware.RequireRole(models.RoleVendor, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)
	storeCtx := middleware.StoreContext(deps.StoreRepo)

	// Stores. Registration is public; management needs auth.
	stores := r.Group("/stores")
	{
		stores.POST("", deps.Stores.RegisterStore)
		stores.GET("", auth, deps.Stores.ListStores)
		stores.GET("/:id", auth, deps.Stores.GetStore)
		stores.PATCH("/:id/status", auth, admin, deps.Stores.UpdateStatus)
	}

	// Categories. Listing is public; mutation is admin only.
	categories := r.Group("/categories")
	{
		categories.GET("", deps.Categories.ListCategories)
		categories.POST("", auth, admin, deps.Categories.CreateCategory)
		categories.DELETE("/:id", auth, admin, deps.Categories.DeleteCategory)
	}

	// Catalog. Reads are public; writes are vendor scoped.
	products := r.Group("/products")
	{
		products.GET("", deps.Products.ListProducts)
		products.GET("/:id", deps.Products.GetProduct)

		products.POST("", auth, vendor, storeCtx, deps.Products.CreateProduct)
		products.PATCH("/:id", auth, vendor, storeCtx, deps.Products.UpdateProduct)
		products.DELETE("/:id", auth, vendor, storeCtx, deps.Products.DeleteProduct)

		products.POST("/presign", auth, vendor, storeCtx, deps.Presign.PresignUpload)

		products.POST("/bulk-import", auth, vendor, storeCtx, deps.BulkImport.ImportProducts)
		products.POST("/bulk-import/validate", auth, vendor, storeCtx, deps.BulkImport.ValidateImport)
		products.GET("/bulk-import/jobs/:id", auth, vendor, deps.BulkImport.GetJobStatus)
	}

	// Orders.
	orders := r.Group("/orders", auth)
	{
		orders.POST("", deps.Orders.CreateOrder)
		orders.GET("", deps.Orders.GetMyOrders)
		orders.GET("/store", vendor, storeCtx, deps.Orders.GetStoreOrders)
		orders.GET("/all", admin, deps.Orders.GetAllOrders)
		orders.GET("/:id", deps.Orders.GetOrder)
		orders.PATCH("/:id/status", vendor, deps.Orders.UpdateStatus)
		orders.POST("/:id/cancel", deps.Orders.CancelOrder)
		orders.POST("/:id/payment-callback", deps.Orders.PaymentCallback)
		orders.DELETE("/:id", admin, deps.Orders.DeleteOrder)
	}

	// Wallets.
	wallets := r.Group("/wallets", auth)
	{
		wallets.GET("/:id", vendor, deps.Wallets.GetWallet)
		wallets.GET("/:id/transactions", vendor, deps.Wallets.GetTransactions)
		wallets.POST("/:id/adjust", admin, deps.Wallets.Adjust)
	}

	// Admin analytics.
	analytics := r.Group("/admin/analytics", auth, admin)
	{
		analytics.GET("/summary", deps.Analytics.Dashboard)
		analytics.GET("/top-stores", deps.Analytics.TopStores)
	}
}
