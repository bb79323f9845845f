package router

import (
	"github.com/labstack/echo/v4"

	"evolv-store/internal/cache"
	"evolv-store/internal/database"
	"evolv-store/internal/handler"
	"evolv-store/internal/handler/auth"
	"evolv-store/internal/handler/cart"
	"evolv-store/internal/handler/orders"
	"evolv-store/internal/handler/products"
	"evolv-store/internal/mailer"
	"evolv-store/internal/middleware"
	"evolv-store/internal/worker"
)

// Setup registers every route and its middleware.
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, wp worker.Pool, m mailer.Mailer) {
	api := e.Group("/api")

	api.GET("/health", handler.HealthHandler(db, rdb))

	apiAuth := api.Group("/auth")
	apiAuth.POST("/register", auth.RegisterHandler(db))
	apiAuth.POST("/login", auth.LoginHandler(db))
	apiAuth.GET("/profile", auth.GetProfileHandler(db), middleware.RequireAuth)
	apiAuth.PUT("/profile", auth.UpdateProfileHandler(db), middleware.RequireAuth)
	apiAuth.PUT("/password", auth.ChangePasswordHandler(db), middleware.RequireAuth)

	apiProducts := api.Group("/products")
	apiProducts.GET("", products.ListProductsHandler(db))
	apiProducts.GET("/categories", products.ListCategoriesHandler(db, rdb))
	apiProducts.GET("/category/:category", products.ListByCategoryHandler(db))
	apiProducts.GET("/:id", products.GetProductHandler(db))
	apiProducts.POST("", products.CreateProductHandler(db, rdb), middleware.RequireAdmin)
	apiProducts.PUT("/:id", products.UpdateProductHandler(db, rdb), middleware.RequireAdmin)
	apiProducts.DELETE("/:id", products.DeleteProductHandler(db, rdb), middleware.RequireAdmin)
	apiProducts.POST("/upload", products.UploadImageHandler(), middleware.RequireAdmin)

	apiCart := api.Group("/cart", middleware.RequireAuth)
	apiCart.GET("", cart.GetCartHandler(db))
	apiCart.POST("", cart.AddItemHandler(db))
	apiCart.DELETE("", cart.ClearCartHandler(db))
	apiCart.PUT("/items/:id", cart.UpdateItemHandler(db))
	apiCart.DELETE("/items/:id", cart.RemoveItemHandler(db))

	apiOrders := api.Group("/orders", middleware.RequireAuth)
	apiOrders.POST("", orders.CreateOrderHandler(db, wp, m))
	apiOrders.GET("", orders.ListOrdersHandler(db))
	apiOrders.GET("/:id", orders.GetOrderHandler(db))
	apiOrders.PUT("/:id/status", orders.UpdateOrderStatusHandler(db), middleware.RequireAdmin)
}
