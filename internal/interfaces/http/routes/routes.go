// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// Handlers groups the API handlers mounted under /api/v1
type Handlers struct {
	Product  *handlers.ProductHandler
	Review   *handlers.ReviewHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Order    *handlers.OrderHandler
}

// SetupProductRoutes sets up catalog, promotion and review routes
func SetupProductRoutes(rg *gin.RouterGroup, h *Handlers, validator middleware.TokenValidator) {
	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(validator))
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/search", h.Product.SearchProducts)
		products.GET("/categories", h.Product.GetCategories)
		products.GET("/:id", h.Product.GetProduct)
		products.GET("/:id/reviews", h.Review.GetProductReviews)
		products.POST("/:id/reviews", middleware.AuthMiddleware(validator), h.Review.CreateReview)
	}

	promotions := rg.Group("/promotions")
	{
		promotions.GET("/active", h.Product.GetActivePromotions)
	}
}

// SetupCartRoutes sets up session cart routes
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	cart := rg.Group("/cart")
	cart.Use(middleware.Session(cfg.Cart.SessionCookie, cfg.Cart.SessionTTL, cfg.IsProduction()))
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items/:productId", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:productId", h.Cart.RemoveFromCart)
		cart.POST("/toggle", h.Cart.ToggleCart)
		cart.DELETE("", h.Cart.ClearCart)
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, h *Handlers, validator middleware.TokenValidator, cfg *config.Config) {
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.Session(cfg.Cart.SessionCookie, cfg.Cart.SessionTTL, cfg.IsProduction()))
	checkout.Use(middleware.AuthMiddleware(validator))
	{
		checkout.GET("/summary", h.Checkout.GetCheckoutSummary)
		checkout.POST("", h.Checkout.PlaceOrder)
	}
}

// SetupOrderRoutes sets up order history routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers, validator middleware.TokenValidator) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(validator))
	{
		orders.GET("", h.Order.GetOrders)
		orders.GET("/pending", h.Order.GetPendingOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.PUT("/:id/cancel", h.Order.CancelOrder)
		orders.POST("/:id/pay", h.Order.PayOrder)
		orders.GET("/:id/receipt", h.Order.DownloadReceipt)
	}
}

// SetupRoutes mounts every API route group
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, validator middleware.TokenValidator, cfg *config.Config) {
	SetupProductRoutes(rg, h, validator)
	SetupCartRoutes(rg, h, cfg)
	SetupCheckoutRoutes(rg, h, validator, cfg)
	SetupOrderRoutes(rg, h, validator)
}
