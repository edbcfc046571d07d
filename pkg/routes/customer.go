package routes

import (
	"github.com/ahmed8601/kahramana-site/pkg/controllers/customer"
	"github.com/ahmed8601/kahramana-site/pkg/middleware"
	"github.com/ahmed8601/kahramana-site/pkg/storefront"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes
func RegisterStorefrontRoutes(router *gin.RouterGroup, registry *storefront.Registry, log *zap.Logger) {
	storefrontGroup := router.Group("/storefront")
	storefrontGroup.Use(middleware.LoadStorefront(registry, log))
	{
		// Menu
		storefrontGroup.GET("/menu", customer.GetMenu)
		storefrontGroup.GET("/menu/featured", customer.GetFeatured)

		// Session state
		storefrontGroup.GET("/state", customer.GetState)

		// Cart management
		storefrontGroup.POST("/cart/items", customer.AddCartItem)
		storefrontGroup.PATCH("/cart/items/:itemId", customer.UpdateCartItem)
		storefrontGroup.POST("/cart/open", customer.OpenCart)
		storefrontGroup.POST("/cart/close", customer.CloseCart)

		// Checkout
		storefrontGroup.POST("/checkout/open", customer.OpenCheckout)
		storefrontGroup.POST("/checkout/close", customer.CloseCheckout)
		storefrontGroup.PUT("/checkout/customer", customer.UpdateCustomer)
		storefrontGroup.POST("/checkout/submit", customer.SubmitOrder)

		// Order progress
		storefrontGroup.GET("/progress", customer.GetProgress)
		storefrontGroup.DELETE("/progress", customer.DismissProgress)
	}
}
