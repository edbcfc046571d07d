package customer

import (
	"context"
	"net/http"

	"github.com/ahmed8601/kahramana-site/pkg/middleware"
	"github.com/ahmed8601/kahramana-site/pkg/models"
	"github.com/ahmed8601/kahramana-site/pkg/storefront"
	"github.com/ahmed8601/kahramana-site/pkg/utils"

	"github.com/gin-gonic/gin"
)

// getStorefront returns the session controller set by LoadStorefront
func getStorefront(c *gin.Context) (*storefront.Controller, bool) {
	value, exists := c.Get(middleware.ContextStorefront)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Session not found.")
		return nil, false
	}

	ctrl, ok := value.(*storefront.Controller)
	if !ok || ctrl == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid session data.")
		return nil, false
	}
	return ctrl, true
}

// requestContext detaches persistence writes from client disconnects
func requestContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// GetMenu lists menu items, optionally filtered by category and search text
func GetMenu(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	category := models.Category(c.DefaultQuery("category", string(models.CategoryAll)))
	if !category.Valid() {
		utils.BadRequestResponse(c, "Invalid category: must be all, main or grill")
		return
	}

	utils.SuccessResponseWithData(c, gin.H{"items": ctrl.Menu(category, c.Query("q"))})
}

// GetFeatured lists the featured menu items
func GetFeatured(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	utils.SuccessResponseWithData(c, gin.H{"items": ctrl.Featured()})
}

// GetState returns everything the page renders for the session
func GetState(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	utils.SuccessResponseWithData(c, ctrl.View())
}
