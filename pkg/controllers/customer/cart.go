package customer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ahmed8601/kahramana-site/pkg/cart"
	"github.com/ahmed8601/kahramana-site/pkg/storefront"
	"github.com/ahmed8601/kahramana-site/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AddCartItem puts one more of an item in the cart
func AddCartItem(c *gin.Context) {
	var req struct {
		ItemID int `json:"itemId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input: itemId is required")
		return
	}

	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	if err := ctrl.AddItem(requestContext(c), req.ItemID); err != nil {
		cartError(c, err)
		return
	}

	utils.SuccessResponse(c, ctrl.View(), "Product added to cart")
}

// UpdateCartItem changes the quantity of an item by delta; the item is
// removed once its quantity reaches zero
func UpdateCartItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid itemId")
		return
	}

	var req struct {
		Delta int `json:"delta" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input: non-zero delta is required")
		return
	}

	if req.Delta > cart.MaxQuantity || req.Delta < -cart.MaxQuantity {
		utils.BadRequestResponse(c, "Invalid input: delta out of range")
		return
	}

	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	if err := ctrl.ChangeQuantity(requestContext(c), itemID, req.Delta); err != nil {
		cartError(c, err)
		return
	}

	utils.SuccessResponseWithData(c, ctrl.View())
}

// OpenCart shows the cart panel
func OpenCart(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	ctrl.OpenCart()
	utils.SuccessResponseWithData(c, ctrl.View())
}

// CloseCart hides the cart panel and the checkout form
func CloseCart(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	ctrl.CloseCart()
	utils.SuccessResponseWithData(c, ctrl.View())
}

func cartError(c *gin.Context, err error) {
	if errors.Is(err, storefront.ErrUnknownItem) {
		_ = c.Error(err).SetMeta(http.StatusNotFound)
		return
	}
	_ = c.Error(err).SetMeta(http.StatusInternalServerError)
}
