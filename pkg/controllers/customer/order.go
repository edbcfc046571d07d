package customer

import (
	"context"
	"errors"
	"net/http"

	"github.com/ahmed8601/kahramana-site/pkg/checkout"
	"github.com/ahmed8601/kahramana-site/pkg/models"
	"github.com/ahmed8601/kahramana-site/pkg/storefront"
	"github.com/ahmed8601/kahramana-site/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OpenCheckout shows the checkout form for a non-empty cart
func OpenCheckout(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	if !ctrl.OpenCheckout() {
		utils.ErrorResponseWithCode(c, http.StatusUnprocessableEntity,
			checkout.KindEmptyCart.String(), checkout.MsgEmptyCart, ctrl.View())
		return
	}

	utils.SuccessResponseWithData(c, ctrl.View())
}

// CloseCheckout returns from the checkout form to the cart
func CloseCheckout(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	ctrl.CloseCheckout()
	utils.SuccessResponseWithData(c, ctrl.View())
}

// UpdateCustomer replaces the checkout form fields
func UpdateCustomer(c *gin.Context) {
	var req struct {
		Name    string               `json:"name"`
		Phone   string               `json:"phone"`
		Address string               `json:"address"`
		Payment models.PaymentMethod `json:"payment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input")
		return
	}

	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	ctrl.SetCustomer(models.CustomerInfo{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Payment: req.Payment,
	})
	utils.SuccessResponseWithData(c, ctrl.View())
}

// SubmitOrder validates the checkout form and returns the WhatsApp link for
// the browser to open. With ?redirect=1 the response is a redirect to it.
func SubmitOrder(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	// The browser opens the link itself; handing it back counts as opened.
	accept := storefront.OpenerFunc(func(context.Context, string) error { return nil })

	result, err := ctrl.Submit(requestContext(c), accept)
	if err != nil {
		var ce *checkout.Error
		if !errors.As(err, &ce) {
			ce = checkout.Unexpected(err)
		}

		status := http.StatusUnprocessableEntity
		if ce.Kind == checkout.KindUnexpected {
			status = http.StatusInternalServerError
		}
		utils.ErrorResponseWithCode(c, status, ce.Kind.String(), ce.Message, ctrl.View())
		return
	}

	if c.Query("redirect") == "1" {
		c.Redirect(http.StatusSeeOther, result.Link)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"link":     result.Link,
		"progress": result.Progress,
		"state":    ctrl.View(),
	}, "Order sent")
}

// GetProgress returns the order progress display, if any
func GetProgress(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	progress, active := ctrl.Progress()
	if !active {
		utils.SuccessResponseWithData(c, gin.H{"progress": nil})
		return
	}

	utils.SuccessResponseWithData(c, gin.H{"progress": progress})
}

// DismissProgress hides the order progress display
func DismissProgress(c *gin.Context) {
	ctrl, ok := getStorefront(c)
	if !ok {
		return
	}

	ctrl.DismissProgress()
	utils.SuccessResponse(c, nil, "Progress dismissed")
}
