package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/woofadaar/server/internal/api/middleware"
	"github.com/woofadaar/server/internal/model/dto"
	"github.com/woofadaar/server/internal/pkg/response"
	"github.com/woofadaar/server/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Purchase opens a subscription, optionally redeeming a coupon.
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.PurchaseSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.subscriptionService.Purchase(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPlan):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrCouponRejected):
			// Carries the coupon's own rejection message so checkout can
			// tell the user exactly why.
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, result)
}

// GetCurrent returns the active subscription.
// GET /api/v1/subscriptions/current
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	sub, err := h.subscriptionService.GetCurrent(userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSubscription) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, sub)
}
