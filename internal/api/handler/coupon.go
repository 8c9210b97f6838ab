package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/woofadaar/server/internal/api/middleware"
	"github.com/woofadaar/server/internal/model/dto"
	"github.com/woofadaar/server/internal/pkg/response"
	"github.com/woofadaar/server/internal/service"
)

type CouponHandler struct {
	couponService *service.CouponService
}

func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// Validate checks a code without consuming it. Rejections come back as data
// (valid=false plus a reason), not as errors.
// POST /api/v1/coupons/validate
func (h *CouponHandler) Validate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.couponService.Validate(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, result)
}

// Apply redeems a code and records usage.
// POST /api/v1/coupons/apply
func (h *CouponHandler) Apply(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.couponService.Apply(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrOrderAlreadyUsed) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, result)
}

// ListAvailable returns the coupons the user could redeem right now.
// GET /api/v1/coupons/available?plan_id=&order_amount=
func (h *CouponHandler) ListAvailable(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	planID := c.Query("plan_id")

	orderAmount := 0.0
	if raw := c.Query("order_amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			response.ParamError(c, "invalid order_amount")
			return
		}
		orderAmount = parsed
	}

	coupons, err := h.couponService.ListAvailable(userID, planID, orderAmount)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, coupons)
}
