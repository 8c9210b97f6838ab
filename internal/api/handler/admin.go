package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/woofadaar/server/internal/model/dto"
	"github.com/woofadaar/server/internal/pkg/response"
	"github.com/woofadaar/server/internal/service"
)

// AdminHandler serves the coupon administration endpoints.
type AdminHandler struct {
	couponService *service.CouponService
}

func NewAdminHandler(couponService *service.CouponService) *AdminHandler {
	return &AdminHandler{
		couponService: couponService,
	}
}

// CreateCoupon registers a new code.
// POST /api/v1/admin/coupons
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var req dto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	coupon, err := h.couponService.CreateCoupon(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponExists),
			errors.Is(err, service.ErrInvalidCouponValue),
			errors.Is(err, service.ErrInvalidWindow):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "coupon created", coupon)
}

// ListCoupons pages through all coupons, active or not.
// GET /api/v1/admin/coupons?page=&page_size=
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	page, pageSize := pagination(c)

	coupons, total, err := h.couponService.ListCoupons(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, coupons)
}

// UpdateCouponStatus soft-disables or re-enables a coupon.
// PUT /api/v1/admin/coupons/:id/status
func (h *AdminHandler) UpdateCouponStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid coupon id")
		return
	}

	var req dto.UpdateCouponStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.couponService.SetCouponStatus(id, *req.IsActive); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "coupon status updated", nil)
}

// ListCouponUsages pages through a coupon's redemption ledger.
// GET /api/v1/admin/coupons/:id/usages?page=&page_size=
func (h *AdminHandler) ListCouponUsages(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid coupon id")
		return
	}

	page, pageSize := pagination(c)

	usages, total, err := h.couponService.ListUsages(id, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, usages)
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
