package api

import (
	"github.com/gin-gonic/gin"

	"github.com/woofadaar/server/config"
	"github.com/woofadaar/server/internal/api/handler"
	"github.com/woofadaar/server/internal/api/middleware"
	"github.com/woofadaar/server/internal/repository"
)

type Router struct {
	authHandler         *handler.AuthHandler
	couponHandler       *handler.CouponHandler
	subscriptionHandler *handler.SubscriptionHandler
	adminHandler        *handler.AdminHandler
	userRepo            *repository.UserRepository
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	couponHandler *handler.CouponHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	adminHandler *handler.AdminHandler,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		couponHandler:       couponHandler,
		subscriptionHandler: subscriptionHandler,
		adminHandler:        adminHandler,
		userRepo:            userRepo,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// Public
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// Authenticated
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.GET("/user/profile", r.authHandler.GetProfile)

			coupons := authenticated.Group("/coupons")
			{
				coupons.POST("/validate", r.couponHandler.Validate)
				coupons.POST("/apply", r.couponHandler.Apply)
				coupons.GET("/available", r.couponHandler.ListAvailable)
			}

			subscriptions := authenticated.Group("/subscriptions")
			{
				subscriptions.POST("", r.subscriptionHandler.Purchase)
				subscriptions.GET("/current", r.subscriptionHandler.GetCurrent)
			}
		}

		// Admin
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret))
		admin.Use(middleware.AdminOnly(r.userRepo))
		{
			admin.POST("/coupons", r.adminHandler.CreateCoupon)
			admin.GET("/coupons", r.adminHandler.ListCoupons)
			admin.PUT("/coupons/:id/status", r.adminHandler.UpdateCouponStatus)
			admin.GET("/coupons/:id/usages", r.adminHandler.ListCouponUsages)
		}
	}

	return engine
}
