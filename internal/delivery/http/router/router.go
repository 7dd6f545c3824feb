// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"nearby/internal/delivery/http/middleware"
	"nearby/internal/delivery/http/router/handler"
	"nearby/internal/domain/entity"
	"nearby/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ProfileHandler *handler.ProfileHandler
	ServiceHandler *handler.ServiceHandler
	BookingHandler *handler.BookingHandler
	ReviewHandler  *handler.ReviewHandler
	AuthMiddleware *middleware.AuthMiddleware
	Collector      metrics.Collector
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	profileHandler *handler.ProfileHandler
	serviceHandler *handler.ServiceHandler
	bookingHandler *handler.BookingHandler
	reviewHandler  *handler.ReviewHandler
	authMiddleware *middleware.AuthMiddleware
	collector      metrics.Collector
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		profileHandler: params.ProfileHandler,
		serviceHandler: params.ServiceHandler,
		bookingHandler: params.BookingHandler,
		reviewHandler:  params.ReviewHandler,
		authMiddleware: params.AuthMiddleware,
		collector:      params.Collector,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Prometheus scrape endpoint, only when the live collector is wired
	if collector, ok := r.collector.(*metrics.PrometheusCollector); ok {
		e.GET("/metrics", echo.WrapHandler(collector.Handler()))
	}

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
		authGroup.GET("/google", r.userHandler.GoogleLogin)
		authGroup.GET("/google/callback", r.userHandler.GoogleCallback)
	}

	// Public catalog routes
	e.GET("/services", r.serviceHandler.GetAllServices)
	e.GET("/services/:id", r.serviceHandler.GetServiceByID)
	e.GET("/services/:id/qr", r.serviceHandler.ServiceQR)
	e.GET("/services/:id/reviews", r.reviewHandler.GetServiceReviews)
	e.GET("/providers/:id/reviews", r.reviewHandler.GetProviderReviews)
	e.GET("/categories", r.serviceHandler.ListCategories)

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate) // Apply JWT authentication middleware
	{
		userGroup.GET("/me", r.userHandler.Me)
		userGroup.GET("/profile", r.profileHandler.GetProfile)
		userGroup.PUT("/profile", r.profileHandler.UpdateProfile)
		userGroup.POST("/profile/image", r.profileHandler.UploadProfileImage)
		userGroup.DELETE("/profile/image", r.profileHandler.DeleteProfileImage)
		userGroup.GET("/bookings", r.bookingHandler.GetUserBookings)
		userGroup.POST("/bookings", r.bookingHandler.CreateBooking)
		userGroup.PATCH("/bookings/:id/status", r.bookingHandler.UpdateBookingStatus)
		userGroup.GET("/bookings/:id/review", r.reviewHandler.GetUserBookingReview)
		userGroup.POST("/reviews", r.reviewHandler.CreateReview)
		userGroup.GET("/reviews", r.reviewHandler.GetUserReviews)
		userGroup.PUT("/reviews/:id", r.reviewHandler.UpdateReview)
		userGroup.DELETE("/reviews/:id", r.reviewHandler.DeleteReview)
	}

	// Provider routes that require authentication and the "provider" role
	providerGroup := e.Group("/provider")
	providerGroup.Use(r.authMiddleware.Authenticate)                             // First, check if logged in
	providerGroup.Use(r.authMiddleware.RequireRole(string(entity.RoleProvider))) // Then, check for the role
	{
		providerGroup.GET("/bookings", r.bookingHandler.GetProviderBookings)
		providerGroup.PATCH("/bookings/:id/status", r.bookingHandler.UpdateBookingStatus)
		providerGroup.GET("/services", r.serviceHandler.GetUserServices)
	}

	// Listing management requires authentication only: creating the first
	// listing is how a customer becomes a provider.
	serviceGroup := e.Group("/services")
	serviceGroup.Use(r.authMiddleware.Authenticate)
	{
		serviceGroup.POST("", r.serviceHandler.CreateService)
		serviceGroup.PUT("/:id", r.serviceHandler.UpdateService)
		serviceGroup.DELETE("/:id", r.serviceHandler.DeleteService)
	}
}
