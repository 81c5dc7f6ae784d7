// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"gatekeeper/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Account routes. Tokens travel in the body or query, never in headers.
	apiGroup := e.Group("/api")
	{
		apiGroup.POST("/register", r.accountHandler.Register)
		apiGroup.POST("/auth", r.accountHandler.Authenticate)
		apiGroup.GET("/status", r.accountHandler.Status)
		apiGroup.POST("/modify", r.accountHandler.Modify)
		apiGroup.POST("/delete", r.accountHandler.Delete)
	}
}
