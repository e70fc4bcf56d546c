package handlers

import (
	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/f1report/middleware"
)

// Register mounts the API under /f1. Everything but signin requires a valid
// JWT in the Authorization header.
func (h *Handler) Register(e *echo.Echo) {
	// Public
	e.POST("/f1/signin", h.Signin)

	// Protected
	f1 := e.Group("/f1", mw.JWT(h.JWTKey))
	f1.GET("/seasons", h.Seasons)
	f1.GET("/wins", h.Wins)
	f1.GET("/months", h.Months)
	f1.GET("/nationalities", h.Nationalities)
	f1.GET("/charts/:report", h.Chart)
	f1.POST("/password-hash", h.PasswordHash)

	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
}
