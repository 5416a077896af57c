package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/freshers-portal/backend/controllers"
	"github.com/freshers-portal/backend/middleware"
)

// RegisterAuthRoutes sets up the authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, userController *controllers.UserController) {
	// Public authentication routes
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/send-otp", authController.SendOTP)
	e.POST("/api/auth/verify-otp", authController.VerifyOTP)
	e.POST("/api/auth/login", authController.Login)

	// Authenticated profile route
	authGroup := e.Group("/api/auth")
	authGroup.Use(middleware.JWTMiddleware())
	authGroup.GET("/me", userController.Me)
}
