package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/freshers-portal/backend/config"
	"github.com/freshers-portal/backend/controllers"
	"github.com/freshers-portal/backend/middleware"
	"github.com/freshers-portal/backend/repositories"
	"github.com/freshers-portal/backend/routes"
	"github.com/freshers-portal/backend/services"
	"github.com/freshers-portal/backend/utils"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (optional, backs OTP attempt limiting)
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	authDB := config.AuthDB(client)
	formDB := config.FormDB(client)

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Freshers portal backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories. Users and challenges live in the auth
	// database, votes and rosters in the form database.
	userRepo := repositories.NewUserRepository(authDB)
	otpRepo := repositories.NewOTPRepository(authDB)
	voteRepo := repositories.NewVoteRepository(formDB)
	profecerRepo := repositories.NewProfecerRepository(formDB)

	// Initialize services
	emailService := services.NewEmailService()
	otpService := services.NewOTPService(otpRepo, emailService, redisClient, otpWindow())
	otpService.StartCleanupRoutine(context.Background(), 5*time.Minute)

	rosterCache := utils.NewRosterCache(profecerRepo, 0)

	// Initialize controllers
	authController := controllers.NewAuthController(userRepo, otpService)
	userController := controllers.NewUserController(userRepo)
	voteController := controllers.NewVoteController(userRepo, voteRepo)
	profecerController := controllers.NewProfecerController(rosterCache)

	// Register routes
	routes.RegisterAuthRoutes(e, authController, userController)
	routes.RegisterVoteRoutes(e, voteController, profecerController)

	// Candidate and profecer images
	e.Static("/images", "images")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

// otpWindow reads the challenge validity window, default 10 minutes.
func otpWindow() time.Duration {
	if raw := os.Getenv("OTP_WINDOW"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
		log.Printf("Warning: invalid OTP_WINDOW %q, using default", raw)
	}
	return 10 * time.Minute
}
