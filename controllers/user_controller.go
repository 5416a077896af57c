package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freshers-portal/backend/middleware"
	"github.com/freshers-portal/backend/models"
	"github.com/freshers-portal/backend/repositories"
)

// UserController serves authenticated account endpoints.
type UserController struct {
	users repositories.CredentialStore
}

func NewUserController(users repositories.CredentialStore) *UserController {
	return &UserController{users: users}
}

// Me returns the profile behind the presented session token.
func (uc *UserController) Me(c echo.Context) error {
	email := middleware.ExtractEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load user",
		})
	}

	// Never echo the credential hash
	user.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OK",
		Data:    user,
	})
}
