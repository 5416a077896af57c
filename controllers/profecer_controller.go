package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freshers-portal/backend/models"
	"github.com/freshers-portal/backend/utils"
)

// ProfecerController serves the professor roster through the injected cache.
type ProfecerController struct {
	cache  *utils.RosterCache
	logger *log.Logger
}

func NewProfecerController(cache *utils.RosterCache) *ProfecerController {
	return &ProfecerController{
		cache:  cache,
		logger: log.New(os.Stdout, "[PROFECER] ", log.LstdFlags),
	}
}

// GetProfecers returns the roster; only the first request (or the first after
// a cache bust) touches the database.
func (pc *ProfecerController) GetProfecers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	profecers, err := pc.cache.Get(ctx)
	if err != nil {
		pc.logger.Printf("Failed to load profecer roster: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch profecers",
		})
	}

	if profecers == nil {
		profecers = []models.Profecer{}
	}
	return c.JSON(http.StatusOK, profecers)
}
