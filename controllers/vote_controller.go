package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/freshers-portal/backend/models"
	"github.com/freshers-portal/backend/repositories"
	"github.com/freshers-portal/backend/utils"
)

const topCandidateCount = 5

// VoteController serves the votesection roster and the ballot endpoints.
type VoteController struct {
	users   repositories.CredentialStore
	ballots repositories.BallotLedger
	logger  *log.Logger
}

func NewVoteController(users repositories.CredentialStore, ballots repositories.BallotLedger) *VoteController {
	return &VoteController{
		users:   users,
		ballots: ballots,
		logger:  log.New(os.Stdout, "[VOTE] ", log.LstdFlags),
	}
}

// GetStudents returns the full candidate roster. The frontend expects a bare
// array here, matching the original API.
func (vc *VoteController) GetStudents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	candidates, err := vc.ballots.ListCandidates(ctx)
	if err != nil {
		vc.logger.Printf("Failed to list candidates: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch students",
		})
	}

	if candidates == nil {
		candidates = []models.Candidate{}
	}
	return c.JSON(http.StatusOK, candidates)
}

// CastVote records a ballot for a verified student. One vote per email; the
// ledger's unique index is the final arbiter, not the pre-checks here.
func (vc *VoteController) CastVote(c echo.Context) error {
	var req models.VoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.EnrollmentNum == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and enrollment number are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	enrollment := utils.SanitizeInput(req.EnrollmentNum)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	voter, err := vc.users.FindByEmail(ctx, email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check voter",
		})
	}

	if !voter.IsVerified {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email not verified",
		})
	}

	vote := &models.Vote{
		ReceiptID:     uuid.NewString(),
		Email:         email,
		EnrollmentNum: enrollment,
	}

	if err := vc.ballots.CastVote(ctx, vote); err != nil {
		switch err {
		case repositories.ErrAlreadyVoted:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Already voted",
			})
		case repositories.ErrUnknownCandidate:
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Candidate not found",
			})
		}
		vc.logger.Printf("Failed to cast vote for %s: %v", utils.MaskEmail(email), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Vote failed",
		})
	}

	vc.logger.Printf("Vote recorded for %s -> %s", utils.MaskEmail(email), enrollment)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Vote successful",
		Data: map[string]interface{}{
			"receiptId": vote.ReceiptID,
		},
	})
}

// VoteStatus reports whether an email has already voted.
func (vc *VoteController) VoteStatus(c echo.Context) error {
	email, err := utils.SanitizeEmail(c.Param("email"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	hasVoted, err := vc.ballots.HasVoted(ctx, email)
	if err != nil {
		vc.logger.Printf("Failed to check vote status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check vote status",
		})
	}

	return c.JSON(http.StatusOK, models.VoteStatusResponse{HasVoted: hasVoted})
}

// TopStudents returns the leaderboard, highest tallies first.
func (vc *VoteController) TopStudents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	candidates, err := vc.ballots.TopCandidates(ctx, topCandidateCount)
	if err != nil {
		vc.logger.Printf("Failed to fetch top candidates: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch top students",
		})
	}

	if candidates == nil {
		candidates = []models.Candidate{}
	}
	return c.JSON(http.StatusOK, candidates)
}
