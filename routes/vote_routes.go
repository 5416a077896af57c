package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/freshers-portal/backend/controllers"
)

// RegisterVoteRoutes sets up the votesection and profecer routes. These stay
// public: the ballot ledger itself enforces voter verification.
func RegisterVoteRoutes(e *echo.Echo, voteController *controllers.VoteController, profecerController *controllers.ProfecerController) {
	e.GET("/students", voteController.GetStudents)
	e.GET("/students/top", voteController.TopStudents)
	e.POST("/vote", voteController.CastVote)
	e.GET("/vote/status/:email", voteController.VoteStatus)
	e.GET("/profecers", profecerController.GetProfecers)
}
