package repositories

import (
	"context"

	"github.com/freshers-portal/backend/models"
)

// CredentialStore owns user records. Uniqueness of email and phone is
// enforced by the storage layer; CreateUser reports a violation as
// ErrEmailExists / ErrPhoneExists regardless of any earlier existence check.
type CredentialStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	MarkVerified(ctx context.Context, email string) error
}

// ChallengeStore holds pending signup challenges, at most one per email.
type ChallengeStore interface {
	Put(ctx context.Context, otp *models.EmailOTP) error
	Get(ctx context.Context, email string) (*models.EmailOTP, error)
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// BallotLedger enforces one-vote-per-email and keeps per-candidate tallies.
type BallotLedger interface {
	CastVote(ctx context.Context, vote *models.Vote) error
	HasVoted(ctx context.Context, email string) (bool, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	TopCandidates(ctx context.Context, n int) ([]models.Candidate, error)
}

// RosterStore reads the professor roster.
type RosterStore interface {
	ListProfecers(ctx context.Context) ([]models.Profecer, error)
}
