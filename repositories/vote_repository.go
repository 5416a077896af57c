package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freshers-portal/backend/models"
)

// VoteRepository is the Mongo-backed BallotLedger. Votes and the votesection
// roster live in the form database, separate from the auth database.
type VoteRepository struct {
	votes      *mongo.Collection
	candidates *mongo.Collection
}

func NewVoteRepository(db *mongo.Database) *VoteRepository {
	return &VoteRepository{
		votes:      db.Collection("votes"),
		candidates: db.Collection("votesection"),
	}
}

// CastVote records a ballot and bumps the candidate tally. The vote insert is
// the commit point: the unique index on votes.email rejects a second ballot
// even when two requests race past HasVoted. The tally increment comes after
// and can be recomputed from the votes collection if the process dies between
// the two writes.
func (r *VoteRepository) CastVote(ctx context.Context, vote *models.Vote) error {
	count, err := r.candidates.CountDocuments(ctx, bson.M{"enrollmentnum": vote.EnrollmentNum})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUnknownCandidate
	}

	vote.CastAt = time.Now()
	_, err = r.votes.InsertOne(ctx, vote)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyVoted
		}
		return err
	}

	_, err = r.candidates.UpdateOne(ctx,
		bson.M{"enrollmentnum": vote.EnrollmentNum},
		bson.M{"$inc": bson.M{"votes": 1}},
	)
	return err
}

func (r *VoteRepository) HasVoted(ctx context.Context, email string) (bool, error) {
	count, err := r.votes.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *VoteRepository) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	cursor, err := r.candidates.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var candidates []models.Candidate
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// TopCandidates returns the n highest tallies. Ties keep insertion order;
// the source never defined a tie-break so none is imposed here.
func (r *VoteRepository) TopCandidates(ctx context.Context, n int) ([]models.Candidate, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "votes", Value: -1}}).
		SetLimit(int64(n))

	cursor, err := r.candidates.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var candidates []models.Candidate
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}
