package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freshers-portal/backend/models"
)

// OTPRepository stores pending signup challenges in the auth database.
// The replace-upsert keyed on email keeps the single-challenge-per-email
// invariant: reissuing silently invalidates the previous code.
type OTPRepository struct {
	collection *mongo.Collection
}

func NewOTPRepository(db *mongo.Database) *OTPRepository {
	return &OTPRepository{
		collection: db.Collection("email_otps"),
	}
}

func (r *OTPRepository) Put(ctx context.Context, otp *models.EmailOTP) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"email": otp.Email}, otp, opts)
	return err
}

func (r *OTPRepository) Get(ctx context.Context, email string) (*models.EmailOTP, error) {
	var otp models.EmailOTP
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&otp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}
	return &otp, nil
}

func (r *OTPRepository) Delete(ctx context.Context, email string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"email": email})
	return err
}

// DeleteExpired removes stale challenges. The TTL index on expiresAt does the
// same eventually; this keeps the cleanup loop's sweep deterministic.
func (r *OTPRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"expiresAt": bson.M{"$lt": time.Now()},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
