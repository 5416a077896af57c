package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/freshers-portal/backend/models"
)

// UserRepository is the Mongo-backed CredentialStore. It lives in the auth
// database, which may be a different deployment than the vote database.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user record. The unique indexes on email and phone
// are the authoritative guard against duplicate signups; a pre-read check
// cannot close the race between two concurrent requests.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "phone") {
				return ErrPhoneExists
			}
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// MarkVerified flips the verification flag and clears any OTP leftovers.
// Idempotent: marking an already-verified user is a no-op.
func (r *UserRepository) MarkVerified(ctx context.Context, email string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"isVerified": true,
				"updatedAt":  time.Now(),
			},
			"$unset": bson.M{
				"otpInfo": "",
			},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
