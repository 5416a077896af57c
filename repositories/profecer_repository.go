package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freshers-portal/backend/models"
)

// ProfecerRepository reads the professor roster from the form database.
// Callers go through the roster cache, so this is hit once per cache fill.
type ProfecerRepository struct {
	collection *mongo.Collection
}

func NewProfecerRepository(db *mongo.Database) *ProfecerRepository {
	return &ProfecerRepository{
		collection: db.Collection("profecerinfo"),
	}
}

func (r *ProfecerRepository) ListProfecers(ctx context.Context) ([]models.Profecer, error) {
	opts := options.Find().SetProjection(bson.M{
		"name":   1,
		"role":   1,
		"imgsrc": 1,
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profecers []models.Profecer
	if err := cursor.All(ctx, &profecers); err != nil {
		return nil, err
	}
	return profecers, nil
}
