package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

const collectionValidations = "validations"

type ValidationRepository struct {
	col *mongo.Collection
}

func NewValidationRepository(db *mongo.Database) *ValidationRepository {
	return &ValidationRepository{col: db.Collection(collectionValidations)}
}

func (r *ValidationRepository) Create(ctx context.Context, v *domain.ValidationDossier) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, v)
	return err
}

func (r *ValidationRepository) FindByID(ctx context.Context, id string) (*domain.ValidationDossier, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.ValidationDossier
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrValidationNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindAll returns the full collection, most recent first. Filtering happens
// in the service so the stats fold and the list views read the same snapshot.
func (r *ValidationRepository) FindAll(ctx context.Context) ([]domain.ValidationDossier, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date_creation", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]domain.ValidationDossier, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ValidationRepository) Update(ctx context.Context, v *domain.ValidationDossier) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrValidationNotFound
	}
	return nil
}

func (r *ValidationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrValidationNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the per-agent and per-chef views.
func (r *ValidationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "agent_id", Value: 1}}},
		{Keys: bson.D{{Key: "chef_validateur_id", Value: 1}}},
		{Keys: bson.D{{Key: "statut", Value: 1}}},
		{Keys: bson.D{{Key: "date_creation", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
