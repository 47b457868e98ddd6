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

const collectionTaches = "taches_urgentes"

type TacheRepository struct {
	col *mongo.Collection
}

func NewTacheRepository(db *mongo.Database) *TacheRepository {
	return &TacheRepository{col: db.Collection(collectionTaches)}
}

func (r *TacheRepository) Create(ctx context.Context, t *domain.TacheUrgente) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, t)
	return err
}

func (r *TacheRepository) FindByID(ctx context.Context, id string) (*domain.TacheUrgente, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.TacheUrgente
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTacheNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll returns every task, most recent first. This is the canonical
// ordering the list views and the poller rely on.
func (r *TacheRepository) FindAll(ctx context.Context) ([]domain.TacheUrgente, error) {
	return r.find(ctx, bson.M{})
}

func (r *TacheRepository) FindByAgent(ctx context.Context, agentID string) ([]domain.TacheUrgente, error) {
	return r.find(ctx, bson.M{"agent_id": agentID})
}

func (r *TacheRepository) find(ctx context.Context, filter bson.M) ([]domain.TacheUrgente, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date_creation", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]domain.TacheUrgente, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TacheRepository) Update(ctx context.Context, t *domain.TacheUrgente) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTacheNotFound
	}
	return nil
}

func (r *TacheRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTacheNotFound
	}
	return nil
}

func (r *TacheRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "agent_id", Value: 1}}},
		{Keys: bson.D{{Key: "date_creation", Value: -1}}},
		{Keys: bson.D{{Key: "date_echeance", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
