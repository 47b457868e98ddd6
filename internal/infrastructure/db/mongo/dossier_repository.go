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

const (
	collectionCreanciers = "creanciers"
	collectionDebiteurs  = "debiteurs"
	collectionDossiers   = "dossiers"
)

// DossierRepository persists créanciers, débiteurs and case files.
type DossierRepository struct {
	creanciers *mongo.Collection
	debiteurs  *mongo.Collection
	dossiers   *mongo.Collection
}

func NewDossierRepository(db *mongo.Database) *DossierRepository {
	return &DossierRepository{
		creanciers: db.Collection(collectionCreanciers),
		debiteurs:  db.Collection(collectionDebiteurs),
		dossiers:   db.Collection(collectionDossiers),
	}
}

func (r *DossierRepository) CreateCreancier(ctx context.Context, c *domain.Creancier) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.creanciers.InsertOne(ctx, c)
	return err
}

func (r *DossierRepository) FindCreanciers(ctx context.Context) ([]domain.Creancier, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.creanciers.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "nom", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]domain.Creancier, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DossierRepository) CreateDebiteur(ctx context.Context, d *domain.Debiteur) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.debiteurs.InsertOne(ctx, d)
	return err
}

func (r *DossierRepository) FindDebiteurs(ctx context.Context) ([]domain.Debiteur, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.debiteurs.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "nom", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]domain.Debiteur, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DossierRepository) CreateDossier(ctx context.Context, d *domain.Dossier) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.dossiers.InsertOne(ctx, d)
	return err
}

func (r *DossierRepository) FindDossiers(ctx context.Context) ([]domain.Dossier, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.dossiers.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date_creation", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]domain.Dossier, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DossierRepository) FindDossierByID(ctx context.Context, id string) (*domain.Dossier, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Dossier
	err := r.dossiers.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDossierNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DossierRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.dossiers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "numero", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "agent_id", Value: 1}}},
	})
	return err
}
