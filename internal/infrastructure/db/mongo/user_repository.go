package mongo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository backs both authentication and the agent directory on the
// same collection. Legacy documents imported from the previous system carry
// the creating chef's id under inconsistent field names and mixed types, so
// the mapper keeps every unmapped field in an inline map.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID             any            `bson:"_id,omitempty"`
	Username       string         `bson:"username"`
	Email          string         `bson:"email,omitempty"`
	Nom            string         `bson:"nom,omitempty"`
	Prenom         string         `bson:"prenom,omitempty"`
	PasswordHash   string         `bson:"password_hash,omitempty"`
	Role           string         `bson:"role"`
	ChefCreateurID any            `bson:"chef_createur_id,omitempty"`
	CreatedAt      time.Time      `bson:"created_at,omitempty"`
	UpdatedAt      time.Time      `bson:"updated_at,omitempty"`
	Extra          map[string]any `bson:",inline"`
}

func (d *userDoc) toDomain() *domain.User {
	role, _ := domain.RoleFromAuthority(d.Role)
	return &domain.User{
		ID:             stringID(d.ID),
		Username:       d.Username,
		Email:          d.Email,
		Nom:            d.Nom,
		Prenom:         d.Prenom,
		PasswordHash:   d.PasswordHash,
		Role:           role,
		ChefCreateurID: stringID(d.ChefCreateurID),
		Extra:          d.Extra,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// --- ports.AuthRepository ---

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		ID:             uuid.NewString(),
		Username:       user.Username,
		Email:          user.Email,
		Nom:            user.Nom,
		Prenom:         user.Prenom,
		PasswordHash:   user.PasswordHash,
		Role:           string(user.Role),
		ChefCreateurID: user.ChefCreateurID,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	if doc.ChefCreateurID == "" {
		doc.ChefCreateurID = nil
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = doc.ID.(string)
	return &created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": bson.M{"$in": idVariants(id)}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// --- ports.UserRepository ---

// FindAgentsByChef is the chef-scoped lookup: it matches the creator-chef id
// against the canonical field and every legacy variant, in string and numeric
// form. Callers still re-filter the result.
func (r *UserRepository) FindAgentsByChef(ctx context.Context, chefID string) ([]domain.User, error) {
	variants := idVariants(chefID)
	or := bson.A{bson.M{"chef_createur_id": bson.M{"$in": variants}}}
	for _, name := range []string{"chefCreateurId", "chefCreateur", "chefId", "createdBy", "idChef"} {
		or = append(or, bson.M{name: bson.M{"$in": variants}})
	}
	return r.findMany(ctx, bson.M{"$or": or})
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *UserRepository) findMany(ctx context.Context, filter bson.M) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.User, 0)
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		out = append(out, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "chef_createur_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// stringID renders whatever the _id or a creator-id field holds as a string.
func stringID(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// idVariants returns every stored representation a string id may have:
// the string itself, its numeric forms when parseable, and its ObjectID form
// when it is a valid hex id.
func idVariants(id string) bson.A {
	variants := bson.A{id}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		variants = append(variants, n, int32(n), float64(n))
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		variants = append(variants, oid)
	}
	return variants
}
