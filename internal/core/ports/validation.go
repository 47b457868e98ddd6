package ports

import (
	"context"
	"time"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

// ValidationFilter carries the combined query for listing validations.
// Zero-valued fields are disabled. The free-text Recherche matches the
// dossier number or title, case-insensitive substring.
type ValidationFilter struct {
	Statut    domain.StatutValidation
	AgentID   string
	ChefID    string
	DateFrom  time.Time
	DateTo    time.Time
	Recherche string
}

// CreateValidationInput carries the data an agent submits with a dossier.
type CreateValidationInput struct {
	DossierID     string
	NumeroDossier string
	TitreDossier  string
	AgentID       string
	Commentaire   string
}

// ValidationRepository defines persistence for dossier validations.
type ValidationRepository interface {
	Create(ctx context.Context, v *domain.ValidationDossier) error
	FindByID(ctx context.Context, id string) (*domain.ValidationDossier, error)
	FindAll(ctx context.Context) ([]domain.ValidationDossier, error)
	Update(ctx context.Context, v *domain.ValidationDossier) error
	Delete(ctx context.Context, id string) error
}

// ValidationService is the dossier validation workflow store.
type ValidationService interface {
	Create(ctx context.Context, input CreateValidationInput) (*domain.ValidationDossier, error)
	Get(ctx context.Context, id string) (*domain.ValidationDossier, error)
	Delete(ctx context.Context, id string) error

	Valider(ctx context.Context, id, chefID, commentaire string) (*domain.ValidationDossier, error)
	Rejeter(ctx context.Context, id, chefID, commentaire string) (*domain.ValidationDossier, error)
	RemettreEnAttente(ctx context.Context, id, commentaire string) (*domain.ValidationDossier, error)

	List(ctx context.Context, filter ValidationFilter) ([]domain.ValidationDossier, error)
	ByAgent(ctx context.Context, agentID string) ([]domain.ValidationDossier, error)
	ByChef(ctx context.Context, chefID string) ([]domain.ValidationDossier, error)
	ByStatut(ctx context.Context, statut domain.StatutValidation) ([]domain.ValidationDossier, error)
	Stats(ctx context.Context) (domain.ValidationStats, error)
}
