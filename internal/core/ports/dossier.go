package ports

import (
	"context"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

// CreateDossierInput carries the data needed to open a case file.
type CreateDossierInput struct {
	Titre       string
	Montant     float64
	CreancierID string
	DebiteurID  string
	AgentID     string
}

// DossierRepository defines persistence for case files and parties.
type DossierRepository interface {
	CreateCreancier(ctx context.Context, c *domain.Creancier) error
	FindCreanciers(ctx context.Context) ([]domain.Creancier, error)
	CreateDebiteur(ctx context.Context, d *domain.Debiteur) error
	FindDebiteurs(ctx context.Context) ([]domain.Debiteur, error)
	CreateDossier(ctx context.Context, d *domain.Dossier) error
	FindDossiers(ctx context.Context) ([]domain.Dossier, error)
	FindDossierByID(ctx context.Context, id string) (*domain.Dossier, error)
}

// DossierService manages créanciers, débiteurs and case files.
type DossierService interface {
	CreateCreancier(ctx context.Context, c domain.Creancier) (*domain.Creancier, error)
	ListCreanciers(ctx context.Context) ([]domain.Creancier, error)
	CreateDebiteur(ctx context.Context, d domain.Debiteur) (*domain.Debiteur, error)
	ListDebiteurs(ctx context.Context) ([]domain.Debiteur, error)
	CreateDossier(ctx context.Context, input CreateDossierInput) (*domain.Dossier, error)
	ListDossiers(ctx context.Context) ([]domain.Dossier, error)
	GetDossier(ctx context.Context, id string) (*domain.Dossier, error)
}
