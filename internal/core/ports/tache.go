package ports

import (
	"context"
	"time"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

// TacheFilter composes three independent, all-must-match conditions.
// Recherche is a case-insensitive substring over titre, description and the
// assigned agent's name; Statut and Priorite are exact matches disabled by
// the TOUS sentinel or an empty value.
type TacheFilter struct {
	Recherche string
	Statut    string
	Priorite  string
}

// CreateTacheInput carries the data a chef submits when assigning a task.
type CreateTacheInput struct {
	Titre        string
	Description  string
	Type         domain.TypeTache
	Priorite     domain.PrioriteTache
	Statut       domain.StatutTache
	AgentID      string
	ChefID       string
	DossierID    string
	DateEcheance time.Time
}

// TacheRepository defines persistence for urgent tasks. FindAll returns the
// canonical list most-recent-first.
type TacheRepository interface {
	Create(ctx context.Context, t *domain.TacheUrgente) error
	FindByID(ctx context.Context, id string) (*domain.TacheUrgente, error)
	FindAll(ctx context.Context) ([]domain.TacheUrgente, error)
	FindByAgent(ctx context.Context, agentID string) ([]domain.TacheUrgente, error)
	Update(ctx context.Context, t *domain.TacheUrgente) error
	Delete(ctx context.Context, id string) error
}

// TacheService manages urgent tasks and their derived views.
type TacheService interface {
	// Create stores a new task and notifies the assignee. A missing required
	// field (titre, description, agent) is a silent no-op returning
	// (nil, nil); the transport layer pre-validates.
	Create(ctx context.Context, input CreateTacheInput) (*domain.TacheUrgente, error)
	Get(ctx context.Context, id string) (*domain.TacheUrgente, error)
	Update(ctx context.Context, t *domain.TacheUrgente) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter TacheFilter) ([]domain.TacheUrgente, error)
	EnRetard(ctx context.Context) ([]domain.TacheUrgente, error)
	Terminer(ctx context.Context, id, agentID string) (*domain.TacheUrgente, error)

	AssignerGroupe(ctx context.Context, input CreateTacheInput, agentIDs []string) ([]domain.TacheUrgente, error)
	AssignerAgentsDuChef(ctx context.Context, input CreateTacheInput, chefID string) ([]domain.TacheUrgente, error)
	AssignerTous(ctx context.Context, input CreateTacheInput) ([]domain.TacheUrgente, error)
}
