package ports

import (
	"context"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

// AgentSource tags which resolution path produced a directory result, so the
// primary/fallback decision stays auditable.
type AgentSource string

const (
	SourcePrimary  AgentSource = "primary"
	SourceFallback AgentSource = "fallback"
)

// AgentsResult is the outcome of resolving a chef's agents.
type AgentsResult struct {
	Agents []domain.User
	Source AgentSource
}

// UserRepository defines read access to the user directory.
type UserRepository interface {
	// FindAgentsByChef is the chef-scoped backend lookup (primary path).
	FindAgentsByChef(ctx context.Context, chefID string) ([]domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// DirectoryService resolves organisational relationships.
type DirectoryService interface {
	// AgentsForChef returns the agents created by the given chef, trying the
	// chef-scoped lookup first and falling back to a full-directory scan
	// filtered by the chef's paired agent role.
	AgentsForChef(ctx context.Context, chefID string) (*AgentsResult, error)
	AllUsers(ctx context.Context) ([]domain.User, error)
}
