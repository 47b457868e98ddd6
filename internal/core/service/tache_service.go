package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carthage-creance/recovery-api/internal/api/metrics"
	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// TaskNotifier delivers system notifications for task events.
type TaskNotifier interface {
	Deliver(ctx context.Context, input ports.SendNotificationInput) (*domain.Notification, error)
}

// TacheService manages urgent tasks: creation with assignee notification,
// compound filtering, and the derived overdue view.
type TacheService struct {
	repo      ports.TacheRepository
	users     ports.UserRepository
	directory ports.DirectoryService
	notifier  TaskNotifier
	logger    zerolog.Logger
}

func NewTacheService(repo ports.TacheRepository, users ports.UserRepository, directory ports.DirectoryService, notifier TaskNotifier, logger zerolog.Logger) *TacheService {
	return &TacheService{repo: repo, users: users, directory: directory, notifier: notifier, logger: logger}
}

// Create stores a new task and notifies the assignee. A missing titre,
// description or assignee is a silent no-op returning (nil, nil): the HTTP
// layer pre-validates, so a malformed input reaching this point is dropped
// rather than surfaced.
func (s *TacheService) Create(ctx context.Context, input ports.CreateTacheInput) (*domain.TacheUrgente, error) {
	if input.Titre == "" || input.Description == "" || input.AgentID == "" {
		s.logger.Warn().Str("titre", input.Titre).Str("agent_id", input.AgentID).Msg("tache create dropped: missing required field")
		return nil, nil
	}

	agent, err := s.users.FindByID(ctx, input.AgentID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn().Str("agent_id", input.AgentID).Msg("tache create dropped: assignee unresolved")
			return nil, nil
		}
		return nil, err
	}

	statut := input.Statut
	if statut == "" {
		statut = domain.TacheEnCours
	}
	priorite := input.Priorite
	if priorite == "" {
		priorite = domain.PrioriteMoyenne
	}

	t := &domain.TacheUrgente{
		ID:           uuid.NewString(),
		Titre:        input.Titre,
		Description:  input.Description,
		Type:         input.Type,
		Priorite:     priorite,
		Statut:       statut,
		AgentID:      agent.ID,
		AgentNom:     agent.FullName(),
		ChefID:       input.ChefID,
		DossierID:    input.DossierID,
		DateCreation: time.Now().UTC(),
		DateEcheance: input.DateEcheance,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error().Err(err).Str("titre", input.Titre).Msg("failed to create tache")
		return nil, err
	}

	metrics.TachesCreatedTotal.WithLabelValues(string(t.Priorite)).Inc()
	s.logger.Info().Str("tache_id", t.ID).Str("agent_id", t.AgentID).Str("priorite", string(t.Priorite)).Msg("tache created")

	if _, err := s.notifier.Deliver(ctx, ports.SendNotificationInput{
		DestinataireID: t.AgentID,
		Type:           domain.NotifTacheUrgente,
		Titre:          "Nouvelle tâche urgente",
		Message:        t.Titre,
		LienID:         t.ID,
		LienType:       "TACHE_URGENTE",
	}); err != nil {
		// the task exists either way; the next poll shows it
		s.logger.Warn().Err(err).Str("tache_id", t.ID).Msg("assignee notification failed")
	}

	return t, nil
}

func (s *TacheService) Get(ctx context.Context, id string) (*domain.TacheUrgente, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TacheService) Update(ctx context.Context, t *domain.TacheUrgente) error {
	return s.repo.Update(ctx, t)
}

func (s *TacheService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List applies the compound filter over the canonical most-recent-first
// list. The three conditions are independent; their order of application
// does not change the result.
func (s *TacheService) List(ctx context.Context, filter ports.TacheFilter) ([]domain.TacheUrgente, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TacheUrgente, 0, len(all))
	for _, t := range all {
		if matchesTache(t, filter) {
			out = append(out, t)
		}
	}
	return out, nil
}

func matchesTache(t domain.TacheUrgente, f ports.TacheFilter) bool {
	if f.Statut != "" && f.Statut != domain.FiltreTous && string(t.Statut) != f.Statut {
		return false
	}
	if f.Priorite != "" && f.Priorite != domain.FiltreTous && string(t.Priorite) != f.Priorite {
		return false
	}
	if f.Recherche != "" {
		q := strings.ToLower(f.Recherche)
		if !strings.Contains(strings.ToLower(t.Titre), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) &&
			!strings.Contains(strings.ToLower(t.AgentNom), q) {
			return false
		}
	}
	return true
}

// EnRetard projects the overdue tasks, recomputing the derived flag on read.
func (s *TacheService) EnRetard(ctx context.Context) ([]domain.TacheUrgente, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]domain.TacheUrgente, 0)
	for _, t := range all {
		if t.EnRetard(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Terminer completes a task on behalf of its assigned agent.
func (s *TacheService) Terminer(ctx context.Context, id, agentID string) (*domain.TacheUrgente, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Terminer(agentID, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info().Str("tache_id", id).Str("agent_id", agentID).Msg("tache terminee")
	return t, nil
}

// AssignerGroupe creates one task per agent in the set.
func (s *TacheService) AssignerGroupe(ctx context.Context, input ports.CreateTacheInput, agentIDs []string) ([]domain.TacheUrgente, error) {
	created := make([]domain.TacheUrgente, 0, len(agentIDs))
	for _, agentID := range agentIDs {
		one := input
		one.AgentID = agentID
		t, err := s.Create(ctx, one)
		if err != nil {
			return created, err
		}
		if t != nil {
			created = append(created, *t)
		}
	}
	return created, nil
}

// AssignerAgentsDuChef assigns the task to every agent of the given chef.
func (s *TacheService) AssignerAgentsDuChef(ctx context.Context, input ports.CreateTacheInput, chefID string) ([]domain.TacheUrgente, error) {
	result, err := s.directory.AgentsForChef(ctx, chefID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.Agents))
	for _, a := range result.Agents {
		ids = append(ids, a.ID)
	}
	return s.AssignerGroupe(ctx, input, ids)
}

// AssignerTous assigns the task to every user in the directory.
func (s *TacheService) AssignerTous(ctx context.Context, input ports.CreateTacheInput) ([]domain.TacheUrgente, error) {
	users, err := s.directory.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return s.AssignerGroupe(ctx, input, ids)
}
