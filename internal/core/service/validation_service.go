package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carthage-creance/recovery-api/internal/api/metrics"
	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// ValidationService is the dossier validation workflow store. All mutation
// of validation records funnels through here; statistics are recomputed from
// the canonical collection on every read rather than patched incrementally.
type ValidationService struct {
	repo   ports.ValidationRepository
	logger zerolog.Logger
}

func NewValidationService(repo ports.ValidationRepository, logger zerolog.Logger) *ValidationService {
	return &ValidationService{repo: repo, logger: logger}
}

// Create registers a new validation in EN_ATTENTE for the submitted dossier.
func (s *ValidationService) Create(ctx context.Context, input ports.CreateValidationInput) (*domain.ValidationDossier, error) {
	now := time.Now().UTC()
	v := &domain.ValidationDossier{
		ID:            uuid.NewString(),
		DossierID:     input.DossierID,
		NumeroDossier: input.NumeroDossier,
		TitreDossier:  input.TitreDossier,
		AgentID:       input.AgentID,
		Statut:        domain.ValidationEnAttente,
		Commentaire:   input.Commentaire,
		DateCreation:  now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("dossier_id", input.DossierID).Msg("failed to create validation")
		return nil, err
	}

	s.logger.Info().Str("validation_id", v.ID).Str("dossier_id", v.DossierID).Str("agent_id", v.AgentID).Msg("validation created")
	return v, nil
}

func (s *ValidationService) Get(ctx context.Context, id string) (*domain.ValidationDossier, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ValidationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("validation_id", id).Msg("validation deleted")
	return nil
}

// Valider moves the record to VALIDE. Records not in EN_ATTENTE are refused
// with ErrValidationConflict and left untouched.
func (s *ValidationService) Valider(ctx context.Context, id, chefID, commentaire string) (*domain.ValidationDossier, error) {
	return s.decide(ctx, id, "valide", func(v *domain.ValidationDossier, now time.Time) error {
		return v.Valider(chefID, commentaire, now)
	})
}

// Rejeter moves the record to REJETE under the same guard as Valider.
func (s *ValidationService) Rejeter(ctx context.Context, id, chefID, commentaire string) (*domain.ValidationDossier, error) {
	return s.decide(ctx, id, "rejete", func(v *domain.ValidationDossier, now time.Time) error {
		return v.Rejeter(chefID, commentaire, now)
	})
}

func (s *ValidationService) decide(ctx context.Context, id, decision string, apply func(*domain.ValidationDossier, time.Time) error) (*domain.ValidationDossier, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(v, time.Now().UTC()); err != nil {
		metrics.ValidationConflictsTotal.Inc()
		s.logger.Warn().Str("validation_id", id).Str("statut", string(v.Statut)).Str("decision", decision).Msg("transition refused")
		return nil, err
	}

	if err := s.repo.Update(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("validation_id", id).Msg("failed to persist transition")
		return nil, err
	}

	metrics.ValidationTransitionsTotal.WithLabelValues(decision).Inc()
	s.logger.Info().Str("validation_id", id).Str("decision", decision).Str("chef_id", v.ChefValidateurID).Msg("validation decided")
	return v, nil
}

// RemettreEnAttente returns the record to EN_ATTENTE from any state.
func (s *ValidationService) RemettreEnAttente(ctx context.Context, id, commentaire string) (*domain.ValidationDossier, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v.RemettreEnAttente(commentaire, time.Now().UTC())

	if err := s.repo.Update(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("validation_id", id).Msg("failed to persist reset")
		return nil, err
	}

	metrics.ValidationTransitionsTotal.WithLabelValues("remise_en_attente").Inc()
	s.logger.Info().Str("validation_id", id).Msg("validation reset to pending")
	return v, nil
}

// List applies the combined filter as a read-only projection over the
// canonical collection.
func (s *ValidationService) List(ctx context.Context, filter ports.ValidationFilter) ([]domain.ValidationDossier, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ValidationDossier, 0, len(all))
	for _, v := range all {
		if matchesValidation(v, filter) {
			out = append(out, v)
		}
	}
	return out, nil
}

func matchesValidation(v domain.ValidationDossier, f ports.ValidationFilter) bool {
	if f.Statut != "" && v.Statut != f.Statut {
		return false
	}
	if f.AgentID != "" && v.AgentID != f.AgentID {
		return false
	}
	if f.ChefID != "" && v.ChefValidateurID != f.ChefID {
		return false
	}
	if !f.DateFrom.IsZero() && v.DateCreation.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && v.DateCreation.After(f.DateTo) {
		return false
	}
	if f.Recherche != "" {
		q := strings.ToLower(f.Recherche)
		if !strings.Contains(strings.ToLower(v.NumeroDossier), q) &&
			!strings.Contains(strings.ToLower(v.TitreDossier), q) {
			return false
		}
	}
	return true
}

func (s *ValidationService) ByAgent(ctx context.Context, agentID string) ([]domain.ValidationDossier, error) {
	return s.List(ctx, ports.ValidationFilter{AgentID: agentID})
}

func (s *ValidationService) ByChef(ctx context.Context, chefID string) ([]domain.ValidationDossier, error) {
	return s.List(ctx, ports.ValidationFilter{ChefID: chefID})
}

func (s *ValidationService) ByStatut(ctx context.Context, statut domain.StatutValidation) ([]domain.ValidationDossier, error) {
	return s.List(ctx, ports.ValidationFilter{Statut: statut})
}

// Stats folds the current collection into its statistics.
func (s *ValidationService) Stats(ctx context.Context) (domain.ValidationStats, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.ValidationStats{}, err
	}
	return domain.ComputeValidationStats(all), nil
}
