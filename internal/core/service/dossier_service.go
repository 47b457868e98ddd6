package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// DossierService manages créanciers, débiteurs and case files.
type DossierService struct {
	repo   ports.DossierRepository
	logger zerolog.Logger
}

func NewDossierService(repo ports.DossierRepository, logger zerolog.Logger) *DossierService {
	return &DossierService{repo: repo, logger: logger}
}

func (s *DossierService) CreateCreancier(ctx context.Context, c domain.Creancier) (*domain.Creancier, error) {
	c.ID = uuid.NewString()
	c.DateCreation = time.Now().UTC()
	if err := s.repo.CreateCreancier(ctx, &c); err != nil {
		s.logger.Error().Err(err).Str("nom", c.Nom).Msg("failed to create creancier")
		return nil, err
	}
	return &c, nil
}

func (s *DossierService) ListCreanciers(ctx context.Context) ([]domain.Creancier, error) {
	return s.repo.FindCreanciers(ctx)
}

func (s *DossierService) CreateDebiteur(ctx context.Context, d domain.Debiteur) (*domain.Debiteur, error) {
	d.ID = uuid.NewString()
	d.DateCreation = time.Now().UTC()
	if err := s.repo.CreateDebiteur(ctx, &d); err != nil {
		s.logger.Error().Err(err).Str("nom", d.Nom).Msg("failed to create debiteur")
		return nil, err
	}
	return &d, nil
}

func (s *DossierService) ListDebiteurs(ctx context.Context) ([]domain.Debiteur, error) {
	return s.repo.FindDebiteurs(ctx)
}

func (s *DossierService) CreateDossier(ctx context.Context, input ports.CreateDossierInput) (*domain.Dossier, error) {
	now := time.Now().UTC()
	d := &domain.Dossier{
		ID:           uuid.NewString(),
		Numero:       generateNumeroDossier(now),
		Titre:        input.Titre,
		Montant:      input.Montant,
		CreancierID:  input.CreancierID,
		DebiteurID:   input.DebiteurID,
		AgentID:      input.AgentID,
		Statut:       domain.DossierOuvert,
		DateCreation: now,
	}
	if err := s.repo.CreateDossier(ctx, d); err != nil {
		s.logger.Error().Err(err).Str("titre", input.Titre).Msg("failed to create dossier")
		return nil, err
	}
	s.logger.Info().Str("dossier_id", d.ID).Str("numero", d.Numero).Msg("dossier created")
	return d, nil
}

func (s *DossierService) ListDossiers(ctx context.Context) ([]domain.Dossier, error) {
	return s.repo.FindDossiers(ctx)
}

func (s *DossierService) GetDossier(ctx context.Context, id string) (*domain.Dossier, error) {
	return s.repo.FindDossierByID(ctx, id)
}

// generateNumeroDossier returns a case number in the format DOS-YYYY-XXXXXX.
func generateNumeroDossier(now time.Time) string {
	suffix := uuid.NewString()[:6]
	return fmt.Sprintf("DOS-%d-%s", now.Year(), suffix)
}
