package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carthage-creance/recovery-api/internal/api/metrics"
	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// UnreadCache abstracts the unread-count result cache (Redis). A failing
// cache is never fatal: the count falls back to the repository.
type UnreadCache interface {
	Get(ctx context.Context, userID string) (int64, bool, error)
	Set(ctx context.Context, userID string, count int64) error
	Invalidate(ctx context.Context, userID string) error
}

// NotificationService enforces the role permission matrix and manages
// notification delivery and read state.
type NotificationService struct {
	repo      ports.NotificationRepository
	cache     UnreadCache
	directory ports.DirectoryService
	logger    zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, cache UnreadCache, directory ports.DirectoryService, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, cache: cache, directory: directory, logger: logger}
}

// Send delivers one notification after the permission checks of the matrix.
func (s *NotificationService) Send(ctx context.Context, sender *domain.User, input ports.SendNotificationInput) (*domain.Notification, error) {
	if err := domain.CanSendTo(sender, input.DestinataireID); err != nil {
		return nil, err
	}
	if err := domain.CanSendType(sender, input.Type); err != nil {
		return nil, err
	}
	return s.deliver(ctx, input)
}

// Deliver persists a system-generated notification (task assignments,
// workflow events) without consulting the sender matrix, and invalidates the
// recipient's unread count.
func (s *NotificationService) Deliver(ctx context.Context, input ports.SendNotificationInput) (*domain.Notification, error) {
	return s.deliver(ctx, input)
}

func (s *NotificationService) deliver(ctx context.Context, input ports.SendNotificationInput) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:            uuid.NewString(),
		UtilisateurID: input.DestinataireID,
		Type:          input.Type,
		Titre:         input.Titre,
		Message:       input.Message,
		Statut:        domain.NotificationNonLue,
		LienID:        input.LienID,
		LienType:      input.LienType,
		DateCreation:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("destinataire", input.DestinataireID).Msg("failed to store notification")
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, input.DestinataireID); err != nil {
		s.logger.Warn().Err(err).Str("destinataire", input.DestinataireID).Msg("unread cache invalidation failed")
	}

	metrics.NotificationsSentTotal.WithLabelValues(string(input.Type)).Inc()
	s.logger.Info().Str("notification_id", n.ID).Str("destinataire", n.UtilisateurID).Str("type", string(n.Type)).Msg("notification sent")
	return n, nil
}

// SendGroupe delivers the same notification to an explicit user set,
// skipping recipients the sender may not target (self included).
func (s *NotificationService) SendGroupe(ctx context.Context, sender *domain.User, input ports.SendNotificationInput, destinataireIDs []string) ([]domain.Notification, error) {
	if err := domain.CanSendType(sender, input.Type); err != nil {
		return nil, err
	}

	sent := make([]domain.Notification, 0, len(destinataireIDs))
	for _, id := range destinataireIDs {
		if err := domain.CanSendTo(sender, id); err != nil {
			s.logger.Debug().Str("destinataire", id).Err(err).Msg("recipient skipped")
			continue
		}
		one := input
		one.DestinataireID = id
		n, err := s.deliver(ctx, one)
		if err != nil {
			return sent, err
		}
		sent = append(sent, *n)
	}
	return sent, nil
}

// SendAgentsDuChef delivers to every agent resolved for the given chef.
func (s *NotificationService) SendAgentsDuChef(ctx context.Context, sender *domain.User, input ports.SendNotificationInput, chefID string) ([]domain.Notification, error) {
	result, err := s.directory.AgentsForChef(ctx, chefID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.Agents))
	for _, a := range result.Agents {
		ids = append(ids, a.ID)
	}
	return s.SendGroupe(ctx, sender, input, ids)
}

// SendTous delivers to every user in the directory.
func (s *NotificationService) SendTous(ctx context.Context, sender *domain.User, input ports.SendNotificationInput) ([]domain.Notification, error) {
	users, err := s.directory.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return s.SendGroupe(ctx, sender, input, ids)
}

func (s *NotificationService) ForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.FindByUser(ctx, userID)
}

// UnreadCount serves from the result cache when possible, recomputing from
// the repository on a miss.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if count, ok, err := s.cache.Get(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("unread cache read failed")
	} else if ok {
		metrics.UnreadCacheTotal.WithLabelValues("hit").Inc()
		return count, nil
	}
	metrics.UnreadCacheTotal.WithLabelValues("miss").Inc()

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, userID, count); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("unread cache write failed")
	}
	return count, nil
}

// MarkRead marks one of the user's notifications read. Reading another
// user's notification is reported as not-found rather than forbidden, so
// ids cannot be probed.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UtilisateurID != userID {
		return nil, domain.ErrNotificationNotFound
	}

	n.MarquerLue(time.Now().UTC())
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("unread cache invalidation failed")
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("unread cache invalidation failed")
	}
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UtilisateurID != userID {
		return domain.ErrNotificationNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("unread cache invalidation failed")
	}
	return nil
}
