package ports

import (
	"context"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

// SendNotificationInput carries a single notification send.
type SendNotificationInput struct {
	DestinataireID string
	Type           domain.NotificationType
	Titre          string
	Message        string
	LienID         string
	LienType       string
}

// NotificationRepository defines persistence for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, n *domain.Notification) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}

// NotificationService enforces the permission matrix and manages delivery.
type NotificationService interface {
	Send(ctx context.Context, sender *domain.User, input SendNotificationInput) (*domain.Notification, error)
	SendGroupe(ctx context.Context, sender *domain.User, input SendNotificationInput, destinataireIDs []string) ([]domain.Notification, error)
	SendAgentsDuChef(ctx context.Context, sender *domain.User, input SendNotificationInput, chefID string) ([]domain.Notification, error)
	SendTous(ctx context.Context, sender *domain.User, input SendNotificationInput) ([]domain.Notification, error)

	ForUser(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error
}
