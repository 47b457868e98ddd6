package domain

import (
	"errors"
	"time"
)

// NotificationType is the closed set of notification categories.
type NotificationType string

const (
	NotifInfo         NotificationType = "INFO"
	NotifValidation   NotificationType = "VALIDATION"
	NotifTacheUrgente NotificationType = "TACHE_URGENTE"
	NotifDossier      NotificationType = "DOSSIER"
	NotifRappel       NotificationType = "RAPPEL"
	NotifSysteme      NotificationType = "SYSTEME"
)

// StatutNotification is the read state of a notification.
type StatutNotification string

const (
	NotificationNonLue StatutNotification = "NON_LUE"
	NotificationLue    StatutNotification = "LUE"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Send-permission failures, ordered by precedence: an anonymous caller is
// reported as such even when the send would also be a self-send.
var ErrNotAuthenticated = errors.New("utilisateur non connecté")
var ErrSelfNotification = errors.New("impossible de s'envoyer une notification à soi-même")
var ErrSendNotAllowed = errors.New("envoi de notification non autorisé")
var ErrTypeNotAllowed = errors.New("type de notification non autorisé pour ce rôle")

// allowedNotificationTypes is the static, total role → types matrix. Every
// role has an explicit non-empty entry; the matrix is never extended at
// runtime.
var allowedNotificationTypes = map[Role][]NotificationType{
	RoleSuperAdmin: {NotifInfo, NotifValidation, NotifTacheUrgente, NotifDossier, NotifRappel, NotifSysteme},

	RoleChefJuridique:    {NotifInfo, NotifValidation, NotifTacheUrgente, NotifDossier, NotifRappel},
	RoleChefRecouvrement: {NotifInfo, NotifValidation, NotifTacheUrgente, NotifDossier, NotifRappel},
	RoleChefEnquete:      {NotifInfo, NotifValidation, NotifTacheUrgente, NotifDossier, NotifRappel},
	RoleChefFinance:      {NotifInfo, NotifValidation, NotifTacheUrgente, NotifDossier, NotifRappel},

	RoleAgentJuridique:    {NotifInfo, NotifDossier, NotifRappel},
	RoleAgentRecouvrement: {NotifInfo, NotifDossier, NotifRappel},
	RoleAgentEnquete:      {NotifInfo, NotifDossier, NotifRappel},
	RoleAgentFinance:      {NotifInfo, NotifDossier, NotifRappel},
}

// AllowedNotificationTypes returns the notification types the role may send.
// The returned slice is a copy.
func AllowedNotificationTypes(r Role) []NotificationType {
	types := allowedNotificationTypes[r]
	out := make([]NotificationType, len(types))
	copy(out, types)
	return out
}

// CanSendTo decides whether sender may notify the target user. Checks run in
// priority order: authentication, self-send, role permission. A chef or
// agent role is accepted for any target; the target's own role and
// relationship to the sender are intentionally not verified.
func CanSendTo(sender *User, targetID string) error {
	if sender == nil {
		return ErrNotAuthenticated
	}
	if targetID == sender.ID {
		return ErrSelfNotification
	}
	if sender.Role == RoleSuperAdmin {
		return nil
	}
	if sender.Role.IsChef() || sender.Role.IsAgent() {
		return nil
	}
	return ErrSendNotAllowed
}

// CanSendType reports whether the sender's role may emit the given type.
func CanSendType(sender *User, t NotificationType) error {
	if sender == nil {
		return ErrNotAuthenticated
	}
	for _, allowed := range allowedNotificationTypes[sender.Role] {
		if allowed == t {
			return nil
		}
	}
	return ErrTypeNotAllowed
}

// Notification is a message delivered to a single user.
//
// Invariant: DateLecture is set iff Statut is LUE.
type Notification struct {
	ID             string             `json:"id" bson:"_id,omitempty"`
	UtilisateurID  string             `json:"utilisateur_id" bson:"utilisateur_id"`
	Type           NotificationType   `json:"type" bson:"type"`
	Titre          string             `json:"titre" bson:"titre"`
	Message        string             `json:"message" bson:"message"`
	Statut         StatutNotification `json:"statut" bson:"statut"`
	LienID         string             `json:"lien_id,omitempty" bson:"lien_id,omitempty"`
	LienType       string             `json:"lien_type,omitempty" bson:"lien_type,omitempty"`
	DateCreation   time.Time          `json:"date_creation" bson:"date_creation"`
	DateLecture    *time.Time         `json:"date_lecture,omitempty" bson:"date_lecture,omitempty"`
}

// MarquerLue marks the notification read, stamping the read timestamp.
func (n *Notification) MarquerLue(now time.Time) {
	if n.Statut == NotificationLue {
		return
	}
	n.Statut = NotificationLue
	ts := now
	n.DateLecture = &ts
}
