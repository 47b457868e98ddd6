package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Directory resolution failures. The three cases are surfaced separately so
// callers can tell an empty département from an outage.
var ErrChefUnresolved = errors.New("identité du chef introuvable")
var ErrNoAgents = errors.New("aucun agent trouvé pour ce chef")
var ErrDirectoryUnavailable = errors.New("annuaire des utilisateurs indisponible")

// User models an authenticated actor: super admin, chef or agent.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Nom          string    `json:"nom,omitempty"`
	Prenom       string    `json:"prenom,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	// ChefCreateurID references the chef who created this agent account.
	// Legacy imports may carry it under a different field name; see Extra.
	ChefCreateurID string `json:"chef_createur_id,omitempty"`
	// Extra holds document fields that did not map to a known struct field.
	// The agent directory resolver reads legacy creator-id variants from it.
	Extra     map[string]any `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// FullName joins prénom and nom, falling back to the username when both are
// empty.
func (u *User) FullName() string {
	switch {
	case u.Prenom != "" && u.Nom != "":
		return u.Prenom + " " + u.Nom
	case u.Nom != "":
		return u.Nom
	case u.Prenom != "":
		return u.Prenom
	default:
		return u.Username
	}
}
