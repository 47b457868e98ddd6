package domain

import (
	"errors"
	"time"
)

// StatutDossier is the lifecycle state of a recovery case file.
type StatutDossier string

const (
	DossierOuvert  StatutDossier = "OUVERT"
	DossierEnCours StatutDossier = "EN_COURS"
	DossierClos    StatutDossier = "CLOS"
)

var ErrDossierNotFound = errors.New("dossier not found")
var ErrCreancierNotFound = errors.New("creancier not found")

// Creancier is the creditor party of a recovery claim.
type Creancier struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Nom          string    `json:"nom" bson:"nom"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	Telephone    string    `json:"telephone,omitempty" bson:"telephone,omitempty"`
	Adresse      string    `json:"adresse,omitempty" bson:"adresse,omitempty"`
	DateCreation time.Time `json:"date_creation" bson:"date_creation"`
}

// Debiteur is the debtor party of a recovery claim.
type Debiteur struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Nom          string    `json:"nom" bson:"nom"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	Telephone    string    `json:"telephone,omitempty" bson:"telephone,omitempty"`
	Adresse      string    `json:"adresse,omitempty" bson:"adresse,omitempty"`
	MontantDette float64   `json:"montant_dette" bson:"montant_dette"`
	DateCreation time.Time `json:"date_creation" bson:"date_creation"`
}

// Dossier is a case file tracking a claim between a créancier and a
// débiteur. Validations and tâches reference it by id.
type Dossier struct {
	ID           string        `json:"id" bson:"_id,omitempty"`
	Numero       string        `json:"numero" bson:"numero"`
	Titre        string        `json:"titre" bson:"titre"`
	Montant      float64       `json:"montant" bson:"montant"`
	CreancierID  string        `json:"creancier_id" bson:"creancier_id"`
	DebiteurID   string        `json:"debiteur_id" bson:"debiteur_id"`
	AgentID      string        `json:"agent_id,omitempty" bson:"agent_id,omitempty"`
	Statut       StatutDossier `json:"statut" bson:"statut"`
	DateCreation time.Time     `json:"date_creation" bson:"date_creation"`
}
