package domain

import (
	"errors"
	"time"
)

// TypeTache categorises an urgent task.
type TypeTache string

const (
	TacheEnquete  TypeTache = "ENQUETE"
	TacheRelance  TypeTache = "RELANCE"
	TacheDossier  TypeTache = "DOSSIER"
	TacheAudience TypeTache = "AUDIENCE"
	TacheAction   TypeTache = "ACTION"
)

// PrioriteTache is the urgency level of a task.
type PrioriteTache string

const (
	PrioriteBasse   PrioriteTache = "BASSE"
	PrioriteMoyenne PrioriteTache = "MOYENNE"
	PrioriteHaute   PrioriteTache = "HAUTE"
	PrioriteUrgente PrioriteTache = "URGENTE"
)

// StatutTache is the lifecycle state of a task.
type StatutTache string

const (
	TacheEnAttente StatutTache = "EN_ATTENTE"
	TacheEnCours   StatutTache = "EN_COURS"
	TacheTerminee  StatutTache = "TERMINEE"
	TacheAnnulee   StatutTache = "ANNULEE"
)

// FiltreTous is the sentinel disabling the statut or priorité filter.
const FiltreTous = "TOUS"

var ErrTacheNotFound = errors.New("tache not found")
var ErrForbidden = errors.New("access forbidden")

// TacheUrgente is an urgent task assigned by a chef to an agent.
type TacheUrgente struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	Titre          string        `json:"titre" bson:"titre"`
	Description    string        `json:"description" bson:"description"`
	Type           TypeTache     `json:"type" bson:"type"`
	Priorite       PrioriteTache `json:"priorite" bson:"priorite"`
	Statut         StatutTache   `json:"statut" bson:"statut"`
	AgentID        string        `json:"agent_id" bson:"agent_id"`
	AgentNom       string        `json:"agent_nom,omitempty" bson:"agent_nom,omitempty"`
	ChefID         string        `json:"chef_id" bson:"chef_id"`
	DossierID      string        `json:"dossier_id,omitempty" bson:"dossier_id,omitempty"`
	DateCreation   time.Time     `json:"date_creation" bson:"date_creation"`
	DateEcheance   time.Time     `json:"date_echeance" bson:"date_echeance"`
	DateCompletion *time.Time    `json:"date_completion,omitempty" bson:"date_completion,omitempty"`
}

// EnRetard reports whether the task is overdue: past its due date and not
// finished. Derived on every read, never stored.
func (t *TacheUrgente) EnRetard(now time.Time) bool {
	return t.DateEcheance.Before(now) && t.Statut != TacheTerminee
}

// JoursRestants returns the number of days until the due date, rounded up.
// Negative when the due date has passed.
func (t *TacheUrgente) JoursRestants(now time.Time) int {
	d := t.DateEcheance.Sub(now)
	days := int(d.Hours() / 24)
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Terminer marks the task finished by its assigned agent.
func (t *TacheUrgente) Terminer(agentID string, now time.Time) error {
	if t.AgentID != agentID {
		return ErrForbidden
	}
	t.Statut = TacheTerminee
	ts := now
	t.DateCompletion = &ts
	return nil
}
