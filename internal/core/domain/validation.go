package domain

import (
	"errors"
	"time"
)

// StatutValidation represents the approval state of a dossier validation.
type StatutValidation string

const (
	ValidationEnAttente StatutValidation = "EN_ATTENTE"
	ValidationValide    StatutValidation = "VALIDE"
	ValidationRejete    StatutValidation = "REJETE"
)

var ErrValidationNotFound = errors.New("validation not found")

// ErrValidationConflict is returned when a validate/reject action targets a
// record that is not currently EN_ATTENTE. The record is left untouched.
var ErrValidationConflict = errors.New("validation is not pending")

// ValidStatutValidation reports whether s is a member of the closed enum.
func ValidStatutValidation(s StatutValidation) bool {
	switch s {
	case ValidationEnAttente, ValidationValide, ValidationRejete:
		return true
	}
	return false
}

// ValidationDossier is the approval record attached to a dossier.
//
// Invariant: Statut VALIDE or REJETE implies ChefValidateurID and
// DateValidation are both set; EN_ATTENTE implies both are absent. All
// transitions go through the methods below so the invariant cannot drift.
type ValidationDossier struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	DossierID        string           `json:"dossier_id" bson:"dossier_id"`
	NumeroDossier    string           `json:"numero_dossier" bson:"numero_dossier"`
	TitreDossier     string           `json:"titre_dossier" bson:"titre_dossier"`
	AgentID          string           `json:"agent_id" bson:"agent_id"`
	ChefValidateurID string           `json:"chef_validateur_id,omitempty" bson:"chef_validateur_id,omitempty"`
	Statut           StatutValidation `json:"statut" bson:"statut"`
	Commentaire      string           `json:"commentaire,omitempty" bson:"commentaire,omitempty"`
	DateValidation   *time.Time       `json:"date_validation,omitempty" bson:"date_validation,omitempty"`
	DateCreation     time.Time        `json:"date_creation" bson:"date_creation"`
	DateModification *time.Time       `json:"date_modification,omitempty" bson:"date_modification,omitempty"`
}

// Valider moves an EN_ATTENTE record to VALIDE.
func (v *ValidationDossier) Valider(chefID, commentaire string, now time.Time) error {
	return v.decide(ValidationValide, chefID, commentaire, now)
}

// Rejeter moves an EN_ATTENTE record to REJETE.
func (v *ValidationDossier) Rejeter(chefID, commentaire string, now time.Time) error {
	return v.decide(ValidationRejete, chefID, commentaire, now)
}

func (v *ValidationDossier) decide(statut StatutValidation, chefID, commentaire string, now time.Time) error {
	if v.Statut != ValidationEnAttente {
		return ErrValidationConflict
	}
	v.Statut = statut
	v.ChefValidateurID = chefID
	ts := now
	v.DateValidation = &ts
	mod := now
	v.DateModification = &mod
	if commentaire != "" {
		v.Commentaire = commentaire
	}
	return nil
}

// RemettreEnAttente returns the record to EN_ATTENTE from any state, clearing
// the validating chef and the validation timestamp.
func (v *ValidationDossier) RemettreEnAttente(commentaire string, now time.Time) {
	v.Statut = ValidationEnAttente
	v.ChefValidateurID = ""
	v.DateValidation = nil
	mod := now
	v.DateModification = &mod
	if commentaire != "" {
		v.Commentaire = commentaire
	}
}

// ValidationStats is derived, never persisted. It is recomputed as a fold
// over the canonical collection on every change so the totals cannot drift
// from the counted members.
type ValidationStats struct {
	Total     int            `json:"total"`
	EnAttente int            `json:"en_attente"`
	Valides   int            `json:"valides"`
	Rejetes   int            `json:"rejetes"`
	ParAgent  map[string]int `json:"par_agent"`
	ParChef   map[string]int `json:"par_chef"`
}

// ComputeValidationStats folds the collection into its statistics.
func ComputeValidationStats(validations []ValidationDossier) ValidationStats {
	stats := ValidationStats{
		ParAgent: make(map[string]int),
		ParChef:  make(map[string]int),
	}
	for _, v := range validations {
		stats.Total++
		switch v.Statut {
		case ValidationEnAttente:
			stats.EnAttente++
		case ValidationValide:
			stats.Valides++
		case ValidationRejete:
			stats.Rejetes++
		}
		if v.AgentID != "" {
			stats.ParAgent[v.AgentID]++
		}
		if v.ChefValidateurID != "" {
			stats.ParChef[v.ChefValidateurID]++
		}
	}
	return stats
}
