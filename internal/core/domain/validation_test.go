package domain

import (
	"errors"
	"testing"
	"time"
)

func pendingValidation() ValidationDossier {
	return ValidationDossier{
		ID:            "v1",
		DossierID:     "d1",
		NumeroDossier: "DOS-2026-001",
		AgentID:       "agent1",
		Statut:        ValidationEnAttente,
		DateCreation:  time.Now().UTC(),
	}
}

// invariant: VALIDE/REJETE ⇔ chef set ⇔ timestamp set.
func checkInvariant(t *testing.T, v ValidationDossier) {
	t.Helper()
	decided := v.Statut == ValidationValide || v.Statut == ValidationRejete
	if decided != (v.DateValidation != nil) {
		t.Errorf("statut %q but DateValidation=%v", v.Statut, v.DateValidation)
	}
	if decided != (v.ChefValidateurID != "") {
		t.Errorf("statut %q but ChefValidateurID=%q", v.Statut, v.ChefValidateurID)
	}
}

func TestValidation_Valider(t *testing.T) {
	v := pendingValidation()
	now := time.Now().UTC()

	if err := v.Valider("chef1", "ok", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Statut != ValidationValide {
		t.Errorf("statut: want VALIDE, got %q", v.Statut)
	}
	if v.ChefValidateurID != "chef1" {
		t.Errorf("chef: want chef1, got %q", v.ChefValidateurID)
	}
	if v.DateValidation == nil || !v.DateValidation.Equal(now) {
		t.Errorf("date validation: want %v, got %v", now, v.DateValidation)
	}
	if v.Commentaire != "ok" {
		t.Errorf("commentaire: want ok, got %q", v.Commentaire)
	}
	checkInvariant(t, v)
}

func TestValidation_Rejeter(t *testing.T) {
	v := pendingValidation()

	if err := v.Rejeter("chef2", "pièces manquantes", time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Statut != ValidationRejete {
		t.Errorf("statut: want REJETE, got %q", v.Statut)
	}
	checkInvariant(t, v)
}

func TestValidation_DecideOnlyFromPending(t *testing.T) {
	now := time.Now().UTC()

	preps := map[StatutValidation]func(*ValidationDossier) error{
		ValidationValide: func(v *ValidationDossier) error { return v.Valider("chef1", "", now) },
		ValidationRejete: func(v *ValidationDossier) error { return v.Rejeter("chef1", "", now) },
	}
	for statut, prep := range preps {
		v := pendingValidation()
		if err := prep(&v); err != nil {
			t.Fatal(err)
		}
		before := v

		if err := v.Valider("chef9", "again", now); !errors.Is(err, ErrValidationConflict) {
			t.Errorf("Valider on %q: want ErrValidationConflict, got %v", statut, err)
		}
		if err := v.Rejeter("chef9", "again", now); !errors.Is(err, ErrValidationConflict) {
			t.Errorf("Rejeter on %q: want ErrValidationConflict, got %v", statut, err)
		}
		if v.Statut != before.Statut || v.ChefValidateurID != before.ChefValidateurID {
			t.Errorf("record changed despite conflict: %+v", v)
		}
	}
}

func TestValidation_RemettreEnAttente(t *testing.T) {
	now := time.Now().UTC()

	for _, prep := range []func(*ValidationDossier){
		func(v *ValidationDossier) {},
		func(v *ValidationDossier) { _ = v.Valider("chef1", "", now) },
		func(v *ValidationDossier) { _ = v.Rejeter("chef1", "", now) },
	} {
		v := pendingValidation()
		prep(&v)

		v.RemettreEnAttente("re-soumis", now)

		if v.Statut != ValidationEnAttente {
			t.Errorf("statut: want EN_ATTENTE, got %q", v.Statut)
		}
		if v.ChefValidateurID != "" {
			t.Errorf("chef must be cleared, got %q", v.ChefValidateurID)
		}
		if v.DateValidation != nil {
			t.Errorf("date validation must be cleared, got %v", v.DateValidation)
		}
		checkInvariant(t, v)
	}
}

func TestComputeValidationStats_Fold(t *testing.T) {
	now := time.Now().UTC()
	collection := []ValidationDossier{
		{AgentID: "a1", Statut: ValidationEnAttente},
		{AgentID: "a1", Statut: ValidationValide, ChefValidateurID: "c1", DateValidation: &now},
		{AgentID: "a2", Statut: ValidationValide, ChefValidateurID: "c1", DateValidation: &now},
		{AgentID: "a2", Statut: ValidationRejete, ChefValidateurID: "c2", DateValidation: &now},
	}

	stats := ComputeValidationStats(collection)

	if stats.Total != len(collection) {
		t.Errorf("total: want %d, got %d", len(collection), stats.Total)
	}
	if sum := stats.EnAttente + stats.Valides + stats.Rejetes; sum != stats.Total {
		t.Errorf("statut counts must sum to total: %d != %d", sum, stats.Total)
	}
	if stats.EnAttente != 1 || stats.Valides != 2 || stats.Rejetes != 1 {
		t.Errorf("unexpected breakdown: %+v", stats)
	}
	if stats.ParAgent["a1"] != 2 || stats.ParAgent["a2"] != 2 {
		t.Errorf("par agent: %+v", stats.ParAgent)
	}
	if stats.ParChef["c1"] != 2 || stats.ParChef["c2"] != 1 {
		t.Errorf("par chef: %+v", stats.ParChef)
	}
}

func TestComputeValidationStats_Empty(t *testing.T) {
	stats := ComputeValidationStats(nil)
	if stats.Total != 0 || stats.EnAttente != 0 || stats.Valides != 0 || stats.Rejetes != 0 {
		t.Errorf("empty fold must be all-zero: %+v", stats)
	}
	if stats.ParAgent == nil || stats.ParChef == nil {
		t.Error("breakdown maps must be allocated")
	}
}
