package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

type stubValidationService struct {
	createFn  func(ctx context.Context, input ports.CreateValidationInput) (*domain.ValidationDossier, error)
	validerFn func(ctx context.Context, id, chefID, commentaire string) (*domain.ValidationDossier, error)
	statsFn   func(ctx context.Context) (domain.ValidationStats, error)
}

func (s *stubValidationService) Create(ctx context.Context, input ports.CreateValidationInput) (*domain.ValidationDossier, error) {
	return s.createFn(ctx, input)
}

func (s *stubValidationService) Get(context.Context, string) (*domain.ValidationDossier, error) {
	return nil, domain.ErrValidationNotFound
}

func (s *stubValidationService) Delete(context.Context, string) error { return nil }

func (s *stubValidationService) Valider(ctx context.Context, id, chefID, commentaire string) (*domain.ValidationDossier, error) {
	return s.validerFn(ctx, id, chefID, commentaire)
}

func (s *stubValidationService) Rejeter(ctx context.Context, id, chefID, commentaire string) (*domain.ValidationDossier, error) {
	return nil, domain.ErrValidationConflict
}

func (s *stubValidationService) RemettreEnAttente(context.Context, string, string) (*domain.ValidationDossier, error) {
	return nil, nil
}

func (s *stubValidationService) List(context.Context, ports.ValidationFilter) ([]domain.ValidationDossier, error) {
	return nil, nil
}

func (s *stubValidationService) ByAgent(context.Context, string) ([]domain.ValidationDossier, error) {
	return nil, nil
}

func (s *stubValidationService) ByChef(context.Context, string) ([]domain.ValidationDossier, error) {
	return nil, nil
}

func (s *stubValidationService) ByStatut(context.Context, domain.StatutValidation) ([]domain.ValidationDossier, error) {
	return nil, nil
}

func (s *stubValidationService) Stats(ctx context.Context) (domain.ValidationStats, error) {
	return s.statsFn(ctx)
}

func newEchoContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID, authority string) {
	c.Set("user_id", userID)
	c.Set("username", "test-user")
	c.Set("authority", authority)
}

func TestValidationHandler_Create_Success(t *testing.T) {
	stub := &stubValidationService{
		createFn: func(_ context.Context, input ports.CreateValidationInput) (*domain.ValidationDossier, error) {
			if input.AgentID != "agent1" {
				t.Fatalf("agent id must come from the token, got %q", input.AgentID)
			}
			return &domain.ValidationDossier{
				ID:            "v1",
				DossierID:     input.DossierID,
				NumeroDossier: input.NumeroDossier,
				AgentID:       input.AgentID,
				Statut:        domain.ValidationEnAttente,
				DateCreation:  time.Now().UTC(),
			}, nil
		},
	}
	h := NewValidationHandler(stub)

	body := `{"dossier_id":"d1","numero_dossier":"DOS-2026-001","titre_dossier":"Recouvrement Karoui"}`
	c, rec := newEchoContext(t, http.MethodPost, "/api/validation/dossiers", body)
	authenticate(c, "agent1", "ROLE_AGENT_RECOUVREMENT")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var got domain.ValidationDossier
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Statut != domain.ValidationEnAttente {
		t.Errorf("statut: want EN_ATTENTE, got %q", got.Statut)
	}
}

func TestValidationHandler_Create_MissingFields(t *testing.T) {
	h := NewValidationHandler(&stubValidationService{})

	c, rec := newEchoContext(t, http.MethodPost, "/api/validation/dossiers", `{"dossier_id":"d1"}`)
	authenticate(c, "agent1", "ROLE_AGENT_RECOUVREMENT")

	err := h.Create(c)
	if err == nil {
		t.Fatalf("expected a 400 error, got none (code %d)", rec.Code)
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected HTTP 400, got %v", err)
	}
}

func TestValidationHandler_Create_Unauthenticated(t *testing.T) {
	h := NewValidationHandler(&stubValidationService{})

	body := `{"dossier_id":"d1","numero_dossier":"N","titre_dossier":"T"}`
	c, _ := newEchoContext(t, http.MethodPost, "/api/validation/dossiers", body)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected HTTP 401, got %v", err)
	}
}

func TestValidationHandler_Valider_PassesChefFromToken(t *testing.T) {
	stub := &stubValidationService{
		validerFn: func(_ context.Context, id, chefID, commentaire string) (*domain.ValidationDossier, error) {
			if id != "v1" || chefID != "chef9" || commentaire != "conforme" {
				t.Fatalf("unexpected args: %s %s %s", id, chefID, commentaire)
			}
			return &domain.ValidationDossier{ID: id, Statut: domain.ValidationValide, ChefValidateurID: chefID}, nil
		},
	}
	h := NewValidationHandler(stub)

	c, rec := newEchoContext(t, http.MethodPut, "/api/validation/dossiers/v1/valider", `{"commentaire":"conforme"}`)
	c.SetParamNames("id")
	c.SetParamValues("v1")
	authenticate(c, "chef9", "ROLE_CHEF_DEPARTEMENT_JURIDIQUE")

	if err := h.Valider(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestValidationHandler_Stats(t *testing.T) {
	stub := &stubValidationService{
		statsFn: func(context.Context) (domain.ValidationStats, error) {
			return domain.ValidationStats{Total: 3, EnAttente: 1, Valides: 1, Rejetes: 1}, nil
		},
	}
	h := NewValidationHandler(stub)

	c, rec := newEchoContext(t, http.MethodGet, "/api/validation/dossiers/stats", "")
	authenticate(c, "admin", "ROLE_SUPER_ADMIN")

	if err := h.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got domain.ValidationStats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Total != 3 {
		t.Errorf("total: want 3, got %d", got.Total)
	}
}
