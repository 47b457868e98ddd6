package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// ValidationHandler exposes the dossier validation workflow.
type ValidationHandler struct {
	service ports.ValidationService
}

func NewValidationHandler(service ports.ValidationService) *ValidationHandler {
	return &ValidationHandler{service: service}
}

type createValidationRequest struct {
	DossierID     string `json:"dossier_id" validate:"required"`
	NumeroDossier string `json:"numero_dossier" validate:"required"`
	TitreDossier  string `json:"titre_dossier" validate:"required"`
	Commentaire   string `json:"commentaire,omitempty"`
}

type decisionRequest struct {
	Commentaire string `json:"commentaire,omitempty"`
}

// Create submits a dossier for validation.
//
// @Summary      Submit a dossier for validation
// @Tags         validations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createValidationRequest  true  "Dossier reference"
// @Success      201   {object}  domain.ValidationDossier
// @Failure      400   {object}  map[string]string
// @Router       /api/validation/dossiers [post]
func (h *ValidationHandler) Create(c echo.Context) error {
	var req createValidationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	v, err := h.service.Create(c.Request().Context(), ports.CreateValidationInput{
		DossierID:     req.DossierID,
		NumeroDossier: req.NumeroDossier,
		TitreDossier:  req.TitreDossier,
		AgentID:       user.ID,
		Commentaire:   req.Commentaire,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

// List returns validations matching the combined query parameters.
//
// @Summary      List dossier validations
// @Tags         validations
// @Produce      json
// @Security     BearerAuth
// @Param        statut     query     string  false  "EN_ATTENTE, VALIDE or REJETE"
// @Param        agent      query     string  false  "Filter by submitting agent id"
// @Param        chef       query     string  false  "Filter by validating chef id"
// @Param        recherche  query     string  false  "Substring over dossier number and title"
// @Param        from       query     string  false  "RFC 3339 lower bound on creation date"
// @Param        to         query     string  false  "RFC 3339 upper bound on creation date"
// @Success      200  {array}  domain.ValidationDossier
// @Router       /api/validation/dossiers [get]
func (h *ValidationHandler) List(c echo.Context) error {
	filter := ports.ValidationFilter{
		Statut:    domain.StatutValidation(c.QueryParam("statut")),
		AgentID:   c.QueryParam("agent"),
		ChefID:    c.QueryParam("chef"),
		Recherche: c.QueryParam("recherche"),
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		filter.DateFrom = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		filter.DateTo = t
	}

	list, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns a single validation record.
//
// @Summary      Get a validation by id
// @Tags         validations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Validation id"
// @Success      200  {object}  domain.ValidationDossier
// @Failure      404  {object}  map[string]string
// @Router       /api/validation/dossiers/{id} [get]
func (h *ValidationHandler) Get(c echo.Context) error {
	v, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// Valider approves a pending validation.
//
// @Summary      Approve a pending validation
// @Tags         validations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true   "Validation id"
// @Param        body  body      decisionRequest  false  "Optional comment"
// @Success      200   {object}  domain.ValidationDossier
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/validation/dossiers/{id}/valider [put]
func (h *ValidationHandler) Valider(c echo.Context) error {
	return h.decide(c, h.service.Valider)
}

// Rejeter rejects a pending validation.
//
// @Summary      Reject a pending validation
// @Tags         validations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true   "Validation id"
// @Param        body  body      decisionRequest  false  "Optional comment"
// @Success      200   {object}  domain.ValidationDossier
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/validation/dossiers/{id}/rejeter [put]
func (h *ValidationHandler) Rejeter(c echo.Context) error {
	return h.decide(c, h.service.Rejeter)
}

func (h *ValidationHandler) decide(c echo.Context, apply func(ctx context.Context, id, chefID, commentaire string) (*domain.ValidationDossier, error)) error {
	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	v, err := apply(c.Request().Context(), c.Param("id"), user.ID, req.Commentaire)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// RemettreEnAttente resets a record to EN_ATTENTE.
//
// @Summary      Reset a validation to pending
// @Tags         validations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true   "Validation id"
// @Param        body  body      decisionRequest  false  "Optional comment"
// @Success      200   {object}  domain.ValidationDossier
// @Failure      404   {object}  map[string]string
// @Router       /api/validation/dossiers/{id}/remettre-en-attente [put]
func (h *ValidationHandler) RemettreEnAttente(c echo.Context) error {
	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	v, err := h.service.RemettreEnAttente(c.Request().Context(), c.Param("id"), req.Commentaire)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// Delete removes a validation record.
//
// @Summary      Delete a validation
// @Tags         validations
// @Security     BearerAuth
// @Param        id  path  string  true  "Validation id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/validation/dossiers/{id} [delete]
func (h *ValidationHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ByAgent returns the validations submitted by an agent.
//
// @Summary      List validations by submitting agent
// @Tags         validations
// @Produce      json
// @Security     BearerAuth
// @Param        agentId  path  string  true  "Agent id"
// @Success      200  {array}  domain.ValidationDossier
// @Router       /api/validation/dossiers/agent/{agentId} [get]
func (h *ValidationHandler) ByAgent(c echo.Context) error {
	list, err := h.service.ByAgent(c.Request().Context(), c.Param("agentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// ByChef returns the validations decided by a chef.
//
// @Summary      List validations by validating chef
// @Tags         validations
// @Produce      json
// @Security     BearerAuth
// @Param        chefId  path  string  true  "Chef id"
// @Success      200  {array}  domain.ValidationDossier
// @Router       /api/validation/dossiers/chef/{chefId} [get]
func (h *ValidationHandler) ByChef(c echo.Context) error {
	list, err := h.service.ByChef(c.Request().Context(), c.Param("chefId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// ByStatut returns the validations in a given state.
//
// @Summary      List validations by state
// @Tags         validations
// @Produce      json
// @Security     BearerAuth
// @Param        statut  path  string  true  "EN_ATTENTE, VALIDE or REJETE"
// @Success      200  {array}   domain.ValidationDossier
// @Failure      400  {object}  map[string]string
// @Router       /api/validation/dossiers/statut/{statut} [get]
func (h *ValidationHandler) ByStatut(c echo.Context) error {
	statut := domain.StatutValidation(c.Param("statut"))
	if !domain.ValidStatutValidation(statut) {
		return echo.NewHTTPError(http.StatusBadRequest, "statut inconnu")
	}
	list, err := h.service.ByStatut(c.Request().Context(), statut)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Stats returns the aggregate counters recomputed from the collection.
//
// @Summary      Validation statistics
// @Tags         validations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.ValidationStats
// @Router       /api/validation/dossiers/stats [get]
func (h *ValidationHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
