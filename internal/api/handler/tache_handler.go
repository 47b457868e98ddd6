package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
	"github.com/carthage-creance/recovery-api/internal/infrastructure/poller"
)

// TacheHandler exposes urgent task management. The dashboard list is served
// from the poller snapshot so heavy polling traffic never reaches the
// database.
type TacheHandler struct {
	service  ports.TacheService
	snapshot *poller.Poller[domain.TacheUrgente]
}

func NewTacheHandler(service ports.TacheService, snapshot *poller.Poller[domain.TacheUrgente]) *TacheHandler {
	return &TacheHandler{service: service, snapshot: snapshot}
}

type createTacheRequest struct {
	Titre        string    `json:"titre"`
	Description  string    `json:"description"`
	Type         string    `json:"type,omitempty"`
	Priorite     string    `json:"priorite,omitempty"`
	Statut       string    `json:"statut,omitempty"`
	AgentID      string    `json:"agent_id"`
	DossierID    string    `json:"dossier_id,omitempty"`
	DateEcheance time.Time `json:"date_echeance"`
}

type assignGroupeRequest struct {
	Tache    createTacheRequest `json:"tache"`
	AgentIDs []string           `json:"agent_ids" validate:"required,min=1"`
}

type tacheView struct {
	domain.TacheUrgente
	EnRetard      bool `json:"en_retard"`
	JoursRestants int  `json:"jours_restants"`
}

type snapshotResponse struct {
	Taches      []tacheView `json:"taches"`
	RefreshedAt time.Time   `json:"refreshed_at"`
}

func (h *TacheHandler) toInput(req createTacheRequest, chefID string) ports.CreateTacheInput {
	return ports.CreateTacheInput{
		Titre:        req.Titre,
		Description:  req.Description,
		Type:         domain.TypeTache(req.Type),
		Priorite:     domain.PrioriteTache(req.Priorite),
		Statut:       domain.StatutTache(req.Statut),
		AgentID:      req.AgentID,
		ChefID:       chefID,
		DossierID:    req.DossierID,
		DateEcheance: req.DateEcheance,
	}
}

func toViews(taches []domain.TacheUrgente, now time.Time) []tacheView {
	views := make([]tacheView, 0, len(taches))
	for _, t := range taches {
		views = append(views, tacheView{
			TacheUrgente:  t,
			EnRetard:      t.EnRetard(now),
			JoursRestants: t.JoursRestants(now),
		})
	}
	return views
}

// Create assigns a new urgent task. Incomplete submissions are dropped
// without error; the response is 204 in that case.
//
// @Summary      Create an urgent task
// @Tags         taches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTacheRequest  true  "Task details"
// @Success      201   {object}  domain.TacheUrgente
// @Success      204
// @Router       /api/taches-urgentes [post]
func (h *TacheHandler) Create(c echo.Context) error {
	var req createTacheRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	t, err := h.service.Create(c.Request().Context(), h.toInput(req, user.ID))
	if err != nil {
		return err
	}
	if t == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, t)
}

// List returns tasks matching the compound filter.
//
// @Summary      List urgent tasks
// @Tags         taches
// @Produce      json
// @Security     BearerAuth
// @Param        recherche  query  string  false  "Substring over title, description and agent name"
// @Param        statut     query  string  false  "Exact state, or TOUS to disable"
// @Param        priorite   query  string  false  "Exact priority, or TOUS to disable"
// @Success      200  {array}  tacheView
// @Router       /api/taches-urgentes [get]
func (h *TacheHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context(), ports.TacheFilter{
		Recherche: c.QueryParam("recherche"),
		Statut:    c.QueryParam("statut"),
		Priorite:  c.QueryParam("priorite"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(list, time.Now().UTC()))
}

// Snapshot serves the poller's last refresh, for the dashboard widgets.
//
// @Summary      Urgent task snapshot
// @Tags         taches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  snapshotResponse
// @Router       /api/taches-urgentes/snapshot [get]
func (h *TacheHandler) Snapshot(c echo.Context) error {
	taches, refreshedAt := h.snapshot.Snapshot()
	return c.JSON(http.StatusOK, snapshotResponse{
		Taches:      toViews(taches, time.Now().UTC()),
		RefreshedAt: refreshedAt,
	})
}

// EnRetard returns overdue unfinished tasks.
//
// @Summary      List overdue tasks
// @Tags         taches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  tacheView
// @Router       /api/taches-urgentes/en-retard [get]
func (h *TacheHandler) EnRetard(c echo.Context) error {
	list, err := h.service.EnRetard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViews(list, time.Now().UTC()))
}

// Get returns a single task.
//
// @Summary      Get a task by id
// @Tags         taches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  domain.TacheUrgente
// @Failure      404  {object}  map[string]string
// @Router       /api/taches-urgentes/{id} [get]
func (h *TacheHandler) Get(c echo.Context) error {
	t, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

type updateTacheRequest struct {
	Titre        string     `json:"titre,omitempty"`
	Description  string     `json:"description,omitempty"`
	Type         string     `json:"type,omitempty"`
	Priorite     string     `json:"priorite,omitempty"`
	Statut       string     `json:"statut,omitempty"`
	AgentID      string     `json:"agent_id,omitempty"`
	DossierID    string     `json:"dossier_id,omitempty"`
	DateEcheance *time.Time `json:"date_echeance,omitempty"`
}

// Update edits a task. Absent fields keep their stored value.
//
// @Summary      Update a task
// @Tags         taches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Task id"
// @Param        body  body      updateTacheRequest  true  "Fields to change"
// @Success      200   {object}  domain.TacheUrgente
// @Failure      404   {object}  map[string]string
// @Router       /api/taches-urgentes/{id} [put]
func (h *TacheHandler) Update(c echo.Context) error {
	var req updateTacheRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	t, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if req.Titre != "" {
		t.Titre = req.Titre
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Type != "" {
		t.Type = domain.TypeTache(req.Type)
	}
	if req.Priorite != "" {
		t.Priorite = domain.PrioriteTache(req.Priorite)
	}
	if req.Statut != "" {
		t.Statut = domain.StatutTache(req.Statut)
	}
	if req.AgentID != "" {
		t.AgentID = req.AgentID
	}
	if req.DossierID != "" {
		t.DossierID = req.DossierID
	}
	if req.DateEcheance != nil {
		t.DateEcheance = *req.DateEcheance
	}

	if err := h.service.Update(c.Request().Context(), t); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// Terminer marks a task finished by its assignee.
//
// @Summary      Finish a task
// @Tags         taches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  domain.TacheUrgente
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/taches-urgentes/{id}/terminer [put]
func (h *TacheHandler) Terminer(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	t, err := h.service.Terminer(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// Delete removes a task.
//
// @Summary      Delete a task
// @Tags         taches
// @Security     BearerAuth
// @Param        id  path  string  true  "Task id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/taches-urgentes/{id} [delete]
func (h *TacheHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignerGroupe assigns one task per listed agent.
//
// @Summary      Assign a task to a group of agents
// @Tags         taches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      assignGroupeRequest  true  "Task and agent ids"
// @Success      201   {array}   domain.TacheUrgente
// @Router       /api/taches-urgentes/groupe [post]
func (h *TacheHandler) AssignerGroupe(c echo.Context) error {
	var req assignGroupeRequest
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

	created, err := h.service.AssignerGroupe(c.Request().Context(), h.toInput(req.Tache, user.ID), req.AgentIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// AssignerAgentsDuChef assigns the task to every agent of a chef.
//
// @Summary      Assign a task to all agents of a chef
// @Tags         taches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        chefId  path      string              true  "Chef id"
// @Param        body    body      createTacheRequest  true  "Task details"
// @Success      201     {array}   domain.TacheUrgente
// @Failure      404     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Router       /api/taches-urgentes/agents/{chefId} [post]
func (h *TacheHandler) AssignerAgentsDuChef(c echo.Context) error {
	var req createTacheRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	created, err := h.service.AssignerAgentsDuChef(c.Request().Context(), h.toInput(req, user.ID), c.Param("chefId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// AssignerTous assigns the task to every agent in the directory.
//
// @Summary      Assign a task to every agent
// @Tags         taches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTacheRequest  true  "Task details"
// @Success      201   {array}   domain.TacheUrgente
// @Router       /api/taches-urgentes/tous [post]
func (h *TacheHandler) AssignerTous(c echo.Context) error {
	var req createTacheRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	created, err := h.service.AssignerTous(c.Request().Context(), h.toInput(req, user.ID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}
