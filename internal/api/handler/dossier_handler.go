package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// DossierHandler exposes créanciers, débiteurs and case files.
type DossierHandler struct {
	service ports.DossierService
}

func NewDossierHandler(service ports.DossierService) *DossierHandler {
	return &DossierHandler{service: service}
}

type createCreancierRequest struct {
	Nom       string `json:"nom" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Telephone string `json:"telephone,omitempty"`
	Adresse   string `json:"adresse,omitempty"`
}

type createDebiteurRequest struct {
	Nom          string  `json:"nom" validate:"required"`
	Email        string  `json:"email,omitempty" validate:"omitempty,email"`
	Telephone    string  `json:"telephone,omitempty"`
	Adresse      string  `json:"adresse,omitempty"`
	MontantDette float64 `json:"montant_dette" validate:"gte=0"`
}

type createDossierRequest struct {
	Titre       string  `json:"titre" validate:"required"`
	Montant     float64 `json:"montant" validate:"gt=0"`
	CreancierID string  `json:"creancier_id" validate:"required"`
	DebiteurID  string  `json:"debiteur_id" validate:"required"`
	AgentID     string  `json:"agent_id,omitempty"`
}

// CreateCreancier registers a creditor.
//
// @Summary      Create a créancier
// @Tags         dossiers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCreancierRequest  true  "Creditor details"
// @Success      201   {object}  domain.Creancier
// @Router       /api/creanciers [post]
func (h *DossierHandler) CreateCreancier(c echo.Context) error {
	var req createCreancierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.CreateCreancier(c.Request().Context(), domain.Creancier{
		Nom:       req.Nom,
		Email:     req.Email,
		Telephone: req.Telephone,
		Adresse:   req.Adresse,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ListCreanciers returns every creditor.
//
// @Summary      List créanciers
// @Tags         dossiers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Creancier
// @Router       /api/creanciers [get]
func (h *DossierHandler) ListCreanciers(c echo.Context) error {
	list, err := h.service.ListCreanciers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// CreateDebiteur registers a debtor.
//
// @Summary      Create a débiteur
// @Tags         dossiers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDebiteurRequest  true  "Debtor details"
// @Success      201   {object}  domain.Debiteur
// @Router       /api/debiteurs [post]
func (h *DossierHandler) CreateDebiteur(c echo.Context) error {
	var req createDebiteurRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.CreateDebiteur(c.Request().Context(), domain.Debiteur{
		Nom:          req.Nom,
		Email:        req.Email,
		Telephone:    req.Telephone,
		Adresse:      req.Adresse,
		MontantDette: req.MontantDette,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ListDebiteurs returns every debtor.
//
// @Summary      List débiteurs
// @Tags         dossiers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Debiteur
// @Router       /api/debiteurs [get]
func (h *DossierHandler) ListDebiteurs(c echo.Context) error {
	list, err := h.service.ListDebiteurs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// CreateDossier opens a case file.
//
// @Summary      Open a dossier
// @Tags         dossiers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDossierRequest  true  "Case file details"
// @Success      201   {object}  domain.Dossier
// @Router       /api/dossiers [post]
func (h *DossierHandler) CreateDossier(c echo.Context) error {
	var req createDossierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.CreateDossier(c.Request().Context(), ports.CreateDossierInput{
		Titre:       req.Titre,
		Montant:     req.Montant,
		CreancierID: req.CreancierID,
		DebiteurID:  req.DebiteurID,
		AgentID:     req.AgentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ListDossiers returns every case file.
//
// @Summary      List dossiers
// @Tags         dossiers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Dossier
// @Router       /api/dossiers [get]
func (h *DossierHandler) ListDossiers(c echo.Context) error {
	list, err := h.service.ListDossiers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// GetDossier returns a single case file.
//
// @Summary      Get a dossier by id
// @Tags         dossiers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Dossier id"
// @Success      200  {object}  domain.Dossier
// @Failure      404  {object}  map[string]string
// @Router       /api/dossiers/{id} [get]
func (h *DossierHandler) GetDossier(c echo.Context) error {
	d, err := h.service.GetDossier(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
