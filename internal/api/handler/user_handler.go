package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// UserHandler exposes the user directory and the chef-to-agents resolver.
type UserHandler struct {
	directory ports.DirectoryService
}

func NewUserHandler(directory ports.DirectoryService) *UserHandler {
	return &UserHandler{directory: directory}
}

type agentsResponse struct {
	Agents []domain.User `json:"agents"`
	// Source tells which resolution path produced the list: "primary" for
	// the chef-scoped lookup, "fallback" for the full-directory scan.
	Source ports.AgentSource `json:"source"`
}

// List returns every user in the directory.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.User
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.directory.AllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// AgentsDuChef resolves the agents created by a chef.
//
// @Summary      List the agents of a chef
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        chefId  path      string  true  "Chef id"
// @Success      200     {object}  agentsResponse
// @Failure      404     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Failure      503     {object}  map[string]string
// @Router       /api/users/chef/{chefId}/agents [get]
func (h *UserHandler) AgentsDuChef(c echo.Context) error {
	result, err := h.directory.AgentsForChef(c.Request().Context(), c.Param("chefId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agentsResponse{Agents: result.Agents, Source: result.Source})
}
