package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// NotificationHandler exposes notification delivery and the per-user inbox.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type sendNotificationRequest struct {
	DestinataireID string `json:"destinataire_id"`
	Type           string `json:"type" validate:"required"`
	Titre          string `json:"titre" validate:"required"`
	Message        string `json:"message" validate:"required"`
	LienID         string `json:"lien_id,omitempty"`
	LienType       string `json:"lien_type,omitempty"`
}

type sendGroupeRequest struct {
	sendNotificationRequest
	DestinataireIDs []string `json:"destinataire_ids" validate:"required,min=1"`
}

type unreadCountResponse struct {
	Count int64 `json:"count"`
}

type allowedTypesResponse struct {
	Types []domain.NotificationType `json:"types"`
}

func (r sendNotificationRequest) toInput() ports.SendNotificationInput {
	return ports.SendNotificationInput{
		DestinataireID: r.DestinataireID,
		Type:           domain.NotificationType(r.Type),
		Titre:          r.Titre,
		Message:        r.Message,
		LienID:         r.LienID,
		LienType:       r.LienType,
	}
}

// Send delivers a notification to one user.
//
// @Summary      Send a notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendNotificationRequest  true  "Notification"
// @Success      201   {object}  domain.Notification
// @Failure      403   {object}  map[string]string
// @Router       /api/notifications [post]
func (h *NotificationHandler) Send(c echo.Context) error {
	var req sendNotificationRequest
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

	n, err := h.service.Send(c.Request().Context(), user, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

// SendGroupe delivers a notification to a list of users.
//
// @Summary      Send a notification to several users
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendGroupeRequest  true  "Notification and recipients"
// @Success      201   {array}   domain.Notification
// @Router       /api/notifications/groupe [post]
func (h *NotificationHandler) SendGroupe(c echo.Context) error {
	var req sendGroupeRequest
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

	sent, err := h.service.SendGroupe(c.Request().Context(), user, req.toInput(), req.DestinataireIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sent)
}

// SendAgentsDuChef delivers a notification to every agent of a chef.
//
// @Summary      Notify all agents of a chef
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        chefId  path      string                   true  "Chef id"
// @Param        body    body      sendNotificationRequest  true  "Notification"
// @Success      201     {array}   domain.Notification
// @Failure      404     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Router       /api/notifications/agents/{chefId} [post]
func (h *NotificationHandler) SendAgentsDuChef(c echo.Context) error {
	var req sendNotificationRequest
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

	sent, err := h.service.SendAgentsDuChef(c.Request().Context(), user, req.toInput(), c.Param("chefId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sent)
}

// SendTous delivers a notification to every user.
//
// @Summary      Notify every user
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendNotificationRequest  true  "Notification"
// @Success      201   {array}   domain.Notification
// @Router       /api/notifications/tous [post]
func (h *NotificationHandler) SendTous(c echo.Context) error {
	var req sendNotificationRequest
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

	sent, err := h.service.SendTous(c.Request().Context(), user, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sent)
}

// Mine returns the caller's notifications, most recent first.
//
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Notification
// @Router       /api/notifications [get]
func (h *NotificationHandler) Mine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	list, err := h.service.ForUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// UnreadCount returns the caller's unread badge count.
//
// @Summary      Count my unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  unreadCountResponse
// @Router       /api/notifications/non-lues/count [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	count, err := h.service.UnreadCount(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unreadCountResponse{Count: count})
}

// AllowedTypes returns the notification types the caller may send.
//
// @Summary      Notification types allowed for my role
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  allowedTypesResponse
// @Router       /api/notifications/types-autorises [get]
func (h *NotificationHandler) AllowedTypes(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, allowedTypesResponse{Types: domain.AllowedNotificationTypes(user.Role)})
}

// MarkRead marks one of the caller's notifications as read.
//
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  domain.Notification
// @Failure      404  {object}  map[string]string
// @Router       /api/notifications/{id}/lue [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	n, err := h.service.MarkRead(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// MarkAllRead marks every notification of the caller as read.
//
// @Summary      Mark all my notifications read
// @Tags         notifications
// @Security     BearerAuth
// @Success      204
// @Router       /api/notifications/lues [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllRead(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes one of the caller's notifications.
//
// @Summary      Delete a notification
// @Tags         notifications
// @Security     BearerAuth
// @Param        id  path  string  true  "Notification id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
