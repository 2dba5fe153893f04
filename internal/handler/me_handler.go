package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campusconnect/internal/model"
	"campusconnect/internal/service"
)

// MeHandler serves the caller's inbox, certificates and data purge.
type MeHandler struct {
	notificationService service.NotificationService
	certificateService  service.CertificateService
	eventService        service.EventService
}

// NewMeHandler creates a new handler for the /me endpoints.
func NewMeHandler(
	notificationService service.NotificationService,
	certificateService service.CertificateService,
	eventService service.EventService,
) *MeHandler {
	return &MeHandler{
		notificationService: notificationService,
		certificateService:  certificateService,
		eventService:        eventService,
	}
}

// NotificationsResponse is the caller's inbox.
type NotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
}

// ScanResponse lists the reminders created by a scan.
type ScanResponse struct {
	Created []model.Notification `json:"created"`
}

// ListNotifications godoc
// @Summary List my notifications
// @Description Newest first, with the unread count.
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} NotificationsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/notifications [get]
func (h *MeHandler) ListNotifications(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	list, err := h.notificationService.ListNotifications(ctx, claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	unread, err := h.notificationService.UnreadCount(ctx, claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NotificationsResponse{Notifications: list, UnreadCount: unread})
}

// ScanReminders godoc
// @Summary Scan for due reminders now
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ScanResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/notifications/scan [post]
func (h *MeHandler) ScanReminders(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	created, err := h.notificationService.ScanReminders(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	if created == nil {
		created = []model.Notification{}
	}
	return c.JSON(http.StatusOK, ScanResponse{Created: created})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags me
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /notifications/{id}/read [post]
func (h *MeHandler) MarkRead(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), claims.UserID, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCertificates godoc
// @Summary List my certificates
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Certificate
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/certificates [get]
func (h *MeHandler) ListCertificates(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	certs, err := h.certificateService.ListCertificates(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, certs)
}

// ClearData godoc
// @Summary Delete all my registrations, certificates and notifications
// @Tags me
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/data [delete]
func (h *MeHandler) ClearData(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.eventService.ClearUserData(c.Request().Context(), claims.UserID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
