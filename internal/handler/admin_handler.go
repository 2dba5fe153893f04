package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"campusconnect/internal/errors"
	"campusconnect/internal/model"
	"campusconnect/internal/service"
)

// AdminHandler handles the event management dashboard.
type AdminHandler struct {
	eventService        service.EventService
	notificationService service.NotificationService
	content             ContentGenerator
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	eventService service.EventService,
	notificationService service.NotificationService,
	content ContentGenerator,
) *AdminHandler {
	return &AdminHandler{
		eventService:        eventService,
		notificationService: notificationService,
		content:             content,
	}
}

// EventRequest is the admin-editable part of an event.
type EventRequest struct {
	Title       string         `json:"title" validate:"required,min=2,max=120"`
	Description string         `json:"description" validate:"max=2000"`
	AISummary   string         `json:"ai_summary"`
	Date        time.Time      `json:"date" validate:"required"`
	Location    string         `json:"location" validate:"required"`
	Latitude    *float64       `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64       `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Category    model.Category `json:"category" validate:"required,oneof=Workshop Seminar Cultural Sports Technical"`
	Organizer   string         `json:"organizer" validate:"required"`
	Capacity    int            `json:"capacity" validate:"required,min=1"`
	ImageURL    string         `json:"image_url" validate:"omitempty,url"`
}

func (r *EventRequest) toEvent(id string) *model.Event {
	event := &model.Event{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		AISummary:   r.AISummary,
		Date:        r.Date,
		Location:    r.Location,
		Category:    r.Category,
		Organizer:   r.Organizer,
		Capacity:    r.Capacity,
		ImageURL:    r.ImageURL,
	}
	if r.Latitude != nil && r.Longitude != nil {
		event.Coordinates = &model.Coordinates{Lat: *r.Latitude, Lng: *r.Longitude}
	}
	return event
}

// BulkDeleteRequest removes several events at once.
type BulkDeleteRequest struct {
	IDs     []string `json:"ids" validate:"required,min=1,dive,required"`
	Confirm bool     `json:"confirm"`
}

// ConfirmRequest guards destructive actions.
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

// GenerateRequest asks for generated copy about an event.
type GenerateRequest struct {
	Title    string         `json:"title" validate:"required"`
	Category model.Category `json:"category" validate:"required,oneof=Workshop Seminar Cultural Sports Technical"`
}

// SummaryRequest asks for a short summary of a description.
type SummaryRequest struct {
	Description string `json:"description" validate:"required"`
}

// AnnounceRequest posts a message to a user's inbox.
type AnnounceRequest struct {
	UserID   string         `json:"user_id" validate:"required"`
	Title    string         `json:"title" validate:"required,max=120"`
	Message  string         `json:"message" validate:"required,max=1000"`
	Severity model.Severity `json:"type" validate:"omitempty,oneof=success info warning"`
}

// ContentResponse carries generated text or an image URL.
type ContentResponse struct {
	Content string `json:"content"`
}

// CreateEvent godoc
// @Summary Create event
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EventRequest true "Event"
// @Success 201 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/events [post]
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.eventService.SaveEvent(c.Request().Context(), req.toEvent(""))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update event
// @Description Registrations, check-ins and reminders are kept as stored.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body EventRequest true "Event"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/events/{id} [put]
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.eventService.GetEvent(ctx, id); err != nil {
		return respondError(c, err)
	}

	event, err := h.eventService.SaveEvent(ctx, req.toEvent(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete event
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/events/{id} [delete]
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	if err := h.eventService.DeleteEvent(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteEvents godoc
// @Summary Delete several events
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param request body BulkDeleteRequest true "IDs and confirmation"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/events/delete [post]
func (h *AdminHandler) DeleteEvents(c echo.Context) error {
	var req BulkDeleteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !req.Confirm {
		return respondError(c, errors.ErrConfirmationRequired)
	}

	if err := h.eventService.DeleteEvents(c.Request().Context(), req.IDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleCheckIn godoc
// @Summary Toggle a registrant's attendance
// @Description Checking a user in issues their certificate once. Undoing it keeps the certificate.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param userId path string true "User ID"
// @Success 200 {object} model.Event
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/events/{id}/check-in/{userId} [post]
func (h *AdminHandler) ToggleCheckIn(c echo.Context) error {
	event, err := h.eventService.ToggleCheckIn(c.Request().Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// Reset godoc
// @Summary Reset the registry
// @Description Restores the default events and clears every notification and certificate.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConfirmRequest true "Confirmation"
// @Success 200 {array} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/reset [post]
func (h *AdminHandler) Reset(c echo.Context) error {
	var req ConfirmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !req.Confirm {
		return respondError(c, errors.ErrConfirmationRequired)
	}

	events, err := h.eventService.ResetAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// Stats godoc
// @Summary Registration and attendance totals
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Stats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.eventService.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Announce godoc
// @Summary Send a notification to a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnnounceRequest true "Notification"
// @Success 201 {object} model.Notification
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/notifications [post]
func (h *AdminHandler) Announce(c echo.Context) error {
	var req AnnounceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Severity == "" {
		req.Severity = model.SeverityInfo
	}

	n, err := h.notificationService.Notify(c.Request().Context(), req.UserID, req.Title, req.Message, req.Severity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, n)
}

// GenerateDescription godoc
// @Summary Draft an event description
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateRequest true "Title and category"
// @Success 200 {object} ContentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/content/description [post]
func (h *AdminHandler) GenerateDescription(c echo.Context) error {
	var req GenerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ContentResponse{
		Content: h.content.Describe(c.Request().Context(), req.Title, req.Category),
	})
}

// GenerateSummary godoc
// @Summary Summarise a description
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SummaryRequest true "Description"
// @Success 200 {object} ContentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/content/summary [post]
func (h *AdminHandler) GenerateSummary(c echo.Context) error {
	var req SummaryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ContentResponse{
		Content: h.content.Summarize(c.Request().Context(), req.Description),
	})
}

// GeneratePoster godoc
// @Summary Generate a poster image
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateRequest true "Title and category"
// @Success 200 {object} ContentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/content/poster [post]
func (h *AdminHandler) GeneratePoster(c echo.Context) error {
	var req GenerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ContentResponse{
		Content: h.content.Poster(c.Request().Context(), req.Title, req.Category),
	})
}
