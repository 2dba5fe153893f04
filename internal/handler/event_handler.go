package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"campusconnect/internal/model"
	"campusconnect/internal/service"
)

// ContentGenerator produces event copy and answers. Implementations never fail;
// they fall back to fixed text.
type ContentGenerator interface {
	Describe(ctx context.Context, title string, category model.Category) string
	Summarize(ctx context.Context, description string) string
	Poster(ctx context.Context, title string, category model.Category) string
	Ask(ctx context.Context, title, description, question string) string
}

// EventHandler handles the student-facing event endpoints.
type EventHandler struct {
	eventService service.EventService
	content      ContentGenerator
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService, content ContentGenerator) *EventHandler {
	return &EventHandler{eventService: eventService, content: content}
}

// CheckInRequest is the evidence for a self check-in.
type CheckInRequest struct {
	Latitude    *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	PhotoBase64 string   `json:"photo_base64"`
}

// AskRequest is a question about an event.
type AskRequest struct {
	Question string `json:"question" validate:"required,max=500"`
}

// AskResponse carries the answer to an event question.
type AskResponse struct {
	Answer string `json:"answer"`
}

// ListEvents godoc
// @Summary List events
// @Description Newest first. The registry is seeded with default events on first use.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive filter over title, location and category"
// @Success 200 {array} model.Event
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.eventService.ListEvents(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.eventService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// Register godoc
// @Summary Register for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /events/{id}/register [post]
func (h *EventHandler) Register(c echo.Context) error {
	return h.forCurrentUser(c, h.eventService.Register)
}

// Unregister godoc
// @Summary Cancel a registration
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id}/register [delete]
func (h *EventHandler) Unregister(c echo.Context) error {
	return h.forCurrentUser(c, h.eventService.Unregister)
}

// ToggleReminder godoc
// @Summary Toggle the 24h reminder for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id}/reminder [post]
func (h *EventHandler) ToggleReminder(c echo.Context) error {
	return h.forCurrentUser(c, h.eventService.ToggleReminder)
}

// CheckIn godoc
// @Summary Self check-in
// @Description Verifies the attendance photo and venue distance, then marks the caller as attended and issues a certificate.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body CheckInRequest true "Check-in evidence"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /events/{id}/check-in [post]
func (h *EventHandler) CheckIn(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CheckInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	checkIn := service.CheckInRequest{PhotoBase64: req.PhotoBase64}
	if req.Latitude != nil && req.Longitude != nil {
		checkIn.Location = &model.Coordinates{Lat: *req.Latitude, Lng: *req.Longitude}
	}

	event, err := h.eventService.CheckIn(c.Request().Context(), c.Param("id"), claims.UserID, checkIn)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// Ask godoc
// @Summary Ask a question about an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body AskRequest true "Question"
// @Success 200 {object} AskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id}/ask [post]
func (h *EventHandler) Ask(c echo.Context) error {
	var req AskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	event, err := h.eventService.GetEvent(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, AskResponse{
		Answer: h.content.Ask(ctx, event.Title, event.Description, req.Question),
	})
}

// ListVenues godoc
// @Summary Campus venue catalog
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Venue
// @Router /venues [get]
func (h *EventHandler) ListVenues(c echo.Context) error {
	return c.JSON(http.StatusOK, model.CampusVenues)
}

func (h *EventHandler) forCurrentUser(c echo.Context, op func(ctx context.Context, eventID, userID string) (*model.Event, error)) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	event, err := op(c.Request().Context(), c.Param("id"), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}
