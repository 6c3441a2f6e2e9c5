package handler

import (
	"net/http"
	"time"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/Meet3141/CampusConnect/internal/service"
)

// EventHandler handles event, RSVP and volunteer HTTP requests.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// HandleCreate creates an event for a club the caller manages.
// POST /api/events
// Request: {"title","description","clubId","category","date":"RFC3339","venue","maxAttendees","image"}
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		ClubID       string    `json:"clubId"`
		Category     string    `json:"category"`
		Date         time.Time `json:"date"`
		Venue        string    `json:"venue"`
		MaxAttendees *int      `json:"maxAttendees"`
		Image        *string   `json:"image"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.events.Create(r.Context(), IdentityFromContext(r.Context()), service.EventInput{
		Title:        req.Title,
		Description:  req.Description,
		ClubID:       req.ClubID,
		Category:     domain.EventCategory(req.Category),
		Date:         req.Date,
		Venue:        req.Venue,
		MaxAttendees: req.MaxAttendees,
		Image:        req.Image,
	})
	if err != nil {
		writeServiceError(w, r, "create event", err)
		return
	}
	writeOK(w, http.StatusCreated, map[string]any{"data": toEventDTO(event)})
}

// HandleList lists events in date order.
// GET /api/events?clubId=&category=&q=&page=&limit=
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageFromQuery(r)
	events, total, err := h.events.List(r.Context(), domain.EventFilter{
		ClubID:   q.Get("clubId"),
		Category: domain.EventCategory(q.Get("category")),
		Query:    q.Get("q"),
		Page:     page,
	})
	if err != nil {
		writeServiceError(w, r, "list events", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{
		"data": toEventDTOs(events),
		"meta": metaDTO{Total: total, Page: page.Number, Limit: page.Limit},
	})
}

// HandleGet returns one event.
// GET /api/events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get event", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"data": toEventDTO(event)})
}

// HandleUpdate partially updates an event.
// PUT /api/events/{id}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        *string    `json:"title"`
		Description  *string    `json:"description"`
		Category     *string    `json:"category"`
		Date         *time.Time `json:"date"`
		Venue        *string    `json:"venue"`
		MaxAttendees *int       `json:"maxAttendees"`
		Image        *string    `json:"image"`
		Status       *string    `json:"status"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := service.EventPatch{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Venue:        req.Venue,
		MaxAttendees: req.MaxAttendees,
		Image:        req.Image,
	}
	if req.Category != nil {
		c := domain.EventCategory(*req.Category)
		patch.Category = &c
	}
	if req.Status != nil {
		s := domain.EventStatus(*req.Status)
		patch.Status = &s
	}

	event, err := h.events.Update(r.Context(), IdentityFromContext(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, "update event", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"data": toEventDTO(event)})
}

// HandleDelete deletes an event.
// DELETE /api/events/{id}
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), IdentityFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete event", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"message": "Event deleted"})
}

// HandleRSVP registers the caller.
// POST /api/events/{id}/rsvp
func (h *EventHandler) HandleRSVP(w http.ResponseWriter, r *http.Request) {
	if err := h.events.RSVP(r.Context(), IdentityFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "rsvp event", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"message": "Registered for event"})
}

// HandleCancelRSVP cancels the caller's registration.
// POST /api/events/{id}/cancel-rsvp
func (h *EventHandler) HandleCancelRSVP(w http.ResponseWriter, r *http.Request) {
	if err := h.events.CancelRSVP(r.Context(), IdentityFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "cancel rsvp", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"message": "Registration cancelled"})
}

// HandleAttendees lists attendees.
// GET /api/events/{id}/attendees
func (h *EventHandler) HandleAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.events.Attendees(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "list attendees", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"data": toAttendeeDTOs(attendees)})
}

// HandleVolunteer signs the caller up as a volunteer.
// POST /api/events/{id}/volunteer
func (h *EventHandler) HandleVolunteer(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Volunteer(r.Context(), IdentityFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "volunteer for event", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"message": "Signed up as volunteer"})
}
