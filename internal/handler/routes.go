package handler

import (
	"net/http"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/Meet3141/CampusConnect/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, clubs *service.ClubService,
	events *service.EventService, db Pinger, limiter *service.RateLimiter) {
	ah := NewAuthHandler(auth)
	ch := NewClubHandler(clubs)
	eh := NewEventHandler(events)

	authed := RequireAuth(auth)
	limited := RateLimit(limiter)
	gate := func(roles ...domain.Role) func(http.Handler) http.Handler {
		return func(h http.Handler) http.Handler {
			return authed(RequireRoles(roles...)(h))
		}
	}
	managers := gate(domain.RoleClubAdmin, domain.RoleOrgAdmin)
	orgAdmins := gate(domain.RoleOrgAdmin)

	mux.HandleFunc("GET /healthz", HandleHealthz(db))

	mux.Handle("POST /api/auth/register", limited(http.HandlerFunc(ah.HandleRegister)))
	mux.Handle("POST /api/auth/login", limited(http.HandlerFunc(ah.HandleLogin)))
	mux.Handle("POST /api/auth/refresh-token", limited(http.HandlerFunc(ah.HandleRefresh)))
	mux.Handle("GET /api/auth/verify", authed(http.HandlerFunc(ah.HandleVerify)))

	mux.Handle("POST /api/clubs", managers(http.HandlerFunc(ch.HandleCreate)))
	mux.HandleFunc("GET /api/clubs", ch.HandleList)
	mux.HandleFunc("GET /api/clubs/{id}", ch.HandleGet)
	mux.Handle("PUT /api/clubs/{id}", authed(http.HandlerFunc(ch.HandleUpdate)))
	mux.Handle("DELETE /api/clubs/{id}", orgAdmins(http.HandlerFunc(ch.HandleDelete)))
	mux.Handle("POST /api/clubs/{id}/join", authed(http.HandlerFunc(ch.HandleJoin)))
	mux.Handle("POST /api/clubs/{id}/leave", authed(http.HandlerFunc(ch.HandleLeave)))
	mux.Handle("GET /api/clubs/{id}/members", authed(http.HandlerFunc(ch.HandleMembers)))
	mux.Handle("POST /api/clubs/{id}/approve-member", managers(http.HandlerFunc(ch.HandleApprove)))
	mux.Handle("POST /api/clubs/{id}/reject-member", managers(http.HandlerFunc(ch.HandleReject)))

	mux.Handle("POST /api/events", managers(http.HandlerFunc(eh.HandleCreate)))
	mux.HandleFunc("GET /api/events", eh.HandleList)
	mux.HandleFunc("GET /api/events/{id}", eh.HandleGet)
	mux.Handle("PUT /api/events/{id}", authed(http.HandlerFunc(eh.HandleUpdate)))
	mux.Handle("DELETE /api/events/{id}", authed(http.HandlerFunc(eh.HandleDelete)))
	mux.Handle("POST /api/events/{id}/rsvp", authed(http.HandlerFunc(eh.HandleRSVP)))
	mux.Handle("POST /api/events/{id}/cancel-rsvp", authed(http.HandlerFunc(eh.HandleCancelRSVP)))
	mux.Handle("GET /api/events/{id}/attendees", authed(http.HandlerFunc(eh.HandleAttendees)))
	mux.Handle("POST /api/events/{id}/volunteer", authed(http.HandlerFunc(eh.HandleVolunteer)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
}
