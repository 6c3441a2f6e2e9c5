package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/Meet3141/CampusConnect/internal/service"
)

// ClubHandler handles club and membership HTTP requests.
type ClubHandler struct {
	clubs *service.ClubService
}

// NewClubHandler creates a new ClubHandler.
func NewClubHandler(clubs *service.ClubService) *ClubHandler {
	return &ClubHandler{clubs: clubs}
}

// HandleCreate creates a club administered by the caller.
// POST /api/clubs
func (h *ClubHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		CoverImage  *string `json:"coverImage"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	club, err := h.clubs.Create(r.Context(), IdentityFromContext(r.Context()), service.ClubInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    domain.ClubCategory(req.Category),
		CoverImage:  req.CoverImage,
	})
	if err != nil {
		writeServiceError(w, r, "create club", err)
		return
	}
	writeOK(w, http.StatusCreated, map[string]any{"data": toClubDTO(club)})
}

// HandleList lists clubs.
// GET /api/clubs?category=&q=&page=&limit=
func (h *ClubHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageFromQuery(r)
	clubs, total, err := h.clubs.List(r.Context(), domain.ClubFilter{
		Category: domain.ClubCategory(q.Get("category")),
		Query:    q.Get("q"),
		Page:     page,
	})
	if err != nil {
		writeServiceError(w, r, "list clubs", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{
		"data": toClubDTOs(clubs),
		"meta": metaDTO{Total: total, Page: page.Number, Limit: page.Limit},
	})
}

// HandleGet returns one club.
// GET /api/clubs/{id}
func (h *ClubHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	club, err := h.clubs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get club", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"data": toClubDTO(club)})
}

// HandleUpdate partially updates a club the caller manages.
// PUT /api/clubs/{id}
func (h *ClubHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		CoverImage  *string `json:"coverImage"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := service.ClubPatch{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	}
	if req.Category != nil {
		c := domain.ClubCategory(*req.Category)
		patch.Category = &c
	}

	club, err := h.clubs.Update(r.Context(), IdentityFromContext(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, "update club", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"data": toClubDTO(club)})
}

// HandleDelete deletes a club. Route-gated to orgAdmin.
// DELETE /api/clubs/{id}
func (h *ClubHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.clubs.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete club", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"message": "Club deleted"})
}

// HandleJoin files a membership request.
// POST /api/clubs/{id}/join
func (h *ClubHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	if err := h.clubs.Join(r.Context(), IdentityFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "join club", err)
		return
	}
	writeOK(w, http.StatusCreated, map[string]any{"message": "Join request submitted"})
}

// HandleLeave removes the caller's membership.
// POST /api/clubs/{id}/leave
func (h *ClubHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	if err := h.clubs.Leave(r.Context(), IdentityFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "leave club", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"message": "Left club"})
}

// HandleMembers lists membership entries with their approval status.
// GET /api/clubs/{id}/members
func (h *ClubHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.clubs.Members(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "list club members", err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"data": toMemberDTOs(members)})
}

// HandleApprove approves a membership request.
// POST /api/clubs/{id}/approve-member  {"memberId":"..."}
func (h *ClubHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "approve member", "Member approved", h.clubs.Approve)
}

// HandleReject rejects a membership request.
// POST /api/clubs/{id}/reject-member  {"memberId":"..."}
func (h *ClubHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "reject member", "Member rejected", h.clubs.Reject)
}

type memberDecision func(ctx context.Context, id *domain.Identity, clubID, memberID string) error

func (h *ClubHandler) decide(w http.ResponseWriter, r *http.Request, op, okMessage string, fn memberDecision) {
	var req struct {
		MemberID string `json:"memberId"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := fn(r.Context(), IdentityFromContext(r.Context()), r.PathValue("id"), req.MemberID); err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"message": okMessage})
}

func pageFromQuery(r *http.Request) domain.Page {
	number, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return service.NewPage(number, limit)
}
