package handler

import (
	"time"

	"github.com/Meet3141/CampusConnect/internal/domain"
)

// UserDTO is the sanitized JSON representation of a user. It has no password field.
type UserDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Roles          []string `json:"roles"`
	ProfilePicture *string  `json:"profilePicture"`
	Bio            string   `json:"bio"`
	Phone          *string  `json:"phone"`
	IsVerified     bool     `json:"isVerified"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Roles:          roleStrings(u.Roles),
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		Phone:          u.Phone,
		IsVerified:     u.IsVerified,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
}

func roleStrings(rs domain.Roles) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

type UserRefDTO struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

// ClubDTO is the JSON representation of a club.
type ClubDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Admin       UserRefDTO `json:"admin"`
	CoverImage  *string    `json:"coverImage"`
	MemberCount int        `json:"memberCount"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

func toClubDTO(c *domain.Club) ClubDTO {
	return ClubDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Category:    string(c.Category),
		Admin:       UserRefDTO{ID: c.AdminID, Name: c.AdminName, Email: c.AdminEmail},
		CoverImage:  c.CoverImage,
		MemberCount: c.MemberCount,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

func toClubDTOs(clubs []domain.Club) []ClubDTO {
	dtos := make([]ClubDTO, len(clubs))
	for i := range clubs {
		dtos[i] = toClubDTO(&clubs[i])
	}
	return dtos
}

// MemberDTO is the JSON representation of a club membership entry.
type MemberDTO struct {
	User       UserRefDTO `json:"user"`
	Status     string     `json:"status"`
	JoinedAt   string     `json:"joinedAt"`
	ApprovedBy *string    `json:"approvedBy"`
	ApprovedAt *string    `json:"approvedAt"`
}

func toMemberDTOs(members []domain.ClubMember) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = MemberDTO{
			User:       UserRefDTO{ID: m.UserID, Name: m.UserName, Email: m.UserEmail, Roles: roleStrings(m.UserRoles)},
			Status:     string(m.Status),
			JoinedAt:   m.JoinedAt.Format(time.RFC3339),
			ApprovedBy: m.ApprovedBy,
		}
		if m.ApprovedAt != nil {
			t := m.ApprovedAt.Format(time.RFC3339)
			dtos[i].ApprovedAt = &t
		}
	}
	return dtos
}

// EventDTO is the JSON representation of an event.
type EventDTO struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ClubID       string   `json:"clubId"`
	ClubName     string   `json:"clubName"`
	Category     string   `json:"category"`
	Date         string   `json:"date"`
	Venue        string   `json:"venue"`
	MaxAttendees *int     `json:"maxAttendees"`
	CreatedBy    string   `json:"createdBy"`
	Image        *string  `json:"image"`
	Status       string   `json:"status"`
	Volunteers   []string `json:"volunteers,omitempty"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

func toEventDTO(e *domain.Event) EventDTO {
	return EventDTO{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		ClubID:       e.ClubID,
		ClubName:     e.ClubName,
		Category:     string(e.Category),
		Date:         e.Date.UTC().Format(time.RFC3339),
		Venue:        e.Venue,
		MaxAttendees: e.MaxAttendees,
		CreatedBy:    e.CreatedBy,
		Image:        e.Image,
		Status:       string(e.Status),
		Volunteers:   e.Volunteers,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}

func toEventDTOs(events []domain.Event) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i := range events {
		dtos[i] = toEventDTO(&events[i])
	}
	return dtos
}

type AttendeeDTO struct {
	User         UserRefDTO `json:"user"`
	Status       string     `json:"status"`
	RegisteredAt string     `json:"registeredAt"`
}

func toAttendeeDTOs(attendees []domain.Attendee) []AttendeeDTO {
	dtos := make([]AttendeeDTO, len(attendees))
	for i, a := range attendees {
		dtos[i] = AttendeeDTO{
			User:         UserRefDTO{ID: a.UserID, Name: a.UserName, Email: a.UserEmail, Roles: roleStrings(a.UserRoles)},
			Status:       string(a.Status),
			RegisteredAt: a.RegisteredAt.Format(time.RFC3339),
		}
	}
	return dtos
}

type metaDTO struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
