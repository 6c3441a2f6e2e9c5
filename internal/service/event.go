package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Meet3141/CampusConnect/internal/domain"
)

// EventService handles events, RSVPs and volunteer sign-ups.
type EventService struct {
	events domain.EventRepository
	clubs  domain.ClubRepository
	now    func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(events domain.EventRepository, clubs domain.ClubRepository) *EventService {
	return &EventService{events: events, clubs: clubs, now: time.Now}
}

type EventInput struct {
	Title        string
	Description  string
	ClubID       string
	Category     domain.EventCategory
	Date         time.Time
	Venue        string
	MaxAttendees *int
	Image        *string
}

// EventPatch holds optional event changes; nil fields are left untouched.
// A MaxAttendees of 0 removes the capacity limit.
type EventPatch struct {
	Title        *string
	Description  *string
	Category     *domain.EventCategory
	Date         *time.Time
	Venue        *string
	MaxAttendees *int
	Image        *string
	Status       *domain.EventStatus
}

// Create adds an event to a club the caller manages.
func (s *EventService) Create(ctx context.Context, id *domain.Identity, in EventInput) (*domain.Event, error) {
	if id == nil {
		return nil, domain.ErrAuthRequired
	}
	event := &domain.Event{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		ClubID:       in.ClubID,
		Category:     in.Category,
		Date:         in.Date,
		Venue:        strings.TrimSpace(in.Venue),
		MaxAttendees: in.MaxAttendees,
		CreatedBy:    id.UserID,
		Image:        in.Image,
		Status:       domain.EventStatusUpcoming,
	}
	if event.ClubID == "" {
		return nil, domain.Invalid("clubId is required")
	}
	if err := s.validate(event, true); err != nil {
		return nil, err
	}

	club, err := s.clubs.GetByID(ctx, event.ClubID)
	if err != nil {
		return nil, err
	}
	if !CanManageClub(id, club) {
		return nil, domain.Forbidden("Forbidden")
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.events.GetByID(ctx, event.ID)
}

func (s *EventService) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, 0, domain.Invalid("Invalid category %q", filter.Category)
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return s.events.List(ctx, filter)
}

func (s *EventService) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.events.GetByID(ctx, eventID)
}

// Update applies patch to an event created by the caller (or any event for an
// organisation admin).
func (s *EventService) Update(ctx context.Context, id *domain.Identity, eventID string, patch EventPatch) (*domain.Event, error) {
	event, err := s.ownedEvent(ctx, id, eventID)
	if err != nil {
		return nil, err
	}

	dateChanged := false
	if patch.Title != nil {
		event.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		event.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.Date != nil && !patch.Date.Equal(event.Date) {
		event.Date = *patch.Date
		dateChanged = true
	}
	if patch.Venue != nil {
		event.Venue = strings.TrimSpace(*patch.Venue)
	}
	if patch.MaxAttendees != nil {
		if *patch.MaxAttendees == 0 {
			event.MaxAttendees = nil
		} else {
			event.MaxAttendees = patch.MaxAttendees
		}
	}
	if patch.Image != nil {
		event.Image = patch.Image
	}
	if patch.Status != nil {
		event.Status = *patch.Status
	}

	if err := s.validate(event, dateChanged); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id *domain.Identity, eventID string) error {
	if _, err := s.ownedEvent(ctx, id, eventID); err != nil {
		return err
	}
	return s.events.Delete(ctx, eventID)
}

// RSVP registers the caller for an event, reviving a cancelled registration.
func (s *EventService) RSVP(ctx context.Context, id *domain.Identity, eventID string) error {
	if id == nil {
		return domain.ErrAuthRequired
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}

	a, err := s.events.GetAttendee(ctx, eventID, id.UserID)
	switch {
	case err == nil && a.Status == domain.AttendeeStatusRegistered:
		return domain.Invalid("Already registered")
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return err
	}

	ok, err := s.events.Register(ctx, eventID, id.UserID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.Invalid("Event is full")
	}
	return nil
}

// CancelRSVP cancels the caller's current registration.
func (s *EventService) CancelRSVP(ctx context.Context, id *domain.Identity, eventID string) error {
	if id == nil {
		return domain.ErrAuthRequired
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}

	a, err := s.events.GetAttendee(ctx, eventID, id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("Not registered")
		}
		return err
	}
	if a.Status != domain.AttendeeStatusRegistered {
		return domain.Invalid("Not registered")
	}
	return s.events.SetAttendeeStatus(ctx, eventID, id.UserID, domain.AttendeeStatusCancelled)
}

func (s *EventService) Attendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.events.ListAttendees(ctx, eventID)
}

func (s *EventService) Volunteer(ctx context.Context, id *domain.Identity, eventID string) error {
	if id == nil {
		return domain.ErrAuthRequired
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.events.AddVolunteer(ctx, eventID, id.UserID)
}

func (s *EventService) ownedEvent(ctx context.Context, id *domain.Identity, eventID string) (*domain.Event, error) {
	if id == nil {
		return nil, domain.ErrAuthRequired
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != id.UserID && !id.Roles.Has(domain.RoleOrgAdmin) {
		return nil, domain.Forbidden("Forbidden")
	}
	return event, nil
}

func (s *EventService) validate(e *domain.Event, checkDate bool) error {
	switch {
	case e.Title == "":
		return domain.Invalid("Event title is required")
	case utf8.RuneCountInString(e.Title) > 200:
		return domain.Invalid("Event title must be at most 200 characters")
	case e.Description == "":
		return domain.Invalid("Event description is required")
	case utf8.RuneCountInString(e.Description) > 2000:
		return domain.Invalid("Event description must be at most 2000 characters")
	case !e.Category.Valid():
		return domain.Invalid("Invalid category %q", e.Category)
	case e.Date.IsZero():
		return domain.Invalid("Event date is required")
	case checkDate && !e.Date.After(s.now()):
		return domain.Invalid("Event date must be in the future")
	case e.Venue == "":
		return domain.Invalid("Event venue is required")
	case e.MaxAttendees != nil && *e.MaxAttendees < 1:
		return domain.Invalid("maxAttendees must be positive")
	case !e.Status.Valid():
		return domain.Invalid("Invalid status %q", e.Status)
	}
	return nil
}
