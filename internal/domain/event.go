package domain

import (
	"context"
	"slices"
	"time"
)

type EventCategory string

const (
	EventCategoryHackathon EventCategory = "hackathon"
	EventCategoryWorkshop  EventCategory = "workshop"
	EventCategoryWebinar   EventCategory = "webinar"
	EventCategoryCultural  EventCategory = "cultural"
	EventCategorySports    EventCategory = "sports"
	EventCategoryMeeting   EventCategory = "meeting"
)

func (c EventCategory) Valid() bool {
	return slices.Contains([]EventCategory{
		EventCategoryHackathon, EventCategoryWorkshop, EventCategoryWebinar,
		EventCategoryCultural, EventCategorySports, EventCategoryMeeting,
	}, c)
}

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	return slices.Contains([]EventStatus{
		EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled,
	}, s)
}

type AttendeeStatus string

const (
	AttendeeStatusRegistered AttendeeStatus = "registered"
	AttendeeStatusAttended   AttendeeStatus = "attended"
	AttendeeStatusCancelled  AttendeeStatus = "cancelled"
)

// Event is a club-hosted event. A nil MaxAttendees means unlimited capacity.
type Event struct {
	ID           string
	Title        string
	Description  string
	ClubID       string
	ClubName     string
	Category     EventCategory
	Date         time.Time
	Venue        string
	MaxAttendees *int
	CreatedBy    string
	Image        *string
	Status       EventStatus
	Volunteers   []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Attendee struct {
	EventID      string
	UserID       string
	UserName     string
	UserEmail    string
	UserRoles    Roles
	Status       AttendeeStatus
	RegisteredAt time.Time
}

type EventFilter struct {
	ClubID   string
	Category EventCategory
	Query    string
	Page     Page
}

// EventRepository defines persistence operations for events, attendees and volunteers.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]Event, int, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error

	GetAttendee(ctx context.Context, eventID, userID string) (*Attendee, error)
	// Register marks the user as registered when capacity allows. It reports
	// false without error when the event is full.
	Register(ctx context.Context, eventID, userID string, at time.Time) (bool, error)
	SetAttendeeStatus(ctx context.Context, eventID, userID string, status AttendeeStatus) error
	ListAttendees(ctx context.Context, eventID string) ([]Attendee, error)

	AddVolunteer(ctx context.Context, eventID, userID string) error
}
