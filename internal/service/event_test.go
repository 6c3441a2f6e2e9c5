package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/Meet3141/CampusConnect/internal/repository/sqlite"
	"github.com/Meet3141/CampusConnect/internal/service"
)

type eventFixture struct {
	db     *sqlite.DB
	events *service.EventService
	owner  *domain.Identity
	club   *domain.Club
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	db := newTestDB(t)
	clubs := service.NewClubService(db.Clubs())
	owner := createUser(t, db, "owner@example.com", domain.RoleClubAdmin)
	return &eventFixture{
		db:     db,
		events: service.NewEventService(db.Events(), db.Clubs()),
		owner:  owner,
		club:   newTestClub(t, clubs, owner, "Hackers"),
	}
}

func (f *eventFixture) create(t *testing.T, maxAttendees *int) *domain.Event {
	t.Helper()
	event, err := f.events.Create(context.Background(), f.owner, service.EventInput{
		Title:        "Spring Hackathon",
		Description:  "24 hours of building",
		ClubID:       f.club.ID,
		Category:     domain.EventCategoryHackathon,
		Date:         time.Now().Add(72 * time.Hour),
		Venue:        "Main Hall",
		MaxAttendees: maxAttendees,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func TestEventService_Create(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	event := f.create(t, nil)
	if event.ClubName != "Hackers" {
		t.Fatalf("expected club name to be joined in, got %q", event.ClubName)
	}
	if event.Status != domain.EventStatusUpcoming || event.CreatedBy != f.owner.UserID {
		t.Fatalf("unexpected event: %+v", event)
	}

	outsider := createUser(t, f.db, "outsider@example.com", domain.RoleClubAdmin)
	in := service.EventInput{
		Title: "Side event", Description: "x", ClubID: f.club.ID,
		Category: domain.EventCategoryWorkshop, Date: time.Now().Add(time.Hour), Venue: "Lab",
	}
	if _, err := f.events.Create(ctx, outsider, in); domain.KindOf(err) != domain.KindForbidden {
		t.Fatalf("expected Forbidden for a non-manager, got %v", err)
	}

	in.ClubID = "missing"
	if _, err := f.events.Create(ctx, f.owner, in); !errors.Is(err, domain.ErrClubNotFound) {
		t.Fatalf("expected ErrClubNotFound, got %v", err)
	}

	in.ClubID = f.club.ID
	in.Date = time.Now().Add(-time.Hour)
	if _, err := f.events.Create(ctx, f.owner, in); domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected InvalidInput for a past date, got %v", err)
	}

	zero := 0
	in.Date = time.Now().Add(time.Hour)
	in.MaxAttendees = &zero
	if _, err := f.events.Create(ctx, f.owner, in); domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected InvalidInput for zero capacity, got %v", err)
	}
}

func TestEventService_Update(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	limit := 5
	event := f.create(t, &limit)

	other := createUser(t, f.db, "other@example.com", domain.RoleMember)
	title := "Autumn Hackathon"
	if _, err := f.events.Update(ctx, other, event.ID, service.EventPatch{Title: &title}); domain.KindOf(err) != domain.KindForbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}

	noLimit := 0
	status := domain.EventStatusOngoing
	updated, err := f.events.Update(ctx, f.owner, event.ID, service.EventPatch{
		Title:        &title,
		MaxAttendees: &noLimit,
		Status:       &status,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.MaxAttendees != nil || updated.Status != status {
		t.Fatalf("unexpected event after patch: %+v", updated)
	}

	past := time.Now().Add(-time.Hour)
	if _, err := f.events.Update(ctx, f.owner, event.ID, service.EventPatch{Date: &past}); domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected InvalidInput for a past date, got %v", err)
	}

	bad := domain.EventStatus("postponed")
	if _, err := f.events.Update(ctx, f.owner, event.ID, service.EventPatch{Status: &bad}); domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected InvalidInput for an unknown status, got %v", err)
	}

	org := createUser(t, f.db, "org@example.com", domain.RoleOrgAdmin)
	if err := f.events.Delete(ctx, org, event.ID); err != nil {
		t.Fatalf("org admin delete: %v", err)
	}
	if _, err := f.events.Get(ctx, event.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventService_RSVPCapacity(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	limit := 2
	event := f.create(t, &limit)

	a := createUser(t, f.db, "a@example.com", domain.RoleMember)
	b := createUser(t, f.db, "b@example.com", domain.RoleMember)
	c := createUser(t, f.db, "c@example.com", domain.RoleMember)

	if err := f.events.RSVP(ctx, a, event.ID); err != nil {
		t.Fatalf("RSVP a: %v", err)
	}
	err := f.events.RSVP(ctx, a, event.ID)
	if domain.KindOf(err) != domain.KindInvalidInput || domain.MessageOf(err) != "Already registered" {
		t.Fatalf("expected Already registered, got %v", err)
	}
	if err := f.events.RSVP(ctx, b, event.ID); err != nil {
		t.Fatalf("RSVP b: %v", err)
	}
	err = f.events.RSVP(ctx, c, event.ID)
	if domain.MessageOf(err) != "Event is full" {
		t.Fatalf("expected Event is full, got %v", err)
	}

	if err := f.events.CancelRSVP(ctx, a, event.ID); err != nil {
		t.Fatalf("CancelRSVP: %v", err)
	}
	if err := f.events.CancelRSVP(ctx, a, event.ID); domain.MessageOf(err) != "Not registered" {
		t.Fatalf("expected Not registered, got %v", err)
	}
	if err := f.events.RSVP(ctx, c, event.ID); err != nil {
		t.Fatalf("RSVP c after a seat freed up: %v", err)
	}
	if err := f.events.RSVP(ctx, a, event.ID); domain.MessageOf(err) != "Event is full" {
		t.Fatalf("expected Event is full for a returning attendee, got %v", err)
	}

	attendees, err := f.events.Attendees(ctx, event.ID)
	if err != nil {
		t.Fatalf("Attendees: %v", err)
	}
	registered := 0
	for _, at := range attendees {
		if at.Status == domain.AttendeeStatusRegistered {
			registered++
		}
	}
	if len(attendees) != 3 || registered != 2 {
		t.Fatalf("expected 3 entries with 2 registered, got %d and %d", len(attendees), registered)
	}
}

func TestEventService_ConcurrentRSVP(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	limit := 3
	event := f.create(t, &limit)

	const n = 10
	users := make([]*domain.Identity, n)
	for i := range n {
		users[i] = createUser(t, f.db, fmt.Sprintf("u%d@example.com", i), domain.RoleMember)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.events.RSVP(ctx, users[i], event.ID)
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case domain.MessageOf(err) == "Event is full":
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != limit {
		t.Fatalf("expected exactly %d registrations, got %d", limit, ok)
	}
}

func TestEventService_Volunteer(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	event := f.create(t, nil)
	v := createUser(t, f.db, "v@example.com", domain.RoleMember)

	if err := f.events.Volunteer(ctx, v, event.ID); err != nil {
		t.Fatalf("Volunteer: %v", err)
	}
	if err := f.events.Volunteer(ctx, v, event.ID); !errors.Is(err, domain.ErrAlreadyVolunteer) {
		t.Fatalf("expected ErrAlreadyVolunteer, got %v", err)
	}
	if err := f.events.Volunteer(ctx, v, "missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}

	got, err := f.events.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Volunteers) != 1 || got.Volunteers[0] != v.UserID {
		t.Fatalf("expected volunteer %s, got %v", v.UserID, got.Volunteers)
	}
}

func TestEventService_List(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	for i, title := range []string{"Late Talk", "Early Talk"} {
		_, err := f.events.Create(ctx, f.owner, service.EventInput{
			Title: title, Description: "talk", ClubID: f.club.ID,
			Category: domain.EventCategoryWebinar,
			Date:     time.Now().Add(time.Duration(48-24*i) * time.Hour),
			Venue:    "Online",
		})
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	list, total, err := f.events.List(ctx, domain.EventFilter{ClubID: f.club.ID, Query: "talk", Page: service.NewPage(1, 10)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("expected 2 events, got %d (%d)", len(list), total)
	}
	if list[0].Title != "Early Talk" {
		t.Fatalf("expected ascending date order, got %s first", list[0].Title)
	}
}
