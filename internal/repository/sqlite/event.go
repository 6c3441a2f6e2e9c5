package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/google/uuid"
)

// EventRepository implements domain.EventRepository using SQLite.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db.SqlDB}
}

const eventSelect = `
	SELECT e.id, e.title, e.description, e.club_id, c.name, e.category, e.date, e.venue,
	       e.max_attendees, e.created_by, e.image, e.status, e.created_at, e.updated_at
	FROM events e
	JOIN clubs c ON c.id = e.club_id`

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	if event.Status == "" {
		event.Status = domain.EventStatusUpcoming
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, title, description, club_id, category, date, venue, max_attendees,
		                     created_by, image, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, event.Title, event.Description, event.ClubID, event.Category, event.Date.UTC(),
		event.Venue, event.MaxAttendees, event.CreatedBy, event.Image, event.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	event.ID = id
	event.Volunteers = []string{}
	event.CreatedAt = now
	event.UpdatedAt = now
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+` WHERE e.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	volunteers, err := r.listVolunteers(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Volunteers = volunteers
	return e, nil
}

// List returns one page of events in ascending date order and the total number of matches.
// Volunteers are not loaded for listings.
func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ClubID != "" {
		conds = append(conds, "e.club_id = ?")
		args = append(args, filter.ClubID)
	}
	if filter.Category != "" {
		conds = append(conds, "e.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Query != "" {
		conds = append(conds, `e.title LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Query))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		eventSelect+where+` ORDER BY e.date ASC, e.rowid ASC LIMIT ? OFFSET ?`,
		append(args, filter.Page.Limit, filter.Page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, total, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, category = ?, date = ?, venue = ?,
		                   max_attendees = ?, image = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		event.Title, event.Description, event.Category, event.Date.UTC(), event.Venue,
		event.MaxAttendees, event.Image, event.Status, now, event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if err := expectOneRow(result, domain.ErrEventNotFound); err != nil {
		return err
	}
	event.UpdatedAt = now
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return expectOneRow(result, domain.ErrEventNotFound)
}

const attendeeSelect = `
	SELECT a.event_id, a.user_id, u.name, u.email, u.roles, a.status, a.registered_at
	FROM event_attendees a
	JOIN users u ON u.id = a.user_id`

func (r *EventRepository) GetAttendee(ctx context.Context, eventID, userID string) (*domain.Attendee, error) {
	a, err := scanAttendee(r.db.QueryRowContext(ctx,
		attendeeSelect+` WHERE a.event_id = ? AND a.user_id = ?`, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	return a, nil
}

// Register inserts or revives the attendee row in a single statement whose
// WHERE clause enforces the capacity limit, so concurrent RSVPs cannot overfill
// an event.
func (r *EventRepository) Register(ctx context.Context, eventID, userID string, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO event_attendees (event_id, user_id, status, registered_at)
		 SELECT e.id, ?, 'registered', ?
		 FROM events e
		 WHERE e.id = ?
		   AND (e.max_attendees IS NULL OR
		        (SELECT COUNT(*) FROM event_attendees a
		         WHERE a.event_id = e.id AND a.status = 'registered') < e.max_attendees)
		 ON CONFLICT (event_id, user_id) DO UPDATE
		 SET status = 'registered', registered_at = excluded.registered_at
		 WHERE event_attendees.status <> 'registered'`,
		userID, at.UTC(), eventID,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return false, domain.ErrUserNotFound
		}
		return false, fmt.Errorf("register attendee: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *EventRepository) SetAttendeeStatus(ctx context.Context, eventID, userID string, status domain.AttendeeStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE event_attendees SET status = ? WHERE event_id = ? AND user_id = ?",
		status, eventID, userID)
	if err != nil {
		return fmt.Errorf("update attendee: %w", err)
	}
	return expectOneRow(result, domain.ErrNotFound)
}

func (r *EventRepository) ListAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	rows, err := r.db.QueryContext(ctx,
		attendeeSelect+` WHERE a.event_id = ? ORDER BY a.registered_at, a.rowid`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	attendees := []domain.Attendee{}
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, *a)
	}
	return attendees, rows.Err()
}

func (r *EventRepository) AddVolunteer(ctx context.Context, eventID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO event_volunteers (event_id, user_id, created_at) VALUES (?, ?, ?)",
		eventID, userID, time.Now().UTC())
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrAlreadyVolunteer
		}
		if isForeignKeyError(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert volunteer: %w", err)
	}
	return nil
}

func (r *EventRepository) listVolunteers(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id FROM event_volunteers WHERE event_id = ? ORDER BY created_at, rowid", eventID)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanEvent(s scanner) (*domain.Event, error) {
	var e domain.Event
	if err := s.Scan(&e.ID, &e.Title, &e.Description, &e.ClubID, &e.ClubName, &e.Category,
		&e.Date, &e.Venue, &e.MaxAttendees, &e.CreatedBy, &e.Image, &e.Status,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanAttendee(s scanner) (*domain.Attendee, error) {
	var (
		a     domain.Attendee
		roles string
	)
	if err := s.Scan(&a.EventID, &a.UserID, &a.UserName, &a.UserEmail, &roles, &a.Status,
		&a.RegisteredAt); err != nil {
		return nil, err
	}
	rs, err := domain.ParseRoles(roles)
	if err != nil {
		return nil, err
	}
	a.UserRoles = rs
	return &a, nil
}
