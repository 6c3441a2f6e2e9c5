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

// ClubRepository implements domain.ClubRepository using SQLite.
type ClubRepository struct {
	db *sql.DB
}

func NewClubRepository(db *DB) *ClubRepository {
	return &ClubRepository{db: db.SqlDB}
}

const clubSelect = `
	SELECT c.id, c.name, c.description, c.category, c.admin_id, u.name, u.email,
	       c.cover_image, c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM club_members m WHERE m.club_id = c.id AND m.status = 'active')
	FROM clubs c
	JOIN users u ON u.id = c.admin_id`

func (r *ClubRepository) Create(ctx context.Context, club *domain.Club) error {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clubs (id, name, description, category, admin_id, cover_image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, club.Name, club.Description, club.Category, club.AdminID, club.CoverImage, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateClubName
		}
		return fmt.Errorf("insert club: %w", err)
	}

	club.ID = id
	club.CreatedAt = now
	club.UpdatedAt = now
	return nil
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	c, err := scanClub(r.db.QueryRowContext(ctx, clubSelect+` WHERE c.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClubNotFound
		}
		return nil, fmt.Errorf("get club: %w", err)
	}
	return c, nil
}

// List returns one page of clubs, newest first, and the total number of matches.
func (r *ClubRepository) List(ctx context.Context, filter domain.ClubFilter) ([]domain.Club, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		conds = append(conds, "c.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Query != "" {
		conds = append(conds, `c.name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Query))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clubs c`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clubs: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		clubSelect+where+` ORDER BY c.created_at DESC, c.rowid DESC LIMIT ? OFFSET ?`,
		append(args, filter.Page.Limit, filter.Page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	clubs := []domain.Club{}
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, *c)
	}
	return clubs, total, rows.Err()
}

func (r *ClubRepository) Update(ctx context.Context, club *domain.Club) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE clubs SET name = ?, description = ?, category = ?, cover_image = ?, updated_at = ?
		 WHERE id = ?`,
		club.Name, club.Description, club.Category, club.CoverImage, now, club.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateClubName
		}
		return fmt.Errorf("update club: %w", err)
	}
	if err := expectOneRow(result, domain.ErrClubNotFound); err != nil {
		return err
	}
	club.UpdatedAt = now
	return nil
}

func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM clubs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete club: %w", err)
	}
	return expectOneRow(result, domain.ErrClubNotFound)
}

const memberSelect = `
	SELECT m.club_id, m.user_id, u.name, u.email, u.roles, m.status, m.joined_at, m.approved_by, m.approved_at
	FROM club_members m
	JOIN users u ON u.id = m.user_id`

func (r *ClubRepository) GetMember(ctx context.Context, clubID, userID string) (*domain.ClubMember, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx,
		memberSelect+` WHERE m.club_id = ? AND m.user_id = ?`, clubID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get club member: %w", err)
	}
	return m, nil
}

func (r *ClubRepository) AddMember(ctx context.Context, member *domain.ClubMember) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO club_members (club_id, user_id, status, joined_at) VALUES (?, ?, ?, ?)`,
		member.ClubID, member.UserID, member.Status, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrAlreadyMember
		}
		// The club is checked by callers, so a dangling reference is the user.
		if isForeignKeyError(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert club member: %w", err)
	}
	member.JoinedAt = now
	return nil
}

func (r *ClubRepository) UpdateMember(ctx context.Context, member *domain.ClubMember) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE club_members SET status = ?, approved_by = ?, approved_at = ?
		 WHERE club_id = ? AND user_id = ?`,
		member.Status, member.ApprovedBy, member.ApprovedAt, member.ClubID, member.UserID,
	)
	if err != nil {
		return fmt.Errorf("update club member: %w", err)
	}
	return expectOneRow(result, domain.ErrMemberNotFound)
}

func (r *ClubRepository) RemoveMember(ctx context.Context, clubID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM club_members WHERE club_id = ? AND user_id = ?", clubID, userID)
	if err != nil {
		return fmt.Errorf("delete club member: %w", err)
	}
	return expectOneRow(result, domain.ErrMemberNotFound)
}

func (r *ClubRepository) ListMembers(ctx context.Context, clubID string) ([]domain.ClubMember, error) {
	rows, err := r.db.QueryContext(ctx,
		memberSelect+` WHERE m.club_id = ? ORDER BY m.joined_at, m.rowid`, clubID)
	if err != nil {
		return nil, fmt.Errorf("list club members: %w", err)
	}
	defer rows.Close()

	members := []domain.ClubMember{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan club member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClub(s scanner) (*domain.Club, error) {
	var c domain.Club
	if err := s.Scan(&c.ID, &c.Name, &c.Description, &c.Category, &c.AdminID, &c.AdminName,
		&c.AdminEmail, &c.CoverImage, &c.CreatedAt, &c.UpdatedAt, &c.MemberCount); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanMember(s scanner) (*domain.ClubMember, error) {
	var (
		m     domain.ClubMember
		roles string
	)
	if err := s.Scan(&m.ClubID, &m.UserID, &m.UserName, &m.UserEmail, &roles, &m.Status,
		&m.JoinedAt, &m.ApprovedBy, &m.ApprovedAt); err != nil {
		return nil, err
	}
	rs, err := domain.ParseRoles(roles)
	if err != nil {
		return nil, err
	}
	m.UserRoles = rs
	return &m, nil
}

// expectOneRow maps a zero-row write to notFound.
func expectOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
