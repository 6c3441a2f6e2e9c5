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

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// NewPage clamps user-supplied paging values to sane bounds.
func NewPage(number, limit int) domain.Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return domain.Page{Number: number, Limit: limit}
}

// ClubService handles clubs and the membership approval workflow.
type ClubService struct {
	clubs domain.ClubRepository
	now   func() time.Time
}

// NewClubService creates a new ClubService.
func NewClubService(clubs domain.ClubRepository) *ClubService {
	return &ClubService{clubs: clubs, now: time.Now}
}

// ClubInput holds the fields of a new club.
type ClubInput struct {
	Name        string
	Description string
	Category    domain.ClubCategory
	CoverImage  *string
}

// ClubPatch holds optional club changes; nil fields are left untouched.
type ClubPatch struct {
	Name        *string
	Description *string
	Category    *domain.ClubCategory
	CoverImage  *string
}

// Create registers a club administered by the caller.
func (s *ClubService) Create(ctx context.Context, id *domain.Identity, in ClubInput) (*domain.Club, error) {
	if id == nil {
		return nil, domain.ErrAuthRequired
	}
	club := &domain.Club{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		AdminID:     id.UserID,
		CoverImage:  in.CoverImage,
	}
	if err := validateClub(club); err != nil {
		return nil, err
	}
	if err := s.clubs.Create(ctx, club); err != nil {
		return nil, fmt.Errorf("create club: %w", err)
	}
	return s.clubs.GetByID(ctx, club.ID)
}

func (s *ClubService) List(ctx context.Context, filter domain.ClubFilter) ([]domain.Club, int, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, 0, domain.Invalid("Invalid category %q", filter.Category)
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return s.clubs.List(ctx, filter)
}

func (s *ClubService) Get(ctx context.Context, clubID string) (*domain.Club, error) {
	return s.clubs.GetByID(ctx, clubID)
}

// Update applies patch to a club the caller manages.
func (s *ClubService) Update(ctx context.Context, id *domain.Identity, clubID string, patch ClubPatch) (*domain.Club, error) {
	club, err := s.managedClub(ctx, id, clubID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		club.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		club.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		club.Category = *patch.Category
	}
	if patch.CoverImage != nil {
		club.CoverImage = patch.CoverImage
	}
	if err := validateClub(club); err != nil {
		return nil, err
	}
	if err := s.clubs.Update(ctx, club); err != nil {
		return nil, fmt.Errorf("update club: %w", err)
	}
	return club, nil
}

func (s *ClubService) Delete(ctx context.Context, clubID string) error {
	return s.clubs.Delete(ctx, clubID)
}

// Join files a pending membership request for the caller.
func (s *ClubService) Join(ctx context.Context, id *domain.Identity, clubID string) error {
	if id == nil {
		return domain.ErrAuthRequired
	}
	if _, err := s.clubs.GetByID(ctx, clubID); err != nil {
		return err
	}
	if _, err := s.clubs.GetMember(ctx, clubID, id.UserID); err == nil {
		return domain.ErrAlreadyMember
	} else if !errors.Is(err, domain.ErrMemberNotFound) {
		return err
	}
	return s.clubs.AddMember(ctx, &domain.ClubMember{
		ClubID: clubID,
		UserID: id.UserID,
		Status: domain.MemberStatusPending,
	})
}

// Leave removes the caller's membership entry in any status.
func (s *ClubService) Leave(ctx context.Context, id *domain.Identity, clubID string) error {
	if id == nil {
		return domain.ErrAuthRequired
	}
	if _, err := s.clubs.GetByID(ctx, clubID); err != nil {
		return err
	}
	err := s.clubs.RemoveMember(ctx, clubID, id.UserID)
	if errors.Is(err, domain.ErrMemberNotFound) {
		return domain.Invalid("Not a member")
	}
	return err
}

func (s *ClubService) Members(ctx context.Context, clubID string) ([]domain.ClubMember, error) {
	if _, err := s.clubs.GetByID(ctx, clubID); err != nil {
		return nil, err
	}
	return s.clubs.ListMembers(ctx, clubID)
}

// Approve activates a pending or rejected membership request.
func (s *ClubService) Approve(ctx context.Context, id *domain.Identity, clubID, memberID string) error {
	member, err := s.managedMember(ctx, id, clubID, memberID)
	if err != nil {
		return err
	}
	if member.Status == domain.MemberStatusActive {
		return domain.Invalid("Already active")
	}
	now := s.now().UTC()
	member.Status = domain.MemberStatusActive
	member.ApprovedBy = &id.UserID
	member.ApprovedAt = &now
	return s.clubs.UpdateMember(ctx, member)
}

// Reject marks a membership request as rejected.
func (s *ClubService) Reject(ctx context.Context, id *domain.Identity, clubID, memberID string) error {
	member, err := s.managedMember(ctx, id, clubID, memberID)
	if err != nil {
		return err
	}
	member.Status = domain.MemberStatusRejected
	return s.clubs.UpdateMember(ctx, member)
}

func (s *ClubService) managedClub(ctx context.Context, id *domain.Identity, clubID string) (*domain.Club, error) {
	if id == nil {
		return nil, domain.ErrAuthRequired
	}
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !CanManageClub(id, club) {
		return nil, domain.Forbidden("Forbidden")
	}
	return club, nil
}

func (s *ClubService) managedMember(ctx context.Context, id *domain.Identity, clubID, memberID string) (*domain.ClubMember, error) {
	if strings.TrimSpace(memberID) == "" {
		return nil, domain.Invalid("memberId is required")
	}
	if _, err := s.managedClub(ctx, id, clubID); err != nil {
		return nil, err
	}
	return s.clubs.GetMember(ctx, clubID, memberID)
}

// CanManageClub reports whether id is an organisation admin or the club's admin.
func CanManageClub(id *domain.Identity, club *domain.Club) bool {
	return id.Roles.Has(domain.RoleOrgAdmin) || club.AdminID == id.UserID
}

func validateClub(c *domain.Club) error {
	switch {
	case c.Name == "":
		return domain.Invalid("Club name is required")
	case utf8.RuneCountInString(c.Name) > 100:
		return domain.Invalid("Club name must be at most 100 characters")
	case c.Description == "":
		return domain.Invalid("Club description is required")
	case utf8.RuneCountInString(c.Description) > 1000:
		return domain.Invalid("Club description must be at most 1000 characters")
	case !c.Category.Valid():
		return domain.Invalid("Invalid category %q", c.Category)
	}
	return nil
}
