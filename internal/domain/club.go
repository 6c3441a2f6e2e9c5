package domain

import (
	"context"
	"slices"
	"time"
)

type ClubCategory string

const (
	ClubCategoryTechnical ClubCategory = "technical"
	ClubCategoryCultural  ClubCategory = "cultural"
	ClubCategorySports    ClubCategory = "sports"
	ClubCategoryAcademic  ClubCategory = "academic"
	ClubCategoryArts      ClubCategory = "arts"
	ClubCategoryOther     ClubCategory = "other"
)

func (c ClubCategory) Valid() bool {
	return slices.Contains([]ClubCategory{
		ClubCategoryTechnical, ClubCategoryCultural, ClubCategorySports,
		ClubCategoryAcademic, ClubCategoryArts, ClubCategoryOther,
	}, c)
}

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusActive   MemberStatus = "active"
	MemberStatusRejected MemberStatus = "rejected"
)

// Club is a student organisation administered by one user.
type Club struct {
	ID          string
	Name        string
	Description string
	Category    ClubCategory
	AdminID     string
	AdminName   string
	AdminEmail  string
	CoverImage  *string
	MemberCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ClubMember is one membership request or membership of a club.
type ClubMember struct {
	ClubID     string
	UserID     string
	UserName   string
	UserEmail  string
	UserRoles  Roles
	Status     MemberStatus
	JoinedAt   time.Time
	ApprovedBy *string
	ApprovedAt *time.Time
}

// ClubFilter narrows a club listing. Query matches names case-insensitively.
type ClubFilter struct {
	Category ClubCategory
	Query    string
	Page     Page
}

// Page selects a window of a listing; Number is 1-based.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// ClubRepository defines persistence operations for clubs and their members.
type ClubRepository interface {
	Create(ctx context.Context, club *Club) error
	GetByID(ctx context.Context, id string) (*Club, error)
	List(ctx context.Context, filter ClubFilter) ([]Club, int, error)
	Update(ctx context.Context, club *Club) error
	Delete(ctx context.Context, id string) error

	GetMember(ctx context.Context, clubID, userID string) (*ClubMember, error)
	AddMember(ctx context.Context, member *ClubMember) error
	UpdateMember(ctx context.Context, member *ClubMember) error
	RemoveMember(ctx context.Context, clubID, userID string) error
	ListMembers(ctx context.Context, clubID string) ([]ClubMember, error)
}
