package ports

import (
	"context"
	"time"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
)

// CreateRequestParams carries everything needed to open a new document
// request. Infos are persisted atomically with the parent row.
type CreateRequestParams struct {
	RequesterID string
	CategoryID  int64
	LevelID     *int64
	Year        *string
	FatherName  string
	MotherName  string
	Infos       []domain.SupplementaryInfo
}

// OwnerPatch is the student-editable subset of a request. A nil field
// leaves the column untouched. Infos replace the existing rows wholesale
// when ReplaceInfos is set.
type OwnerPatch struct {
	FatherName   *string
	MotherName   *string
	CategoryID   *int64
	ReplaceInfos bool
	Infos        []domain.SupplementaryInfo
}

// StaffPatch is the staff-editable subset. ValidatedAt is set by the
// service on the transition into validated and never cleared.
type StaffPatch struct {
	Status      *domain.RequestStatus
	Paid        *bool
	ValidatedAt *time.Time
}

type RequestRepository interface {
	Create(ctx context.Context, params CreateRequestParams) (*domain.DocumentRequest, error)
	UpdateByOwner(ctx context.Context, id int64, patch OwnerPatch) (*domain.DocumentRequest, error)
	UpdateByStaff(ctx context.Context, id int64, patch StaffPatch) (*domain.DocumentRequest, error)
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.DocumentRequest, error)
	List(ctx context.Context, filter domain.RequestFilter) ([]domain.DocumentRequest, domain.PageMeta, error)
}

// UserPatch covers the admin-editable user fields, activation included.
type UserPatch struct {
	Email     *string
	LastName  *string
	FirstName *string
	Phone     *string
	Position  *string
	LevelID   *int64
	Active    *bool
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, domain.PageMeta, error)
	// ListIDsByRoleNot returns the ids of all non-deleted users whose
	// role differs from the excluded one. Used by the fan-out engine.
	ListIDsByRoleNot(ctx context.Context, excluded domain.Role) ([]string, error)
	ListIDsByRole(ctx context.Context, role domain.Role) ([]string, error)
	ListEmailsByRole(ctx context.Context, role domain.Role) ([]string, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifs []domain.Notification) ([]domain.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Notification, error)
	// MarkSeen flips the seen flag on the given ids, restricted to rows
	// owned by ownerID, and returns how many rows changed.
	MarkSeen(ctx context.Context, ids []int64, ownerID string) (int64, error)
}

type CatalogRepository interface {
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, visibleOnly bool) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	GetLevel(ctx context.Context, id int64) (*domain.Level, error)
	ListLevels(ctx context.Context) ([]domain.Level, error)
	CreateLevel(ctx context.Context, designation string) (*domain.Level, error)
	UpdateLevel(ctx context.Context, id int64, designation string) (*domain.Level, error)
	DeleteLevel(ctx context.Context, id int64) error

	ListYears(ctx context.Context) ([]domain.AcademicYear, error)
}

type StatsRepository interface {
	Dashboard(ctx context.Context, now time.Time) (*domain.DashboardStats, error)
}
