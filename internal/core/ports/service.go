package ports

import (
	"context"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
)

// RegisterParams is the public registration payload. Accounts start
// inactive and stay that way until an admin activates them.
type RegisterParams struct {
	Matricule string
	Email     string
	Password  string
	LastName  string
	FirstName string
	Phone     string
	BirthInfo string
	LevelID   *int64
}

type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// OwnerUpdate is the student-facing request edit. Infos == nil leaves
// the supplementary rows untouched; a non-nil slice replaces them when
// the category requires info.
type OwnerUpdate struct {
	FatherName *string
	MotherName *string
	CategoryID *int64
	Infos      []domain.SupplementaryInfo
}

// StaffUpdate is the staff-facing request edit: status and/or paid.
type StaffUpdate struct {
	Status *domain.RequestStatus
	Paid   *bool
}

type RequestService interface {
	Create(ctx context.Context, params CreateRequestParams) (*domain.DocumentRequest, error)
	UpdateByOwner(ctx context.Context, id int64, callerID string, upd OwnerUpdate) (*domain.DocumentRequest, error)
	UpdateByStaff(ctx context.Context, id int64, upd StaffUpdate) (*domain.DocumentRequest, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64, caller domain.User) (*domain.DocumentRequest, error)
	List(ctx context.Context, filter domain.RequestFilter, caller domain.User) ([]domain.DocumentRequest, domain.PageMeta, error)
}

type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, domain.PageMeta, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type NotificationService interface {
	ListForUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkSeen(ctx context.Context, ids []int64, ownerID string) (int64, error)
}

// Notifier is the fan-out engine: it derives recipients for an event and
// persists one notification row per recipient. An empty recipient set is
// not an error.
type Notifier interface {
	NotifyRoleExcept(ctx context.Context, req *domain.DocumentRequest, excluded domain.Role, content string, t domain.NotificationType) ([]domain.Notification, error)
	NotifyRequester(ctx context.Context, req *domain.DocumentRequest) (*domain.Notification, error)
	NotifyAdminsOfRegistration(ctx context.Context, newUser *domain.User) ([]domain.Notification, error)
}

// Dispatcher delivers an already-committed notification event through
// the real-time channel and the mail queue. Errors are advisory: the
// triggering operation has succeeded regardless.
type Dispatcher interface {
	Dispatch(ctx context.Context, evt NotificationEvent) error
}
