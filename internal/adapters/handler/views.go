package handler

import (
	"time"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/domain"
)

// View projections keyed by caller role. Handlers never serialize
// domain entities directly; each response passes through one of these
// so the shape a role sees is explicit.

type userView struct {
	ID        string       `json:"id"`
	Matricule string       `json:"matricule"`
	Email     string       `json:"email"`
	LastName  string       `json:"last_name"`
	FirstName string       `json:"first_name"`
	Phone     string       `json:"phone,omitempty"`
	BirthInfo string       `json:"birth_info,omitempty"`
	Position  string       `json:"position,omitempty"`
	Role      *domain.Role `json:"role,omitempty"`
	LevelID   *int64       `json:"level_id,omitempty"`
	Active    *bool        `json:"active,omitempty"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
}

// UserView shows administrative fields (role, activation state,
// creation time) to staff only. A user always sees their own full
// profile.
func UserView(u *domain.User, caller *domain.User) userView {
	v := userView{
		ID:        u.ID,
		Matricule: u.Matricule,
		Email:     u.Email,
		LastName:  u.LastName,
		FirstName: u.FirstName,
		Phone:     u.Phone,
		BirthInfo: u.BirthInfo,
		Position:  u.Position,
		LevelID:   u.LevelID,
	}
	if caller.Role.IsStaff() || caller.ID == u.ID {
		role := u.Role
		active := u.Active
		createdAt := u.CreatedAt
		v.Role = &role
		v.Active = &active
		v.CreatedAt = &createdAt
	}
	return v
}

type requesterView struct {
	ID        string `json:"id"`
	Matricule string `json:"matricule"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type infoView struct {
	Level        string `json:"level"`
	AcademicYear string `json:"academic_year"`
}

type requestView struct {
	ID          int64                `json:"id"`
	Number      string               `json:"number"`
	Status      domain.RequestStatus `json:"status"`
	Paid        bool                 `json:"paid"`
	CategoryID  int64                `json:"category_id"`
	Category    *domain.Category     `json:"category,omitempty"`
	LevelID     *int64               `json:"level_id,omitempty"`
	Year        *string              `json:"year,omitempty"`
	FatherName  string               `json:"father_name,omitempty"`
	MotherName  string               `json:"mother_name,omitempty"`
	Infos       []infoView           `json:"infos,omitempty"`
	RequestedAt time.Time            `json:"requested_at"`
	ValidatedAt *time.Time           `json:"validated_at,omitempty"`
	Requester   *requesterView       `json:"requester,omitempty"`
}

// RequestView attaches the requester block for staff callers only; a
// student looking at their own request has no use for it.
func RequestView(req *domain.DocumentRequest, caller *domain.User) requestView {
	v := requestView{
		ID:          req.ID,
		Number:      req.Number,
		Status:      req.Status,
		Paid:        req.Paid,
		CategoryID:  req.CategoryID,
		Category:    req.Category,
		LevelID:     req.LevelID,
		Year:        req.Year,
		FatherName:  req.FatherName,
		MotherName:  req.MotherName,
		RequestedAt: req.RequestedAt,
		ValidatedAt: req.ValidatedAt,
	}
	for _, info := range req.Infos {
		v.Infos = append(v.Infos, infoView{Level: info.Level, AcademicYear: info.AcademicYear})
	}
	if caller.Role.IsStaff() && req.Requester != nil {
		v.Requester = &requesterView{
			ID:        req.Requester.ID,
			Matricule: req.Requester.Matricule,
			LastName:  req.Requester.LastName,
			FirstName: req.Requester.FirstName,
			Email:     req.Requester.Email,
		}
	}
	return v
}

// RequestViews projects a listing page.
func RequestViews(reqs []domain.DocumentRequest, caller *domain.User) []requestView {
	views := make([]requestView, 0, len(reqs))
	for i := range reqs {
		views = append(views, RequestView(&reqs[i], caller))
	}
	return views
}

func UserViews(users []domain.User, caller *domain.User) []userView {
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, UserView(&users[i], caller))
	}
	return views
}
