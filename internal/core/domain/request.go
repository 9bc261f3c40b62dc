package domain

import "time"

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusValidated RequestStatus = "validated"
	StatusRefused   RequestStatus = "refused"
)

// ValidStatus reports whether s is one of the recognized lifecycle
// states. Legacy spellings from older clients are not accepted.
func ValidStatus(s RequestStatus) bool {
	switch s {
	case StatusPending, StatusValidated, StatusRefused:
		return true
	}
	return false
}

// SupplementaryInfo is a (level, academic year) pair attached to a
// request when its category requires it. Rows live and die with the
// parent request and are replaced wholesale on owner updates.
type SupplementaryInfo struct {
	ID           int64  `json:"id"`
	RequestID    int64  `json:"-"`
	Level        string `json:"level"`
	AcademicYear string `json:"academic_year"`
}

// DocumentRequest is a student's request for one administrative
// document. ValidatedAt is non-nil exactly when Status is validated.
type DocumentRequest struct {
	ID          int64               `json:"id"`
	Number      string              `json:"number"`
	RequesterID string              `json:"requester_id"`
	CategoryID  int64               `json:"category_id"`
	LevelID     *int64              `json:"level_id,omitempty"`
	Year        *string             `json:"academic_year,omitempty"`
	FatherName  string              `json:"father_name,omitempty"`
	MotherName  string              `json:"mother_name,omitempty"`
	Status      RequestStatus       `json:"status"`
	Paid        bool                `json:"paid"`
	RequestedAt time.Time           `json:"requested_at"`
	ValidatedAt *time.Time          `json:"validated_at,omitempty"`
	Deleted     bool                `json:"-"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Infos       []SupplementaryInfo `json:"infos,omitempty"`

	// Eagerly loaded relations, populated by GetById and listings.
	Requester *User     `json:"requester,omitempty"`
	Category  *Category `json:"category,omitempty"`
}
