package domain

// Level is an academic level (L1, M2, ...), reference data attached to
// users and document requests.
type Level struct {
	ID          int64  `json:"id"`
	Designation string `json:"designation"`
}

// AcademicYear is keyed by its label, e.g. "2024-2025".
type AcademicYear struct {
	Year string `json:"year"`
}

type CategoryKind string

const (
	KindAttestation CategoryKind = "att"
	KindCertificate CategoryKind = "crt"
)

// Category describes one requestable document type. NotifTemplate is the
// text used for the requester's notification when the request is
// validated.
type Category struct {
	ID              int64        `json:"id"`
	Designation     string       `json:"designation"`
	Slug            string       `json:"slug,omitempty"`
	Kind            CategoryKind `json:"kind,omitempty"`
	Price           float64      `json:"price"`
	RequiresInfo    bool         `json:"requires_info"`
	RequiresParents bool         `json:"requires_parents"`
	Visible         bool         `json:"visible"`
	NotifTemplate   string       `json:"notif_template,omitempty"`
}
