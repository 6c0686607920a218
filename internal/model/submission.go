package model

import "time"

// Submission statuses as stored in contact_submissions.status.
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// ContactSubmission represents one contact form submission.
type ContactSubmission struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Consent   bool      `json:"consent"`
	WantsCopy bool      `json:"copy"`
	Status    string    `json:"status"` // "unread" | "read"

	// Honeypot is the hidden form field bound to the submission; any
	// non-empty value marks the submission as automated. Never persisted.
	Honeypot string `json:"-"`
	// Decoy is the unmapped trap field from the raw form payload.
	Decoy string `json:"-"`

	// Meta is request metadata, owned 1:1 by this submission.
	Meta *SubmissionMeta `json:"meta,omitempty"`
}

// SubmissionMeta stores request metadata captured alongside a submission.
// One row per submission; deleted with its parent.
type SubmissionMeta struct {
	ID          int64  `json:"id"`
	IP          string `json:"ip,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
	SubmittedAt string `json:"submitted_at,omitempty"` // ISO 8601
	Host        string `json:"host,omitempty"`
}

// ContactListOptions carries filter and pagination parameters for listing
// contact submissions.
type ContactListOptions struct {
	// Status filters by submission status: "", "all", "unread", "read".
	// Empty string and "all" return all submissions.
	Status string
	Limit  int
	Offset int
}
