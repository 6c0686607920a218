package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/netidea/webbase/internal/metrics"
	"github.com/netidea/webbase/internal/model"
	"github.com/netidea/webbase/internal/repository"
	"github.com/netidea/webbase/internal/service"
)

// ContactHandler handles contact form submission and the operator listing.
type ContactHandler struct {
	contactService service.ContactService
	adminToken     string
}

// NewContactHandler creates a ContactHandler. adminToken guards the
// operator endpoints; an empty token disables them entirely.
func NewContactHandler(contactService service.ContactService, adminToken string) *ContactHandler {
	return &ContactHandler{contactService: contactService, adminToken: adminToken}
}

// submitRequest is the expected JSON body for POST /api/contact.
// "emailrep" is the hidden honeypot input and "website" the decoy field;
// both are empty for human submissions.
type submitRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	Consent  bool   `json:"consent"`
	Copy     bool   `json:"copy"`
	EmailRep string `json:"emailrep"`
	Website  string `json:"website"`
	Token    string `json:"_token"`
}

// submitResponse is the JSON result of a submission attempt.
type submitResponse struct {
	Status  string            `json:"status"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Errors  model.FieldErrors `json:"errors,omitempty"`
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no_session"})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	sub := &model.ContactSubmission{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Consent:   req.Consent,
		WantsCopy: req.Copy,
		Honeypot:  req.EmailRep,
		Decoy:     req.Website,
		Meta: &model.SubmissionMeta{
			IP:          clientIP(r),
			UserAgent:   r.UserAgent(),
			SubmittedAt: time.Now().UTC().Format(time.RFC3339),
			Host:        r.Host,
		},
	}

	res := h.contactService.Submit(r.Context(), sub, sess, req.Token)

	outcome := res.Outcome.String()
	if res.Spam {
		outcome = "spam"
	}
	metrics.RecordContactSubmission(outcome)

	switch res.Outcome {
	case service.OutcomeRateLimited:
		writeJSON(w, http.StatusTooManyRequests, submitResponse{Status: "error", Code: "rate", Message: res.Message})
	case service.OutcomeInvalid:
		writeJSON(w, http.StatusUnprocessableEntity, submitResponse{Status: "error", Code: "invalid", Message: res.Message, Errors: res.Errors})
	case service.OutcomeMailFailed:
		writeJSON(w, http.StatusInternalServerError, submitResponse{Status: "error", Code: "mail", Message: res.Message})
	default:
		writeJSON(w, http.StatusOK, submitResponse{Status: "success", Message: res.Message})
	}
}

// adminListResponse is the JSON response for GET /api/admin/contacts.
type adminListResponse struct {
	Submissions []*model.ContactSubmission `json:"submissions"`
}

// AdminList handles GET /api/admin/contacts.
// Supports query params: status (all/unread/read), limit, offset.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	opts := model.ContactListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  20,
		Offset: 0,
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	submissions, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list_failed"})
		return
	}

	// Return [] not null for empty lists
	if submissions == nil {
		submissions = []*model.ContactSubmission{}
	}

	writeJSON(w, http.StatusOK, adminListResponse{Submissions: submissions})
}

// updateStatusRequest is the expected JSON body for PATCH
// /api/admin/contacts/{id}/status.
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/contacts/{id}/status.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}
	if req.Status != model.StatusUnread && req.Status != model.StatusRead {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_status"})
		return
	}

	if err := h.contactService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "update_failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

// authorized checks the bearer token against the configured operator token.
// Never authorizes when no token is configured.
func (h *ContactHandler) authorized(r *http.Request) bool {
	if h.adminToken == "" {
		return false
	}
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	got := strings.TrimPrefix(header, prefix)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.adminToken)) == 1
}

// clientIP extracts the caller's address, honoring the first entry of
// X-Forwarded-For when a proxy sits in front.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
