package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/netidea/webbase/internal/mailer"
	"github.com/netidea/webbase/internal/model"
	"github.com/netidea/webbase/internal/repository"
	"github.com/netidea/webbase/internal/service"
)

// BookingHandler handles booking requests and email confirmations.
type BookingHandler struct {
	bookingService service.BookingService
	// confirmURL is the absolute URL of the confirmation endpoint,
	// embedded into the confirmation email.
	confirmURL string
}

// NewBookingHandler creates a BookingHandler. confirmURL is the externally
// reachable address of GET /api/booking/confirm.
func NewBookingHandler(bookingService service.BookingService, confirmURL string) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, confirmURL: confirmURL}
}

// bookingRequest is the expected JSON body for POST /api/booking.
type bookingRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Request handles POST /api/booking.
func (h *BookingHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}
	if !mailer.ValidEmail(req.Email) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid_email"})
		return
	}

	b := &model.Booking{Email: req.Email, Name: req.Name}
	if err := h.bookingService.Request(r.Context(), b, h.confirmURL); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "booking_failed"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"status":  "success",
		"message": "Vielen Dank! Bitte bestätigen Sie Ihre Buchung über den Link in der E‑Mail, die wir Ihnen soeben geschickt haben.",
	})
}

// Confirm handles GET /api/booking/confirm?token=.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token_required"})
		return
	}

	if _, err := h.bookingService.Confirm(r.Context(), token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "confirm_failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Ihre Buchung ist bestätigt. Vielen Dank!",
	})
}
