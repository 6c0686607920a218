package service

import (
	"strings"
	"unicode/utf8"

	"github.com/netidea/webbase/internal/mailer"
	"github.com/netidea/webbase/internal/model"
)

// Field constraints for contact submissions, matching the form limits
// rendered on the client side.
const (
	maxNameLen    = 120
	maxEmailLen   = 200
	maxPhoneLen   = 40
	minMessageLen = 10
	maxMessageLen = 5000
)

// ValidateContact checks the submission's field constraints and returns
// per-field error messages. An empty set means the submission is valid.
// Lengths are counted in runes, matching the client-side maxlength.
func ValidateContact(sub *model.ContactSubmission) model.FieldErrors {
	errs := model.FieldErrors{}

	name := strings.TrimSpace(sub.Name)
	if name == "" {
		errs.Add("name", "Please enter your name.")
	} else if utf8.RuneCountInString(sub.Name) > maxNameLen {
		errs.Add("name", "Please use at most 120 characters.")
	}

	email := strings.TrimSpace(sub.Email)
	switch {
	case email == "":
		errs.Add("email", "Please enter your email address.")
	case !mailer.ValidEmail(email):
		errs.Add("email", "Please enter a valid email address.")
	case utf8.RuneCountInString(sub.Email) > maxEmailLen:
		errs.Add("email", "Please use at most 200 characters.")
	}

	if utf8.RuneCountInString(sub.Phone) > maxPhoneLen {
		errs.Add("phone", "Please use at most 40 characters.")
	}

	msg := strings.TrimSpace(sub.Message)
	msgLen := utf8.RuneCountInString(sub.Message)
	switch {
	case msg == "":
		errs.Add("message", "Please enter a message.")
	case msgLen < minMessageLen:
		errs.Add("message", "Please enter at least 10 characters.")
	case msgLen > maxMessageLen:
		errs.Add("message", "Please use at most 5000 characters.")
	}

	if !sub.Consent {
		errs.Add("consent", "Please agree to the data processing.")
	}

	return errs
}

// classifyErrors partitions validation messages into technical errors
// (token/anti-forgery failures) and input errors (everything the user can
// fix themselves).
func classifyErrors(errs model.FieldErrors) (hasTechnical, hasInput bool) {
	for _, messages := range errs {
		for _, msg := range messages {
			lower := strings.ToLower(msg)
			if strings.Contains(lower, "token") ||
				strings.Contains(lower, "technisch") ||
				strings.Contains(lower, "csrf") {
				hasTechnical = true
			} else {
				hasInput = true
			}
		}
	}
	return hasTechnical, hasInput
}

// User-facing sentences composed into the validation error message.
const (
	msgTechnicalError = "Leider ist ein technischer Fehler aufgetreten. Bitte laden Sie die Seite neu und versuchen Sie es erneut. Sollte das Problem weiterhin bestehen, schreiben Sie uns gerne direkt eine E‑Mail."
	msgInputError     = "Bitte geben Sie Ihren Namen, eine gültige E‑Mail-Adresse und eine aussagekräftige Nachricht an, damit wir Ihr Anliegen bestmöglich bearbeiten können."
	msgGenericError   = "Entschuldigung, es ist ein Fehler aufgetreten. Bitte überprüfen Sie Ihre Eingaben und versuchen Sie es erneut."
)

// composeErrorMessage builds the user-facing message for a failed
// validation, distinguishing "try again, it's on us" from "fix your input".
func composeErrorMessage(errs model.FieldErrors) string {
	hasTechnical, hasInput := classifyErrors(errs)

	message := ""
	if hasTechnical {
		message = msgTechnicalError
	}
	if hasInput {
		if message != "" {
			message += " "
		}
		message += msgInputError
	}
	if message == "" {
		message = msgGenericError
	}
	return message
}
