package service

import (
	"strings"
	"testing"

	"github.com/netidea/webbase/internal/model"
)

func validContact() *model.ContactSubmission {
	return &model.ContactSubmission{
		Name:    "Alice",
		Email:   "alice@example.com",
		Message: "This message has enough characters.",
		Consent: true,
	}
}

func TestValidateContact_Valid(t *testing.T) {
	errs := ValidateContact(validContact())
	if !errs.Empty() {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateContact_RequiredFields(t *testing.T) {
	sub := &model.ContactSubmission{}
	errs := ValidateContact(sub)

	for _, field := range []string{"name", "email", "message", "consent"} {
		if !errs.Has(field) {
			t.Errorf("expected an error for field %q", field)
		}
	}
}

func TestValidateContact_ConsentRequiredEvenWhenRestValid(t *testing.T) {
	sub := validContact()
	sub.Consent = false

	errs := ValidateContact(sub)
	if !errs.Has("consent") {
		t.Error("expected a consent error")
	}
	if len(errs) != 1 {
		t.Errorf("expected only the consent error, got %v", errs)
	}
}

func TestValidateContact_MessageLengthBoundaries(t *testing.T) {
	tests := []struct {
		length int
		valid  bool
	}{
		{9, false},
		{10, true},
		{5000, true},
		{5001, false},
	}
	for _, tt := range tests {
		sub := validContact()
		sub.Message = strings.Repeat("x", tt.length)
		errs := ValidateContact(sub)
		if got := !errs.Has("message"); got != tt.valid {
			t.Errorf("message length %d: valid=%v, want %v (%v)", tt.length, got, tt.valid, errs["message"])
		}
	}
}

func TestValidateContact_NameAndEmailLengths(t *testing.T) {
	sub := validContact()
	sub.Name = strings.Repeat("n", 121)
	if errs := ValidateContact(sub); !errs.Has("name") {
		t.Error("expected a name length error at 121 chars")
	}

	sub = validContact()
	sub.Email = strings.Repeat("e", 195) + "@ex.com"
	if errs := ValidateContact(sub); !errs.Has("email") {
		t.Error("expected an email length error above 200 chars")
	}

	sub = validContact()
	sub.Phone = strings.Repeat("1", 41)
	if errs := ValidateContact(sub); !errs.Has("phone") {
		t.Error("expected a phone length error at 41 chars")
	}
}

func TestValidateContact_EmailSyntax(t *testing.T) {
	sub := validContact()
	sub.Email = "not-an-email"
	if errs := ValidateContact(sub); !errs.Has("email") {
		t.Error("expected a syntax error for a malformed email")
	}
}

func TestComposeErrorMessage_Input(t *testing.T) {
	errs := model.FieldErrors{}
	errs.Add("name", "Please enter your name.")

	msg := composeErrorMessage(errs)
	if msg != msgInputError {
		t.Errorf("expected the input sentence, got %q", msg)
	}
}

func TestComposeErrorMessage_Technical(t *testing.T) {
	errs := model.FieldErrors{}
	errs.Add(model.GlobalField, "The CSRF token is invalid. Please try to resubmit the form.")

	msg := composeErrorMessage(errs)
	if msg != msgTechnicalError {
		t.Errorf("expected the technical sentence, got %q", msg)
	}
}

func TestComposeErrorMessage_Both(t *testing.T) {
	errs := model.FieldErrors{}
	errs.Add(model.GlobalField, "The CSRF token is invalid. Please try to resubmit the form.")
	errs.Add("email", "Please enter a valid email address.")

	msg := composeErrorMessage(errs)
	if msg != msgTechnicalError+" "+msgInputError {
		t.Errorf("expected both sentences concatenated, got %q", msg)
	}
}

func TestComposeErrorMessage_FallbackGeneric(t *testing.T) {
	msg := composeErrorMessage(model.FieldErrors{})
	if msg != msgGenericError {
		t.Errorf("expected the generic sentence, got %q", msg)
	}
}
