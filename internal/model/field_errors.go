package model

// GlobalField is the bucket for form-level errors that are not attached to
// a specific input field (e.g. a failed anti-forgery token check).
const GlobalField = "global"

// FieldErrors maps a field name (or GlobalField) to an ordered list of
// human-readable messages. An empty set means the submission is valid.
// Built fresh per validation attempt; never persisted.
type FieldErrors map[string][]string

// Add appends a message to the given field's error list.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether the given field has at least one error.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// Empty reports whether the set contains no errors at all.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}
