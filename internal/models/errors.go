package models

// ValidationError is a form check that failed before any request was sent.
// Message is the text shown to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
