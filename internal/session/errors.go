package session

import "errors"

var (
	// ErrBusy is returned when a webhook call is requested while one is in flight.
	ErrBusy = errors.New("session: webhook call already in progress")
	// ErrSessionNotFound is returned by Store lookups for unknown or ended sessions.
	ErrSessionNotFound = errors.New("session: not found")
	// ErrNotOnNoteEntry is returned by Save when the note form is not open.
	ErrNotOnNoteEntry = errors.New("session: note form is not open")
)

// ValidationError rejects a save whose four SOAP fields are all blank.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}
