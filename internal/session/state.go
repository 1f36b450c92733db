package session

import "github.com/tinytelemetry/consultas/internal/model"

// State is everything one session remembers. It is owned by exactly one
// Controller and dropped when the session ends.
type State struct {
	Screen   model.Screen
	LastNote *model.NoteRecord
}

// NewState returns the state of a fresh session: list screen, no note.
func NewState() *State {
	return &State{Screen: model.ScreenList}
}
