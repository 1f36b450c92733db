package model

import (
	"fmt"
	"strings"
	"time"
)

// Screen identifies which view of a session is active.
type Screen int

const (
	ScreenList      Screen = iota // appointment list (default)
	ScreenNoteEntry               // SOAP note form
)

func (s Screen) String() string {
	switch s {
	case ScreenList:
		return "list"
	case ScreenNoteEntry:
		return "note-entry"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Valid reports whether s is one of the defined screens.
func (s Screen) Valid() bool {
	return s == ScreenList || s == ScreenNoteEntry
}

// MarshalText encodes the screen by name.
func (s Screen) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid screen %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a screen name.
func (s *Screen) UnmarshalText(text []byte) error {
	parsed, err := ParseScreen(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseScreen maps a screen name back to its Screen value.
func ParseScreen(name string) (Screen, error) {
	switch name {
	case "list":
		return ScreenList, nil
	case "note-entry":
		return ScreenNoteEntry, nil
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}

// Appointment is one scheduled visit as supplied by the scheduling fixture.
// It is display-only; nothing in the system mutates it.
type Appointment struct {
	ClinicianName string `yaml:"clinician" json:"clinician"`
	Specialty     string `yaml:"specialty" json:"specialty"`
	PatientName   string `yaml:"patient" json:"patient"`
	VisitType     string `yaml:"visit_type" json:"visit_type"`
	Time          string `yaml:"time" json:"time"` // HH:MM, local wall clock
}

// NoteInput carries the four SOAP fields exactly as typed.
type NoteInput struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// IsEmpty is true when every field is blank after trimming whitespace.
func (in NoteInput) IsEmpty() bool {
	return strings.TrimSpace(in.Subjective) == "" &&
		strings.TrimSpace(in.Objective) == "" &&
		strings.TrimSpace(in.Assessment) == "" &&
		strings.TrimSpace(in.Plan) == ""
}

// NoteRecord is a saved clinical note. A session holds at most one; the next
// save replaces it wholesale.
type NoteRecord struct {
	Subjective    string    `json:"subjective"`
	Objective     string    `json:"objective"`
	Assessment    string    `json:"assessment"`
	Plan          string    `json:"plan"`
	SavedAt       time.Time `json:"saved_at"`
	PatientName   string    `json:"patient"`
	ClinicianName string    `json:"clinician"`
}

// NoteSection is one labelled part of a SOAP note.
type NoteSection struct {
	Letter string
	Label  string
	Text   string
}

// Sections returns the note's four parts in SOAP order.
func (r NoteRecord) Sections() []NoteSection {
	return []NoteSection{
		{Letter: "S", Label: "Subjective", Text: r.Subjective},
		{Letter: "O", Label: "Objective", Text: r.Objective},
		{Letter: "A", Label: "Assessment", Text: r.Assessment},
		{Letter: "P", Label: "Plan", Text: r.Plan},
	}
}

// Field returns the section for a SOAP letter (S, O, A or P, any case).
func (r NoteRecord) Field(letter string) (NoteSection, bool) {
	for _, sec := range r.Sections() {
		if strings.EqualFold(sec.Letter, letter) {
			return sec, true
		}
	}
	return NoteSection{}, false
}

// SavedAtDisplay formats SavedAt the way the visit summary shows it.
func (r NoteRecord) SavedAtDisplay() string {
	return r.SavedAt.Format(SavedAtLayout)
}
