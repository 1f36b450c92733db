package session

import "github.com/tinytelemetry/consultas/internal/model"

// FlashKind classifies the one-line message shown under the active screen.
type FlashKind string

const (
	FlashNone    FlashKind = ""
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is the most recent user-facing outcome (save confirmation,
// validation error, webhook result).
type Flash struct {
	Kind FlashKind `json:"kind,omitempty"`
	Text string    `json:"text,omitempty"`
}

// FieldSpec describes one SOAP input on the note form.
type FieldSpec struct {
	Key         string `json:"key"`
	Letter      string `json:"letter"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// NoteFields lists the note form inputs in SOAP order.
var NoteFields = []FieldSpec{
	{Key: "subjective", Letter: "S", Label: "Subjective", Placeholder: "Symptoms, patient complaints, clinical history..."},
	{Key: "objective", Letter: "O", Label: "Objective", Placeholder: "Vital signs, physical exam, observations..."},
	{Key: "assessment", Letter: "A", Label: "Assessment", Placeholder: "Diagnosis, clinical impression, analysis..."},
	{Key: "plan", Letter: "P", Label: "Plan", Placeholder: "Treatment, medication, follow-up, next steps..."},
}

// ListView is the render data of the appointment list.
type ListView struct {
	Appointments []model.Appointment `json:"appointments"`
	// ActiveIndex is the only appointment offering "enter consultation";
	// -1 when the list is empty.
	ActiveIndex int               `json:"active_index"`
	LastNote    *model.NoteRecord `json:"last_note,omitempty"`
	Busy        bool              `json:"busy"`
	Flash       Flash             `json:"flash"`
}

// NoteEntryView is the render data of the note form. Fields always start
// blank; the form keeps no draft between visits.
type NoteEntryView struct {
	Appointment model.Appointment `json:"appointment"`
	Fields      []FieldSpec       `json:"fields"`
	// Saved is set once a note has been saved during the current visit and
	// drives the summary plus the "return to list" action.
	Saved    *model.NoteRecord `json:"saved,omitempty"`
	LastNote *model.NoteRecord `json:"last_note,omitempty"`
	Busy     bool              `json:"busy"`
	Flash    Flash             `json:"flash"`
}

// View is the render data of whichever screen is active.
type View struct {
	Screen    model.Screen   `json:"screen"`
	List      *ListView      `json:"list,omitempty"`
	NoteEntry *NoteEntryView `json:"note_entry,omitempty"`
}

func copyNote(n *model.NoteRecord) *model.NoteRecord {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}
