// Package session holds the per-session screen controller: which screen is
// active, the last saved SOAP note, and the in-flight webhook flag.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tinytelemetry/consultas/internal/model"
	"github.com/tinytelemetry/consultas/internal/webhook"
)

// Notifier fires the external automation flow.
type Notifier interface {
	Trigger(ctx context.Context) webhook.Result
}

// Controller mediates every transition of one session. Presentation layers
// call an action, then re-read Render to redraw.
type Controller struct {
	mu           sync.Mutex
	state        *State
	appointments []model.Appointment
	notifier     Notifier
	now          func() time.Time
	logger       zerolog.Logger

	busy           bool
	flash          Flash
	savedThisVisit bool
}

// NewController wires a session's state to its appointment list and notifier.
func NewController(state *State, appointments []model.Appointment, notifier Notifier, logger zerolog.Logger) *Controller {
	if state == nil {
		state = NewState()
	}
	appts := make([]model.Appointment, len(appointments))
	copy(appts, appointments)
	return &Controller{
		state:        state,
		appointments: appts,
		notifier:     notifier,
		now:          time.Now,
		logger:       logger.With().Str("component", "session").Logger(),
	}
}

// Screen returns the active screen.
func (c *Controller) Screen() model.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Screen
}

// LastNote returns a copy of the last saved note, or nil.
func (c *Controller) LastNote() *model.NoteRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyNote(c.state.LastNote)
}

// Busy reports whether a webhook call is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// GoToScreen switches the active screen. Passing an undefined screen is a
// programming error and panics.
func (c *Controller) GoToScreen(s model.Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.goToScreenLocked(s)
}

func (c *Controller) goToScreenLocked(s model.Screen) {
	if !s.Valid() {
		panic(fmt.Sprintf("session: undefined screen %d", int(s)))
	}
	from := c.state.Screen
	c.state.Screen = s
	c.flash = Flash{}
	c.savedThisVisit = false
	c.logger.Debug().Stringer("from", from).Stringer("to", s).Msg("screen change")
}

// EnterConsultation opens the note form for the active appointment.
func (c *Controller) EnterConsultation() {
	c.GoToScreen(model.ScreenNoteEntry)
}

// Back returns to the list. Whatever was typed on the form is discarded and
// the last saved note is left alone.
func (c *Controller) Back() {
	c.GoToScreen(model.ScreenList)
}

// ReturnToList leaves the note form after a save.
func (c *Controller) ReturnToList() {
	c.GoToScreen(model.ScreenList)
}

// Save stores a note built from in. A note with all four fields blank is
// rejected with a *ValidationError; the screen and the previous note are
// untouched. On success the screen stays on the note form. Saving is only
// possible from the note form; elsewhere it fails with ErrNotOnNoteEntry.
func (c *Controller) Save(in model.NoteInput) (model.NoteRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Screen != model.ScreenNoteEntry {
		return model.NoteRecord{}, ErrNotOnNoteEntry
	}
	if in.IsEmpty() {
		c.flash = Flash{Kind: FlashError, Text: "Fill in at least one field before saving."}
		c.logger.Debug().Msg("rejected empty note")
		return model.NoteRecord{}, &ValidationError{Reason: "empty note"}
	}

	active := c.activeAppointmentLocked()
	rec := model.NoteRecord{
		Subjective:    in.Subjective,
		Objective:     in.Objective,
		Assessment:    in.Assessment,
		Plan:          in.Plan,
		SavedAt:       c.now(),
		PatientName:   active.PatientName,
		ClinicianName: active.ClinicianName,
	}
	c.state.LastNote = &rec
	c.savedThisVisit = true
	c.flash = Flash{Kind: FlashSuccess, Text: "Consultation saved successfully!"}

	c.logger.Info().
		Time("saved_at", rec.SavedAt).
		Int("filled_fields", filledFields(in)).
		Msg("note saved")
	return rec, nil
}

// TriggerWebhook runs the automation flow and blocks until it answers or
// times out. The caller's cancellation is not propagated; once started the
// call runs to completion. A call made while another is in flight is
// refused without touching the network.
func (c *Controller) TriggerWebhook(ctx context.Context) webhook.Result {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return webhook.Result{Message: "The automated flow is already running.", Err: ErrBusy}
	}
	if c.notifier == nil {
		c.flash = Flash{Kind: FlashError, Text: "Error: no automation flow configured"}
		c.mu.Unlock()
		return webhook.Result{Message: "Error: no automation flow configured", Err: webhook.ErrNoEndpoint}
	}
	c.busy = true
	c.mu.Unlock()

	res := c.notify(context.WithoutCancel(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()
	if res.Success {
		c.flash = Flash{Kind: FlashSuccess, Text: res.Message}
	} else {
		c.flash = Flash{Kind: FlashError, Text: res.Message}
	}
	return res
}

// notify calls the notifier and clears the busy flag, even if the notifier
// panics.
func (c *Controller) notify(ctx context.Context) webhook.Result {
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()
	return c.notifier.Trigger(ctx)
}

// Render returns the render data of the active screen.
func (c *Controller) Render() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{Screen: c.state.Screen}
	switch c.state.Screen {
	case model.ScreenList:
		lv := c.renderListLocked()
		v.List = &lv
	case model.ScreenNoteEntry:
		nv := c.renderNoteEntryLocked()
		v.NoteEntry = &nv
	}
	return v
}

// RenderList returns the list screen's render data. It only reads state.
func (c *Controller) RenderList() ListView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderListLocked()
}

// RenderNoteEntry returns the note form's render data. It only reads state.
func (c *Controller) RenderNoteEntry() NoteEntryView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderNoteEntryLocked()
}

func (c *Controller) renderListLocked() ListView {
	appts := make([]model.Appointment, len(c.appointments))
	copy(appts, c.appointments)
	active := 0
	if len(appts) == 0 {
		active = -1
	}
	return ListView{
		Appointments: appts,
		ActiveIndex:  active,
		LastNote:     copyNote(c.state.LastNote),
		Busy:         c.busy,
		Flash:        c.flash,
	}
}

func (c *Controller) renderNoteEntryLocked() NoteEntryView {
	fields := make([]FieldSpec, len(NoteFields))
	copy(fields, NoteFields)
	v := NoteEntryView{
		Appointment: c.activeAppointmentLocked(),
		Fields:      fields,
		LastNote:    copyNote(c.state.LastNote),
		Busy:        c.busy,
		Flash:       c.flash,
	}
	if c.savedThisVisit {
		v.Saved = copyNote(c.state.LastNote)
	}
	return v
}

// activeAppointmentLocked is the appointment the note form belongs to. Only
// the first appointment of the day is wired to the form.
func (c *Controller) activeAppointmentLocked() model.Appointment {
	if len(c.appointments) == 0 {
		return model.Appointment{}
	}
	return c.appointments[0]
}

func filledFields(in model.NoteInput) int {
	n := 0
	for _, s := range []string{in.Subjective, in.Objective, in.Assessment, in.Plan} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}
