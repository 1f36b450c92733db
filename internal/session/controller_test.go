package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinytelemetry/consultas/internal/model"
	"github.com/tinytelemetry/consultas/internal/schedule"
	"github.com/tinytelemetry/consultas/internal/webhook"
)

type fakeNotifier struct {
	mu     sync.Mutex
	calls  int
	result webhook.Result
	gate   chan struct{} // when non-nil, Trigger blocks until closed
	ctxErr error
}

func (f *fakeNotifier) Trigger(ctx context.Context) webhook.Result {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	f.ctxErr = ctx.Err()
	f.mu.Unlock()
	return f.result
}

type panickingNotifier struct{}

func (panickingNotifier) Trigger(context.Context) webhook.Result {
	panic("notifier exploded")
}

func (f *fakeNotifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var fixedNow = time.Date(2026, 10, 17, 9, 42, 0, 0, time.UTC)

func newTestController(t *testing.T, n Notifier) *Controller {
	t.Helper()
	c := NewController(NewState(), schedule.DefaultDay(), n, zerolog.Nop())
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestFreshSession_StartsOnList(t *testing.T) {
	c := newTestController(t, nil)

	assert.Equal(t, model.ScreenList, c.Screen())
	assert.Nil(t, c.LastNote())
	assert.False(t, c.Busy())
}

func TestEnterConsultation_GoesToNoteEntry(t *testing.T) {
	c := newTestController(t, nil)

	c.EnterConsultation()

	assert.Equal(t, model.ScreenNoteEntry, c.Screen())
}

func TestSave_SingleField(t *testing.T) {
	c := newTestController(t, nil)
	c.EnterConsultation()

	rec, err := c.Save(model.NoteInput{Subjective: "Patient reports headache"})
	require.NoError(t, err)

	last := c.LastNote()
	require.NotNil(t, last)
	assert.Equal(t, rec, *last)
	assert.Equal(t, "Patient reports headache", last.Subjective)
	assert.Empty(t, last.Objective)
	assert.Empty(t, last.Assessment)
	assert.Empty(t, last.Plan)
	assert.Equal(t, fixedNow, last.SavedAt)
	assert.Equal(t, "Maria José Santos", last.PatientName)
	assert.Equal(t, "Dr. João Silva", last.ClinicianName)
	assert.Equal(t, model.ScreenNoteEntry, c.Screen())
}

func TestSave_EmptyNoteRejected(t *testing.T) {
	inputs := []model.NoteInput{
		{},
		{Subjective: "   ", Objective: "\t", Assessment: "\n", Plan: " \r\n "},
	}

	for _, in := range inputs {
		c := newTestController(t, nil)
		c.EnterConsultation()

		_, err := c.Save(in)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "empty note", vErr.Reason)
		assert.Nil(t, c.LastNote())
		assert.Equal(t, model.ScreenNoteEntry, c.Screen())

		v := c.RenderNoteEntry()
		assert.Equal(t, FlashError, v.Flash.Kind)
		assert.Nil(t, v.Saved)
	}
}

func TestSave_RequiresNoteForm(t *testing.T) {
	c := newTestController(t, nil)

	_, err := c.Save(model.NoteInput{Subjective: "x"})

	assert.ErrorIs(t, err, ErrNotOnNoteEntry)
	assert.Nil(t, c.LastNote())
	assert.Equal(t, model.ScreenList, c.Screen())
	assert.Equal(t, FlashNone, c.RenderList().Flash.Kind)

	c.EnterConsultation()
	c.Back()
	_, err = c.Save(model.NoteInput{Subjective: "x"})
	assert.ErrorIs(t, err, ErrNotOnNoteEntry)
	assert.Nil(t, c.LastNote())
}

func TestSave_EmptyKeepsPreviousNote(t *testing.T) {
	c := newTestController(t, nil)
	c.EnterConsultation()
	_, err := c.Save(model.NoteInput{Plan: "Review in 2 weeks"})
	require.NoError(t, err)

	_, err = c.Save(model.NoteInput{})
	require.Error(t, err)

	last := c.LastNote()
	require.NotNil(t, last)
	assert.Equal(t, "Review in 2 weeks", last.Plan)
}

func TestSave_AnyNonEmptyCombination(t *testing.T) {
	for mask := 1; mask < 16; mask++ {
		var in model.NoteInput
		if mask&1 != 0 {
			in.Subjective = "s"
		}
		if mask&2 != 0 {
			in.Objective = "o"
		}
		if mask&4 != 0 {
			in.Assessment = "a"
		}
		if mask&8 != 0 {
			in.Plan = "p"
		}

		c := newTestController(t, nil)
		c.EnterConsultation()
		_, err := c.Save(in)
		require.NoError(t, err, "mask %04b", mask)
		assert.Equal(t, model.ScreenNoteEntry, c.Screen())
		assert.Equal(t, fixedNow, c.LastNote().SavedAt)
	}
}

func TestSave_OverwritesWholesale(t *testing.T) {
	c := newTestController(t, nil)
	c.EnterConsultation()
	_, err := c.Save(model.NoteInput{Subjective: "first", Plan: "first plan"})
	require.NoError(t, err)

	_, err = c.Save(model.NoteInput{Objective: "second"})
	require.NoError(t, err)

	last := c.LastNote()
	assert.Empty(t, last.Subjective)
	assert.Empty(t, last.Plan)
	assert.Equal(t, "second", last.Objective)
}

func TestReturnToList_AfterSave(t *testing.T) {
	c := newTestController(t, nil)
	c.EnterConsultation()
	_, err := c.Save(model.NoteInput{Assessment: "Hypertension"})
	require.NoError(t, err)
	require.NotNil(t, c.RenderNoteEntry().Saved)

	c.ReturnToList()

	assert.Equal(t, model.ScreenList, c.Screen())
	assert.Equal(t, "Hypertension", c.LastNote().Assessment)
	assert.Equal(t, "Hypertension", c.RenderList().LastNote.Assessment)
}

func TestBack_NeverTouchesLastNote(t *testing.T) {
	c := newTestController(t, nil)
	c.EnterConsultation()
	_, err := c.Save(model.NoteInput{Subjective: "kept"})
	require.NoError(t, err)
	before := c.LastNote()

	c.EnterConsultation()
	c.Back()

	assert.Equal(t, model.ScreenList, c.Screen())
	assert.Equal(t, before, c.LastNote())
}

func TestReenteringNoteEntry_StartsBlank(t *testing.T) {
	c := newTestController(t, nil)
	c.EnterConsultation()
	_, err := c.Save(model.NoteInput{Subjective: "x"})
	require.NoError(t, err)
	c.ReturnToList()

	c.EnterConsultation()
	v := c.RenderNoteEntry()

	assert.Nil(t, v.Saved)
	assert.Equal(t, FlashNone, v.Flash.Kind)
	require.Len(t, v.Fields, 4)
	assert.Equal(t, "subjective", v.Fields[0].Key)
	assert.Equal(t, "plan", v.Fields[3].Key)
}

func TestGoToScreen_UndefinedPanics(t *testing.T) {
	c := newTestController(t, nil)

	assert.Panics(t, func() { c.GoToScreen(model.Screen(7)) })
}

func TestRender_IsPure(t *testing.T) {
	c := newTestController(t, &fakeNotifier{result: webhook.Result{Success: true, Message: "ok"}})
	c.TriggerWebhook(context.Background())

	assert.Equal(t, c.RenderList(), c.RenderList())
	assert.Equal(t, c.Render(), c.Render())

	c.EnterConsultation()
	_, _ = c.Save(model.NoteInput{Plan: "rest"})
	assert.Equal(t, c.RenderNoteEntry(), c.RenderNoteEntry())
	assert.Equal(t, c.Render(), c.Render())
}

func TestRender_ReturnsCopies(t *testing.T) {
	c := newTestController(t, nil)
	c.EnterConsultation()
	_, err := c.Save(model.NoteInput{Plan: "rest"})
	require.NoError(t, err)

	v := c.RenderNoteEntry()
	v.LastNote.Plan = "tampered"
	v.Fields[0].Label = "tampered"

	again := c.RenderNoteEntry()
	assert.Equal(t, "rest", again.LastNote.Plan)
	assert.Equal(t, "Subjective", again.Fields[0].Label)
}

func TestRender_FollowsScreen(t *testing.T) {
	c := newTestController(t, nil)

	v := c.Render()
	assert.Equal(t, model.ScreenList, v.Screen)
	require.NotNil(t, v.List)
	assert.Nil(t, v.NoteEntry)
	assert.Equal(t, 0, v.List.ActiveIndex)
	assert.Len(t, v.List.Appointments, 2)

	c.EnterConsultation()
	v = c.Render()
	assert.Nil(t, v.List)
	require.NotNil(t, v.NoteEntry)
	assert.Equal(t, "Maria José Santos", v.NoteEntry.Appointment.PatientName)
}

func TestRenderList_EmptyFixture(t *testing.T) {
	c := NewController(nil, nil, nil, zerolog.Nop())

	v := c.RenderList()
	assert.Equal(t, -1, v.ActiveIndex)
	assert.Empty(t, v.Appointments)
}

func TestTriggerWebhook_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		result   webhook.Result
		wantKind FlashKind
	}{
		{name: "success", result: webhook.Result{Success: true, Message: "Flow executed successfully!"}, wantKind: FlashSuccess},
		{name: "auth", result: webhook.Result{Message: "Error 401", Err: &webhook.AuthError{StatusCode: 401}}, wantKind: FlashError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fakeNotifier{result: tt.result}
			c := newTestController(t, n)

			res := c.TriggerWebhook(context.Background())

			assert.Equal(t, tt.result, res)
			assert.Equal(t, 1, n.Calls())
			v := c.RenderList()
			assert.Equal(t, tt.wantKind, v.Flash.Kind)
			assert.Equal(t, tt.result.Message, v.Flash.Text)
			assert.False(t, v.Busy)
			assert.Equal(t, model.ScreenList, c.Screen())
		})
	}
}

func TestTriggerWebhook_StubEndpoint401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	client := webhook.NewClient(webhook.Config{Endpoint: srv.URL, Logger: zerolog.Nop()})
	c := newTestController(t, client)

	res := c.TriggerWebhook(context.Background())

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "401")
}

func TestTriggerWebhook_RefusesOverlap(t *testing.T) {
	n := &fakeNotifier{gate: make(chan struct{}), result: webhook.Result{Success: true}}
	c := newTestController(t, n)

	done := make(chan webhook.Result)
	go func() { done <- c.TriggerWebhook(context.Background()) }()

	require.Eventually(t, c.Busy, time.Second, 5*time.Millisecond)
	assert.True(t, c.RenderList().Busy)

	second := c.TriggerWebhook(context.Background())
	assert.False(t, second.Success)
	assert.True(t, errors.Is(second.Err, ErrBusy))

	close(n.gate)
	first := <-done
	assert.True(t, first.Success)
	assert.Equal(t, 1, n.Calls())
	assert.False(t, c.Busy())
}

func TestTriggerWebhook_DetachesCancellation(t *testing.T) {
	n := &fakeNotifier{result: webhook.Result{Success: true}}
	c := newTestController(t, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := c.TriggerWebhook(ctx)

	assert.True(t, res.Success)
	assert.NoError(t, n.ctxErr)
}

func TestTriggerWebhook_NoNotifier(t *testing.T) {
	c := newTestController(t, nil)

	res := c.TriggerWebhook(context.Background())

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, webhook.ErrNoEndpoint)
	assert.Equal(t, FlashError, c.RenderList().Flash.Kind)
}

func TestTriggerWebhook_IndependentOfNotes(t *testing.T) {
	n := &fakeNotifier{result: webhook.Result{Success: true}}
	c := newTestController(t, n)
	c.EnterConsultation()
	_, err := c.Save(model.NoteInput{Plan: "x"})
	require.NoError(t, err)
	before := c.LastNote()

	c.TriggerWebhook(context.Background())

	assert.Equal(t, before, c.LastNote())
	assert.Equal(t, model.ScreenNoteEntry, c.Screen())
}

func TestTriggerWebhook_PanickingNotifierReleasesBusy(t *testing.T) {
	c := newTestController(t, panickingNotifier{})

	assert.Panics(t, func() { c.TriggerWebhook(context.Background()) })
	assert.False(t, c.Busy())

	n := &fakeNotifier{result: webhook.Result{Success: true}}
	c.notifier = n
	res := c.TriggerWebhook(context.Background())
	assert.True(t, res.Success)
	assert.Equal(t, 1, n.Calls())
}
