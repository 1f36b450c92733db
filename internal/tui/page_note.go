package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/consultas/internal/model"
	"github.com/tinytelemetry/consultas/internal/session"
)

const fieldHeight = 3

// NotePage is the SOAP form of the active consultation.
type NotePage struct {
	ctrl    *session.Controller
	keys    NoteKeyMap
	help    help.Model
	inputs  []textarea.Model
	focused int
	width   int
	height  int
}

// NewNotePage creates the note form page for a session.
func NewNotePage(ctrl *session.Controller) *NotePage {
	p := &NotePage{
		ctrl: ctrl,
		keys: DefaultNoteKeyMap(),
		help: help.New(),
	}
	p.resetInputs()
	return p
}

func (p *NotePage) ID() string { return PageNoteEntry }

// Init starts every visit with a blank form.
func (p *NotePage) Init() tea.Cmd {
	p.resetInputs()
	p.keys.ReturnToList.SetEnabled(false)
	return textarea.Blink
}

func (p *NotePage) resetInputs() {
	p.inputs = make([]textarea.Model, len(session.NoteFields))
	for i, f := range session.NoteFields {
		ta := textarea.New()
		ta.Placeholder = f.Placeholder
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetHeight(fieldHeight)
		if p.width > 0 {
			ta.SetWidth(p.fieldWidth())
		}
		p.inputs[i] = ta
	}
	p.focused = 0
	p.inputs[0].Focus()
}

func (p *NotePage) fieldWidth() int {
	w := p.width - sidebarWidth - 6
	if p.width < sidebarWidth+50 {
		w = p.width - 4
	}
	return max(w, 20)
}

// Input returns what the form currently holds.
func (p *NotePage) Input() model.NoteInput {
	return model.NoteInput{
		Subjective: p.inputs[0].Value(),
		Objective:  p.inputs[1].Value(),
		Assessment: p.inputs[2].Value(),
		Plan:       p.inputs[3].Value(),
	}
}

func (p *NotePage) focus(i int) tea.Cmd {
	p.inputs[p.focused].Blur()
	p.focused = (i + len(p.inputs)) % len(p.inputs)
	return p.inputs[p.focused].Focus()
}

func (p *NotePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width
		for i := range p.inputs {
			p.inputs[i].SetWidth(p.fieldWidth())
		}
		return nil, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Back):
			// No unsaved-changes guard: typed text is dropped.
			p.ctrl.Back()
			return nil, &PageNav{PageID: PageList}
		case key.Matches(msg, p.keys.ReturnToList):
			p.ctrl.ReturnToList()
			return nil, &PageNav{PageID: PageList}
		case key.Matches(msg, p.keys.Save):
			if _, err := p.ctrl.Save(p.Input()); err == nil {
				p.keys.ReturnToList.SetEnabled(true)
			}
			return nil, nil
		case key.Matches(msg, p.keys.NextField):
			return p.focus(p.focused + 1), nil
		case key.Matches(msg, p.keys.PrevField):
			return p.focus(p.focused - 1), nil
		}
	}

	var cmd tea.Cmd
	p.inputs[p.focused], cmd = p.inputs[p.focused].Update(msg)
	return cmd, nil
}

func (p *NotePage) View(width, height int) string {
	v := p.ctrl.RenderNoteEntry()

	var sections []string
	sections = append(sections, titleStyle.Render("📝 Consultation Record"))
	sections = append(sections, bannerStyle.Render(v.Appointment.PatientName))

	for i, f := range v.Fields {
		sections = append(sections, labelStyle.Render(f.Letter+" - "+f.Label))
		sections = append(sections, p.inputs[i].View())
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		blueButtonStyle.Render("⬅️ Back [esc]"),
		"   ",
		buttonStyle.Render("💾 Save consultation [ctrl+s]"),
	)
	sections = append(sections, buttons)

	if flash := renderFlash(v.Flash); flash != "" {
		sections = append(sections, flash)
	}
	if v.Saved != nil {
		sections = append(sections, renderNoteSummary(*v.Saved))
		sections = append(sections, blueButtonStyle.Render("🔙 Return to consultation list [ctrl+l]"))
	}

	sections = append(sections, p.help.View(p.keys))

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return withSidebar(body, v.LastNote, width, height)
}

// renderNoteSummary renders the saved-consultation summary.
func renderNoteSummary(rec model.NoteRecord) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📄 Saved consultation summary"))
	b.WriteString("\n")
	b.WriteString("Patient: " + rec.PatientName + "\n")
	b.WriteString("Clinician: " + rec.ClinicianName + "\n")
	b.WriteString("Date/Time: " + rec.SavedAtDisplay() + "\n")
	for _, s := range rec.Sections() {
		text := s.Text
		if text == "" {
			text = model.EmptyFieldText
		}
		b.WriteString(labelStyle.Render(s.Letter+" -") + " " + text + "\n")
	}
	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}
