package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/consultas/internal/model"
	"github.com/tinytelemetry/consultas/internal/session"
	"github.com/tinytelemetry/consultas/internal/webhook"
)

// webhookDoneMsg carries the outcome of a flow call back to the list page.
type webhookDoneMsg struct {
	Result webhook.Result
}

// ListPage shows the day's appointments and the automated flow action.
type ListPage struct {
	ctrl     *session.Controller
	keys     ListKeyMap
	help     help.Model
	spinner  spinner.Model
	pending  bool
	showHelp bool
	width    int
	height   int
	now      func() time.Time
}

// NewListPage creates the appointment list page for a session.
func NewListPage(ctrl *session.Controller) *ListPage {
	return &ListPage{
		ctrl:    ctrl,
		keys:    DefaultListKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		now:     time.Now,
	}
}

func (p *ListPage) ID() string { return PageList }

func (p *ListPage) Init() tea.Cmd { return nil }

func (p *ListPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width
		return nil, nil

	case webhookDoneMsg:
		p.pending = false
		return nil, nil

	case spinner.TickMsg:
		if !p.pending {
			return nil, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd, nil

	case tea.KeyMsg:
		// The flow call blocks the page until it answers.
		if p.pending {
			return nil, nil
		}
		switch {
		case key.Matches(msg, p.keys.Quit):
			return tea.Quit, nil
		case key.Matches(msg, p.keys.Help):
			p.showHelp = !p.showHelp
			p.help.ShowAll = p.showHelp
			return nil, nil
		case key.Matches(msg, p.keys.Enter):
			if p.ctrl.RenderList().ActiveIndex < 0 {
				return nil, nil
			}
			p.ctrl.EnterConsultation()
			return nil, &PageNav{PageID: PageNoteEntry}
		case key.Matches(msg, p.keys.Webhook):
			p.pending = true
			return tea.Batch(p.spinner.Tick, triggerWebhookCmd(p.ctrl)), nil
		}
	}
	return nil, nil
}

// triggerWebhookCmd runs the flow call off the UI goroutine.
func triggerWebhookCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return webhookDoneMsg{Result: ctrl.TriggerWebhook(context.Background())}
	}
}

func (p *ListPage) View(width, height int) string {
	v := p.ctrl.RenderList()

	var sections []string
	sections = append(sections, titleStyle.Render("🏥 Appointment Management"))
	sections = append(sections, headerStyle.Render("Today's Consultations\n"+p.now().Format("Monday, 02 January 2006")))

	sections = append(sections, sectionStyle.Render("🔧 Automation"))
	sections = append(sections, p.renderAutomation(v))

	sections = append(sections, sectionStyle.Render("📋 Consultation List"))
	if len(v.Appointments) == 0 {
		sections = append(sections, dimStyle.Render("No consultations scheduled."))
	}
	for i, a := range v.Appointments {
		sections = append(sections, renderAppointmentCard(a, i == v.ActiveIndex))
	}

	sections = append(sections, p.help.View(p.keys))

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return withSidebar(body, v.LastNote, width, height)
}

func (p *ListPage) renderAutomation(v session.ListView) string {
	button := blueButtonStyle.Render("🔄 Run automated flow [r]")
	if p.pending || v.Busy {
		return button + "\n" + p.spinner.View() + " Running flow..."
	}
	if flash := renderFlash(v.Flash); flash != "" {
		return button + "\n" + flash
	}
	return button
}

func renderAppointmentCard(a model.Appointment, active bool) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("🩺 %s - %s", a.ClinicianName, a.Specialty)))
	b.WriteString("\n")
	b.WriteString("Patient: " + a.PatientName + "\n")
	b.WriteString("Type: " + a.VisitType + "\n")
	b.WriteString("Time: ⏰ " + a.Time)

	if active {
		card := activeCardStyle.Render(b.String())
		return lipgloss.JoinHorizontal(lipgloss.Center, card, "  ", buttonStyle.Render("🟢 Enter consultation [enter]"))
	}
	return cardStyle.Render(b.String())
}
