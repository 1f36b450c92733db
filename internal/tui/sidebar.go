package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/consultas/internal/model"
	"github.com/tinytelemetry/consultas/internal/session"
)

const sidebarWidth = 30

// renderSidebar renders the info column: SOAP legend, webhook help and the
// last saved note.
func renderSidebar(last *model.NoteRecord, height int) string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Information"))
	b.WriteString("\n\n")
	b.WriteString("SOAP is a clinical\ndocumentation method:\n")
	for _, f := range session.NoteFields {
		b.WriteString("  " + labelStyle.Render(f.Letter) + " - " + f.Label + "\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Automated flow"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("'r' on the list calls the\nconfigured flow endpoint\nover HTTP. Set webhook-url\nin config.yml or\nCONSULTAS_WEBHOOK_URL."))
	b.WriteString("\n")

	if last != nil {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Last consultation"))
		b.WriteString("\n\n")
		b.WriteString("Patient: " + orNA(last.PatientName) + "\n")
		b.WriteString("Saved at: " + last.SavedAtDisplay() + "\n")
	}

	style := sidebarStyle.Width(sidebarWidth)
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(b.String())
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// renderFlash renders the one-line outcome under an action.
func renderFlash(f session.Flash) string {
	switch f.Kind {
	case session.FlashSuccess:
		return successStyle.Render("✔ " + f.Text)
	case session.FlashError:
		return errorStyle.Render("✘ " + f.Text)
	}
	return ""
}

// withSidebar joins a page body with the sidebar when the terminal is wide
// enough to hold both.
func withSidebar(body string, last *model.NoteRecord, width, height int) string {
	if width > 0 && width < sidebarWidth+50 {
		return body
	}
	main := lipgloss.NewStyle().Width(max(width-sidebarWidth-3, 40)).Render(body)
	return lipgloss.JoinHorizontal(lipgloss.Top, main, renderSidebar(last, height))
}
