package tui

import (
	"fmt"
	"strings"

	"webmail-cli/internal/model"
	"webmail-cli/internal/render"

	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true).PaddingBottom(1)

	// Email row styles: unread rows stand out, read rows are greyed.
	unreadRowStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240"))

	readRowStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			Foreground(lipgloss.Color("245")).
			Background(lipgloss.Color("236")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240"))

	selectedRowStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("57"))

	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	labelStyle = lipgloss.NewStyle().Bold(true)

	// Detail view buttons
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Padding(0, 1).
			MarginRight(1)

	primaryButton   = buttonStyle.Background(lipgloss.Color("#0D6EFD"))
	secondaryButton = buttonStyle.Background(lipgloss.Color("#6C757D"))
	successButton   = buttonStyle.Background(lipgloss.Color("#198754"))
	dangerButton    = buttonStyle.Background(lipgloss.Color("#DC3545"))

	fieldLabelStyle       = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("241"))
	activeFieldLabelStyle = fieldLabelStyle.Foreground(lipgloss.Color("229")).Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	s := strings.Builder{}
	s.WriteString(titleStyle.Render("WEBMAIL"))
	s.WriteString(" ")
	s.WriteString(m.tabs())
	s.WriteString("\n\n")

	switch m.state {
	case viewDetail:
		s.WriteString(m.detailView())
	case viewCompose:
		s.WriteString(m.composeView())
	case viewDrafts:
		s.WriteString(m.draftsView())
	default:
		s.WriteString(m.mailboxView())
	}

	s.WriteString("\n\n")
	s.WriteString(m.help.ShortHelpView(keys.bindings(m.state, m.drafts != nil)))

	return appStyle.Render(s.String())
}

func (m Model) tabs() string {
	var tabs []string
	for _, mb := range model.Mailboxes {
		style := tabStyle
		if m.state == viewMailbox && mb == m.mailbox {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(render.Title(mb)))
	}
	composeStyle := tabStyle
	if m.state == viewCompose {
		composeStyle = activeTabStyle
	}
	tabs = append(tabs, composeStyle.Render("Compose"))
	if m.drafts != nil {
		draftsStyle := tabStyle
		if m.state == viewDrafts {
			draftsStyle = activeTabStyle
		}
		tabs = append(tabs, draftsStyle.Render("Drafts"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) mailboxView() string {
	s := strings.Builder{}
	s.WriteString(headingStyle.Render(render.Title(m.mailbox)))
	s.WriteString("\n")

	if m.loading {
		s.WriteString("Loading...")
		return s.String()
	}
	if len(m.emails) == 0 {
		s.WriteString(dimStyle.Render("No emails."))
		return s.String()
	}

	start := m.offset
	end := min(start+m.pageHeight(), len(m.emails))
	for i := start; i < end; i++ {
		e := m.emails[i]
		style := unreadRowStyle
		if e.Read {
			style = readRowStyle
		}
		if i == m.cursor {
			style = selectedRowStyle
		}
		line := fmt.Sprintf("%-28s %-44s %s", truncate(e.Sender, 28), truncate(e.Subject, 44), timestampStyle.Render(e.Timestamp))
		s.WriteString(style.Render(line) + "\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m Model) detailView() string {
	if m.loading || m.email == nil {
		if m.loading {
			return "Loading content..."
		}
		return dimStyle.Render("Email could not be loaded.")
	}

	e := m.email
	s := strings.Builder{}
	s.WriteString(headingStyle.Render("Subject: " + e.Subject))
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("From: ") + e.Sender + "\n")
	s.WriteString(labelStyle.Render("To: ") + render.Recipients(e.Recipients) + "\n")
	s.WriteString(labelStyle.Render("Timestamp: ") + e.Timestamp + "\n")
	s.WriteString("--------------------------------------------------\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n\n")
	s.WriteString(m.buttons())
	return s.String()
}

// buttons labels the detail actions from the fetched snapshot of the email.
func (m Model) buttons() string {
	readLabel, archiveLabel, archiveStyle := "Read", "Archive", dangerButton
	if m.email.Read {
		readLabel = "Unread"
	}
	if m.email.Archived {
		archiveLabel, archiveStyle = "Unarchive", successButton
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		primaryButton.Render("R Reply"),
		secondaryButton.Render("u "+readLabel),
		archiveStyle.Render("e "+archiveLabel),
	)
}

func (m Model) composeView() string {
	s := strings.Builder{}
	heading := "New Email"
	if m.draftID != "" {
		heading = "Draft"
	}
	s.WriteString(headingStyle.Render(heading))
	s.WriteString("\n")
	s.WriteString(m.fieldLabel(fieldTo, "To:") + m.inputTo.View() + "\n")
	s.WriteString(m.fieldLabel(fieldSubject, "Subject:") + m.inputSubject.View() + "\n\n")
	s.WriteString(m.inputBody.View())
	if m.sending {
		s.WriteString("\n\nSENDING...")
	}
	return s.String()
}

func (m Model) fieldLabel(field int, label string) string {
	if m.field == field {
		return activeFieldLabelStyle.Render(label)
	}
	return fieldLabelStyle.Render(label)
}

func (m Model) draftsView() string {
	s := strings.Builder{}
	s.WriteString(headingStyle.Render("Drafts"))
	s.WriteString("\n")

	if m.loading {
		s.WriteString("Loading drafts...")
		return s.String()
	}
	if len(m.draftList) == 0 {
		s.WriteString(dimStyle.Render("No drafts."))
		return s.String()
	}
	for i, d := range m.draftList {
		style := unreadRowStyle
		if i == m.draftCursor {
			style = selectedRowStyle
		}
		to := d.Recipients
		if to == "" {
			to = "(no recipients)"
		}
		line := fmt.Sprintf("%-28s %-44s %s", truncate(to, 28), truncate(d.Subject, 44),
			timestampStyle.Render(d.UpdatedAt.Local().Format("Jan 02 2006, 03:04 PM")))
		s.WriteString(style.Render(line) + "\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
