package tui

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"webmail-cli/internal/api"
	"webmail-cli/internal/logging"
	"webmail-cli/internal/model"
	"webmail-cli/internal/render"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Mailer is the slice of the backend API the screens drive.
type Mailer interface {
	ListMailbox(ctx context.Context, mailbox model.Mailbox) ([]model.Email, error)
	GetEmail(ctx context.Context, id int64) (model.Email, error)
	UpdateEmail(ctx context.Context, id int64, u api.Update) error
	SendEmail(ctx context.Context, msg api.Compose) (api.Result, error)
}

// DraftStore keeps unsent compose forms locally.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *model.Draft) error
	ListDrafts(ctx context.Context) ([]model.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// SessionState indicates the current view
type sessionState int

const (
	viewMailbox sessionState = iota
	viewDetail
	viewCompose
	viewDrafts
)

// Compose form fields, in tab order.
const (
	fieldTo = iota
	fieldSubject
	fieldBody
	fieldCount
)

// Options configures a Model. Drafts may be nil, which hides the drafts screen.
type Options struct {
	Drafts  DraftStore
	Logger  *slog.Logger
	Editor  string
	Mailbox model.Mailbox // shown on startup, inbox when empty
}

// Model implementation
type Model struct {
	client Mailer
	drafts DraftStore
	log    *slog.Logger
	editor string
	state  sessionState

	// Mailbox View Data
	mailbox model.Mailbox
	emails  []model.Email
	cursor  int
	offset  int
	loading bool

	// Detail View Data
	detailID int64
	email    *model.Email // as fetched; toggles are computed from this snapshot
	viewport viewport.Model

	// Composition Data
	inputTo      textinput.Model
	inputSubject textinput.Model
	inputBody    textarea.Model
	field        int
	draftID      string // set when the form came from a saved draft
	tempFile     string
	sending      bool

	// Drafts View Data
	draftList   []model.Draft
	draftCursor int

	help   help.Model
	width  int
	height int
}

func NewModel(client Mailer, opts Options) Model {
	tiTo := textinput.New()
	tiTo.Placeholder = "recipient@example.com, another@example.com"
	tiTo.Prompt = ""

	tiSubj := textinput.New()
	tiSubj.Placeholder = "Subject"
	tiSubj.Prompt = ""

	taBody := textarea.New()
	taBody.Placeholder = "Body"
	taBody.ShowLineNumbers = false
	taBody.CharLimit = 0

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	editor := opts.Editor
	if editor == "" {
		editor = "nano"
	}
	mailbox := opts.Mailbox
	if !mailbox.Valid() {
		mailbox = model.Inbox
	}

	return Model{
		client:       client,
		drafts:       opts.Drafts,
		log:          log,
		editor:       editor,
		state:        viewMailbox,
		mailbox:      mailbox,
		loading:      true,
		viewport:     viewport.New(80, 20),
		inputTo:      tiTo,
		inputSubject: tiSubj,
		inputBody:    taBody,
		help:         help.New(),
	}
}

// Init loads the startup mailbox.
func (m Model) Init() tea.Cmd {
	return fetchMailboxCmd(m.client, m.mailbox)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case mailboxLoadedMsg:
		return m.onMailboxLoaded(msg)

	case emailLoadedMsg:
		return m.onEmailLoaded(msg)

	case markedReadMsg:
		if msg.err != nil {
			m.log.Error("failed to mark email as read", "id", msg.id, "error", msg.err)
		} else {
			m.log.Info("email marked as read", "id", msg.id)
		}
		return m, nil

	case emailUpdatedMsg:
		return m.onEmailUpdated(msg)

	case emailSentMsg:
		return m.onEmailSent(msg)

	case draftsLoadedMsg:
		return m.onDraftsLoaded(msg)

	case draftSavedMsg:
		return m.onDraftSaved(msg)

	case draftDeletedMsg:
		if msg.err != nil {
			m.log.Error("failed to delete draft", "id", msg.id, "error", msg.err)
			return m, nil
		}
		m.log.Info("draft deleted", "id", msg.id)
		if m.state == viewDrafts {
			return m, fetchDraftsCmd(m.drafts)
		}
		return m, nil

	case editorFinishedMsg:
		return m.onEditorFinished(msg)

	case tea.KeyMsg:
		switch m.state {
		case viewCompose:
			return m.handleComposeKey(msg)
		case viewDetail:
			return m.handleDetailKey(msg)
		case viewDrafts:
			return m.handleDraftsKey(msg)
		default:
			return m.handleMailboxKey(msg)
		}
	}

	// Cursor blinks and the like
	if m.state == viewCompose {
		return m.updateInputs(msg)
	}
	return m, nil
}

// loadMailbox shows a mailbox and fetches its emails.
func (m Model) loadMailbox(mailbox model.Mailbox) (Model, tea.Cmd) {
	m.state = viewMailbox
	m.mailbox = mailbox
	m.emails = nil
	m.cursor = 0
	m.offset = 0
	m.loading = true
	m.email = nil
	m.sending = false
	m.blurInputs()
	return m, fetchMailboxCmd(m.client, mailbox)
}

// viewEmail shows the detail screen and fetches the email.
func (m Model) viewEmail(id int64) (Model, tea.Cmd) {
	m.state = viewDetail
	m.detailID = id
	m.email = nil
	m.loading = true
	m.viewport.SetContent("")
	m.viewport.GotoTop()
	return m, fetchEmailCmd(m.client, id)
}

// compose shows an empty compose form.
func (m Model) compose() (Model, tea.Cmd) {
	m.state = viewCompose
	m.draftID = ""
	m.sending = false
	m.inputTo.SetValue("")
	m.inputSubject.SetValue("")
	m.inputBody.SetValue("")
	cmd := m.focusField(fieldTo)
	return m, cmd
}

// reply shows the compose form prefilled from e.
func (m Model) reply(e model.Email) (Model, tea.Cmd) {
	m, _ = m.compose()
	m.inputTo.SetValue(e.Sender)
	m.inputSubject.SetValue(render.ReplySubject(e.Subject))
	m.inputBody.SetValue(render.ReplyBody(e))
	cmd := m.focusField(fieldBody)
	return m, cmd
}

// openDraft shows the compose form filled from a saved draft.
func (m Model) openDraft(d model.Draft) (Model, tea.Cmd) {
	m, _ = m.compose()
	m.draftID = d.ID
	m.inputTo.SetValue(d.Recipients)
	m.inputSubject.SetValue(d.Subject)
	m.inputBody.SetValue(d.Body)
	if d.Recipients == "" {
		cmd := m.focusField(fieldTo)
		return m, cmd
	}
	cmd := m.focusField(fieldBody)
	return m, cmd
}

func (m Model) loadDrafts() (Model, tea.Cmd) {
	m.state = viewDrafts
	m.draftList = nil
	m.draftCursor = 0
	m.loading = true
	m.blurInputs()
	return m, fetchDraftsCmd(m.drafts)
}

func (m Model) onMailboxLoaded(msg mailboxLoadedMsg) (Model, tea.Cmd) {
	if m.state != viewMailbox || msg.mailbox != m.mailbox {
		m.log.Debug("ignoring stale mailbox response", "mailbox", msg.mailbox, "error", msg.err)
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.log.Error("failed to load mailbox", "mailbox", msg.mailbox, "error", msg.err)
		return m, nil
	}
	m.log.Info("mailbox loaded", "mailbox", msg.mailbox, "count", len(msg.emails))
	m.log.Debug("mailbox response", "mailbox", msg.mailbox, "emails", msg.emails)
	m.emails = msg.emails
	return m, nil
}

func (m Model) onEmailLoaded(msg emailLoadedMsg) (Model, tea.Cmd) {
	if m.state != viewDetail || msg.id != m.detailID {
		m.log.Debug("ignoring stale email response", "id", msg.id, "error", msg.err)
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.log.Error("failed to load email", "id", msg.id, "error", msg.err)
		return m, nil
	}
	m.log.Info("email loaded", "id", msg.id, "read", msg.email.Read, "archived", msg.email.Archived)
	m.log.Debug("email response", "email", msg.email)

	e := msg.email
	m.email = &e
	m.viewport.SetContent(render.Linkify(render.Body(e.Body)))
	m.viewport.GotoTop()

	if !e.Read {
		return m, markReadCmd(m.client, msg.id)
	}
	return m, nil
}

func (m Model) onEmailUpdated(msg emailUpdatedMsg) (Model, tea.Cmd) {
	var apiErr *api.Error
	switch {
	case errors.As(msg.err, &apiErr):
		// The backend answered; navigate as for a successful update.
		m.log.Warn("email update rejected", "id", msg.id, "status", apiErr.Status, "error", apiErr.Message)
	case msg.err != nil:
		m.log.Error("failed to update email", "id", msg.id, "error", msg.err)
		return m, nil
	default:
		m.log.Info("email updated", "id", msg.id, "read", msg.update.Read, "archived", msg.update.Archived)
	}

	// Only follow through if the user is still looking at that email.
	if m.state != viewDetail || m.detailID != msg.id {
		return m, nil
	}
	return m.loadMailbox(msg.next)
}

func (m Model) onEmailSent(msg emailSentMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error("failed to send email", "error", msg.err)
		m.sending = false
		return m, nil
	}

	var cmds []tea.Cmd
	if msg.result.OK() {
		m.log.Info("email sent", "status", msg.result.Status, "message", msg.result.Message)
		if msg.draftID != "" && m.drafts != nil {
			cmds = append(cmds, deleteDraftCmd(m.drafts, msg.draftID))
		}
	} else {
		m.log.Warn("email rejected", "status", msg.result.Status, "error", msg.result.Error)
	}

	if m.state != viewCompose || !m.sending {
		return m, tea.Batch(cmds...)
	}
	next, cmd := m.loadMailbox(model.Sent)
	return next, tea.Batch(append(cmds, cmd)...)
}

func (m Model) onDraftsLoaded(msg draftsLoadedMsg) (Model, tea.Cmd) {
	if m.state != viewDrafts {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.log.Error("failed to load drafts", "error", msg.err)
		return m, nil
	}
	m.draftList = msg.drafts
	if m.draftCursor >= len(m.draftList) {
		m.draftCursor = max(len(m.draftList)-1, 0)
	}
	return m, nil
}

func (m Model) onDraftSaved(msg draftSavedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error("failed to save draft", "error", msg.err)
		return m, nil
	}
	m.log.Info("draft saved", "id", msg.draft.ID)
	if m.state != viewCompose {
		return m, nil
	}
	return m.loadDrafts()
}

func (m Model) onEditorFinished(msg editorFinishedMsg) (Model, tea.Cmd) {
	path := m.tempFile
	m.tempFile = ""
	defer os.Remove(path)

	if msg.err != nil {
		m.log.Error("editor failed", "editor", m.editor, "error", msg.err)
		return m, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		m.log.Error("failed to read editor file", "error", err)
		return m, nil
	}
	if m.state != viewCompose {
		return m, nil
	}
	m.inputBody.SetValue(string(content))
	cmd := m.focusField(fieldBody)
	return m, cmd
}

func (m Model) handleNavKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Inbox):
		return m.loadMailbox(model.Inbox)
	case key.Matches(msg, keys.Sent):
		return m.loadMailbox(model.Sent)
	case key.Matches(msg, keys.Archive):
		return m.loadMailbox(model.Archive)
	case key.Matches(msg, keys.Compose):
		return m.compose()
	case key.Matches(msg, keys.Drafts) && m.drafts != nil:
		return m.loadDrafts()
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleMailboxKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.emails)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.pageHeight() {
				m.offset++
			}
		}
		return m, nil

	case key.Matches(msg, keys.Open):
		if len(m.emails) > 0 {
			return m.viewEmail(m.emails[m.cursor].ID)
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m.loadMailbox(m.mailbox)
	}
	return m.handleNavKey(msg)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		return m.loadMailbox(m.mailbox)

	case key.Matches(msg, keys.Reply):
		if m.email != nil {
			return m.reply(*m.email)
		}
		return m, nil

	case key.Matches(msg, keys.ToggleRead):
		if m.email != nil {
			u := api.Update{Read: api.Bool(!m.email.Read)}
			return m, updateEmailCmd(m.client, m.detailID, u, model.Inbox)
		}
		return m, nil

	case key.Matches(msg, keys.ToggleArchive):
		if m.email != nil {
			u := api.Update{Archived: api.Bool(!m.email.Archived)}
			return m, updateEmailCmd(m.client, m.detailID, u, model.Archive)
		}
		return m, nil

	case key.Matches(msg, keys.Inbox, keys.Sent, keys.Archive, keys.Compose, keys.Drafts, keys.Quit):
		return m.handleNavKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleDraftsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.draftCursor > 0 {
			m.draftCursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.draftCursor < len(m.draftList)-1 {
			m.draftCursor++
		}
		return m, nil

	case key.Matches(msg, keys.Open):
		if len(m.draftList) > 0 {
			return m.openDraft(m.draftList[m.draftCursor])
		}
		return m, nil

	case key.Matches(msg, keys.DeleteDraft):
		if len(m.draftList) > 0 {
			return m, deleteDraftCmd(m.drafts, m.draftList[m.draftCursor].ID)
		}
		return m, nil

	case key.Matches(msg, keys.Back):
		return m.loadMailbox(m.mailbox)
	}
	return m.handleNavKey(msg)
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQuit):
		return m, tea.Quit

	case key.Matches(msg, keys.Cancel):
		return m.loadMailbox(m.mailbox)

	case m.sending:
		return m, nil

	case key.Matches(msg, keys.NextField):
		cmd := m.focusField((m.field + 1) % fieldCount)
		return m, cmd

	case key.Matches(msg, keys.PrevField):
		cmd := m.focusField((m.field + fieldCount - 1) % fieldCount)
		return m, cmd

	case key.Matches(msg, keys.Send):
		return m.send()

	case key.Matches(msg, keys.SaveDraft):
		if m.drafts == nil {
			return m, nil
		}
		return m, saveDraftCmd(m.drafts, m.form())

	case key.Matches(msg, keys.Editor):
		return m.openEditor()
	}
	return m.updateInputs(msg)
}

// send submits the form. Whatever the backend says, the sent mailbox is shown
// next; see onEmailSent.
func (m Model) send() (Model, tea.Cmd) {
	msg := api.Compose{
		Recipients: m.inputTo.Value(),
		Subject:    m.inputSubject.Value(),
		Body:       m.inputBody.Value(),
	}
	m.sending = true
	m.log.Info("sending email", "recipients", msg.Recipients, "subject", msg.Subject)
	return m, sendEmailCmd(m.client, msg, m.draftID)
}

func (m Model) form() model.Draft {
	return model.Draft{
		ID:         m.draftID,
		Recipients: m.inputTo.Value(),
		Subject:    m.inputSubject.Value(),
		Body:       m.inputBody.Value(),
	}
}

func (m Model) openEditor() (Model, tea.Cmd) {
	f, err := os.CreateTemp("", "webmail-cli-*.txt")
	if err != nil {
		m.log.Error("failed to create temp file", "error", err)
		return m, nil
	}
	_, err = f.WriteString(m.inputBody.Value())
	f.Close()
	if err != nil {
		os.Remove(f.Name())
		m.log.Error("failed to write temp file", "error", err)
		return m, nil
	}
	m.tempFile = f.Name()

	args := strings.Fields(m.editor)
	if len(args) == 0 {
		args = []string{"nano"}
	}
	c := exec.Command(args[0], append(args[1:], m.tempFile)...)
	return m, tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{err}
	})
}

func (m *Model) focusField(field int) tea.Cmd {
	m.blurInputs()
	m.field = field
	switch field {
	case fieldTo:
		return m.inputTo.Focus()
	case fieldSubject:
		return m.inputSubject.Focus()
	default:
		return m.inputBody.Focus()
	}
}

func (m *Model) blurInputs() {
	m.inputTo.Blur()
	m.inputSubject.Blur()
	m.inputBody.Blur()
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.field {
	case fieldTo:
		m.inputTo, cmd = m.inputTo.Update(msg)
	case fieldSubject:
		m.inputSubject, cmd = m.inputSubject.Update(msg)
	default:
		m.inputBody, cmd = m.inputBody.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize() {
	w := max(m.width-4, 20)
	m.viewport.Width = w
	m.viewport.Height = max(m.height-14, 3)
	m.inputTo.Width = max(w-14, 10)
	m.inputSubject.Width = max(w-14, 10)
	m.inputBody.SetWidth(w)
	m.inputBody.SetHeight(max(m.height-12, 5))
	m.help.Width = w
}

// pageHeight is how many mailbox rows fit on screen.
func (m Model) pageHeight() int {
	headerHeight := 6
	footerHeight := 3
	pageHeight := m.height - headerHeight - footerHeight
	if pageHeight < 5 {
		pageHeight = 5
	}
	return pageHeight
}
