package tui

import (
	"context"

	"webmail-cli/internal/api"
	"webmail-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// msg types
type mailboxLoadedMsg struct {
	mailbox model.Mailbox
	emails  []model.Email
	err     error
}

type emailLoadedMsg struct {
	id    int64
	email model.Email
	err   error
}

type markedReadMsg struct {
	id  int64
	err error
}

type emailUpdatedMsg struct {
	id     int64
	update api.Update
	next   model.Mailbox // mailbox to show once the update went through
	err    error
}

type emailSentMsg struct {
	result  api.Result
	draftID string
	err     error
}

type draftsLoadedMsg struct {
	drafts []model.Draft
	err    error
}

type draftSavedMsg struct {
	draft model.Draft
	err   error
}

type draftDeletedMsg struct {
	id  string
	err error
}

type editorFinishedMsg struct{ err error }

// Commands
func fetchMailboxCmd(client Mailer, mailbox model.Mailbox) tea.Cmd {
	return func() tea.Msg {
		emails, err := client.ListMailbox(context.Background(), mailbox)
		return mailboxLoadedMsg{mailbox: mailbox, emails: emails, err: err}
	}
}

func fetchEmailCmd(client Mailer, id int64) tea.Cmd {
	return func() tea.Msg {
		e, err := client.GetEmail(context.Background(), id)
		return emailLoadedMsg{id: id, email: e, err: err}
	}
}

func markReadCmd(client Mailer, id int64) tea.Cmd {
	return func() tea.Msg {
		err := client.UpdateEmail(context.Background(), id, api.Update{Read: api.Bool(true)})
		return markedReadMsg{id: id, err: err}
	}
}

func updateEmailCmd(client Mailer, id int64, u api.Update, next model.Mailbox) tea.Cmd {
	return func() tea.Msg {
		err := client.UpdateEmail(context.Background(), id, u)
		return emailUpdatedMsg{id: id, update: u, next: next, err: err}
	}
}

func sendEmailCmd(client Mailer, msg api.Compose, draftID string) tea.Cmd {
	return func() tea.Msg {
		res, err := client.SendEmail(context.Background(), msg)
		return emailSentMsg{result: res, draftID: draftID, err: err}
	}
}

func fetchDraftsCmd(store DraftStore) tea.Cmd {
	return func() tea.Msg {
		drafts, err := store.ListDrafts(context.Background())
		return draftsLoadedMsg{drafts: drafts, err: err}
	}
}

func saveDraftCmd(store DraftStore, draft model.Draft) tea.Cmd {
	return func() tea.Msg {
		err := store.SaveDraft(context.Background(), &draft)
		return draftSavedMsg{draft: draft, err: err}
	}
}

func deleteDraftCmd(store DraftStore, id string) tea.Cmd {
	return func() tea.Msg {
		err := store.DeleteDraft(context.Background(), id)
		return draftDeletedMsg{id: id, err: err}
	}
}
