package model

import "time"

// Mailbox names a filtered view of the user's emails on the backend.
type Mailbox string

const (
	Inbox   Mailbox = "inbox"
	Sent    Mailbox = "sent"
	Archive Mailbox = "archive"
)

// Mailboxes lists the mailboxes in navigation order.
var Mailboxes = []Mailbox{Inbox, Sent, Archive}

// Valid reports whether m is one of the backend's mailboxes.
func (m Mailbox) Valid() bool {
	switch m {
	case Inbox, Sent, Archive:
		return true
	}
	return false
}

// Email is a transient copy of an email as returned by the backend.
type Email struct {
	ID         int64    `json:"id"`
	Sender     string   `json:"sender"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Timestamp  string   `json:"timestamp"` // preformatted by the backend
	Read       bool     `json:"read"`
	Archived   bool     `json:"archived"`
}

// Draft is an unsent compose form kept on this machine.
type Draft struct {
	ID         string    `db:"id"`
	Recipients string    `db:"recipients"`
	Subject    string    `db:"subject"`
	Body       string    `db:"body"`
	UpdatedAt  time.Time `db:"updated_at"`
}
