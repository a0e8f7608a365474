package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webmail-cli/internal/logging"
	"webmail-cli/internal/model"
	"webmail-cli/internal/secret"
)

type listerFunc func(ctx context.Context, mailbox model.Mailbox) ([]model.Email, error)

func (f listerFunc) ListMailbox(ctx context.Context, mailbox model.Mailbox) ([]model.Email, error) {
	return f(ctx, mailbox)
}

func TestPrintMailbox(t *testing.T) {
	var got model.Mailbox
	lister := listerFunc(func(_ context.Context, mailbox model.Mailbox) ([]model.Email, error) {
		got = mailbox
		return []model.Email{
			{ID: 7, Sender: "alice@example.com", Subject: "Lunch", Timestamp: "Jan 02 2024, 03:04 PM"},
			{ID: 3, Sender: "bob@example.com", Subject: "Report", Timestamp: "Jan 01 2024, 09:00 AM", Read: true},
		}, nil
	})

	var buf bytes.Buffer
	require.NoError(t, printMailbox(context.Background(), &buf, lister, model.Sent))

	assert.Equal(t, model.Sent, got)
	assert.Equal(t,
		"7\talice@example.com\tLunch\tJan 02 2024, 03:04 PM\tunread\n"+
			"3\tbob@example.com\tReport\tJan 01 2024, 09:00 AM\tread\n",
		buf.String())
}

func TestPrintMailboxError(t *testing.T) {
	boom := errors.New("connection refused")
	lister := listerFunc(func(context.Context, model.Mailbox) ([]model.Email, error) {
		return nil, boom
	})

	var buf bytes.Buffer
	err := printMailbox(context.Background(), &buf, lister, model.Inbox)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, buf.String())
}

type sessionMap map[string]string

func (s sessionMap) Get(key string) (string, error) {
	v, ok := s[key]
	if !ok {
		return "", secret.ErrNotFound
	}
	return v, nil
}

func TestLoadSession(t *testing.T) {
	cases := []struct {
		name        string
		interactive bool
		store       sessionMap
		openErr     error
		want        string
		wantOpened  bool
	}{
		{name: "stored", interactive: true, store: sessionMap{secret.SessionKey: "abc123"}, want: "abc123", wantOpened: true},
		{name: "missing", interactive: true, store: sessionMap{}, want: "", wantOpened: true},
		{name: "keyring unavailable", interactive: true, openErr: errors.New("no backend"), want: "", wantOpened: true},
		{name: "not a terminal", interactive: false, store: sessionMap{secret.SessionKey: "abc123"}, want: "", wantOpened: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opened := false
			open := func() (sessionGetter, error) {
				opened = true
				if tc.openErr != nil {
					return nil, tc.openErr
				}
				return tc.store, nil
			}

			got := loadSession(logging.Discard(), tc.interactive, open)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOpened, opened)
		})
	}
}
