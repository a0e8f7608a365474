package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"webmail-cli/internal/model"
	"webmail-cli/internal/render"
)

func TestBodyPlainText(t *testing.T) {
	body := "Meet at 5 < 6 o'clock?\nSee you."
	assert.Equal(t, body, render.Body(body))
}

func TestBodyHTML(t *testing.T) {
	got := render.Body(`<p>Hello <b>world</b></p><script>alert("x")</script>`)

	assert.Contains(t, got, "Hello **world**")
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "<p>")
}

func TestLinkify(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{
			name:     "no links",
			in:       "nothing here",
			expected: "nothing here",
		},
		{
			name:     "bare url",
			in:       "go to https://example.com now",
			expected: "go to \x1b]8;;https://example.com\x1b\\https://example.com\x1b]8;;\x1b\\ now",
		},
		{
			name:     "markdown link",
			in:       "[docs](https://example.com/docs)",
			expected: "\x1b]8;;https://example.com/docs\x1b\\docs\x1b]8;;\x1b\\",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, render.Linkify(tc.in))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Inbox", render.Title(model.Inbox))
	assert.Equal(t, "Sent", render.Title(model.Sent))
	assert.Equal(t, "Archive", render.Title(model.Archive))
	assert.Equal(t, "", render.Title(""))
}

func TestReplySubject(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{in: "Lunch", expected: "Re: Lunch"},
		{in: "Re: Lunch", expected: "Re: Lunch"},
		{in: "Re:Lunch", expected: "Re: Re:Lunch"},
		{in: "re: Lunch", expected: "Re: re: Lunch"},
		{in: "", expected: "Re: "},
		{in: "Re:", expected: "Re:"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, render.ReplySubject(tc.in))
		})
	}
}

func TestReplyBody(t *testing.T) {
	e := model.Email{Sender: "alice@example.com", Timestamp: "Jan 02 2024, 03:04 PM", Body: "See you"}
	assert.Equal(t, "On Jan 02 2024, 03:04 PM alice@example.com wrote: See you", render.ReplyBody(e))
}

func TestRecipients(t *testing.T) {
	assert.Equal(t, "a@example.com, b@example.com", render.Recipients([]string{"a@example.com", "b@example.com"}))
	assert.Equal(t, "", render.Recipients(nil))
}
