// Package render turns backend email data into terminal text.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"webmail-cli/internal/model"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	markupRe = regexp.MustCompile(`(?i)<\s*/?\s*(p|div|br|a|b|i|em|strong|ul|ol|li|table|tr|td|span|h[1-6]|img|html|body)\b[^>]*>`)
	mdLinkRe = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)
	urlRe    = regexp.MustCompile(`(https?://[^\s()<>"\]]+)`)
)

// Body prepares an email body for display. Bodies containing HTML markup are
// converted to Markdown; plain text is returned as is.
func Body(body string) string {
	if !markupRe.MatchString(body) {
		return body
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("script, style, head, meta, link").Remove()

	converter := md.NewConverter("", true, nil)
	text := strings.TrimSpace(converter.Convert(doc.Selection))
	if text == "" {
		return body
	}
	return text
}

// Linkify wraps Markdown links and bare URLs in OSC 8 hyperlinks.
func Linkify(text string) string {
	const open, mid, end = "\x1b]8;;", "\x1b\\", "\x1b]8;;\x1b\\"

	var b strings.Builder
	last := 0
	for _, m := range mdLinkRe.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(linkBare(text[last:m[0]]))
		b.WriteString(open + text[m[4]:m[5]] + mid + text[m[2]:m[3]] + end)
		last = m[1]
	}
	b.WriteString(linkBare(text[last:]))
	return b.String()
}

func linkBare(s string) string {
	return urlRe.ReplaceAllString(s, "\x1b]8;;$1\x1b\\$1\x1b]8;;\x1b\\")
}

// Title is the heading shown above a mailbox: its name, first letter upper-cased.
func Title(mailbox model.Mailbox) string {
	s := string(mailbox)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ReplySubject prefixes "Re: " unless the subject's first word already is "Re:".
func ReplySubject(subject string) string {
	if strings.SplitN(subject, " ", 2)[0] != "Re:" {
		return "Re: " + subject
	}
	return subject
}

// ReplyBody quotes e on a single line: "On <timestamp> <sender> wrote: <body>".
func ReplyBody(e model.Email) string {
	return fmt.Sprintf("On %s %s wrote: %s", e.Timestamp, e.Sender, e.Body)
}

// Recipients joins recipient addresses for the To: line.
func Recipients(addrs []string) string {
	return strings.Join(addrs, ", ")
}
