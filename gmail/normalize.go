package gmail

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/jaytaylor/html2text"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/bassamadnan/mailsort/email"
)

// Normalize flattens a Gmail API message into an email.Message. Missing
// headers become empty strings; the body falls back to the snippet when no
// readable part exists. It fails only when the payload itself is absent.
func Normalize(msg *gmailapi.Message) (email.Message, error) {
	if msg == nil || msg.Payload == nil {
		return email.Message{}, errors.New("message has no payload")
	}
	m := email.Message{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		Snippet:      msg.Snippet,
		InternalDate: msg.InternalDate,
		Subject:      header(msg.Payload, "Subject"),
		From:         header(msg.Payload, "From"),
		Date:         header(msg.Payload, "Date"),
	}
	m.Body = extractBody(msg.Payload, msg.Snippet)
	return m, nil
}

func header(p *gmailapi.MessagePart, name string) string {
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// extractBody resolves the body in order: inline data, first text/plain part,
// first text/html part reduced to text, then the snippet.
func extractBody(p *gmailapi.MessagePart, snippet string) string {
	if p.Body != nil && p.Body.Data != "" {
		if s := decodePart(p.Body.Data); s != "" {
			return s
		}
	}
	for _, part := range p.Parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			if s := decodePart(part.Body.Data); s != "" {
				return s
			}
		}
	}
	for _, part := range p.Parts {
		if part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" {
			if s := stripHTML(decodePart(part.Body.Data)); s != "" {
				return s
			}
		}
	}
	return snippet
}

// decodePart decodes Gmail's URL-safe base64 body data, padded or not.
func decodePart(data string) string {
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		b, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(b)
}

// stripHTML reduces an HTML body to plain text with whitespace collapsed so
// the classifier sees readable content instead of markup.
func stripHTML(s string) string {
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true, TextOnly: true})
	if err != nil {
		text = s
	}
	return strings.Join(strings.Fields(text), " ")
}
