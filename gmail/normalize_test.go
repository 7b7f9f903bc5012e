package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestNormalizeHeaders(t *testing.T) {
	msg := &gmailapi.Message{
		Id:       "m1",
		ThreadId: "t1",
		Snippet:  "snippet text",
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "SUBJECT", Value: "Hello"},
				{Name: "from", Value: "Alice <alice@example.com>"},
				{Name: "Date", Value: "Mon, 2 Jan 2006 15:04:05 -0700"},
			},
			Body: &gmailapi.MessagePartBody{Data: b64("plain body")},
		},
	}

	got, err := Normalize(msg)
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, "t1", got.ThreadID)
	assert.Equal(t, "Hello", got.Subject)
	assert.Equal(t, "Alice <alice@example.com>", got.From)
	assert.Equal(t, "Mon, 2 Jan 2006 15:04:05 -0700", got.Date)
	assert.Equal(t, "plain body", got.Body)
}

func TestNormalizeMissingHeaders(t *testing.T) {
	msg := &gmailapi.Message{
		Id:      "m1",
		Payload: &gmailapi.MessagePart{},
	}

	got, err := Normalize(msg)
	require.NoError(t, err)
	assert.Empty(t, got.Subject)
	assert.Empty(t, got.From)
	assert.Empty(t, got.Date)
}

func TestNormalizePrefersPlainTextPart(t *testing.T) {
	msg := &gmailapi.Message{
		Id: "m1",
		Payload: &gmailapi.MessagePart{
			Parts: []*gmailapi.MessagePart{
				{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: b64("<p>html version</p>")}},
				{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: b64("plain version")}},
			},
		},
	}

	got, err := Normalize(msg)
	require.NoError(t, err)
	assert.Equal(t, "plain version", got.Body)
}

func TestNormalizeHTMLOnlyPartIsStripped(t *testing.T) {
	msg := &gmailapi.Message{
		Id: "m1",
		Payload: &gmailapi.MessagePart{
			Parts: []*gmailapi.MessagePart{
				{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: b64("<b>Hi</b> there")}},
			},
		},
	}

	got, err := Normalize(msg)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", got.Body)
}

func TestNormalizeFallsBackToSnippet(t *testing.T) {
	msg := &gmailapi.Message{
		Id:      "m1",
		Snippet: "preview only",
		Payload: &gmailapi.MessagePart{
			Parts: []*gmailapi.MessagePart{
				{MimeType: "application/pdf", Body: &gmailapi.MessagePartBody{Data: b64("%PDF")}},
			},
		},
	}

	got, err := Normalize(msg)
	require.NoError(t, err)
	assert.Equal(t, "preview only", got.Body)
}

func TestNormalizeNoPayload(t *testing.T) {
	_, err := Normalize(&gmailapi.Message{Id: "m1"})
	assert.Error(t, err)

	_, err = Normalize(nil)
	assert.Error(t, err)
}

func TestNormalizeUnpaddedBase64(t *testing.T) {
	msg := &gmailapi.Message{
		Id: "m1",
		Payload: &gmailapi.MessagePart{
			Body: &gmailapi.MessagePartBody{
				Data: base64.RawURLEncoding.EncodeToString([]byte("unpadded body")),
			},
		},
	}

	got, err := Normalize(msg)
	require.NoError(t, err)
	assert.Equal(t, "unpadded body", got.Body)
}
