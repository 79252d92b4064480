package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/utils"
)

func newTestExtractor(maxBodySize int) *EmlExtractor {
	return NewEmlExtractor(utils.NewTextProcessor(zap.NewNop()), maxBodySize, zap.NewNop())
}

// crlf joins lines with the \r\n a conforming message uses on the wire
func crlf(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func TestExtractPlainText(t *testing.T) {
	raw := crlf(
		"From: Alice <alice@example.com>",
		"To: bob@example.com",
		"Subject: hello",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Please review the attached invoice.",
	)

	req, err := newTestExtractor(4096).Extract(raw)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", req.Sender)
	assert.Equal(t, "SCAN", req.Type)
	assert.Contains(t, req.Body, "Please review the attached invoice.")
	assert.Empty(t, req.Links)
	assert.Zero(t, req.Metadata.ImageCount)
}

func TestExtractHTMLLinksAndImages(t *testing.T) {
	raw := crlf(
		"From: phisher@evil.example",
		"Subject: urgent",
		"Content-Type: text/html; charset=utf-8",
		"",
		`<html><body>`,
		`<p>Your account is suspended.</p>`,
		`<a href="http://evil.example/login">Verify now</a>`,
		`<a href="http://evil.example/track" style="display:none">hidden</a>`,
		`<img src="cid:logo"><img src="http://evil.example/pixel.gif">`,
		`</body></html>`,
	)

	req, err := newTestExtractor(4096).Extract(raw)
	require.NoError(t, err)

	assert.Equal(t, "phisher@evil.example", req.Sender)
	assert.Contains(t, req.Body, "Your account is suspended.")
	assert.NotContains(t, req.Body, "<p>", "tags must be stripped from the fallback text")

	require.Len(t, req.Links, 2)
	assert.Equal(t, "Verify now", req.Links[0].Text)
	assert.Equal(t, "http://evil.example/login", req.Links[0].Href)
	assert.False(t, req.Links[0].IsHidden)
	assert.True(t, req.Links[1].IsHidden)

	assert.Equal(t, 2, req.Metadata.ImageCount)
}

func TestExtractPrefersPlainPartOfMultipart(t *testing.T) {
	raw := crlf(
		"From: sender@example.com",
		"Subject: both parts",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain version",
		"--b1",
		"Content-Type: text/html; charset=utf-8",
		"",
		`<p>html version</p><a href="http://example.com/a">a</a>`,
		"--b1--",
	)

	req, err := newTestExtractor(4096).Extract(raw)
	require.NoError(t, err)

	assert.Contains(t, req.Body, "plain version")
	assert.NotContains(t, req.Body, "html version")
	// Links still come from the HTML part even when the plain body wins
	require.Len(t, req.Links, 1)
	assert.Equal(t, "http://example.com/a", req.Links[0].Href)
}

func TestExtractBoundsBodySize(t *testing.T) {
	body := strings.Repeat("a", 500)
	raw := crlf(
		"From: sender@example.com",
		"Content-Type: text/plain",
		"",
		body,
	)

	req, err := newTestExtractor(100).Extract(raw)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(req.Body), 100)
}

func TestExtractNoContent(t *testing.T) {
	raw := crlf(
		"From: sender@example.com",
		"Content-Type: text/plain",
		"",
		"   ",
	)

	_, err := newTestExtractor(4096).Extract(raw)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestExtractNotAMessage(t *testing.T) {
	_, err := newTestExtractor(4096).Extract([]byte("this is not rfc 5322"))
	assert.Error(t, err)
}
