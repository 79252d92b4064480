package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/core"
	"github.com/Caerfyrddin29/PhishDetector/internal/utils"
)

// ErrNoContent is returned when a message yields no scannable text
var ErrNoContent = errors.New("no email content found")

var (
	anchorRe = regexp.MustCompile(`(?is)<a\s+[^>]*href\s*=\s*["']([^"']+)["'][^>]*>(.*?)</a>`)
	imgRe    = regexp.MustCompile(`(?i)<img[\s>]`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	hiddenRe = regexp.MustCompile(`(?i)style\s*=\s*["'][^"']*(display\s*:\s*none|visibility\s*:\s*hidden|opacity\s*:\s*0)[^"']*["']`)
)

// EmlExtractor turns an RFC 5322 message into a scan request: body
// text, best-effort sender address, link descriptors, and an image
// count.
type EmlExtractor struct {
	text        *utils.TextProcessor
	maxBodySize int
	logger      *zap.Logger
}

// NewEmlExtractor creates a new message extractor
func NewEmlExtractor(text *utils.TextProcessor, maxBodySize int, logger *zap.Logger) *EmlExtractor {
	return &EmlExtractor{
		text:        text,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// Extract produces a scan request from a raw message
func (e *EmlExtractor) Extract(raw []byte) (*core.ScanRequest, error) {
	reader, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	defer reader.Close()

	sender := ""
	if addrs, err := reader.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		sender = strings.TrimSpace(addrs[0].Address)
	}

	var plainText, htmlText string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A broken part should not discard what was already read
			e.logger.Warn("Failed to read message part", zap.Error(err))
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch contentType {
		case "text/plain":
			plainText += string(body)
		case "text/html":
			htmlText += string(body)
		}
	}

	text := plainText
	if strings.TrimSpace(text) == "" {
		text = stripTags(htmlText)
	}
	text = e.text.ProcessText(text, e.maxBodySize)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}

	req := core.NewScanRequest(text, sender, extractLinks(htmlText), len(imgRe.FindAllStringIndex(htmlText, -1)))
	e.logger.Debug("Extracted message content",
		zap.String("sender", sender),
		zap.Int("text_length", len(text)),
		zap.Int("link_count", len(req.Links)))
	return req, nil
}

// extractLinks pulls anchor descriptors out of the HTML part
func extractLinks(html string) []core.Link {
	matches := anchorRe.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return nil
	}
	links := make([]core.Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, core.Link{
			Text:     strings.TrimSpace(stripTags(m[2])),
			Href:     m[1],
			IsHidden: hiddenRe.MatchString(m[0]),
		})
	}
	return links
}

func stripTags(html string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(html, " "))
}
