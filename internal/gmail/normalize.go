package gmail

import (
	"encoding/base64"
	"net/mail"
	"regexp"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"maildash/internal/model"
)

const (
	// NoSubject replaces a missing or empty subject header.
	NoSubject = "No Subject"

	maxSenderLen  = 50
	maxPreviewLen = 150

	unreadLabel = "UNREAD"
)

// angleAddr matches an address enclosed in angle brackets, the common
// "Display Name <addr@example.com>" form.
var angleAddr = regexp.MustCompile(`<([^<>\s]+)>`)

// NormalizeSummary converts a raw Gmail message into the canonical summary
// shape. It is total: any combination of missing fields yields a usable
// summary, with defaults applied in one place.
func NormalizeSummary(msg *gmailapi.Message, fetchedAt time.Time) model.EmailSummary {
	var fromHdr, subjectHdr, dateHdr string
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch {
			case strings.EqualFold(h.Name, "From"):
				fromHdr = h.Value
			case strings.EqualFold(h.Name, "Subject"):
				subjectHdr = h.Value
			case strings.EqualFold(h.Name, "Date"):
				dateHdr = h.Value
			}
		}
	}

	subject := strings.TrimSpace(subjectHdr)
	if subject == "" {
		subject = NoSubject
	}

	isRead := true
	for _, l := range msg.LabelIds {
		if l == unreadLabel {
			isRead = false
			break
		}
	}

	return model.EmailSummary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		From:     NormalizeSender(fromHdr),
		Subject:  subject,
		Preview:  truncate(strings.TrimSpace(msg.Snippet), maxPreviewLen),
		Date:     normalizeDate(dateHdr, msg.InternalDate, fetchedAt),
		IsRead:   isRead,
	}
}

// NormalizeSender extracts the bare address from a "Display Name <addr>"
// header. Anything else is used verbatim, capped at 50 characters.
func NormalizeSender(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := angleAddr.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return truncate(raw, maxSenderLen)
}

// normalizeDate resolves the message date. The provider's internal
// timestamp wins; a missing date falls back to fetch time; a present but
// unparsable Date header yields the zero time, which sorts after every
// valid date.
func normalizeDate(dateHdr string, internalMillis int64, fetchedAt time.Time) time.Time {
	if internalMillis > 0 {
		return time.UnixMilli(internalMillis).UTC()
	}
	if dateHdr == "" {
		return fetchedAt.UTC()
	}
	t, err := mail.ParseDate(dateHdr)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// NormalizeBody extracts the best-effort text content of a message:
// a plain-text part if one exists, otherwise an HTML part, otherwise the
// provider snippet, otherwise empty. It never fails on malformed structure.
func NormalizeBody(msg *gmailapi.Message) string {
	if msg.Payload != nil {
		if text := findPart(msg.Payload, "text/plain"); text != "" {
			return text
		}
		if html := findPart(msg.Payload, "text/html"); html != "" {
			return html
		}
	}
	return msg.Snippet
}

// findPart walks the MIME tree depth-first for the first decodable part of
// the wanted type. The payload root itself counts as a part.
func findPart(part *gmailapi.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		if decoded, ok := decodeBody(part.Body.Data); ok {
			return decoded
		}
	}
	for _, p := range part.Parts {
		if found := findPart(p, mimeType); found != "" {
			return found
		}
	}
	return ""
}

// decodeBody decodes Gmail's base64url body data, which arrives both padded
// and unpadded in the wild.
func decodeBody(data string) (string, bool) {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b), true
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(b), true
	}
	return "", false
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
