// Package provider defines the boundary to a remote mail provider: the two
// operations the rest of the system depends on, and the error taxonomy that
// provider failures are classified into.
package provider

import (
	"context"

	gmail "google.golang.org/api/gmail/v1"
)

// Format selects how much of a message GetMessage retrieves.
type Format string

const (
	// FormatMetadata fetches headers, labels and the snippet only.
	FormatMetadata Format = "metadata"
	// FormatFull fetches the complete MIME payload.
	FormatFull Format = "full"
)

// MailProvider is the provider-agnostic mail interface. The real Gmail
// client and the demo mock both implement it.
type MailProvider interface {
	// ListMessageIDs returns up to limit message IDs, newest first as the
	// provider orders them.
	ListMessageIDs(ctx context.Context, limit int64) ([]string, error)

	// GetMessage retrieves a single message by provider ID.
	GetMessage(ctx context.Context, id string, format Format) (*gmail.Message, error)
}
