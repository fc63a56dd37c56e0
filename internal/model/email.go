package model

import (
	"time"
)

// EmailSummary is one row in an inbox listing. Date marshals as RFC 3339.
type EmailSummary struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"threadId"`
	From     string    `json:"from"`
	Subject  string    `json:"subject"`
	Preview  string    `json:"preview"`
	Date     time.Time `json:"date"`
	IsRead   bool      `json:"isRead"`
}

// EmailBody is the full content of a single message, fetched lazily and
// cached independently from summary lists.
type EmailBody struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
}

// CacheStatus reports how a result was obtained. Surfaced to clients via
// the X-Cache response header.
type CacheStatus string

const (
	CacheHit   CacheStatus = "HIT"
	CacheMiss  CacheStatus = "MISS"
	CacheDedup CacheStatus = "DEDUP"
)
