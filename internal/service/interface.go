package service

import (
	"context"
	"time"

	"maildash/internal/model"
	"maildash/internal/provider"
)

type AuthService interface {
	GetOrCreateUser(ctx context.Context, googleID, email, name, accessToken, refreshToken string, tokenExpiry time.Time) (*model.User, error)
	GetOrCreateDemoUser(ctx context.Context) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// EmailService is the public entry point of the retrieval pipeline: a
// read-through cache in front of the remote mail provider.
type EmailService interface {
	GetSummaries(ctx context.Context, user *model.User, limit int64) (*SummaryResult, error)
	GetBody(ctx context.Context, user *model.User, messageID string) (*BodyResult, error)
}

// ProviderFactory yields the mail provider for a caller: the real Gmail
// client for signed-in users, the generated inbox for demo sessions.
type ProviderFactory func(user *model.User) (provider.MailProvider, error)

// SummaryResult carries a summary list plus the cache metadata the HTTP
// layer turns into response headers.
type SummaryResult struct {
	Emails []model.EmailSummary
	Status model.CacheStatus
	ETag   string
	Age    time.Duration
	TTL    time.Duration
}

// BodyResult carries one message body plus cache metadata.
type BodyResult struct {
	Body   model.EmailBody
	Status model.CacheStatus
	ETag   string
	Age    time.Duration
	TTL    time.Duration
}
