package gmail

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"maildash/internal/logger"
	"maildash/internal/metrics"
	"maildash/internal/provider"
)

// gmailUser addresses the authenticated mailbox in Gmail API calls.
const gmailUser = "me"

// Client implements provider.MailProvider over the Gmail API. Every call is
// bounded by the configured timeout so a hung provider surfaces as
// unavailable instead of blocking the caller indefinitely.
type Client struct {
	svc     *gmailapi.Service
	timeout time.Duration
	logger  *logger.Logger
}

// NewClient builds a Gmail client around an opaque OAuth access token. The
// token is attached as-is; refreshing it is the identity subsystem's
// problem, and an expired one comes back from Gmail as a 401.
func NewClient(accessToken string, timeout time.Duration, log *logger.Logger) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(context.Background(), ts)

	svc, err := gmailapi.NewService(context.Background(), option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc,
		timeout: timeout,
		logger:  log.Named("gmail"),
	}, nil
}

func (c *Client) ListMessageIDs(ctx context.Context, limit int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, err := c.svc.Users.Messages.List(gmailUser).
		MaxResults(limit).
		Context(ctx).
		Do()
	metrics.ProviderRequestDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(string(provider.Classify(err))).Inc()
		return nil, provider.Wrap(err)
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

func (c *Client) GetMessage(ctx context.Context, id string, format provider.Format) (*gmailapi.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.svc.Users.Messages.Get(gmailUser, id).Context(ctx)
	switch format {
	case provider.FormatFull:
		call = call.Format("full")
	default:
		// Metadata is enough for a summary row; skip the MIME payload.
		call = call.Format("metadata").
			MetadataHeaders("From", "Subject", "Date")
	}

	start := time.Now()
	msg, err := call.Do()
	metrics.ProviderRequestDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(string(provider.Classify(err))).Inc()
		return nil, provider.Wrap(err)
	}
	return msg, nil
}
