package service

import (
	"context"
	"strconv"
	"time"

	"maildash/internal/cache"
	"maildash/internal/flight"
	"maildash/internal/gmail"
	"maildash/internal/logger"
	"maildash/internal/metrics"
	"maildash/internal/model"
	"maildash/internal/provider"
)

// Options is the externally configurable tuning surface of the retrieval
// pipeline. Zero values fall back to the defaults below.
type Options struct {
	CacheMaxEntries int
	SummaryTTL      time.Duration
	SummaryTTLDemo  time.Duration
	BodyTTL         time.Duration
	BodyTTLDemo     time.Duration
	FetchMinChunk   int
	FetchMaxChunk   int
}

func (o *Options) applyDefaults() {
	if o.CacheMaxEntries <= 0 {
		o.CacheMaxEntries = cache.DefaultMaxEntries
	}
	if o.SummaryTTL <= 0 {
		o.SummaryTTL = 60 * time.Second
	}
	if o.SummaryTTLDemo <= 0 {
		o.SummaryTTLDemo = 10 * time.Minute
	}
	if o.BodyTTL <= 0 {
		o.BodyTTL = 5 * time.Minute
	}
	if o.BodyTTLDemo <= 0 {
		o.BodyTTLDemo = 30 * time.Minute
	}
	if o.FetchMinChunk <= 0 {
		o.FetchMinChunk = 5
	}
	if o.FetchMaxChunk < o.FetchMinChunk {
		o.FetchMaxChunk = 15
	}
}

type summaryFetch struct {
	items []model.EmailSummary
	etag  string
}

type bodyFetch struct {
	body model.EmailBody
	etag string
}

type emailService struct {
	providers     ProviderFactory
	summaries     *cache.Store[[]model.EmailSummary]
	bodies        *cache.Store[model.EmailBody]
	summaryFlight *flight.Group[summaryFetch]
	bodyFlight    *flight.Group[bodyFetch]
	opts          Options
	logger        *logger.Logger
	now           func() time.Time
}

func NewEmailService(providers ProviderFactory, opts Options, log *logger.Logger) EmailService {
	opts.applyDefaults()
	return &emailService{
		providers:     providers,
		summaries:     cache.NewStore(opts.CacheMaxEntries, summaryFingerprint),
		bodies:        cache.NewStore(opts.CacheMaxEntries, bodyFingerprint),
		summaryFlight: flight.NewGroup[summaryFetch](),
		bodyFlight:    flight.NewGroup[bodyFetch](),
		opts:          opts,
		logger:        log.Named("sync"),
		now:           time.Now,
	}
}

// summaryFingerprint derives the list ETag from each item's identity fields
// so independent fetches of identical content agree on the tag.
func summaryFingerprint(items []model.EmailSummary) string {
	parts := make([]string, 0, len(items)*2)
	for _, it := range items {
		parts = append(parts, it.ID, strconv.FormatInt(it.Date.UnixMilli(), 10))
	}
	return cache.Fingerprint(parts...)
}

func bodyFingerprint(b model.EmailBody) string {
	return cache.Fingerprint(b.MessageID, b.Content)
}

func (s *emailService) GetSummaries(ctx context.Context, user *model.User, limit int64) (*SummaryResult, error) {
	key := cache.Key{Scope: scopeFor(user), Limit: limit}.String()

	if e, ok := s.summaries.Get(key); ok {
		metrics.CacheResults.WithLabelValues("summaries", string(model.CacheHit)).Inc()
		return &SummaryResult{
			Emails: e.Value,
			Status: model.CacheHit,
			ETag:   e.ETag,
			Age:    e.Age(s.now()),
			TTL:    e.TTL,
		}, nil
	}

	ttl := s.summaryTTLFor(user)

	// The batch runs to completion even if the requester disconnects;
	// later cache reads benefit from the finished work.
	fetchCtx := context.WithoutCancel(ctx)

	res, shared, err := s.summaryFlight.Do(key, func() (summaryFetch, error) {
		p, err := s.providers(user)
		if err != nil {
			return summaryFetch{}, err
		}
		items, err := s.fetchBatch(fetchCtx, p, limit)
		if err != nil {
			return summaryFetch{}, err
		}
		etag := s.summaries.Set(key, items, ttl)
		return summaryFetch{items: items, etag: etag}, nil
	})
	if err != nil {
		return nil, err
	}

	status := model.CacheMiss
	if shared {
		status = model.CacheDedup
	}
	metrics.CacheResults.WithLabelValues("summaries", string(status)).Inc()

	return &SummaryResult{
		Emails: res.items,
		Status: status,
		ETag:   res.etag,
		TTL:    ttl,
	}, nil
}

func (s *emailService) GetBody(ctx context.Context, user *model.User, messageID string) (*BodyResult, error) {
	key := cache.BodyKey{Scope: scopeFor(user), MessageID: messageID}.String()

	if e, ok := s.bodies.Get(key); ok {
		metrics.CacheResults.WithLabelValues("body", string(model.CacheHit)).Inc()
		return &BodyResult{
			Body:   e.Value,
			Status: model.CacheHit,
			ETag:   e.ETag,
			Age:    e.Age(s.now()),
			TTL:    e.TTL,
		}, nil
	}

	ttl := s.bodyTTLFor(user)
	fetchCtx := context.WithoutCancel(ctx)

	res, shared, err := s.bodyFlight.Do(key, func() (bodyFetch, error) {
		p, err := s.providers(user)
		if err != nil {
			return bodyFetch{}, err
		}
		msg, err := p.GetMessage(fetchCtx, messageID, provider.FormatFull)
		if err != nil {
			return bodyFetch{}, provider.Wrap(err)
		}
		body := model.EmailBody{
			MessageID: messageID,
			Content:   gmail.NormalizeBody(msg),
		}
		etag := s.bodies.Set(key, body, ttl)
		return bodyFetch{body: body, etag: etag}, nil
	})
	if err != nil {
		return nil, err
	}

	status := model.CacheMiss
	if shared {
		status = model.CacheDedup
	}
	metrics.CacheResults.WithLabelValues("body", string(status)).Inc()

	return &BodyResult{
		Body:   res.body,
		Status: status,
		ETag:   res.etag,
		TTL:    ttl,
	}, nil
}

// scopeFor partitions the cache by user. All demo users share one
// partition keyed purely by query shape; no real data is involved there.
func scopeFor(user *model.User) string {
	if user.IsMock {
		return cache.DemoScope
	}
	return user.ID
}

func (s *emailService) summaryTTLFor(user *model.User) time.Duration {
	if user.IsMock {
		return s.opts.SummaryTTLDemo
	}
	return s.opts.SummaryTTL
}

func (s *emailService) bodyTTLFor(user *model.User) time.Duration {
	if user.IsMock {
		return s.opts.BodyTTLDemo
	}
	return s.opts.BodyTTL
}
