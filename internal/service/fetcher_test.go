package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"

	"maildash/internal/logger"
	"maildash/internal/model"
	"maildash/internal/provider"
)

// stubProvider is an in-memory MailProvider for exercising the pipeline
// without a network. Individual messages can be made to fail, the list call
// can fail, and the list call can block until released.
type stubProvider struct {
	mu        sync.Mutex
	listCalls int
	getCalls  int

	ids     []string
	msgs    map[string]*gmailapi.Message
	failIDs map[string]error
	listErr error
	block   chan struct{}
}

func (p *stubProvider) ListMessageIDs(ctx context.Context, limit int64) ([]string, error) {
	p.mu.Lock()
	p.listCalls++
	block := p.block
	p.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.listErr != nil {
		return nil, p.listErr
	}
	n := int64(len(p.ids))
	if limit > 0 && limit < n {
		n = limit
	}
	return p.ids[:n], nil
}

func (p *stubProvider) GetMessage(ctx context.Context, id string, format provider.Format) (*gmailapi.Message, error) {
	p.mu.Lock()
	p.getCalls++
	p.mu.Unlock()

	if err, ok := p.failIDs[id]; ok {
		return nil, err
	}
	msg, ok := p.msgs[id]
	if !ok {
		return nil, &provider.Error{Kind: provider.KindNotFound, Status: 404}
	}
	return msg, nil
}

func (p *stubProvider) calls() (list, get int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listCalls, p.getCalls
}

func testMessage(id string, date time.Time) *gmailapi.Message {
	return &gmailapi.Message{
		Id:           id,
		ThreadId:     "thread-" + id,
		Snippet:      "snippet for " + id,
		InternalDate: date.UnixMilli(),
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: "Sender <sender@example.com>"},
				{Name: "Subject", Value: "Subject " + id},
			},
		},
	}
}

// newStubProvider builds count messages with strictly decreasing dates, so
// id order and expected sort order coincide.
func newStubProvider(count int) *stubProvider {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := &stubProvider{
		msgs:    make(map[string]*gmailapi.Message, count),
		failIDs: make(map[string]error),
	}
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("msg-%02d", i)
		p.ids = append(p.ids, id)
		p.msgs[id] = testMessage(id, base.Add(-time.Duration(i)*time.Hour))
	}
	return p
}

func newTestService(p provider.MailProvider) *emailService {
	factory := func(u *model.User) (provider.MailProvider, error) { return p, nil }
	return NewEmailService(factory, Options{}, logger.NewWithWriter(io.Discard)).(*emailService)
}

func TestChunkSize(t *testing.T) {
	cases := []struct {
		total, want int
	}{
		{1, 5},
		{10, 5},
		{20, 5},
		{21, 6},
		{40, 10},
		{60, 15},
		{200, 15},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, chunkSize(tc.total, 5, 15), "total=%d", tc.total)
	}
}

func TestFetchBatchReturnsAllMessagesNewestFirst(t *testing.T) {
	p := newStubProvider(10)
	s := newTestService(p)

	items, err := s.fetchBatch(context.Background(), p, 10)
	require.NoError(t, err)
	require.Len(t, items, 10)

	for i := 0; i < len(items)-1; i++ {
		assert.False(t, items[i].Date.Before(items[i+1].Date))
	}
	assert.Equal(t, "msg-00", items[0].ID)
	assert.Equal(t, "msg-09", items[9].ID)
}

func TestFetchBatchDropsFailedItems(t *testing.T) {
	p := newStubProvider(10)
	p.failIDs["msg-04"] = &provider.Error{Kind: provider.KindUnavailable, Status: 503}
	s := newTestService(p)

	items, err := s.fetchBatch(context.Background(), p, 10)
	require.NoError(t, err)
	require.Len(t, items, 9)

	for _, it := range items {
		assert.NotEqual(t, "msg-04", it.ID)
	}
	for i := 0; i < len(items)-1; i++ {
		assert.False(t, items[i].Date.Before(items[i+1].Date))
	}
}

func TestFetchBatchListFailureFailsOperation(t *testing.T) {
	p := newStubProvider(5)
	p.listErr = &provider.Error{Kind: provider.KindRateLimited, Status: 429}
	s := newTestService(p)

	_, err := s.fetchBatch(context.Background(), p, 5)
	require.Error(t, err)
	assert.Equal(t, provider.KindRateLimited, provider.Classify(err))
}

func TestFetchBatchEmptyInbox(t *testing.T) {
	p := newStubProvider(0)
	s := newTestService(p)

	items, err := s.fetchBatch(context.Background(), p, 20)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchBatchHonorsLimit(t *testing.T) {
	p := newStubProvider(30)
	s := newTestService(p)

	items, err := s.fetchBatch(context.Background(), p, 12)
	require.NoError(t, err)
	assert.Len(t, items, 12)
}

func TestSortSummariesZeroDatesLast(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	items := []model.EmailSummary{
		{ID: "a", Date: time.Time{}},
		{ID: "b", Date: base.Add(-time.Hour)},
		{ID: "c", Date: base},
		{ID: "d", Date: time.Time{}},
	}
	sortSummaries(items)

	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	// Zero-dated entries keep their relative order at the tail.
	assert.Equal(t, "a", items[2].ID)
	assert.Equal(t, "d", items[3].ID)
}

func TestFetchBatchWrapsListErrors(t *testing.T) {
	p := newStubProvider(5)
	p.listErr = errors.New("connection reset")
	s := newTestService(p)

	_, err := s.fetchBatch(context.Background(), p, 5)
	require.Error(t, err)

	var perr *provider.Error
	assert.True(t, errors.As(err, &perr))
}
