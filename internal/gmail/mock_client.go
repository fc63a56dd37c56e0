package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	gmailapi "google.golang.org/api/gmail/v1"

	"maildash/internal/provider"
)

// mockNamespace seeds deterministic demo message IDs so repeated fetches of
// the demo inbox produce identical content and therefore identical ETags.
var mockNamespace = uuid.MustParse("9f2c1cde-48a7-4b8e-8f11-6da53b6a01c2")

var mockSenders = []string{
	"Jane Doe <jane@example.com>",
	"GitHub <notifications@github.com>",
	"billing@cloudprovider.io",
	"Team Updates <updates@workspace.example.com>",
	"Alex Chen <alex.chen@partner.example.org>",
}

var mockSubjects = []string{
	"Weekly project digest",
	"[repo] Pull request review requested",
	"Your invoice is ready",
	"Standup notes",
	"Re: Q3 planning doc",
	"", // exercises the No Subject default downstream
}

// MockClient is a deterministic fake inbox for demo sessions. It satisfies
// provider.MailProvider, so the rest of the pipeline (batching, caching,
// normalization) runs unchanged against generated data. A small artificial
// delay stands in for network latency.
type MockClient struct {
	messages []*gmailapi.Message
	byID     map[string]*gmailapi.Message
	delay    time.Duration
}

// NewMockClient generates a demo inbox of count messages. Message content
// and dates are fixed at construction, so every fetch within a process
// yields byte-identical results.
func NewMockClient(count int, delay time.Duration) *MockClient {
	if count <= 0 {
		count = 25
	}
	base := time.Now().Add(-10 * time.Minute).Truncate(time.Minute)

	messages := make([]*gmailapi.Message, 0, count)
	byID := make(map[string]*gmailapi.Message, count)
	for i := 0; i < count; i++ {
		id := uuid.NewSHA1(mockNamespace, []byte(fmt.Sprintf("msg-%d", i))).String()
		threadID := uuid.NewSHA1(mockNamespace, []byte(fmt.Sprintf("thread-%d", i/3))).String()
		date := base.Add(-time.Duration(i) * 47 * time.Minute)

		body := fmt.Sprintf("Hello,\n\nThis is demo message %d of %d. Nothing in this inbox is real.\n\n— maildash", i+1, count)
		labels := []string{"INBOX"}
		if i%3 != 0 {
			labels = append(labels, "UNREAD")
		}

		msg := &gmailapi.Message{
			Id:           id,
			ThreadId:     threadID,
			Snippet:      truncate(body, maxPreviewLen),
			LabelIds:     labels,
			InternalDate: date.UnixMilli(),
			Payload: &gmailapi.MessagePart{
				MimeType: "text/plain",
				Headers: []*gmailapi.MessagePartHeader{
					{Name: "From", Value: mockSenders[i%len(mockSenders)]},
					{Name: "Subject", Value: mockSubjects[i%len(mockSubjects)]},
					{Name: "Date", Value: date.Format(time.RFC1123Z)},
				},
				Body: &gmailapi.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte(body)),
				},
			},
		}
		messages = append(messages, msg)
		byID[id] = msg
	}

	return &MockClient{
		messages: messages,
		byID:     byID,
		delay:    delay,
	}
}

func (m *MockClient) ListMessageIDs(ctx context.Context, limit int64) ([]string, error) {
	if err := m.wait(ctx, m.delay); err != nil {
		return nil, provider.Wrap(err)
	}
	n := int64(len(m.messages))
	if limit > 0 && limit < n {
		n = limit
	}
	ids := make([]string, 0, n)
	for _, msg := range m.messages[:n] {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

func (m *MockClient) GetMessage(ctx context.Context, id string, format provider.Format) (*gmailapi.Message, error) {
	if err := m.wait(ctx, m.delay/10); err != nil {
		return nil, provider.Wrap(err)
	}
	msg, ok := m.byID[id]
	if !ok {
		return nil, &provider.Error{Kind: provider.KindNotFound, Status: 404, Message: "no such message: " + id}
	}
	return msg, nil
}

func (m *MockClient) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
