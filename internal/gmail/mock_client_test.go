package gmail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maildash/internal/provider"
)

func TestMockClientListHonorsLimit(t *testing.T) {
	m := NewMockClient(25, 0)

	ids, err := m.ListMessageIDs(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, ids, 10)

	all, err := m.ListMessageIDs(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, all, 25)
}

func TestMockClientDeterministicIDs(t *testing.T) {
	a := NewMockClient(10, 0)
	b := NewMockClient(10, 0)

	idsA, err := a.ListMessageIDs(context.Background(), 10)
	require.NoError(t, err)
	idsB, err := b.ListMessageIDs(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, idsA, idsB)
}

func TestMockClientGetMessage(t *testing.T) {
	m := NewMockClient(5, 0)
	ids, err := m.ListMessageIDs(context.Background(), 5)
	require.NoError(t, err)

	msg, err := m.GetMessage(context.Background(), ids[0], provider.FormatFull)
	require.NoError(t, err)
	assert.Equal(t, ids[0], msg.Id)
	assert.NotEmpty(t, NormalizeBody(msg))
}

func TestMockClientUnknownIDIsNotFound(t *testing.T) {
	m := NewMockClient(5, 0)

	_, err := m.GetMessage(context.Background(), "does-not-exist", provider.FormatMetadata)
	require.Error(t, err)
	assert.Equal(t, provider.KindNotFound, provider.Classify(err))
}

func TestMockClientRespectsContextCancellation(t *testing.T) {
	m := NewMockClient(5, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.ListMessageIDs(ctx, 5)
	require.Error(t, err)
}

func TestMockClientMessagesNormalizeCleanly(t *testing.T) {
	m := NewMockClient(12, 0)
	ids, err := m.ListMessageIDs(context.Background(), 12)
	require.NoError(t, err)

	sawUnread := false
	sawNoSubject := false
	for _, id := range ids {
		msg, err := m.GetMessage(context.Background(), id, provider.FormatMetadata)
		require.NoError(t, err)

		s := NormalizeSummary(msg, time.Now())
		assert.NotEmpty(t, s.From)
		assert.NotEmpty(t, s.Subject)
		assert.False(t, s.Date.IsZero())
		if !s.IsRead {
			sawUnread = true
		}
		if s.Subject == NoSubject {
			sawNoSubject = true
		}
	}
	assert.True(t, sawUnread)
	assert.True(t, sawNoSubject)
}
