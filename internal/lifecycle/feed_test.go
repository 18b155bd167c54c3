package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePubSub struct {
	published map[string][]any
	subs      map[string]chan string
	subErr    error
}

func newFakePubSub() *fakePubSub {
	return &fakePubSub{published: map[string][]any{}, subs: map[string]chan string{}}
}

func (f *fakePubSub) Publish(_ context.Context, channel string, message any) error {
	f.published[channel] = append(f.published[channel], message)
	return nil
}

func (f *fakePubSub) Subscribe(_ context.Context, channel string) (<-chan string, func() error, error) {
	if f.subErr != nil {
		return nil, nil, f.subErr
	}
	ch := make(chan string, 4)
	f.subs[channel] = ch
	return ch, func() error { close(ch); return nil }, nil
}

func (f *fakePubSub) StatusChannel(phone string) string { return "sp:status:" + phone }

func TestRedisFeedNotifyUsesBareNumber(t *testing.T) {
	client := newFakePubSub()
	feed, err := NewRedisFeed(client, "+91")
	require.NoError(t, err)

	require.NoError(t, feed.Notify(context.Background(), "+91 98765 43210", "Pending"))
	require.NoError(t, feed.Notify(context.Background(), "9876543210", "On-Schedule"))

	assert.Equal(t, []any{"Pending", "On-Schedule"}, client.published["sp:status:9876543210"])
}

func TestRedisFeedSubscribeSignalsChanges(t *testing.T) {
	client := newFakePubSub()
	feed, err := NewRedisFeed(client, "")
	require.NoError(t, err)

	changes, closer, err := feed.Subscribe(context.Background(), "+919876543210")
	require.NoError(t, err)

	client.subs["sp:status:9876543210"] <- "Completed"
	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("expected change signal")
	}

	require.NoError(t, closer())
	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected changes to close")
	}
}

func TestRedisFeedSubscribeError(t *testing.T) {
	client := newFakePubSub()
	client.subErr = errors.New("redis down")
	feed, err := NewRedisFeed(client, "")
	require.NoError(t, err)

	_, _, err = feed.Subscribe(context.Background(), "9876543210")
	require.Error(t, err)
}

func TestNewRedisFeedRequiresClient(t *testing.T) {
	_, err := NewRedisFeed(nil, "")
	require.Error(t, err)
}
