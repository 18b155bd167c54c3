package lifecycle

import (
	"context"
	"fmt"

	"github.com/angelmondragon/scrappickup-backend/pkg/phone"
)

type redisPubSub interface {
	Publish(ctx context.Context, channel string, message any) error
	Subscribe(ctx context.Context, channel string) (<-chan string, func() error, error)
	StatusChannel(phone string) string
}

// RedisFeed fans status changes out over one Redis channel per phone. Both
// phone forms map to the same channel.
type RedisFeed struct {
	client      redisPubSub
	countryCode string
}

// NewRedisFeed builds a feed on top of the shared redis client.
func NewRedisFeed(client redisPubSub, countryCode string) (*RedisFeed, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if countryCode == "" {
		countryCode = phone.DefaultCountryCode
	}
	return &RedisFeed{client: client, countryCode: countryCode}, nil
}

func (f *RedisFeed) channel(mobile string) string {
	return f.client.StatusChannel(phone.Bare(mobile, f.countryCode))
}

// Notify announces that the status of mobile changed.
func (f *RedisFeed) Notify(ctx context.Context, mobile, status string) error {
	if err := f.client.Publish(ctx, f.channel(mobile), status); err != nil {
		return fmt.Errorf("publish status change: %w", err)
	}
	return nil
}

// Subscribe implements ChangeFeed.
func (f *RedisFeed) Subscribe(ctx context.Context, mobile string) (<-chan struct{}, func() error, error) {
	msgs, closer, err := f.client.Subscribe(ctx, f.channel(mobile))
	if err != nil {
		return nil, nil, err
	}
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range msgs {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, closer, nil
}
