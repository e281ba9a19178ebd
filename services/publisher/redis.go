package publisher

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"opcgsearch/cardscraper/pkg/errors"
)

// RedisPublisher implements Publisher on a Redis stream.
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	stream          string
	streamMaxLength int
}

// NewRedisPublisher creates a publisher writing to one named stream.
func NewRedisPublisher(ctx context.Context, addr string, db int, stream string, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		stream:          stream,
		streamMaxLength: streamMaxLength,
	}
}

// Publish appends one scrape-completion event to the stream as a JSON
// payload keyed by the search word.
func (p *RedisPublisher) Publish(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.NewPublisher("redis", "failed to encode event", err)
	}

	err = p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			event.SearchWord: payload,
		},
	}).Err()
	if err != nil {
		return errors.NewPublisher("redis", "failed to publish to stream "+p.stream, err)
	}
	return nil
}

// TrimStream trims the stream to the configured maximum length.
func (p *RedisPublisher) TrimStream() error {
	if p.streamMaxLength <= 0 {
		return nil
	}
	err := p.client.XTrimMaxLen(p.ctx, p.stream, int64(p.streamMaxLength)).Err()
	if err != nil {
		return errors.NewPublisher("redis", "failed to trim stream "+p.stream, err)
	}
	return nil
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
