// Package redis implements ymodem.Observer by publishing transfer progress
// to a Redis pub/sub channel, for an external dashboard to pick up.
//
// Grounded on librescoot-bluetooth-service/pkg/redis/client.go, trimmed to
// the publish-only path this Observer needs.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Event is the JSON payload published for every Observer callback.
type Event struct {
	Type          string `json:"type"` // "start", "progress", or "finish"
	Filename      string `json:"filename"`
	DeclaredSize  int64  `json:"declared_size,omitempty"`
	BytesReceived int64  `json:"bytes_received,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Publisher publishes Events to Channel on a Redis connection.
type Publisher struct {
	client  *redis.Client
	ctx     context.Context
	channel string
}

// New connects to addr and returns a Publisher for channel. The connection
// is verified with a PING before returning, matching
// librescoot-bluetooth-service's redis.New.
func New(ctx context.Context, addr, password string, db int, channel string) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: connect to %s: %w", addr, err)
	}
	return &Publisher{client: client, ctx: ctx, channel: channel}, nil
}

func (p *Publisher) publish(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	// Best-effort: Observer callbacks have no error channel back to the
	// protocol state machine, so a publish failure is swallowed here.
	p.client.Publish(p.ctx, p.channel, payload)
}

func (p *Publisher) Start(filename string, size int64) {
	p.publish(Event{Type: "start", Filename: filename, DeclaredSize: size})
}

func (p *Publisher) Progress(bytesReceived, declaredSize int64) {
	p.publish(Event{Type: "progress", BytesReceived: bytesReceived, DeclaredSize: declaredSize})
}

func (p *Publisher) Finish(filename string, bytesReceived int64, err error) {
	e := Event{Type: "finish", Filename: filename, BytesReceived: bytesReceived}
	if err != nil {
		e.Error = err.Error()
	}
	p.publish(e)
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
