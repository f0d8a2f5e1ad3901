// Package analytics publishes query events to Kafka off the request path.
// Events are buffered and dropped when the buffer is full; search latency
// never waits on the broker.
package analytics

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher writes one keyed record to the event stream. *kafka.Producer
// from pkg/kafka satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

// Collector buffers QueryEvents and publishes them from a single goroutine.
// The event channel is never closed, so Track stays safe no matter how it
// interleaves with Close; events arriving after Close are silently dropped.
type Collector struct {
	producer Publisher
	eventCh  chan QueryEvent
	quit     chan struct{}
	done     chan struct{}
	stop     sync.Once
	logger   *slog.Logger
}

// NewCollector creates a Collector with the given buffer size.
func NewCollector(producer Publisher, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 4096
	}
	return &Collector{
		producer: producer,
		eventCh:  make(chan QueryEvent, bufferSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   slog.Default().With("component", "analytics-collector"),
	}
}

// Start launches the publishing goroutine. It runs until Close is called or
// ctx is cancelled; remaining buffered events are drained on the way out.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event := <-c.eventCh:
				c.publish(ctx, event)
			case <-c.quit:
				c.drain()
				return
			case <-ctx.Done():
				c.drain()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues an event without blocking. Events are dropped when the
// buffer is full or the collector is closed.
func (c *Collector) Track(event QueryEvent) {
	select {
	case <-c.quit:
		return
	default:
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped, buffer full")
	}
}

// Close stops intake and waits for the publisher to drain. Idempotent;
// requires a prior Start.
func (c *Collector) Close() {
	c.stop.Do(func() { close(c.quit) })
	<-c.done
}

func (c *Collector) publish(ctx context.Context, event QueryEvent) {
	if err := c.producer.Publish(ctx, string(event.Type), event); err != nil {
		c.logger.Error("failed to publish query event", "error", err)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.publish(context.Background(), event)
		default:
			return
		}
	}
}
