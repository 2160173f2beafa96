package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/article-service/internal/events"
)

// Notifier delivers notifications for the events it lists.
type Notifier interface {
	EventTypes() []events.EventType
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker moves notification delivery off the request path. Events
// are queued by the dispatcher subscription and handled by one goroutine; when
// the queue is full the event is dropped with a warning.
type NotificationWorker struct {
	notifier Notifier
	logger   *zap.Logger
	queue    chan events.Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// StartNotificationWorker subscribes notifier's events on source and starts
// the delivery loop. Call Stop to drain the queue on shutdown.
func StartNotificationWorker(source events.Dispatcher, notifier Notifier, logger *zap.Logger, buffer int) *NotificationWorker {
	w := newNotificationWorker(notifier, logger, buffer)
	for _, eventType := range notifier.EventTypes() {
		source.Subscribe(eventType, w.enqueue)
	}
	go w.run()
	return w
}

func newNotificationWorker(notifier Notifier, logger *zap.Logger, buffer int) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer < 1 {
		buffer = 1
	}
	return &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, buffer),
		done:     make(chan struct{}),
	}
}

// enqueue never blocks the publisher.
func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.logger.Warn("notification dropped after shutdown", zap.String("event_type", string(event.Type)))
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, event dropped",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
	}
	return nil
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	// Delivery outlives the request that published the event.
	ctx := context.Background()
	for event := range w.queue {
		if err := w.notifier.Handle(ctx, event); err != nil {
			w.logger.Error("notification failed",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}
}

// Stop rejects new events, delivers the queued ones and waits for the loop to
// exit. It is safe to call more than once.
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
}
