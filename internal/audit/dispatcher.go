package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const queueSize = 100

// Event describes one mutating request that went through the gateway.
type Event struct {
	RequestID string
	UserID    string
	Role      string
	Action    string
	Method    string
	Path      string
	Status    int
	Metadata  any
}

// Writer persists a single event.
type Writer interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher hands events to a background worker. A full queue drops the
// event; auditing never blocks or fails a request.
type Dispatcher struct {
	writer Writer
	log    *zap.Logger
	queue  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(writer Writer, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		log:    log,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.writer.Log(ctx, ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.String("request_id", ev.RequestID),
				zap.String("reason", Classify(err)),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	defer func() {
		// send on a closed queue after shutdown
		if recover() != nil {
			d.log.Debug("audit dispatcher closed, dropping event", zap.String("action", ev.Action))
		}
	}()

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for queued ones to be written or
// for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() { close(d.queue) })
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
