package history

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// recorderBuffer is the async write channel capacity. Records beyond it
// are dropped rather than blocking the request path.
const recorderBuffer = 1000

// writeTimeout bounds one storage write.
const writeTimeout = 5 * time.Second

// Recorder writes run records to a Store asynchronously so persistence
// never sits on the request path.
type Recorder struct {
	store   Store
	runs    chan Run
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger
	dropped int64
	mu      sync.Mutex
}

// NewRecorder starts the background writer over the given store.
func NewRecorder(store Store) *Recorder {
	r := &Recorder{
		store:  store,
		runs:   make(chan Run, recorderBuffer),
		done:   make(chan struct{}),
		logger: slog.Default().With("component", "history.recorder"),
	}

	r.wg.Add(1)
	go r.worker()
	return r
}

// Record enqueues one run for persistence. It never blocks; when the
// buffer is full the record is dropped and counted.
func (r *Recorder) Record(run Run) {
	select {
	case r.runs <- run:
	default:
		r.mu.Lock()
		r.dropped++
		n := r.dropped
		r.mu.Unlock()
		r.logger.Warn("history buffer full, dropping run",
			"run_id", run.ID,
			"dropped_total", n,
		)
	}
}

// Dropped returns how many records were dropped due to a full buffer.
func (r *Recorder) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case run := <-r.runs:
			r.write(run)
		case <-r.done:
			// Drain what is already queued before exiting.
			for {
				select {
				case run := <-r.runs:
					r.write(run)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(run Run) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := r.store.Insert(ctx, run); err != nil {
		r.logger.Error("failed to persist run",
			"run_id", run.ID,
			"error", err,
		)
	}
}

// Close stops the worker after draining queued records.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}
