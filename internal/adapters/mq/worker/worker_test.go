package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/melodex/internal/adapters/mq/queue"
	worker "github.com/okian/melodex/internal/adapters/mq/worker"
	"github.com/okian/melodex/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// recordingApplier collects applied events for assertions.
type recordingApplier struct {
	mu      sync.Mutex
	applied []worker.Event
	fail    bool
}

func (a *recordingApplier) ApplyRating(ctx context.Context, e worker.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return errors.New("apply failed")
	}
	a.applied = append(a.applied, e)
	return nil
}

func (a *recordingApplier) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.applied)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestWorker(t *testing.T) {
	Convey("Given a worker on a queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		applier := &recordingApplier{}

		Convey("When events are enqueued", func() {
			w := worker.New(q, applier)
			go w.Run(ctx)

			for i := 0; i < 5; i++ {
				So(q.Enqueue(ctx, worker.Event{EventID: fmt.Sprintf("e-%d", i), UserID: "u", SongID: 1, Score: 5}), ShouldBeTrue)
			}

			Convey("Then every event is applied", func() {
				So(waitFor(func() bool { return applier.count() == 5 }), ShouldBeTrue)
			})

			So(w.Shutdown(ctx), ShouldBeNil)
		})

		Convey("When applies fail", func() {
			failing := &recordingApplier{fail: true}
			w := worker.New(q, failing)
			go w.Run(ctx)

			So(q.Enqueue(ctx, worker.Event{EventID: "e-bad", UserID: "u", SongID: 1, Score: 5}), ShouldBeTrue)

			Convey("Then the worker keeps running", func() {
				So(waitFor(func() bool { return q.Len(ctx) == 0 }), ShouldBeTrue)
				So(w.Shutdown(ctx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a worker pool", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(128))
		applier := &recordingApplier{}

		Convey("When the pool drains a burst of events", func() {
			pool := worker.NewPool(4, q, applier)
			pool.Start(ctx)

			const total = 100
			for i := 0; i < total; i++ {
				So(q.Enqueue(ctx, worker.Event{EventID: fmt.Sprintf("e-%d", i), UserID: "u", SongID: 1, Score: 5}), ShouldBeTrue)
			}

			Convey("Then every event is applied exactly once", func() {
				So(waitFor(func() bool { return applier.count() == total }), ShouldBeTrue)

				seen := make(map[string]bool)
				applier.mu.Lock()
				for _, e := range applier.applied {
					So(seen[e.EventID], ShouldBeFalse)
					seen[e.EventID] = true
				}
				applier.mu.Unlock()
			})

			pool.Stop()
		})

		Convey("When the pool is stopped", func() {
			pool := worker.NewPool(2, q, applier)
			pool.Start(ctx)
			pool.Stop()

			Convey("Then later events are no longer applied", func() {
				So(q.Enqueue(ctx, worker.Event{EventID: "late", UserID: "u", SongID: 1, Score: 5}), ShouldBeTrue)
				time.Sleep(50 * time.Millisecond)
				So(applier.count(), ShouldEqual, 0)
			})
		})
	})
}
