package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dreschagin/support-dashboard/internal/domain/entity"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

var errUpstream = errors.New("upstream unavailable")

type fakeSource struct {
	mu sync.Mutex

	tickets   []entity.Ticket
	modified  []entity.Ticket
	alerts    []entity.Alert
	workHours map[int64][]entity.WorkHoursRecord

	failTickets   bool
	failModified  bool
	failWorkHours map[int64]bool
	onWorkHours   func()

	allCalls       int32
	modifiedCalls  int32
	alertCalls     int32
	workHoursCalls int32
	sinceArgs      []time.Time

	inFlight    int32
	maxInFlight int32
}

func (f *fakeSource) AllTickets(_ context.Context, _ int) (entity.Collection[entity.Ticket], error) {
	atomic.AddInt32(&f.allCalls, 1)
	if f.failTickets {
		return entity.Collection[entity.Ticket]{}, errUpstream
	}
	return entity.NewCollection(f.tickets), nil
}

func (f *fakeSource) TicketsModifiedSince(_ context.Context, since time.Time, _ int) (entity.Collection[entity.Ticket], error) {
	atomic.AddInt32(&f.modifiedCalls, 1)
	f.mu.Lock()
	f.sinceArgs = append(f.sinceArgs, since)
	f.mu.Unlock()
	if f.failModified {
		return entity.Collection[entity.Ticket]{}, errUpstream
	}
	return entity.NewCollection(f.modified), nil
}

func (f *fakeSource) OpenAlerts(_ context.Context, _ int) (entity.Collection[entity.Alert], error) {
	atomic.AddInt32(&f.alertCalls, 1)
	return entity.NewCollection(f.alerts), nil
}

func (f *fakeSource) WorkHours(ctx context.Context, ticketID int64) ([]entity.WorkHoursRecord, error) {
	atomic.AddInt32(&f.workHoursCalls, 1)
	if f.onWorkHours != nil {
		f.onWorkHours()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&f.maxInFlight)
		if current <= seen || atomic.CompareAndSwapInt32(&f.maxInFlight, seen, current) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	if f.failWorkHours[ticketID] {
		return nil, errUpstream
	}
	return f.workHours[ticketID], nil
}

// fakeFixtures отдает заранее заданное значение через JSON, как настоящий загрузчик
type fakeFixtures struct {
	value interface{}
	err   error
	calls int32
}

func (f *fakeFixtures) LoadFixture(_ context.Context, _ string, dest interface{}) error {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return f.err
	}
	data, err := json.Marshal(f.value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

type recordedEvent struct {
	subject string
	event   interface{}
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) PublishEvent(_ context.Context, subject string, event interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{subject: subject, event: event})
	return nil
}

func (f *fakeEvents) Close() error { return nil }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testLogger() *logger.Logger {
	return logger.NewWithFormat("error", "text", io.Discard)
}

func ptr(v float64) *float64 { return &v }
