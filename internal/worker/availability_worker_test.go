package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"event-ticketing/internal/model"
	"event-ticketing/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refresherStub struct {
	mu       sync.Mutex
	failures int
	calls    []int
	done     chan int
}

func (r *refresherStub) RefreshAvailability(ctx context.Context, eventID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, eventID)
	if r.failures > 0 {
		r.failures--
		return errors.New("database unavailable")
	}
	r.done <- eventID
	return nil
}

func TestAvailabilityWorker_RefreshesOnLifecycleEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewMemoryTicketQueue(10)
	refresher := &refresherStub{done: make(chan int, 1)}

	w := NewAvailabilityWorker(refresher, q)
	require.NoError(t, w.Start(ctx))

	ticket := &model.Ticket{ID: 3, EventID: 42, UserID: 7}
	require.NoError(t, q.Publish(ctx, model.NewTicketLifecycleEvent(model.TicketEventIssued, ticket)))

	select {
	case eventID := <-refresher.done:
		assert.Equal(t, 42, eventID)
	case <-time.After(time.Second):
		t.Fatal("worker did not refresh availability in time")
	}
}

func TestAvailabilityWorker_RetriesOnFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewMemoryTicketQueue(10)
	refresher := &refresherStub{failures: 2, done: make(chan int, 1)}

	w := NewAvailabilityWorker(refresher, q)
	require.NoError(t, w.Start(ctx))

	ticket := &model.Ticket{ID: 1, EventID: 5}
	require.NoError(t, q.Publish(ctx, model.NewTicketLifecycleEvent(model.TicketEventCancelled, ticket)))

	select {
	case eventID := <-refresher.done:
		assert.Equal(t, 5, eventID)
	case <-time.After(time.Second):
		t.Fatal("worker did not retry")
	}

	refresher.mu.Lock()
	defer refresher.mu.Unlock()
	assert.Equal(t, []int{5, 5, 5}, refresher.calls)
}
