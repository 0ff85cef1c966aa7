package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noticeflow/internal/models"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	err   error
	fired chan struct{}
}

func newFakeSender(err error) *fakeSender {
	return &fakeSender{err: err, fired: make(chan struct{}, 128)}
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	f.sent = append(f.sent, to)
	f.mu.Unlock()
	f.fired <- struct{}{}
	return f.err
}

func (f *fakeSender) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func waitFired(t *testing.T, f *fakeSender, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for send %d of %d", i+1, n)
		}
	}
}

func notification(to string) models.Notification {
	return models.Notification{
		AttemptID:  "attempt-" + to,
		Department: "HR",
		Email:      to,
		Subject:    "Notice Summary for HR: notice.pdf",
		Summary:    "- summary",
	}
}

func TestDispatcherDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := newFakeSender(nil)
	d := NewDispatcher(sender, 1000, zerolog.Nop())
	d.Start(ctx, 2)

	require.True(t, d.Enqueue(notification("hr@co.com")))
	require.True(t, d.Enqueue(notification("ops@co.com")))

	waitFired(t, sender, 2)
	assert.ElementsMatch(t, []string{"hr@co.com", "ops@co.com"}, sender.sentTo())
}

func TestDispatcherSwallowsSendFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := newFakeSender(errors.New("smtp: relay refused"))
	d := NewDispatcher(sender, 1000, zerolog.Nop())
	d.Start(ctx, 1)

	// A failing send neither panics nor blocks later notifications.
	require.True(t, d.Enqueue(notification("hr@co.com")))
	require.True(t, d.Enqueue(notification("ops@co.com")))
	waitFired(t, sender, 2)
	assert.Len(t, sender.sentTo(), 2)
}

func TestDispatcherEnqueueNeverBlocks(t *testing.T) {
	// No workers running: the queue fills up and further notifications are
	// dropped instead of blocking the caller.
	d := NewDispatcher(newFakeSender(nil), 1000, zerolog.Nop())

	accepted := 0
	for i := 0; i < 200; i++ {
		if d.Enqueue(notification(fmt.Sprintf("dept%d@co.com", i))) {
			accepted++
		}
	}
	assert.Equal(t, 64, accepted)
	assert.False(t, d.Enqueue(notification("late@co.com")))
}

func TestDispatcherStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sender := newFakeSender(nil)
	d := NewDispatcher(sender, 1000, zerolog.Nop())
	d.Start(ctx, 1)

	require.True(t, d.Enqueue(notification("hr@co.com")))
	waitFired(t, sender, 1)

	cancel()
	time.Sleep(50 * time.Millisecond)

	// Workers are gone; the queue just buffers.
	require.True(t, d.Enqueue(notification("ops@co.com")))
	assert.Len(t, sender.sentTo(), 1)
}
