package logics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

// recordingDialer captures sent messages instead of dialing SMTP.
type recordingDialer struct {
	mu       sync.Mutex
	messages []*gomail.Message
	delay    time.Duration
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, m...)
	return nil
}

func (d *recordingDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

func newTestNotifier(dialer *recordingDialer) *Notifier {
	email := utils.NewEmailServiceWithDialer(dialer, "noreply@example.com", "http://localhost:3000")
	return NewNotifier(email, time.Second)
}

func TestNotifierDeliversQueuedSends(t *testing.T) {
	dialer := &recordingDialer{}
	n := newTestNotifier(dialer)

	n.NotifySignup("alice@example.com", "alice")
	n.NotifyGoalCompleted("alice@example.com", "alice", "Run 100km")
	n.NotifyConsultationBooked("alice@example.com", "alice", "Monday, June 1, 2026", "09:00", "general", 60)

	// Close drains the queue before returning.
	n.Close()
	assert.Equal(t, 3, dialer.count())
}

func TestNotifierDropsWhenQueueFull(t *testing.T) {
	// No worker: enqueue must never block once the buffer is full.
	n := &Notifier{
		queue: make(chan func() error, 2),
		done:  make(chan struct{}),
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			n.enqueue("test", func() error { return nil })
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}
	assert.Equal(t, 2, len(n.queue))
}

func TestNotifierSendSyncPropagatesResult(t *testing.T) {
	dialer := &recordingDialer{}
	n := newTestNotifier(dialer)
	defer n.Close()

	err := n.NotifyPasswordReset(context.Background(),
		"alice@example.com", "alice", "http://localhost:3000/reset-password/tok", "30 minutes")
	require.NoError(t, err)
	assert.Equal(t, 1, dialer.count())
}

func TestNotifierSendSyncTimesOut(t *testing.T) {
	dialer := &recordingDialer{delay: 500 * time.Millisecond}
	email := utils.NewEmailServiceWithDialer(dialer, "noreply@example.com", "http://localhost:3000")
	n := NewNotifier(email, 10*time.Millisecond)
	defer n.Close()

	err := n.NotifyPasswordReset(context.Background(),
		"alice@example.com", "alice", "http://localhost:3000/reset-password/tok", "30 minutes")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
