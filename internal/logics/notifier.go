package logics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/utils"

	"go.uber.org/zap"
)

// notifyQueueSize bounds the best-effort send queue. A full queue drops the
// notification instead of blocking a request.
const notifyQueueSize = 64

// Notifier decides when domain events warrant an outbound email and routes
// them to the mail service. Critical-path sends go through SendSync with a
// timeout; everything else is queued to a background worker and failures are
// only logged.
type Notifier struct {
	email   *utils.EmailService
	queue   chan func() error
	done    chan struct{}
	wg      sync.WaitGroup
	timeout time.Duration
	once    sync.Once
}

func NewNotifier(email *utils.EmailService, timeout time.Duration) *Notifier {
	n := &Notifier{
		email:   email,
		queue:   make(chan func() error, notifyQueueSize),
		done:    make(chan struct{}),
		timeout: timeout,
	}
	n.wg.Add(1)
	go n.worker()
	return n
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for {
		select {
		case send := <-n.queue:
			if err := send(); err != nil {
				configs.Logger.Error("Background email delivery failed", zap.Error(err))
			}
		case <-n.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case send := <-n.queue:
					if err := send(); err != nil {
						configs.Logger.Error("Background email delivery failed", zap.Error(err))
					}
				default:
					return
				}
			}
		}
	}
}

// Close stops the worker after draining queued sends.
func (n *Notifier) Close() {
	n.once.Do(func() {
		close(n.done)
	})
	n.wg.Wait()
}

// enqueue posts a best-effort send. Queue-full is logged and swallowed.
func (n *Notifier) enqueue(kind string, send func() error) {
	select {
	case n.queue <- send:
	default:
		configs.Logger.Warn("Notification queue full, dropping", zap.String("kind", kind))
	}
}

// sendSync runs a send on the caller's path with a bounded timeout. The
// error propagates so the handler can fail the request.
func (n *Notifier) sendSync(ctx context.Context, send func() error) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- send()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("email delivery timed out: %w", ctx.Err())
	}
}

// NotifySignup sends the welcome email. Best-effort.
func (n *Notifier) NotifySignup(email, username string) {
	n.enqueue("welcome", func() error {
		return n.email.SendWelcomeEmail(email, username)
	})
}

// NotifyPasswordReset sends the reset link. This is on the critical path of
// the forgot-password request and must surface failures to the caller.
func (n *Notifier) NotifyPasswordReset(ctx context.Context, email, username, resetURL, expiresIn string) error {
	return n.sendSync(ctx, func() error {
		return n.email.SendPasswordResetEmail(email, username, resetURL, expiresIn)
	})
}

// NotifyPasswordResetDone sends the reset confirmation. Best-effort.
func (n *Notifier) NotifyPasswordResetDone(email, username string) {
	n.enqueue("password-reset-confirm", func() error {
		return n.email.SendPasswordResetConfirmEmail(email, username)
	})
}

// NotifyGoalCompleted sends the congratulations email. Callers must only
// invoke this on the actual active-to-completed transition edge.
func (n *Notifier) NotifyGoalCompleted(email, username, goalTitle string) {
	n.enqueue("goal-achieved", func() error {
		return n.email.SendGoalAchievedEmail(email, username, goalTitle)
	})
}

// NotifyConsultationBooked sends the booking confirmation. Best-effort.
func (n *Notifier) NotifyConsultationBooked(email, name, date, timeOfDay, consultType string, durationMin int) {
	n.enqueue("consultation-confirmation", func() error {
		return n.email.SendConsultationConfirmationEmail(email, name, date, timeOfDay, consultType, durationMin)
	})
}
