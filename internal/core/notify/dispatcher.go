package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"noticeflow/internal/core"
	"noticeflow/internal/models"
)

const sendTimeout = 30 * time.Second

var _ core.Notifier = (*Dispatcher)(nil)

// Dispatcher delivers notifications from a bounded in-memory queue on
// detached worker goroutines. Delivery is best effort: failures are logged
// and swallowed, never retried or surfaced to the request that scheduled
// them.
type Dispatcher struct {
	sender  core.MailSender
	jobs    chan models.Notification
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewDispatcher constructs the dispatcher with a bounded job queue (64) and
// an SMTP send rate cap of ratePerSec.
func NewDispatcher(sender core.MailSender, ratePerSec float64, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		jobs:    make(chan models.Notification, 64),
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
		log:     log.With().Str("component", "dispatcher").Logger(),
	}
}

// Start runs numWorkers goroutines reading from the job queue. Workers live
// on ctx, which belongs to the process, not to any request: cancelling an
// upload after its notifications are queued does not cancel delivery.
func (d *Dispatcher) Start(ctx context.Context, numWorkers int) {
	for w := 1; w <= numWorkers; w++ {
		go func(w int) {
			for {
				select {
				case <-ctx.Done():
					d.log.Info().Int("worker", w).Msg("dispatcher worker shutting down")
					return
				case n := <-d.jobs:
					d.sendOne(ctx, n)
				}
			}
		}(w)
	}
}

// Enqueue schedules a notification without blocking. It reports false when
// the queue is full and the notification was dropped.
func (d *Dispatcher) Enqueue(n models.Notification) bool {
	select {
	case d.jobs <- n:
		return true
	default:
		return false
	}
}

func (d *Dispatcher) sendOne(ctx context.Context, n models.Notification) {
	if err := d.limiter.Wait(ctx); err != nil {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	err := d.sender.Send(sendCtx, n.Email, n.Subject, n.Summary)
	if err != nil {
		failure := core.NewFailure(core.KindDispatchFailed, "send notification", err)
		d.log.Error().
			Err(failure).
			Str("attempt_id", n.AttemptID).
			Str("department", n.Department).
			Str("to", n.Email).
			Msg("notification delivery failed")
		return
	}
	d.log.Info().
		Str("attempt_id", n.AttemptID).
		Str("department", n.Department).
		Str("to", n.Email).
		Msg("notification sent")
}
