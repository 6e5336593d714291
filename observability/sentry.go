package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/warp/netpay-engine/config"
	"go.uber.org/zap"
)

// InitSentry configures the global Sentry client. A failing init is logged
// and otherwise ignored; an empty DSN turns reporting into a no-op.
func InitSentry(cfg config.Config, log *zap.Logger) bool {
	dsn := cfg.SentryDSN
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          serviceName(cfg) + "@" + cfg.AppVersion,
		TracesSampleRate: 0.2,
		EnableTracing:    dsn != "",
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// Requests carry salaries; never ship the user block.
			event.User = sentry.User{}
			event.Request = nil
			return event
		},
	})
	if err != nil {
		log.Warn("sentry init failed", zap.Error(err))
		return false
	}
	if dsn == "" {
		log.Info("SENTRY_DSN empty, error tracking disabled")
		return false
	}
	log.Info("sentry initialised")
	return true
}

// FlushSentry waits up to two seconds for queued events.
func FlushSentry() { sentry.Flush(2 * time.Second) }

// CaptureError reports err with tags. Nil errors are ignored.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
