package sentryutil

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/mintfolio/go-marketplace/service/logger"
)

// ReportError reports an error to Sentry on the hub bound to the context
func ReportError(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		logger.For(ctx).Warnln("could not report error to Sentry because hub is nil")
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		hub.CaptureException(err)
	})
}

// RecoverAndRaise reports a panic to Sentry before re-panicking
func RecoverAndRaise(ctx context.Context) {
	if r := recover(); r != nil {
		hub := sentry.CurrentHub()
		if ctx != nil {
			if ctxHub := sentry.GetHubFromContext(ctx); ctxHub != nil {
				hub = ctxHub
			}
		}
		hub.Recover(r)
		sentry.Flush(2 * time.Second)
		panic(r)
	}
}

// ScrubEventCookies removes auth cookies from an event before it leaves
// the process
func ScrubEventCookies(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if event == nil || event.Request == nil {
		return event
	}

	var scrubbed []string
	for _, c := range strings.Split(event.Request.Cookies, "; ") {
		if !strings.HasPrefix(c, auth.JWTCookieKey) {
			scrubbed = append(scrubbed, c)
		}
	}
	cookies := strings.Join(scrubbed, "; ")

	event.Request.Cookies = cookies
	event.Request.Headers["Cookie"] = cookies
	return event
}

// UpdateErrorFingerprints groups errors.New-style errors by message instead
// of lumping them all together
func UpdateErrorFingerprints(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if event == nil || hint == nil || hint.OriginalException == nil {
		return event
	}

	exceptionType := fmt.Sprintf("%T", hint.OriginalException)
	if exceptionType == "*errors.errorString" {
		event.Fingerprint = []string{"{{ default }}", hint.OriginalException.Error()}
	}

	return event
}
