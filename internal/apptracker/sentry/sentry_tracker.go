package sentry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/anchor-protocol/anchor-txs/internal/apptracker"
)

// Package level sentry functions, swapped out in tests.
var (
	captureExceptionFunc = sentry.CaptureException
	InitFunc             = sentry.Init
	FlushFunc            = sentry.Flush
)

type sentryTracker struct {
	flushTimeout time.Duration
}

var _ apptracker.AppTracker = (*sentryTracker)(nil)

func (s *sentryTracker) CaptureException(exception error) string {
	eventID := captureExceptionFunc(exception)
	if eventID == nil {
		return ""
	}
	return string(*eventID)
}

// Flush waits for buffered events to be sent, up to the configured flush timeout.
func (s *sentryTracker) Flush() bool {
	return FlushFunc(s.flushTimeout)
}

func NewSentryTracker(dsn string, env string, flushFreq int) (*sentryTracker, error) {
	if err := InitFunc(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		AttachStacktrace: true,
	}); err != nil {
		return nil, fmt.Errorf("unable to initialize sentry: %w", err)
	}
	return &sentryTracker{flushTimeout: time.Second * time.Duration(flushFreq)}, nil
}
