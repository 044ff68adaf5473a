// Package storagegate holds startup until persistent storage reports ready.
package storagegate

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Signal blocks until the environment's storage is ready or fails.
type Signal func(ctx context.Context) error

// Gate waits on a Signal. Failures are logged and swallowed so the app
// always starts, possibly without its persisted state.
type Gate struct {
	Signal  Signal
	Timeout time.Duration
	Log     logrus.FieldLogger
}

// Await returns a channel that is closed once the signal settles. It
// never reports failure.
func (g Gate) Await(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if g.Signal == nil {
		close(done)
		return done
	}

	go func() {
		defer close(done)

		ctx := ctx
		if g.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.Timeout)
			defer cancel()
		}
		start := time.Now()
		err := g.wait(ctx)
		log := g.logger().WithField("elapsed", time.Since(start).Round(time.Millisecond))
		if err != nil {
			log.WithError(err).Warn("storage not ready, starting without it")
			return
		}
		log.Debug("storage ready")
	}()
	return done
}

// wait runs the signal but gives up when ctx ends, even if the signal
// ignores ctx.
func (g Gate) wait(ctx context.Context) error {
	result := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- &PanicError{Value: r}
			}
		}()
		result <- g.Signal(ctx)
	}()
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g Gate) logger() logrus.FieldLogger {
	if g.Log != nil {
		return g.Log
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}
