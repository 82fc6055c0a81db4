package tx

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/stellar/go-stellar-sdk/support/log"
)

var ErrNoTerminalSnapshot = errors.New("transaction run ended without a result")

// Catch makes sure stage always ends with exactly one terminal snapshot: returned errors, panics and runs
// that ended early become a Failed rendering built by helper. Nothing is emitted once ctx is done.
func Catch[A any](helper *Helper, stage Stage[A]) Stage[A] {
	return func(ctx context.Context, in Snapshot[A], emit Emitter) (Snapshot[A], error) {
		out, err := runRecovered(ctx, stage, in, emit)
		if err == nil && out.IsTerminal() {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		if err == nil {
			err = NewError(KindUnknown, ErrNoTerminalSnapshot)
		}

		log.Ctx(ctx).Warnf("transaction run failed unexpectedly: %v", err)
		failed := Terminal(out.Value, helper.Failed(err))
		emit(failed.Rendering)
		return failed, nil
	}
}

func runRecovered[A any](ctx context.Context, stage Stage[A], in Snapshot[A], emit Emitter) (out Snapshot[A], err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Ctx(ctx).Errorf("transaction run panicked: %v\n%s", r, debug.Stack())
			out = in
			err = NewError(KindUnknown, fmt.Errorf("unexpected error: %v", r))
		}
	}()
	return stage(ctx, in, emit)
}
