package tx

import (
	"context"
)

// Emitter delivers a progress rendering to the caller.
type Emitter func(Rendering)

// Stage is one step of a transaction run. It may emit any number of non-terminal renderings and resolves
// to the snapshot handed to the next stage. Stages return terminal snapshots instead of emitting them.
type Stage[A any] func(ctx context.Context, in Snapshot[A], emit Emitter) (Snapshot[A], error)

// Pipe runs stages left to right, feeding each one the snapshot the previous one resolved to. The first
// terminal snapshot is emitted and ends the run. Errors are returned as is.
func Pipe[A any](stages ...Stage[A]) Stage[A] {
	return func(ctx context.Context, in Snapshot[A], emit Emitter) (Snapshot[A], error) {
		current := in
		for _, stage := range stages {
			if err := ctx.Err(); err != nil {
				return current, err
			}

			out, err := stage(ctx, current, emit)
			if err != nil {
				return out, err
			}
			if out.IsTerminal() {
				emit(out.Rendering)
				return out, nil
			}
			current = out
		}
		return current, nil
	}
}
