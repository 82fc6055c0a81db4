package tx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"
)

// DomainQuery re-reads protocol state after confirmation. It returns how to merge the result into the
// accumulator; a query finding no data merges nothing and is not an error.
type DomainQuery[A any] func(ctx context.Context) (merge func(A), err error)

// FetchDomainData runs queries concurrently on pool and merges their results once all of them finished.
// A query error ends the run as GatewayError.
func FetchDomainData[A Carrier](helper *Helper, pool pond.Pool, queries ...DomainQuery[A]) Stage[A] {
	return func(ctx context.Context, in Snapshot[A], emit Emitter) (Snapshot[A], error) {
		if len(queries) == 0 {
			return in, nil
		}

		group := pool.NewGroupContext(ctx)
		merges := make([]func(A), len(queries))
		var (
			errs []error
			mu   sync.Mutex
		)

		for i, query := range queries {
			group.Submit(func() {
				merge, err := query(ctx)
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return
				}
				merges[i] = merge
			})
		}

		if err := group.Wait(); err != nil {
			errs = append(errs, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return in, ctxErr
		}
		if len(errs) > 0 {
			return Terminal(in.Value, helper.Failed(NewError(KindGatewayError,
				fmt.Errorf("fetching domain data: %w", errors.Join(errs...))))), nil
		}

		for _, merge := range merges {
			if merge != nil {
				merge(in.Value)
			}
		}
		return in, nil
	}
}
