package memory

import "context"

// Transactor runs fn directly; memory repositories have no rollback.
type Transactor struct{}

func (Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
