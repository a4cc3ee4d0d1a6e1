// Package tr carries the active pgx transaction through a context so that
// repositories join it transparently.
package tr

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type txKey struct{}

// WithTx returns a copy of ctx that carries tx
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx extracts the pgx.Tx stored by WithTx
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok || tx == nil {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}
