package domain

import "context"

// TxManager runs a function inside a single all-or-nothing transaction.
// Repository calls made with the context passed to fn join that transaction;
// fn returning an error rolls every change back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
