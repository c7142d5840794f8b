package domain

import (
	"context"
	"errors"
)

// Sentinel errors shared by services and delivery.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("no matching record owned by caller")
	ErrAlreadyJoined = errors.New("already joined")
)

// Transactor runs fn inside a single storage transaction. Repositories called
// with the ctx passed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
