// Package repository declares the data access contracts of the survey service.
// Implementations live in subpackages (postgres); they hold no business rules.
package repository

import (
	"context"
	"errors"
)

var (
	// ErrDuplicate reports a write that collided with a unique constraint.
	ErrDuplicate = errors.New("duplicate row")
	// ErrMissingReference reports a write pointing at a row that no longer exists.
	ErrMissingReference = errors.New("referenced row does not exist")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// Transactor runs fn inside a database transaction. Repositories called with
// the ctx passed to fn participate in that transaction. Nested calls join the
// outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
