package mocks

import (
	"context"
)

// MockTransactor runs fn inline without a database. Err, when set, is
// returned instead of running fn.
type MockTransactor struct {
	Calls int
	Err   error
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}
