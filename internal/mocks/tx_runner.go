package mocks

import (
	"context"

	"github.com/taskboardhq/taskboard-api/internal/store"
)

// MockTxRunner implements store.TxRunner for testing. The default behavior
// invokes the function with a nil transaction; mock stores treat WithTx(nil)
// as a no-op, so the function runs against the mock store directly.
type MockTxRunner struct {
	// RunInTransactionFn allows test cases to mock transaction behavior
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	// Err, when set, is returned without invoking the function
	Err error

	// CallCount tracks how many transactions were started
	CallCount int
}

// Ensure MockTxRunner implements store.TxRunner interface
var _ store.TxRunner = (*MockTxRunner)(nil)

// RunInTransaction implements the store.TxRunner interface
func (m *MockTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.CallCount++

	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}

	if m.Err != nil {
		return m.Err
	}

	return fn(ctx, nil)
}
