// Package memory is an in-process payments ledger for tests and
// deployments without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"acadesk/internal/core"
	ports "acadesk/internal/ledger"
)

type Ledger struct {
	mu   sync.Mutex
	rows []core.FeeRecord
}

var _ ports.PaymentWriter = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{}
}

// Append stores the record and returns a synthetic row reference.
func (l *Ledger) Append(_ context.Context, r core.FeeRecord) (string, error) {
	if !r.Paid() {
		return "", fmt.Errorf("record %s is not paid", r.ID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, r)
	return fmt.Sprintf("mem:%d", len(l.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (l *Ledger) Rows() []core.FeeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.FeeRecord(nil), l.rows...)
}
