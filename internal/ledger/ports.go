// Package ledger defines the outbound port for the external payments
// ledger. Paid fee records are appended as rows; the ledger is
// append-only and never read back by the dashboard.
package ledger

import (
	"context"

	"acadesk/internal/core"
)

// PaymentWriter appends one settled fee record to the ledger and
// returns a backend-specific row reference.
type PaymentWriter interface {
	Append(ctx context.Context, r core.FeeRecord) (rowRef string, err error)
}
