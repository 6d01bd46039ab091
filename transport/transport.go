// Package transport hands finished extract files to the benefits partner.
package transport

import "context"

// Transport delivers a locally staged extract file under its partner-facing
// logical name. Delivery failures are reported to the caller for logging but
// must never roll back the ledger mutation that produced the file.
type Transport interface {
	Deliver(ctx context.Context, localPath string, remoteName string) error
}
