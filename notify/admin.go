// Package notify implements the operator alert channel. Alerts ride the
// same chat transport as user replies, addressed to a configured admin
// conversation.
package notify

import (
	"context"
	"fmt"

	"github.com/celtia/supportbot/core"
	"github.com/celtia/supportbot/logging"
)

// Admin sends best-effort alerts to the admin conversation.
type Admin struct {
	transport core.ChatTransport
	adminID   string
	logger    logging.Logger
}

// NewAdmin constructs an Admin notifier. adminID is the operator's
// conversation identifier on the transport.
func NewAdmin(transport core.ChatTransport, adminID string, logger logging.Logger) *Admin {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Admin{transport: transport, adminID: adminID, logger: logger}
}

// Notify implements core.AdminNotifier. Failures are logged and returned;
// callers treat them as non-blocking.
func (a *Admin) Notify(ctx context.Context, text string) error {
	if a.adminID == "" {
		a.logger.Warn("admin conversation not configured, dropping alert")
		return nil
	}
	if err := a.transport.SendText(ctx, a.adminID, text); err != nil {
		a.logger.Error("admin alert failed", "error", err)
		return fmt.Errorf("notifying admin: %w", err)
	}
	a.logger.Info("admin alert delivered")
	return nil
}

var _ core.AdminNotifier = (*Admin)(nil)
