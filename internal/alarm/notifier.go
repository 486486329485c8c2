package alarm

import (
	"context"

	"github.com/somnus-app/somnus/internal/domain"
)

// Notifier delivers the wake notification for a triggered alarm. A
// returned error counts as a delivery failure subject to retry and
// circuit breaking; it never prevents the alarm from ringing in-app.
type Notifier interface {
	Notify(ctx context.Context, alarm domain.Alarm) error
}
