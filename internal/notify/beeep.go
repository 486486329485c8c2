// Package notify provides wake-notification delivery backends for the
// alarm scheduler.
package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/somnus-app/somnus/internal/domain"
)

// DesktopNotifier delivers alarm notifications through the OS
// notification center.
type DesktopNotifier struct {
	appName string
}

// NewDesktopNotifier creates a desktop notifier. appName is shown as
// the notification source.
func NewDesktopNotifier(appName string) *DesktopNotifier {
	if appName == "" {
		appName = "Somnus"
	}
	return &DesktopNotifier{appName: appName}
}

// Notify raises an alerting desktop notification for the alarm.
func (n *DesktopNotifier) Notify(_ context.Context, alarm domain.Alarm) error {
	beeep.AppName = n.appName

	title := alarm.Label
	if title == "" {
		title = "Wake up"
	}

	if err := beeep.Alert(title, fmt.Sprintf("Alarm set for %s", alarm.Time), ""); err != nil {
		return fmt.Errorf("failed to deliver desktop notification: %w", err)
	}
	return nil
}
