//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = "/org/freedesktop/Notifications"
)

// Notify calls org.freedesktop.Notifications.Notify on the session bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	call := conn.Object(notifyDest, notifyPath).Call(notifyDest+".Notify", 0,
		opts.appName(), uint32(0), opts.IconPath, title, body, []string{}, hints(opts), opts.expireMillis())
	return call.Err
}

// hints ties the notification to the desktop entry so servers can group it.
func hints(opts Options) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"desktop-entry": dbus.MakeVariant(opts.appName()),
	}
}
