//go:build darwin

package platform

import "os/exec"

// Notify shows a Notification Center banner. Timeout is not supported.
func Notify(title, body string, opts Options) error {
	return exec.Command("osascript", "-e", appleScript(title, body, opts)).Run()
}
