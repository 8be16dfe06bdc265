//go:build !linux && !darwin && !windows

package platform

// Notify does nothing where no notification center is known. opts,
// Timeout included, is accepted so callers need no platform checks.
func Notify(title, body string, opts Options) error {
	return nil
}
