package platform

import "time"

// DefaultAppName is reported to the notification center when Options leaves
// AppName empty.
const DefaultAppName = "drawpad"

// DefaultTimeout is how long a notification stays up where the platform
// lets the sender choose.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sending application.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout overrides DefaultTimeout. Negative means never expire.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

// expireMillis is the freedesktop expire_timeout value for o.
func (o Options) expireMillis() int32 {
	switch {
	case o.Timeout < 0:
		return 0
	case o.Timeout == 0:
		return int32(DefaultTimeout / time.Millisecond)
	}
	return int32(o.Timeout / time.Millisecond)
}
