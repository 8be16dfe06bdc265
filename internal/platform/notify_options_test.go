package platform

import (
	"testing"
	"time"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if got := o.appName(); got != DefaultAppName {
		t.Fatalf("appName = %q, want %q", got, DefaultAppName)
	}
	if got := o.expireMillis(); got != 5000 {
		t.Fatalf("expireMillis = %d, want 5000", got)
	}
	o = Options{AppName: "pad", Timeout: 1500 * time.Millisecond}
	if o.appName() != "pad" || o.expireMillis() != 1500 {
		t.Fatalf("unexpected %q %d", o.appName(), o.expireMillis())
	}
	o.Timeout = -1
	if o.expireMillis() != 0 {
		t.Fatalf("negative timeout should never expire, got %d", o.expireMillis())
	}
}
