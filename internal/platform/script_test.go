package platform

import (
	"strings"
	"testing"
	"time"
)

func TestToastScript(t *testing.T) {
	s := toastScript("Saved", "it's done", Options{})
	if !strings.Contains(s, "ToastText02") || strings.Contains(s, "ToastImageAndText02") {
		t.Fatalf("wrong template: %s", s)
	}
	if !strings.Contains(s, "'it''s done'") {
		t.Fatalf("body not quoted: %s", s)
	}
	if !strings.Contains(s, "AddMilliseconds(5000)") {
		t.Fatalf("default expiry missing: %s", s)
	}
	if !strings.Contains(s, "CreateToastNotifier('drawpad')") {
		t.Fatalf("app name missing: %s", s)
	}

	s = toastScript("Saved", "x", Options{IconPath: " /tmp/a.png ", Timeout: -1, AppName: "pad"})
	if !strings.Contains(s, "ToastImageAndText02") || !strings.Contains(s, `SetAttribute("src", '/tmp/a.png')`) {
		t.Fatalf("icon not used: %s", s)
	}
	if strings.Contains(s, "ExpirationTime") {
		t.Fatalf("never-expiring toast has an expiry: %s", s)
	}

	s = toastScript("a", "b", Options{Timeout: 1500 * time.Millisecond})
	if !strings.Contains(s, "AddMilliseconds(1500)") {
		t.Fatalf("timeout ignored: %s", s)
	}
}

func TestAppleScript(t *testing.T) {
	got := appleScript("Copied", `say "hi"`, Options{AppName: "pad"})
	want := `display notification "say \"hi\"" with title "Copied" subtitle "pad"`
	if got != want {
		t.Fatalf("appleScript = %s, want %s", got, want)
	}
}
