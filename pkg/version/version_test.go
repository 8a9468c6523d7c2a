package version

import (
	"strings"
	"testing"
)

func TestGetFullVersion(t *testing.T) {
	got := GetFullVersion()
	if !strings.HasPrefix(got, GetVersion()) {
		t.Errorf("GetFullVersion() = %q, want prefix %q", got, GetVersion())
	}
	if !strings.Contains(got, "commit: "+Commit) || !strings.Contains(got, "built: "+Date) {
		t.Errorf("GetFullVersion() = %q", got)
	}
}
