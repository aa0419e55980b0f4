package version

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "netservice/dev") {
		t.Errorf("unexpected user agent: %q", ua)
	}
	if Info()["version"] != Version {
		t.Errorf("info out of sync with Version")
	}
}
