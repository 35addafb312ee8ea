package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()
	if !strings.Contains(got, Version) || !strings.Contains(got, Commit) {
		t.Errorf("String() = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "catalog/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
