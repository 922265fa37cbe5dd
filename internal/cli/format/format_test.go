package format

import (
	"strings"
	"testing"
	"time"

	"github.com/clintjedwards/stepper/internal/models"
	"github.com/fatih/color"
)

func TestUnixMilli(t *testing.T) {
	if got := UnixMilli(0, "Never", false); got != "Never" {
		t.Errorf("expected zero message; got %q", got)
	}

	created := time.Now().Add(-2 * time.Hour).UnixMilli()

	if got := UnixMilli(created, "Never", false); got != "2 hours ago" {
		t.Errorf("expected humanized time; got %q", got)
	}

	if got := UnixMilli(created, "Never", true); !strings.HasSuffix(got, "(2 hours ago)") {
		t.Errorf("expected detailed time to include relative time; got %q", got)
	}
}

func TestCredentialKind(t *testing.T) {
	color.NoColor = true

	tests := map[models.CredentialKind]string{
		models.CredentialKindUsernamePassword: "Username Password",
		models.CredentialKindSecretText:       "Secret Text",
		models.CredentialKindUnknown:          "Unknown",
	}

	for kind, want := range tests {
		if got := CredentialKind(kind); got != want {
			t.Errorf("CredentialKind(%q) = %q; want %q", kind, got, want)
		}
	}
}
