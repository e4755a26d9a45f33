package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/helios-ai/arbiter/pkg/config"
)

func TestRedactor_LiteralSecrets(t *testing.T) {
	r := NewRedactor([]string{"my-exact-key", ""})

	got := r.Redact("auth failed for key my-exact-key at upstream")
	if strings.Contains(got, "my-exact-key") {
		t.Errorf("literal secret survived redaction: %q", got)
	}
}

func TestRedactor_CredentialShapes(t *testing.T) {
	r := NewRedactor(nil)

	tests := []string{
		"rejected sk-abc123def456ghi789",
		"header was Bearer abcdefgh12345678",
		"config had api_key: abcd1234efgh5678",
	}

	for _, in := range tests {
		got := r.Redact(in)
		if !strings.Contains(got, "***") {
			t.Errorf("expected redaction in %q, got %q", in, got)
		}
	}
}

func TestSetup_RedactsLogOutput(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Setup(config.LoggingConfig{Level: "info", Format: "json"},
		NewRedactor([]string{"sekret-value-42"}), &buf)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("provider call failed", "error", "upstream said: sekret-value-42 invalid")

	if strings.Contains(buf.String(), "sekret-value-42") {
		t.Errorf("secret leaked into log output: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "provider call failed") {
		t.Errorf("expected log message in output: %s", buf.String())
	}
}

func TestSetup_RejectsBadLevel(t *testing.T) {
	if _, err := Setup(config.LoggingConfig{Level: "loud"}, nil, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for bad level")
	}
}
