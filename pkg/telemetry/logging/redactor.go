package logging

import (
	"regexp"
	"strings"
)

// Redactor scrubs credentials from strings before they reach log output.
// It removes the literal secrets it was constructed with plus common
// API-key shapes, so a provider echoing a key back can never surface it.
type Redactor struct {
	secrets  []string
	patterns []*regexp.Regexp
}

// defaultPatterns match common credential shapes regardless of which
// secret values were registered.
var defaultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[a-zA-Z0-9_-]{8,}`),
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]{8,}`),
	regexp.MustCompile(`(?i)api[-_]?key[-_:=]\s*[a-zA-Z0-9._-]{8,}`),
}

// NewRedactor creates a redactor for the given literal secrets. Empty
// strings are ignored.
func NewRedactor(secrets []string) *Redactor {
	kept := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return &Redactor{
		secrets:  kept,
		patterns: defaultPatterns,
	}
}

// Redact returns s with all registered secrets and credential-shaped
// substrings replaced.
func (r *Redactor) Redact(s string) string {
	for _, secret := range r.secrets {
		s = strings.ReplaceAll(s, secret, "***")
	}
	for _, pattern := range r.patterns {
		s = pattern.ReplaceAllString(s, "***")
	}
	return s
}

// RedactArgs scrubs string values in an slog key-value argument list.
func (r *Redactor) RedactArgs(args ...any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok && i%2 == 1 {
			out[i] = r.Redact(s)
			continue
		}
		out[i] = arg
	}
	return out
}
