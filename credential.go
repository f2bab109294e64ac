package prospect

import (
	"context"
	"strings"
	"unicode"
)

// MinCredentialLength is the shortest API key accepted as well-formed.
const MinCredentialLength = 30

// CredentialStore persists the single lookup API key.
// The key is process-wide configuration; callers read it on every
// enrichment and only configuration commands write it.
type CredentialStore interface {
	// Credential returns the stored key.
	// Returns ENOCREDENTIAL if no key has been configured.
	Credential(ctx context.Context) (string, error)

	// SetCredential stores the key, replacing any previous one.
	SetCredential(ctx context.Context, apiKey string) error

	// ClearCredential removes the stored key.
	ClearCredential(ctx context.Context) error
}

// ValidCredentialFormat reports whether apiKey looks like a lookup API key:
// at least MinCredentialLength ASCII letters and digits.
func ValidCredentialFormat(apiKey string) bool {
	if len(apiKey) < MinCredentialLength {
		return false
	}
	for _, r := range apiKey {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

// RedactCredential masks all but the last four characters of a key.
func RedactCredential(apiKey string) string {
	if len(apiKey) <= 4 {
		return strings.Repeat("*", len(apiKey))
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}
