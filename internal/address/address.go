// Package address holds the single classification and normalization policy for
// contact addresses (the routing key of a Source). The validator and the webhook
// pipeline both go through Classify so they cannot disagree on an input.
package address

import (
	"regexp"
	"strings"

	"github.com/Behyna/bank-webhooks/internal/model"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+\d{10,15}$`)
)

// Classify infers the source type of a raw address. An '@' anywhere wins over a
// leading '+', anything else is an opaque webhook identifier. This is a heuristic:
// it does not check that the value is well formed, see Valid for that.
func Classify(raw string) model.SourceType {
	value := strings.TrimSpace(raw)
	switch {
	case strings.Contains(value, "@"):
		return model.SourceTypeEmail
	case strings.HasPrefix(value, "+"):
		return model.SourceTypePhone
	default:
		return model.SourceTypeWebhook
	}
}

// Normalize returns the canonical stored form of value for the given type.
func Normalize(sourceType model.SourceType, raw string) string {
	value := strings.TrimSpace(raw)
	switch sourceType {
	case model.SourceTypeEmail:
		return strings.ToLower(value)
	case model.SourceTypePhone:
		return "+" + digitsOnly(value)
	default:
		return value
	}
}

// Resolve classifies and normalizes in one step.
func Resolve(raw string) (model.SourceType, string) {
	sourceType := Classify(raw)
	return sourceType, Normalize(sourceType, raw)
}

// Valid reports whether raw has the strict shape its classification demands.
// Phones must already be in +<10-15 digits> form; separators are not accepted.
func Valid(raw string) bool {
	value := strings.TrimSpace(raw)
	if value == "" {
		return false
	}

	switch Classify(value) {
	case model.SourceTypeEmail:
		return emailPattern.MatchString(value)
	case model.SourceTypePhone:
		return phonePattern.MatchString(value)
	default:
		return true
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
