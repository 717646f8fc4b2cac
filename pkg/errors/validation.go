package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateURL validates a provider base URL.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeConfiguration, "base URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeConfiguration, "base URL must use http or https scheme")
	}

	return nil
}

// ValidatePrompt rejects prompts that are empty after trimming or that
// carry control characters other than whitespace.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return New(ErrCodeEmptyInput, "Enter prompt")
	}
	for _, r := range prompt {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "prompt contains invalid control characters")
		}
	}
	return nil
}

// ValidateNonNegative checks that a numeric control value is finite and >= 0.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must be >= 0, got %g", name, v)
	}
	return nil
}
