package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/sketchreveal/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"interrupted", fmt.Errorf("play: %w", context.Canceled), exitInterrupted},
		{"empty prompt", errors.ValidatePrompt(""), exitUsage},
		{"bad svg", errors.New(errors.ErrCodeInvalidInput, "No paths found"), exitUsage},
		{"no provider", errors.New(errors.ErrCodeConfiguration, "LLM provider is not configured"), exitConfig},
		{"network", errors.New(errors.ErrCodeNetwork, "API Error: 500"), 1},
		{"plain", fmt.Errorf("write out.svg: denied"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: exitCode() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
