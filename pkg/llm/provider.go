package llm

import (
	"strings"

	"github.com/matzehuels/sketchreveal/pkg/errors"
)

// DefaultModel is used when the provider does not name one.
const DefaultModel = "gpt-5-mini"

// DefaultBaseURLs are offered when configuring a provider.
var DefaultBaseURLs = []string{
	"https://api.openai.com/v1",
	"https://openrouter.ai/api/v1",
}

// Models lists the model choices offered by the front ends.
var Models = []string{
	"gpt-5-mini",
	"gpt-5",
	"gpt-4.1-mini",
	"gpt-4o-mini",
}

// Provider holds the credentials of an OpenAI-compatible endpoint. It is
// supplied by the user or the environment and never written anywhere.
type Provider struct {
	BaseURL string `toml:"base_url" json:"baseUrl"`
	APIKey  string `toml:"api_key" json:"-"`
	Model   string `toml:"model" json:"model"`
}

// ModelOrDefault returns the configured model or DefaultModel.
func (p Provider) ModelOrDefault() string {
	if m := strings.TrimSpace(p.Model); m != "" {
		return m
	}
	return DefaultModel
}

// Endpoint is the chat completions URL.
func (p Provider) Endpoint() string {
	return strings.TrimRight(p.BaseURL, "/") + "/chat/completions"
}

// Validate checks that the provider can be used.
func (p Provider) Validate() error {
	if err := errors.ValidateURL(strings.TrimSpace(p.BaseURL)); err != nil {
		return err
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return errors.New(errors.ErrCodeConfiguration, "API key is not configured")
	}
	return nil
}

// MaskedKey shows the first and last characters of the key only.
func (p Provider) MaskedKey() string {
	k := p.APIKey
	switch {
	case k == "":
		return ""
	case len(k) <= 8:
		return strings.Repeat("*", len(k))
	}
	return k[:3] + strings.Repeat("*", len(k)-7) + k[len(k)-4:]
}
