// Package llm asks an OpenAI-compatible chat completions endpoint for SVG
// icons.
//
// [Client.Generate] sends one request per call. Failures are classified
// with pkg/errors codes: CONFIGURATION (no usable provider), NETWORK_ERROR
// (transport failure or a non-2xx status) and CONTENT (no usable SVG in the
// reply). There are no retries.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/httputil"
	"github.com/matzehuels/sketchreveal/pkg/svgdoc"
)

// SystemPrompt constrains the model to simple, path-only SVG.
const SystemPrompt = `You are an SVG generator. Create clean, simple SVG code based on user prompts.

REQUIREMENTS:
- Only use <path> elements for all shapes (no <rect>, <circle>, <line>, etc.)
- Set fill="none" and stroke="black" for all paths
- Use stroke-width="2"
- Include proper viewBox (e.g., viewBox="0 0 200 200")
- Keep designs simple and clean
- Return only the SVG code, no explanations

Example output:
<svg viewBox="0 0 200 200" xmlns="http://www.w3.org/2000/svg">
  <path d="M50,50 L150,50 L150,150 L50,150 Z" fill="none" stroke="black" stroke-width="2"/>
</svg>`

// maxErrorBody bounds how much of an error response is logged.
const maxErrorBody = 512

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generator produces SVG markup from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client talks to one provider.
type Client struct {
	provider Provider
	http     *http.Client
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithLogger sets the client logger.
func WithLogger(l *log.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// NewClient validates the provider and creates a client.
func NewClient(p Provider, opts ...Option) (*Client, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c := &Client{provider: p, http: httputil.NewClient(0), logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Provider returns the client's provider.
func (c *Client) Provider() Provider { return c.provider }

// Generate asks the model for an SVG and returns the extracted, trimmed
// markup.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := errors.ValidatePrompt(prompt); err != nil {
		return "", err
	}
	content, err := c.Complete(ctx, []Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: strings.TrimSpace(prompt)},
	})
	if err != nil {
		return "", err
	}

	svg := strings.TrimSpace(svgdoc.Extract(content))
	if err := svgdoc.Validate(svg); err != nil {
		return "", errors.Wrap(errors.ErrCodeContent, err, "Invalid SVG generated")
	}
	return svg, nil
}

// Complete sends messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.provider.ModelOrDefault(), Messages: messages})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.provider.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfiguration, err, "invalid provider URL")
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.provider.APIKey)
	req.Header.Set("X-Request-Id", reqID)

	c.logger.Debug("chat completion", "request", reqID, "model", c.provider.ModelOrDefault(), "url", c.provider.Endpoint())
	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("provider error", "request", reqID, "status", resp.StatusCode, "body", truncate(string(data), maxErrorBody))
		return "", errors.New(errors.ErrCodeNetwork, "API Error: %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", errors.Wrap(errors.ErrCodeContent, err, "malformed response")
	}
	if len(out.Choices) == 0 {
		return "", errors.New(errors.ErrCodeContent, "response has no choices")
	}
	content := out.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errors.New(errors.ErrCodeContent, "empty response")
	}
	c.logger.Debug("received completion", "request", reqID, "chars", len(content))
	return content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
