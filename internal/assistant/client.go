// Package assistant answers user questions about their finances through
// the Gemini API. Every request carries a snapshot of the ledger so the
// model grounds its answers in real numbers.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/genai"

	"finnova/internal/core"
)

const defaultModel = "gemini-2.5-flash"

const systemInstruction = "You are Nova, the financial assistant of the Finnova app. " +
	"You answer questions about the user's balance, spending and recent transactions " +
	"using only the JSON context provided with each request. Amounts in the context " +
	"are in the user's display currency. Be concise, friendly and concrete; when the " +
	"context does not contain the answer, say so instead of guessing."

const (
	// unavailableReply is returned when the model call fails.
	unavailableReply = "Sorry, I'm having trouble connecting to the financial brain right now. Please try again later."
	// missingKeyReply is returned by the disabled client.
	missingKeyReply = "AI Assistant is unavailable (Missing API Key)."
)

type Client struct {
	client *genai.Client
	model  string
}

// NewFromEnv creates a Gemini client from GEMINI_API_KEY, with the model
// overridable through GEMINI_MODEL. A missing key yields a disabled client
// rather than an error: the rest of the app works fine without it.
func NewFromEnv(ctx context.Context) (*Client, error) {
	return New(ctx, strings.TrimSpace(os.Getenv("GEMINI_API_KEY")), strings.TrimSpace(os.Getenv("GEMINI_MODEL")))
}

// New creates a Gemini client. An empty API key yields a disabled client.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = defaultModel
	}
	if apiKey == "" {
		slog.InfoContext(ctx, "Gemini API key missing, assistant disabled")
		return &Client{model: model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Enabled reports whether a key was configured.
func (c *Client) Enabled() bool {
	return c.client != nil
}

// Analyze sends the prompt plus the ledger snapshot to the model and
// returns its reply. Model failures degrade to a canned reply instead of
// an error so a flaky upstream never breaks the endpoint.
func (c *Client) Analyze(ctx context.Context, prompt, contextJSON string) string {
	if c.client == nil {
		return missingKeyReply
	}

	userText := fmt.Sprintf("Financial context (JSON):\n%s\n\nUser question: %s", contextJSON, prompt)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userText),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: systemInstruction}},
			},
		})
	if err != nil {
		slog.ErrorContext(ctx, "Gemini request failed", "model", c.model, "error", err)
		return unavailableReply
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		slog.WarnContext(ctx, "Gemini returned no text", "model", c.model)
		return unavailableReply
	}
	return reply
}

// AnalyzeLedger builds the snapshot and runs Analyze in one step.
func (c *Client) AnalyzeLedger(ctx context.Context, prompt string, profile core.Profile, txs []core.Transaction) string {
	if c.client == nil {
		return missingKeyReply
	}
	contextJSON, err := BuildSnapshot(profile, txs).ToJSON()
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build ledger snapshot", "error", err)
		return unavailableReply
	}
	return c.Analyze(ctx, prompt, contextJSON)
}
