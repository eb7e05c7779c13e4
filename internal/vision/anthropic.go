// Package vision adapts a vision-capable language model to scan.Classifier.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mmynk/billsplitter/internal/scan"
)

// Defaults for Config fields left empty.
const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 2048
	DefaultTimeout   = 60 * time.Second
)

// extractionPrompt asks for purchasable lines only, each with its line
// total, as bare JSON.
const extractionPrompt = `Extract all line items from this bill/receipt image. Focus on individual food/drink items or products with their prices.

Rules:
1. Extract ONLY purchasable items with prices - ignore headers, footers, totals, tax lines, subtotals, and service charges
2. For each item, provide the item name, the TOTAL price for that line, and quantity if shown
3. If an item shows "Pizza x2 $24.00", extract as: name="Pizza", price=24.00, quantity=2
4. If no quantity is shown, use quantity=1
5. Price should be the TOTAL for that line item (not per-unit price)
6. If a price is unclear or ambiguous, mark confidence as "low"
7. Prices should be numbers only (no currency symbols)

Output ONLY valid JSON in this exact format (no markdown, no code blocks, just raw JSON):
{"items":[{"name":"Item Name","price":12.99,"quantity":1,"confidence":"high"}],"warnings":["any issues encountered"]}`

// Config configures the Anthropic classifier.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	Timeout   time.Duration

	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
}

// AnthropicClassifier extracts receipt lines with Claude's vision support.
type AnthropicClassifier struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	hasKey    bool
}

// Ensure AnthropicClassifier implements scan.Classifier
var _ scan.Classifier = (*AnthropicClassifier)(nil)

// NewAnthropicClassifier creates a classifier. Calls are single attempts:
// the SDK's retries are disabled so a slow provider fails fast.
func NewAnthropicClassifier(cfg Config) *AnthropicClassifier {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicClassifier{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(cfg.Model),
		maxTokens: cfg.MaxTokens,
		hasKey:    cfg.APIKey != "",
	}
}

// Classify sends the image with the extraction prompt and returns the
// model's text reply.
func (c *AnthropicClassifier) Classify(ctx context.Context, image []byte, mediaType string) (string, error) {
	if !c.hasKey {
		return "", scan.ErrClassifierAuth
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(image)),
				anthropic.NewTextBlock(extractionPrompt),
			),
		},
	})
	if err != nil {
		return "", mapError(ctx, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: response has no text content", scan.ErrClassifierUnavailable)
	}
	return text.String(), nil
}

func mapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", scan.ErrRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", scan.ErrClassifierAuth, err)
		}
	}
	return fmt.Errorf("%w: %v", scan.ErrClassifierUnavailable, err)
}
