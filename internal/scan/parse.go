package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseClassifierOutput decodes the classifier's text reply. The reply must
// be a JSON object with an "items" array, optionally wrapped in a Markdown
// code fence. Anything else yields ErrUnparseable; partial output is never
// accepted.
func ParseClassifierOutput(text string) (Result, error) {
	body := stripCodeFence(text)

	var envelope struct {
		Items    json.RawMessage `json:"items"`
		Warnings json.RawMessage `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	items := bytes.TrimSpace(envelope.Items)
	if len(items) == 0 || items[0] != '[' {
		return Result{}, fmt.Errorf("%w: items is missing or not an array", ErrUnparseable)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(items, &entries); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	raw := make([]RawItem, 0, len(entries))
	for _, e := range entries {
		var r RawItem
		if err := json.Unmarshal(e, &r); err != nil {
			// Not an object; Normalize would drop it anyway.
			continue
		}
		raw = append(raw, r)
	}

	return Result{
		Items:    Normalize(raw),
		Warnings: parseWarnings(envelope.Warnings),
	}, nil
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseWarnings keeps the non-empty strings of a warnings array and ignores
// anything else.
func parseWarnings(raw json.RawMessage) []string {
	warnings := []string{}
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return warnings
	}
	for _, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			warnings = append(warnings, strings.TrimSpace(s))
		}
	}
	return warnings
}
