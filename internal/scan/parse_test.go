package scan

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseClassifierOutput(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantItems    []string
		wantWarnings int
	}{
		{
			name:      "plain JSON",
			text:      `{"items":[{"name":"Pizza","price":24,"quantity":2,"confidence":"high"}],"warnings":[]}`,
			wantItems: []string{"Pizza"},
		},
		{
			name:         "json code fence",
			text:         "```json\n{\"items\":[{\"name\":\"Tea\",\"price\":3.5}],\"warnings\":[\"blurry total\"]}\n```",
			wantItems:    []string{"Tea"},
			wantWarnings: 1,
		},
		{
			name:      "bare code fence with surrounding whitespace",
			text:      "\n  ```\n{\"items\":[{\"name\":\"Tea\",\"price\":3.5}]}\n```  \n",
			wantItems: []string{"Tea"},
		},
		{
			name:      "invalid entries are normalized away",
			text:      `{"items":[{"name":"Fries","price":"6.5"},{"price":8},{"name":"","price":3},"junk",7]}`,
			wantItems: []string{"Fries"},
		},
		{
			name:      "empty items",
			text:      `{"items":[]}`,
			wantItems: []string{},
		},
		{
			name:         "non-string warnings ignored",
			text:         `{"items":[],"warnings":["ok", 3, "", null, "check tax"]}`,
			wantItems:    []string{},
			wantWarnings: 2,
		},
		{
			name:      "warnings of wrong type ignored",
			text:      `{"items":[],"warnings":"none"}`,
			wantItems: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseClassifierOutput(tt.text)
			if err != nil {
				t.Fatalf("ParseClassifierOutput failed: %v", err)
			}

			if len(res.Items) != len(tt.wantItems) {
				t.Fatalf("Expected %d items, got %d: %+v", len(tt.wantItems), len(res.Items), res.Items)
			}
			for i, name := range tt.wantItems {
				if res.Items[i].Name != name {
					t.Errorf("Items[%d].Name = %q, want %q", i, res.Items[i].Name, name)
				}
			}
			if len(res.Warnings) != tt.wantWarnings {
				t.Errorf("Expected %d warnings, got %v", tt.wantWarnings, res.Warnings)
			}
			if res.Warnings == nil {
				t.Error("Warnings should never be nil")
			}
		})
	}
}

func TestParseClassifierOutputRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"prose", "I could not read this receipt, sorry."},
		{"truncated", `{"items":[{"name":"Pizza","price":24}`},
		{"array at top level", `[{"name":"Pizza","price":24}]`},
		{"null", "null"},
		{"missing items", `{"warnings":["nothing found"]}`},
		{"null items", `{"items":null}`},
		{"items is an object", `{"items":{"name":"Pizza","price":24}}`},
		{"items is a string", `{"items":"Pizza 24"}`},
		{"trailing prose", `{"items":[]} Let me know if you need anything else.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClassifierOutput(tt.text)
			if !errors.Is(err, ErrUnparseable) {
				t.Errorf("Expected ErrUnparseable, got %v", err)
			}
		})
	}
}

func TestResultTotal(t *testing.T) {
	res, err := ParseClassifierOutput(`{"items":[{"name":"Pizza","price":24,"quantity":2},{"name":"Tea","price":"3.50"}]}`)
	if err != nil {
		t.Fatalf("ParseClassifierOutput failed: %v", err)
	}
	if want := decimal.RequireFromString("27.5"); !res.Total().Equal(want) {
		t.Errorf("Total = %s, want %s", res.Total(), want)
	}
}
