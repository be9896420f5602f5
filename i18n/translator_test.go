package i18n_test

import (
	"testing"

	"github.com/reoring/jsonschema/i18n"
)

func TestTokenSubstitution(t *testing.T) {
	got := i18n.Message("minItems", "", map[string]any{"received": 1, "limit": 2})
	if got != "value has 1 items but needs at least 2" {
		t.Fatalf("substitution produced %q", got)
	}
}

func TestUnknownTokenLeftInPlace(t *testing.T) {
	defer i18n.Reset()
	i18n.Set("custom", "", "expected [[missing]] here")
	got := i18n.Message("custom", "", nil)
	if got != "expected [[missing]] here" {
		t.Fatalf("unknown tokens must stay visible, got %q", got)
	}
}

func TestCultureFallbackChain(t *testing.T) {
	defer i18n.Reset()
	i18n.Set("required", "de", "Pflichtfelder fehlen: [[missing]]")

	got := i18n.Message("required", "de-AT", map[string]any{"missing": []any{"a"}})
	if got != `Pflichtfelder fehlen: ["a"]` {
		t.Fatalf("de-AT should fall back to de, got %q", got)
	}
	neutral := i18n.Message("required", "fr", map[string]any{"missing": []any{"a"}})
	if neutral == "" || neutral == "required" {
		t.Fatalf("fr should fall back to the neutral table, got %q", neutral)
	}
}

func TestSpecificCultureWins(t *testing.T) {
	defer i18n.Reset()
	i18n.Set("type", "pt", "tipo inválido")
	i18n.Set("type", "pt-BR", "tipo inválido (BR)")
	if got := i18n.Message("type", "pt-BR", nil); got != "tipo inválido (BR)" {
		t.Fatalf("most specific culture should win, got %q", got)
	}
}

func TestUnknownKeywordRendersName(t *testing.T) {
	if got := i18n.Message("no-such-keyword", "", nil); got != "no-such-keyword" {
		t.Fatalf("unknown keyword should render its own name, got %q", got)
	}
}
