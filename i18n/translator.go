// Package i18n holds the localized error message templates used when
// assembling evaluation results. Templates are keyed by keyword name and
// culture identifier; tokens of the form [[name]] are substituted from the
// evaluator's named parameters.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	j "github.com/goccy/go-json"
	"golang.org/x/text/language"
)

// FalseSchemaKey selects the message reported by the boolean false schema,
// which has no keyword of its own.
const FalseSchemaKey = "falseSchema"

// Neutral is the culture identifier of the built-in default table.
const Neutral = ""

type tableKey struct {
	keyword string
	culture string
}

var table = struct {
	sync.RWMutex
	m map[tableKey]string
}{m: defaultMessages()}

// Set installs or overrides a message template for (keyword, culture).
// Writes are expected during test setup or program initialization and are
// serialized; reads afterwards are cheap.
func Set(keyword, culture, template string) {
	table.Lock()
	table.m[tableKey{keyword: keyword, culture: normalizeCulture(culture)}] = template
	table.Unlock()
}

// Reset restores the built-in table, dropping every override.
func Reset() {
	table.Lock()
	table.m = defaultMessages()
	table.Unlock()
}

// Message renders the template for (keyword, culture) with params filled in.
// Lookup walks the culture's parent chain (de-AT, de, neutral); an unknown
// keyword renders as the keyword name itself.
func Message(keyword, culture string, params map[string]any) string {
	table.RLock()
	defer table.RUnlock()
	for _, c := range cultureChain(culture) {
		if tmpl, ok := table.m[tableKey{keyword: keyword, culture: c}]; ok {
			return substitute(tmpl, params)
		}
	}
	return keyword
}

// cultureChain expands a BCP-47 tag into itself, its parents, and the
// neutral culture, most specific first.
func cultureChain(culture string) []string {
	culture = normalizeCulture(culture)
	if culture == Neutral {
		return []string{Neutral}
	}
	chain := []string{}
	tag := language.Make(culture)
	for tag != language.Und {
		chain = append(chain, strings.ToLower(tag.String()))
		tag = tag.Parent()
	}
	return append(chain, Neutral)
}

func normalizeCulture(culture string) string {
	culture = strings.TrimSpace(culture)
	if culture == "" {
		return Neutral
	}
	tag := language.Make(culture)
	if tag == language.Und {
		return Neutral
	}
	return strings.ToLower(tag.String())
}

// substitute replaces [[name]] tokens with rendered parameter values.
// Unknown tokens are left in place so broken overrides remain visible.
func substitute(tmpl string, params map[string]any) string {
	if !strings.Contains(tmpl, "[[") {
		return tmpl
	}
	var b strings.Builder
	for {
		start := strings.Index(tmpl, "[[")
		if start < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end := strings.Index(tmpl[start:], "]]")
		if end < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		b.WriteString(tmpl[:start])
		name := tmpl[start+2 : start+end]
		if v, ok := params[name]; ok {
			b.WriteString(render(v))
		} else {
			b.WriteString(tmpl[start : start+end+2])
		}
		tmpl = tmpl[start+end+2:]
	}
}

func render(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	if b, err := j.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

func defaultMessages() map[tableKey]string {
	msgs := map[string]string{
		FalseSchemaKey:          "all values fail against the false schema",
		"type":                  "value is [[received]] but should be [[expected]]",
		"enum":                  "value should be one of [[values]]",
		"const":                 "value should be [[value]]",
		"multipleOf":            "[[received]] is not a multiple of [[divisor]]",
		"maximum":               "[[received]] should be at most [[limit]]",
		"exclusiveMaximum":      "[[received]] should be less than [[limit]]",
		"minimum":               "[[received]] should be at least [[limit]]",
		"exclusiveMinimum":      "[[received]] should be greater than [[limit]]",
		"maxLength":             "value should be at most [[limit]] characters",
		"minLength":             "value should be at least [[limit]] characters",
		"pattern":               "value does not match the pattern [[pattern]]",
		"maxItems":              "value has more than [[limit]] items",
		"minItems":              "value has [[received]] items but needs at least [[limit]]",
		"uniqueItems":           "items at [[duplicates]] are equal",
		"maxContains":           "value has [[received]] matching items but allows at most [[limit]]",
		"minContains":           "value has [[received]] matching items but needs at least [[limit]]",
		"contains":              "no items match the contains schema",
		"maxProperties":         "value has more than [[limit]] properties",
		"minProperties":         "value has fewer than [[limit]] properties",
		"required":              "required properties [[missing]] are missing",
		"dependentRequired":     "properties [[missing]] required by [[property]] are missing",
		"propertyNames":         "property name [[name]] is invalid",
		"properties":            "some properties are invalid",
		"patternProperties":     "some pattern properties are invalid",
		"additionalProperties":  "additional properties [[properties]] are invalid",
		"unevaluatedProperties": "unevaluated properties [[properties]] are invalid",
		"items":                 "some items are invalid",
		"prefixItems":           "some prefix items are invalid",
		"additionalItems":       "additional items are invalid",
		"unevaluatedItems":      "unevaluated items are invalid",
		"allOf":                 "[[failed]] subschemas failed to match",
		"anyOf":                 "no subschema matched",
		"oneOf":                 "[[matched]] subschemas matched but exactly one is required",
		"not":                   "value matched the disallowed schema",
		"then":                  "value did not match the then schema",
		"else":                  "value did not match the else schema",
		"dependentSchemas":      "dependent schema of [[property]] did not match",
		"dependencies":          "dependency of [[property]] is not satisfied",
		"format":                "value is not a valid [[format]]",
		"$ref":                  "referenced schema did not match",
		"$dynamicRef":           "referenced schema did not match",
		"$recursiveRef":         "referenced schema did not match",
	}
	out := make(map[tableKey]string, len(msgs))
	for k, v := range msgs {
		out[tableKey{keyword: k, culture: Neutral}] = v
	}
	return out
}
