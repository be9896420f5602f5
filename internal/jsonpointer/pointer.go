// Package jsonpointer implements the small slice of RFC 6901 the evaluator
// needs: building pointers segment by segment, parsing their string form, and
// rendering them with RFC 6901 escaping.
package jsonpointer

import (
	"strconv"
	"strings"
)

// Pointer is an immutable JSON Pointer. The zero value is the root pointer.
type Pointer struct {
	tokens []string
}

// New builds a pointer from raw (unescaped) tokens.
func New(tokens ...string) Pointer {
	return Pointer{tokens: tokens}
}

// Parse parses the string form of a pointer ("" or "/a/b~1c").
func Parse(s string) (Pointer, bool) {
	if s == "" {
		return Pointer{}, true
	}
	if !strings.HasPrefix(s, "/") {
		return Pointer{}, false
	}
	parts := strings.Split(s[1:], "/")
	tokens := make([]string, len(parts))
	for i, p := range parts {
		if strings.Contains(p, "~") {
			if ok := validEscapes(p); !ok {
				return Pointer{}, false
			}
			p = strings.ReplaceAll(p, "~1", "/")
			p = strings.ReplaceAll(p, "~0", "~")
		}
		tokens[i] = p
	}
	return Pointer{tokens: tokens}, true
}

func validEscapes(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '~' {
			continue
		}
		if i+1 >= len(s) || (s[i+1] != '0' && s[i+1] != '1') {
			return false
		}
	}
	return true
}

// Append returns a new pointer with the tokens added.
func (p Pointer) Append(tokens ...string) Pointer {
	out := make([]string, 0, len(p.tokens)+len(tokens))
	out = append(out, p.tokens...)
	out = append(out, tokens...)
	return Pointer{tokens: out}
}

// AppendIndex returns a new pointer with an array index token added.
func (p Pointer) AppendIndex(i int) Pointer {
	return p.Append(strconv.Itoa(i))
}

// Tokens returns the unescaped tokens. The slice is shared; callers must not
// mutate it.
func (p Pointer) Tokens() []string { return p.tokens }

// IsRoot reports whether the pointer has no tokens.
func (p Pointer) IsRoot() bool { return len(p.tokens) == 0 }

// String renders the RFC 6901 string form.
func (p Pointer) String() string {
	if len(p.tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range p.tokens {
		b.WriteByte('/')
		b.WriteString(escape(t))
	}
	return b.String()
}

func escape(t string) string {
	if !strings.ContainsAny(t, "~/") {
		return t
	}
	t = strings.ReplaceAll(t, "~", "~0")
	return strings.ReplaceAll(t, "/", "~1")
}
