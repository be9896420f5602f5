package jsonpointer_test

import (
	"testing"

	"github.com/reoring/jsonschema/internal/jsonpointer"
)

func TestStringEscaping(t *testing.T) {
	p := jsonpointer.New("a/b", "c~d", "plain")
	if got := p.String(); got != "/a~1b/c~0d/plain" {
		t.Fatalf("escaped form = %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	cases := []string{"", "/a", "/a/0/b", "/a~1b/c~0d", "/"}
	for _, s := range cases {
		p, ok := jsonpointer.Parse(s)
		if !ok {
			t.Fatalf("parse %q failed", s)
		}
		if got := p.String(); got != s {
			t.Fatalf("round trip %q -> %q", s, got)
		}
	}
}

func TestParseRejectsBadPointers(t *testing.T) {
	for _, s := range []string{"a", "/a~2b", "/x~"} {
		if _, ok := jsonpointer.Parse(s); ok {
			t.Fatalf("parse %q should fail", s)
		}
	}
}

func TestAppend(t *testing.T) {
	base := jsonpointer.New("properties")
	child := base.Append("name")
	if base.String() != "/properties" {
		t.Fatalf("append must not mutate the receiver")
	}
	if child.String() != "/properties/name" {
		t.Fatalf("child = %q", child.String())
	}
	if idx := child.AppendIndex(3); idx.String() != "/properties/name/3" {
		t.Fatalf("index append = %q", idx.String())
	}
}
