package jsonschema

import (
	"net/url"
	"strings"
)

// trimFragment strips a URI fragment, including a bare trailing "#".
func trimFragment(id string) string {
	if i := strings.IndexByte(id, '#'); i >= 0 {
		return id[:i]
	}
	return id
}

// splitFragment separates a reference into its document part and fragment.
func splitFragment(ref string) (doc, frag string) {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

// resolveURI joins a reference against a base identifier per RFC 3986.
func resolveURI(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
