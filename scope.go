package jsonschema

// DynamicScope is the ordered stack of resource-root base identifiers
// entered during compilation and evaluation. It keys the per-schema
// constraint cache and drives dynamic and recursive reference resolution.
type DynamicScope struct {
	stack []string
}

func newDynamicScope(rootBase string) *DynamicScope {
	return &DynamicScope{stack: []string{rootBase}}
}

// LocalBase returns the innermost base identifier.
func (s *DynamicScope) LocalBase() string {
	if len(s.stack) == 0 {
		return ""
	}
	return s.stack[len(s.stack)-1]
}

// Len reports the stack depth.
func (s *DynamicScope) Len() int { return len(s.stack) }

func (s *DynamicScope) push(base string) { s.stack = append(s.stack, base) }

func (s *DynamicScope) pop() { s.stack = s.stack[:len(s.stack)-1] }

// snapshot copies the stack for use as a cache key.
func (s *DynamicScope) snapshot() []string {
	out := make([]string, len(s.stack))
	copy(out, s.stack)
	return out
}

func scopesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// outermostDynamicAnchor walks the scope outermost-first and returns the
// sub-schema bound to the outermost resource whose anchor table carries name
// as dynamic.
func (s *DynamicScope) outermostDynamicAnchor(name string, reg *Registry) (*Schema, bool) {
	for _, base := range s.stack {
		root := reg.Get(base)
		if root == nil {
			continue
		}
		if target, ok := root.dynamicAnchor(name); ok {
			return target, true
		}
	}
	return nil, false
}

// outermostRecursiveAnchor walks the scope outermost-first and returns the
// first resource declaring $recursiveAnchor: true.
func (s *DynamicScope) outermostRecursiveAnchor(reg *Registry) (*Schema, bool) {
	for _, base := range s.stack {
		root := reg.Get(base)
		if root == nil {
			continue
		}
		if root.recursiveAnchor != nil {
			return root.recursiveAnchor, true
		}
	}
	return nil, false
}
