package jsonschema

import (
	"regexp"
	"strings"
)

var anchorNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._-]*$`)

// Initialize assigns base identifiers, detects resource roots, collects
// anchors, and registers the schema tree with the registry. It is idempotent
// and safe to call repeatedly; Evaluate calls it implicitly.
func (s *Schema) Initialize(reg *Registry) error {
	return s.initializeAs(DraftUnspecified, reg)
}

func (s *Schema) initializeAs(evaluatingAs Draft, reg *Registry) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initialized {
		// Already-initialized schemas are immutable; a different registry
		// only needs the resource roots registered.
		return s.registerTree(reg, true)
	}
	if err := s.initialize(s.baseURI, s, evaluatingAs, reg); err != nil {
		return err
	}
	// Roots without an identifier keyword self-register under their
	// synthetic base so references can round-trip through the registry.
	return reg.Register(s.baseURI, s)
}

// registerTree registers this node (when it is a root or resource root) and
// every resource root below it without touching schema state.
func (s *Schema) registerTree(reg *Registry, root bool) error {
	if root || s.isResourceRoot {
		if err := reg.Register(s.baseURI, s); err != nil {
			return err
		}
	}
	for _, kw := range s.keywords {
		for _, ref := range subschemasOf(kw) {
			if err := ref.schema.registerTree(reg, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schema) initializeRoot(id string, reg *Registry) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initialized {
		return s.registerTree(reg, true)
	}
	return s.initialize(id, s, DraftUnspecified, reg)
}

func (s *Schema) initialize(currentBase string, resourceRoot *Schema, evaluatingAs Draft, reg *Registry) error {
	if _, ok := s.IsBool(); ok {
		s.baseURI = currentBase
		s.initialized = true
		return nil
	}

	draft, err := s.determineDraft(evaluatingAs, reg)
	if err != nil {
		return err
	}
	s.declaredDraft = draft

	// Per drafts 6 and 7, $ref suppresses all sibling keywords, identifiers
	// included; the node keeps the enclosing base and is not descended.
	if draft == Draft6 || draft == Draft7 {
		if _, ok := s.Keyword("$ref"); ok {
			s.baseURI = currentBase
			s.initialized = true
			return nil
		}
	}

	idName := "$id"
	if draft == Draft6 {
		idName = "id"
	}
	s.baseURI = currentBase
	if kw, ok := s.Keyword(idName); ok {
		if ik, ok := kw.(*idKeyword); ok {
			switch {
			case strings.HasPrefix(ik.uri, "#"):
				if draft != Draft6 && draft != Draft7 {
					return parseErrorf("/"+idName, "%s must not be a fragment-only reference", idName)
				}
				name := ik.uri[1:]
				if !anchorNamePattern.MatchString(name) {
					return parseErrorf("/"+idName, "plain-name fragment %q is not a valid anchor", ik.uri)
				}
				resourceRoot.setAnchor(name, s, false)
			default:
				resolved, err := resolveURI(currentBase, ik.uri)
				if err != nil {
					return parseErrorf("/"+idName, "cannot resolve %q against %q", ik.uri, currentBase)
				}
				s.baseURI = trimFragment(resolved)
				s.isResourceRoot = true
				if err := reg.Register(s.baseURI, s); err != nil {
					return err
				}
				resourceRoot = s
				currentBase = s.baseURI
			}
		}
	}

	if kw, ok := s.Keyword("$anchor"); ok {
		if ak, ok := kw.(*anchorKeyword); ok {
			resourceRoot.setAnchor(ak.name, s, false)
		}
	}
	if kw, ok := s.Keyword("$dynamicAnchor"); ok {
		if ak, ok := kw.(*anchorKeyword); ok {
			resourceRoot.setAnchor(ak.name, s, true)
		}
	}
	if kw, ok := s.Keyword("$recursiveAnchor"); ok {
		if rk, ok := kw.(*recursiveAnchorKeyword); ok && rk.value {
			resourceRoot.recursiveAnchor = s
		}
	}

	for _, kw := range s.keywords {
		for _, ref := range subschemasOf(kw) {
			if err := ref.schema.initialize(currentBase, resourceRoot, draft, reg); err != nil {
				return err
			}
		}
	}
	s.initialized = true
	return nil
}

// determineDraft resolves the specification version for this schema node.
// A recognized $schema identifier wins; a custom meta-schema is fetched and
// its own $schema chain followed with cycle detection; otherwise the caller
// supplied draft is inherited, falling back to the newest draft every
// locally-present keyword supports.
func (s *Schema) determineDraft(evaluatingAs Draft, reg *Registry) (Draft, error) {
	if kw, ok := s.Keyword("$schema"); ok {
		sk, ok := kw.(*schemaKeyword)
		if ok {
			return resolveMetaSchemaDraft(sk.uri, reg, map[string]bool{})
		}
	}
	if evaluatingAs != DraftUnspecified {
		return evaluatingAs, nil
	}
	supported := AllDrafts
	for _, kw := range s.keywords {
		if _, ok := kw.(*UnrecognizedKeyword); ok {
			continue
		}
		var set DraftSet
		for _, d := range []Draft{Draft6, Draft7, Draft201909, Draft202012, DraftNext} {
			if kw.SupportedBy(d) {
				set |= DraftSet(d)
			}
		}
		supported &= set
	}
	if newest := supported.Newest(); newest != DraftUnspecified {
		return newest, nil
	}
	return DraftNext, nil
}

func resolveMetaSchemaDraft(id string, reg *Registry, visited map[string]bool) (Draft, error) {
	if d, ok := DraftForMetaSchemaID(id); ok {
		return d, nil
	}
	key := trimFragment(id)
	if visited[key] {
		return DraftUnspecified, &SchemaError{
			Kind:    KindUnresolvableMetaSchema,
			Message: "meta-schema chain revisits an identifier",
			ID:      key,
		}
	}
	visited[key] = true
	if reg == nil {
		reg = GlobalRegistry()
	}
	meta, err := reg.Fetch(key)
	if err != nil {
		return DraftUnspecified, err
	}
	if meta == nil {
		return DraftUnspecified, &SchemaError{
			Kind:    KindUnresolvableMetaSchema,
			Message: "meta-schema cannot be resolved",
			ID:      key,
		}
	}
	kw, ok := meta.Keyword("$schema")
	if !ok {
		return DraftUnspecified, &SchemaError{
			Kind:    KindUnresolvableMetaSchema,
			Message: "custom meta-schema does not declare $schema",
			ID:      key,
		}
	}
	sk, ok := kw.(*schemaKeyword)
	if !ok {
		return DraftUnspecified, &SchemaError{
			Kind:    KindUnresolvableMetaSchema,
			Message: "custom meta-schema carries a malformed $schema",
			ID:      key,
		}
	}
	return resolveMetaSchemaDraft(sk.uri, reg, visited)
}
