package jsonschema

import (
	"fmt"
	"sync"
)

// Resolver loads a schema for an identifier the registry does not know.
// Returning (nil, nil) means the identifier is unknown to the resolver too.
type Resolver func(id string) (*Schema, error)

// Registry maps absolute identifiers to schema documents. It is the
// canonical store for cross-document references. All methods are safe for
// concurrent use.
type Registry struct {
	mu       sync.Mutex
	schemas  map[string]*Schema
	resolver Resolver
}

// NewRegistry returns a registry pre-populated with the built-in
// meta-schemas for every supported draft.
func NewRegistry() *Registry {
	r := &Registry{schemas: map[string]*Schema{}}
	for id, meta := range builtinMetaSchemas() {
		r.schemas[trimFragment(id)] = meta
	}
	return r
}

var (
	globalRegistryOnce sync.Once
	globalRegistry     *Registry
)

// GlobalRegistry returns the process-wide default registry. Tests that need
// isolation should pass a fresh registry through EvalOptions instead.
func GlobalRegistry() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// SetResolver installs a fallback resolver consulted by Fetch for unknown
// absolute identifiers.
func (r *Registry) SetResolver(res Resolver) {
	r.mu.Lock()
	r.resolver = res
	r.mu.Unlock()
}

// Register stores a schema under an absolute identifier. Registering the
// same identifier with a different schema fails with
// KindDuplicateRegistration; re-registering the same schema is a no-op.
func (r *Registry) Register(id string, s *Schema) error {
	key := trimFragment(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.schemas[key]; ok {
		if existing == s {
			return nil
		}
		return &SchemaError{
			Kind:    KindDuplicateRegistration,
			Message: "identifier is already registered to a different schema",
			ID:      key,
		}
	}
	r.schemas[key] = s
	return nil
}

// Get returns the schema registered under id, or nil.
func (r *Registry) Get(id string) *Schema {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.schemas[trimFragment(id)]
}

// Fetch returns the schema for id, invoking the resolver for unknown
// absolute identifiers. A schema obtained from the resolver is initialized
// and registered before it is returned.
func (r *Registry) Fetch(id string) (*Schema, error) {
	return r.fetch(id, nil)
}

func (r *Registry) fetch(id string, extra Resolver) (*Schema, error) {
	key := trimFragment(id)
	r.mu.Lock()
	s := r.schemas[key]
	resolver := r.resolver
	r.mu.Unlock()
	if s != nil {
		return s, nil
	}
	for _, res := range []Resolver{extra, resolver} {
		if res == nil {
			continue
		}
		fetched, err := res(key)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", key, err)
		}
		if fetched == nil {
			continue
		}
		// Register before initializing: initialization may follow a
		// meta-schema chain back to this document, and the lookup must
		// find it instead of resolving it again.
		r.mu.Lock()
		r.schemas[key] = fetched
		r.mu.Unlock()
		if err := fetched.initializeRoot(key, r); err != nil {
			r.mu.Lock()
			delete(r.schemas, key)
			r.mu.Unlock()
			return nil, err
		}
		return fetched, nil
	}
	return nil, nil
}

// builtinMetaSchemas returns permissive stand-ins for the published
// meta-schemas. Validating schemas against their meta-schema is out of
// scope; keyword values are checked structurally at parse time instead, so a
// reference to a meta-schema identifier only needs to resolve and accept.
func builtinMetaSchemas() map[string]*Schema {
	metaOnce.Do(func() {
		metaSchemas = map[string]*Schema{}
		for id, draft := range map[string]Draft{
			Draft6ID:      Draft6,
			Draft7ID:      Draft7,
			Draft201909ID: Draft201909,
			Draft202012ID: Draft202012,
			DraftNextID:   DraftNext,
		} {
			accept := true
			metaSchemas[id] = &Schema{
				boolValue:      &accept,
				baseURI:        trimFragment(id),
				isResourceRoot: true,
				declaredDraft:  draft,
				initialized:    true,
			}
		}
	})
	return metaSchemas
}

var (
	metaOnce    sync.Once
	metaSchemas map[string]*Schema
)
