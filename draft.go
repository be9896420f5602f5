package jsonschema

// Draft identifies a published JSON Schema specification version.
type Draft uint8

const (
	DraftUnspecified Draft = 0
	Draft6           Draft = 1 << iota
	Draft7
	Draft201909
	Draft202012
	DraftNext
)

// DraftSet is a bit set of drafts, used by keywords to declare support.
type DraftSet uint8

// AllDrafts covers every supported version.
const AllDrafts = DraftSet(Draft6 | Draft7 | Draft201909 | Draft202012 | DraftNext)

// Drafts from 2019-09 onward, where anchors and vocabularies exist.
const modernDrafts = DraftSet(Draft201909 | Draft202012 | DraftNext)

// Contains reports whether d is a member of the set.
func (s DraftSet) Contains(d Draft) bool {
	return d != DraftUnspecified && DraftSet(d)&s != 0
}

// Newest returns the most recent member of the set, or DraftUnspecified for
// the empty set.
func (s DraftSet) Newest() Draft {
	for _, d := range []Draft{DraftNext, Draft202012, Draft201909, Draft7, Draft6} {
		if s.Contains(d) {
			return d
		}
	}
	return DraftUnspecified
}

func (d Draft) String() string {
	switch d {
	case Draft6:
		return "draft-06"
	case Draft7:
		return "draft-07"
	case Draft201909:
		return "draft/2019-09"
	case Draft202012:
		return "draft/2020-12"
	case DraftNext:
		return "draft/next"
	}
	return "unspecified"
}

// Meta-schema identifiers recognized by the engine.
const (
	Draft6ID      = "http://json-schema.org/draft-06/schema#"
	Draft7ID      = "http://json-schema.org/draft-07/schema#"
	Draft201909ID = "https://json-schema.org/draft/2019-09/schema"
	Draft202012ID = "https://json-schema.org/draft/2020-12/schema"
	DraftNextID   = "https://json-schema.org/draft/next/schema"
)

var draftByMetaSchemaID = map[string]Draft{
	Draft6ID:                      Draft6,
	trimFragment(Draft6ID):        Draft6,
	Draft7ID:                      Draft7,
	trimFragment(Draft7ID):        Draft7,
	Draft201909ID:                 Draft201909,
	Draft201909ID + "#":           Draft201909,
	Draft202012ID:                 Draft202012,
	Draft202012ID + "#":           Draft202012,
	DraftNextID:                   DraftNext,
	DraftNextID + "#":             DraftNext,
}

// DraftForMetaSchemaID maps a meta-schema identifier to its draft. The second
// return is false for custom meta-schemas.
func DraftForMetaSchemaID(id string) (Draft, bool) {
	d, ok := draftByMetaSchemaID[id]
	return d, ok
}
