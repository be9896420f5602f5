package jsonschema

// Keyword priorities. Lower runs first: identifiers and definitions carry no
// evaluators but must exist before references resolve; primary applicators
// run before the keywords that consume their annotations; unevaluated*
// always run last.
const (
	prioIdentifier  = -20
	prioDefinitions = -15
	prioReference   = -10
	prioAssertion   = 0
	prioApplicator  = 10
	prioSecondary   = 20
	prioUnevaluated = 30
)

const legacyDrafts = DraftSet(Draft6 | Draft7)

func init() {
	// Core keywords.
	RegisterKeyword("$schema", prioIdentifier, AllDrafts, parseSchemaKeyword)
	RegisterKeyword("$id", prioIdentifier, AllDrafts&^DraftSet(Draft6), parseIDKeyword("$id"))
	RegisterKeyword("id", prioIdentifier, DraftSet(Draft6), parseIDKeyword("id"))
	RegisterKeyword("$anchor", prioIdentifier, modernDrafts, parseAnchorKeyword("$anchor"))
	RegisterKeyword("$dynamicAnchor", prioIdentifier, DraftSet(Draft202012|DraftNext), parseAnchorKeyword("$dynamicAnchor"))
	RegisterKeyword("$recursiveAnchor", prioIdentifier, DraftSet(Draft201909), parseRecursiveAnchor)
	RegisterKeyword("$vocabulary", prioIdentifier, modernDrafts, parseVocabularyKeyword)
	RegisterKeyword("$comment", prioIdentifier, AllDrafts&^DraftSet(Draft6), parseCommentKeyword)
	RegisterKeyword("$defs", prioDefinitions, modernDrafts, parseDefsKeyword("$defs"))
	RegisterKeyword("definitions", prioDefinitions, AllDrafts, parseDefsKeyword("definitions"))
	RegisterKeyword("$ref", prioReference, AllDrafts, parseRefKeyword)
	RegisterKeyword("$dynamicRef", prioReference, DraftSet(Draft202012|DraftNext), parseDynamicRefKeyword)
	RegisterKeyword("$recursiveRef", prioReference, DraftSet(Draft201909), parseRecursiveRefKeyword)

	// Assertions.
	RegisterKeyword("type", prioAssertion, AllDrafts, parseTypeKeyword)
	RegisterKeyword("enum", prioAssertion, AllDrafts, parseEnumKeyword)
	RegisterKeyword("const", prioAssertion, AllDrafts, parseConstKeyword)
	RegisterKeyword("multipleOf", prioAssertion, AllDrafts, parseMultipleOf)
	RegisterKeyword("maximum", prioAssertion, AllDrafts, parseNumberLimit("maximum"))
	RegisterKeyword("exclusiveMaximum", prioAssertion, AllDrafts, parseNumberLimit("exclusiveMaximum"))
	RegisterKeyword("minimum", prioAssertion, AllDrafts, parseNumberLimit("minimum"))
	RegisterKeyword("exclusiveMinimum", prioAssertion, AllDrafts, parseNumberLimit("exclusiveMinimum"))
	RegisterKeyword("maxLength", prioAssertion, AllDrafts, parseLengthLimit("maxLength"))
	RegisterKeyword("minLength", prioAssertion, AllDrafts, parseLengthLimit("minLength"))
	RegisterKeyword("pattern", prioAssertion, AllDrafts, parsePatternKeyword)
	RegisterKeyword("maxItems", prioAssertion, AllDrafts, parseLengthLimit("maxItems"))
	RegisterKeyword("minItems", prioAssertion, AllDrafts, parseLengthLimit("minItems"))
	RegisterKeyword("uniqueItems", prioAssertion, AllDrafts, parseUniqueItems)
	RegisterKeyword("maxProperties", prioAssertion, AllDrafts, parseLengthLimit("maxProperties"))
	RegisterKeyword("minProperties", prioAssertion, AllDrafts, parseLengthLimit("minProperties"))
	RegisterKeyword("required", prioAssertion, AllDrafts, parseRequiredKeyword)
	RegisterKeyword("dependentRequired", prioAssertion, modernDrafts, parseDependentRequired)
	RegisterKeyword("format", prioAssertion, AllDrafts, parseFormatKeyword)

	// Applicators. contains runs with the primary applicators so that
	// maxContains/minContains can consume its annotation.
	RegisterKeyword("allOf", prioApplicator, AllDrafts, parseSchemaList("allOf"))
	RegisterKeyword("anyOf", prioApplicator, AllDrafts, parseSchemaList("anyOf"))
	RegisterKeyword("oneOf", prioApplicator, AllDrafts, parseSchemaList("oneOf"))
	RegisterKeyword("not", prioApplicator, AllDrafts, parseSingleSchema("not"))
	RegisterKeyword("if", prioApplicator, AllDrafts&^DraftSet(Draft6), parseSingleSchema("if"))
	RegisterKeyword("then", prioSecondary, AllDrafts&^DraftSet(Draft6), parseSingleSchema("then"))
	RegisterKeyword("else", prioSecondary, AllDrafts&^DraftSet(Draft6), parseSingleSchema("else"))
	RegisterKeyword("properties", prioApplicator, AllDrafts, parsePropertiesKeyword)
	RegisterKeyword("patternProperties", prioApplicator, AllDrafts, parsePatternProperties)
	RegisterKeyword("additionalProperties", prioSecondary, AllDrafts, parseAdditionalProperties)
	RegisterKeyword("propertyNames", prioApplicator, AllDrafts, parseSingleSchema("propertyNames"))
	RegisterKeyword("items", prioApplicator, AllDrafts, parseItemsKeyword)
	RegisterKeyword("prefixItems", prioApplicator, DraftSet(Draft202012|DraftNext), parsePrefixItems)
	RegisterKeyword("additionalItems", prioSecondary, legacyDrafts|DraftSet(Draft201909), parseAdditionalItems)
	RegisterKeyword("contains", prioApplicator, AllDrafts, parseContains)
	RegisterKeyword("maxContains", prioSecondary, modernDrafts, parseContainsLimit("maxContains"))
	RegisterKeyword("minContains", prioSecondary, modernDrafts, parseContainsLimit("minContains"))
	RegisterKeyword("dependentSchemas", prioApplicator, modernDrafts, parseDependentSchemas)
	RegisterKeyword("dependencies", prioApplicator, legacyDrafts, parseDependencies)
	RegisterKeyword("unevaluatedItems", prioUnevaluated, modernDrafts, parseUnevaluatedItems)
	RegisterKeyword("unevaluatedProperties", prioUnevaluated, modernDrafts, parseUnevaluatedProperties)

	// Annotations.
	RegisterKeyword("title", prioAssertion, AllDrafts, parseAnnotationKeyword("title", isString, "a string"))
	RegisterKeyword("description", prioAssertion, AllDrafts, parseAnnotationKeyword("description", isString, "a string"))
	RegisterKeyword("default", prioAssertion, AllDrafts, parseAnnotationKeyword("default", nil, ""))
	RegisterKeyword("deprecated", prioAssertion, modernDrafts, parseAnnotationKeyword("deprecated", isBool, "a boolean"))
	RegisterKeyword("readOnly", prioAssertion, AllDrafts&^DraftSet(Draft6), parseAnnotationKeyword("readOnly", isBool, "a boolean"))
	RegisterKeyword("writeOnly", prioAssertion, AllDrafts&^DraftSet(Draft6), parseAnnotationKeyword("writeOnly", isBool, "a boolean"))
	RegisterKeyword("examples", prioAssertion, AllDrafts, parseAnnotationKeyword("examples", isArray, "an array"))
	RegisterKeyword("contentMediaType", prioAssertion, AllDrafts&^DraftSet(Draft6), parseAnnotationKeyword("contentMediaType", isString, "a string"))
	RegisterKeyword("contentEncoding", prioAssertion, AllDrafts&^DraftSet(Draft6), parseAnnotationKeyword("contentEncoding", isString, "a string"))
}
