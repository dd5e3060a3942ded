package markdown

// Feature is a bitmask of optional markdown dialect behaviors. Features
// are passed through opaquely to the tokenizer; the importer itself is
// dialect-agnostic.
type Feature uint

// Optional dialect behaviors.
const (
	FeatureTables Feature = 1 << iota
	FeatureTaskLists
	FeatureStrikethrough
	FeaturePermissiveAutoLinks
	FeatureHardBreaks // treat a single newline as a hard line break
	FeatureNoHTML     // raw HTML becomes literal text
)

// Dialect presets.
const (
	DialectCommonMark Feature = 0
	DialectGitHub             = FeatureTables | FeatureTaskLists |
		FeatureStrikethrough | FeaturePermissiveAutoLinks
)

// Has tests a single feature flag.
func (f Feature) Has(flag Feature) bool {
	return f&flag != 0
}
