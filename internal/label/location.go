package label

import "strings"

// Layout identifies which storage key generation an annotation lives under.
//
// The current layout stores one object per user subdirectory:
//
//	{annotationsPath}/{userId}/{sampleId}.json
//
// The legacy layout predates per-user subdirectories and stored flat files:
//
//	{annotationsPath}/{sampleId}_{userId}.json
//
// Both layouts are valid sources of truth for reads. Writes only ever use
// the current layout, and legacy objects are never deleted.
type Layout int

const (
	LayoutCurrent Layout = iota
	LayoutLegacy
)

func (l Layout) String() string {
	switch l {
	case LayoutCurrent:
		return "current"
	case LayoutLegacy:
		return "legacy"
	}
	return "unknown"
}

// Location is a resolved annotation address: the layout it belongs to, the
// full storage key, and the sanitized identifiers recovered from the key.
// Producing Locations in one place keeps the migration logic out of the
// individual store operations.
type Location struct {
	Layout   Layout
	Key      string
	SampleID string
	UserID   string
}

// keyspace builds and parses annotation keys under one annotations prefix.
type keyspace struct {
	annotationsPath string
}

// currentKey returns the current-layout key for already-sanitized identifiers.
func (k keyspace) currentKey(sampleID, userID string) string {
	return k.annotationsPath + "/" + userID + "/" + sampleID + ".json"
}

// legacyKey returns the legacy-layout key for already-sanitized identifiers.
func (k keyspace) legacyKey(sampleID, userID string) string {
	return k.annotationsPath + "/" + sampleID + "_" + userID + ".json"
}

// prefix returns the listing prefix covering both layouts.
func (k keyspace) prefix() string {
	return k.annotationsPath + "/"
}

// userPrefix returns the listing prefix for one user's current-layout
// subdirectory.
func (k keyspace) userPrefix(userID string) string {
	return k.annotationsPath + "/" + userID + "/"
}

// classify parses a key found under the annotations prefix into a Location.
// Keys that match neither layout (unrelated objects, partial writes, deeper
// nesting) return ok=false and are ignored by scans, not treated as errors.
func (k keyspace) classify(key string) (Location, bool) {
	rel, found := strings.CutPrefix(key, k.prefix())
	if !found || rel == "" {
		return Location{}, false
	}

	if idx := strings.IndexByte(rel, '/'); idx >= 0 {
		// Current layout: exactly two segments, the leaf named
		// {sampleId}.json.
		userID, leaf := rel[:idx], rel[idx+1:]
		if userID == "" || strings.ContainsRune(leaf, '/') {
			return Location{}, false
		}
		sampleID, found := strings.CutSuffix(leaf, ".json")
		if !found || sampleID == "" {
			return Location{}, false
		}
		return Location{Layout: LayoutCurrent, Key: key, SampleID: sampleID, UserID: userID}, true
	}

	// Legacy layout: {sampleId}_{userId}.json in a single segment. Sample
	// IDs may themselves contain underscores, so the user ID is everything
	// after the LAST underscore.
	name, found := strings.CutSuffix(rel, ".json")
	if !found || name == "" {
		return Location{}, false
	}
	idx := strings.LastIndexByte(name, '_')
	if idx <= 0 || idx == len(name)-1 {
		return Location{}, false
	}
	return Location{Layout: LayoutLegacy, Key: key, SampleID: name[:idx], UserID: name[idx+1:]}, true
}
