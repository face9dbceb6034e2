package reconcile

import (
	"context"
	"sort"
	"time"
)

// Set holds the keys found in one source.
type Set map[string]struct{}

// Add inserts key.
func (s Set) Add(key string) {
	s[key] = struct{}{}
}

// Has reports whether key is present.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the keys in lexical order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Loader builds the set of one source.
type Loader func(ctx context.Context) (Set, error)

// Spec names the sources of one reconciliation.
type Spec struct {
	// Name keys the cache, usually the project path.
	Name string

	Exported  Loader
	Generated Loader
	// Published may be nil when no storage target is configured.
	Published Loader

	// CacheTTL is how long built indices are reused. Zero disables caching.
	CacheTTL time.Duration
}

// Publishing reports whether the spec has a storage source.
func (s *Spec) Publishing() bool {
	return s.Published != nil
}

// Result is the reconciliation output for a single key.
type Result struct {
	Key       string `json:"key"`
	Exported  bool   `json:"exported"`
	Generated bool   `json:"generated"`
	Published bool   `json:"published"`
}

// ActionType names a step that brings a key back in sync.
type ActionType string

const (
	// ActionGenerate rebuilds a DAT from its export.
	ActionGenerate ActionType = "generate"
	// ActionPublish uploads a generated DAT.
	ActionPublish ActionType = "publish"
	// ActionRemoveOrphan deletes a DAT whose export is gone.
	ActionRemoveOrphan ActionType = "remove_orphan"
)

// Action is one planned step.
type Action struct {
	Type   ActionType `json:"type"`
	Key    string     `json:"key"`
	Reason string     `json:"reason"`
}

// Summary counts the results of a plan.
type Summary struct {
	Total            int `json:"total"`
	Exported         int `json:"exported"`
	Generated        int `json:"generated"`
	Published        int `json:"published"`
	MissingGenerated int `json:"missing_generated"`
	MissingPublished int `json:"missing_published"`
	Orphaned         int `json:"orphaned"`
}

// Plan bundles results with the actions they call for.
type Plan struct {
	Results []Result `json:"results"`
	Actions []Action `json:"actions"`
	Summary Summary  `json:"summary"`
}
