package core

import (
	"sort"
	"strings"
)

// AnalysisKind identifies a supported analysis family.
type AnalysisKind string

const (
	KindFactorAnalysis  AnalysisKind = "fa"
	KindGaussianMixture AnalysisKind = "gm"
	KindIRT             AnalysisKind = "irt"
	KindCDM             AnalysisKind = "cdm"
)

// knownKinds is the closed set of analysis kinds. Adding a kind means adding
// a case here and registering its handlers.
var knownKinds = map[AnalysisKind]string{
	KindFactorAnalysis:  "Factor analysis",
	KindGaussianMixture: "Gaussian mixture model",
	KindIRT:             "Item response theory",
	KindCDM:             "Cognitive diagnosis model",
}

var kindAliases = map[string]AnalysisKind{
	"fa":              KindFactorAnalysis,
	"efa":             KindFactorAnalysis,
	"factor":          KindFactorAnalysis,
	"factor_analysis": KindFactorAnalysis,
	"gm":              KindGaussianMixture,
	"gmm":             KindGaussianMixture,
	"mixture":         KindGaussianMixture,
	"mclust":          KindGaussianMixture,
	"irt":             KindIRT,
	"cdm":             KindCDM,
}

// ParseKind resolves a user supplied identifier (including aliases) to an
// AnalysisKind. Unknown identifiers are returned verbatim with ok=false so
// callers can produce a descriptive error.
func ParseKind(s string) (AnalysisKind, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if k, ok := kindAliases[key]; ok {
		return k, true
	}
	return AnalysisKind(s), false
}

// IsKnown reports whether the kind belongs to the closed enumeration.
func (k AnalysisKind) IsKnown() bool {
	_, ok := knownKinds[k]
	return ok
}

// Label returns a human readable name for the kind.
func (k AnalysisKind) Label() string {
	if label, ok := knownKinds[k]; ok {
		return label
	}
	return string(k)
}

// ComponentNoun returns the noun used for a component of this kind.
func (k AnalysisKind) ComponentNoun() string {
	switch k {
	case KindGaussianMixture:
		return "Cluster"
	case KindIRT:
		return "Item"
	case KindCDM:
		return "Attribute"
	default:
		return "Factor"
	}
}

// KnownKinds returns all enumerated kinds sorted by identifier.
func KnownKinds() []AnalysisKind {
	kinds := make([]AnalysisKind, 0, len(knownKinds))
	for k := range knownKinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
