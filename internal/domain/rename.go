package domain

import (
	"sort"
	"strings"

	"github.com/fatih/camelcase"
)

// NameSet holds every case variant of a project name. Variants are derived
// from the word list of the input, so "my_cool_lib" and "MyCoolLib" produce
// the same set.
type NameSet struct {
	Snake     string // my_cool_lib
	Pascal    string // MyCoolLib
	AdaPascal string // My_Cool_Lib
	Upper     string // MY_COOL_LIB
}

// NewNameSet splits name into words (underscores, hyphens, and camel-case
// boundaries all delimit) and builds the case variants.
func NewNameSet(name string) NameSet {
	words := splitWords(name)
	if len(words) == 0 {
		return NameSet{}
	}

	lower := make([]string, len(words))
	title := make([]string, len(words))
	upper := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
		title[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		upper[i] = strings.ToUpper(w)
	}

	return NameSet{
		Snake:     strings.Join(lower, "_"),
		Pascal:    strings.Join(title, ""),
		AdaPascal: strings.Join(title, "_"),
		Upper:     strings.Join(upper, "_"),
	}
}

func splitWords(name string) []string {
	var words []string
	for _, chunk := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}) {
		for _, w := range camelcase.Split(chunk) {
			if w != "" {
				words = append(words, w)
			}
		}
	}
	return words
}

// Replacement is a single old→new substring substitution.
type Replacement struct {
	Old string
	New string
}

// ReplacementSet is an ordered list of substitutions. Order is significant:
// longer patterns run first so that composite variants (My_Cool_Lib) are not
// mangled by their shorter components (my_cool_lib would otherwise never
// match, but MyCoolLib inside a longer token could).
type ReplacementSet struct {
	pairs []Replacement
}

// NewReplacementSet builds the substitution list mapping every case variant
// of old to the matching variant of new, longest pattern first. Duplicate
// variants (single-word names collapse Pascal and AdaPascal) appear once.
func NewReplacementSet(old, new NameSet) ReplacementSet {
	candidates := []Replacement{
		{old.AdaPascal, new.AdaPascal},
		{old.Pascal, new.Pascal},
		{old.Upper, new.Upper},
		{old.Snake, new.Snake},
	}

	seen := make(map[string]bool)
	var pairs []Replacement
	for _, c := range candidates {
		if c.Old == "" || seen[c.Old] {
			continue
		}
		seen[c.Old] = true
		pairs = append(pairs, c)
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return len(pairs[i].Old) > len(pairs[j].Old)
	})

	return ReplacementSet{pairs: pairs}
}

// Pairs returns the ordered substitutions.
func (r ReplacementSet) Pairs() []Replacement {
	return r.pairs
}

// Apply runs every substitution over s in order. Applying the result a
// second time is a no-op as long as no new-side value contains an old-side
// pattern.
func (r ReplacementSet) Apply(s string) string {
	for _, p := range r.pairs {
		s = strings.ReplaceAll(s, p.Old, p.New)
	}
	return s
}

// Changed reports whether Apply would modify s.
func (r ReplacementSet) Changed(s string) bool {
	for _, p := range r.pairs {
		if strings.Contains(s, p.Old) {
			return true
		}
	}
	return false
}
