// Package lexicon maps keywords and phrases to transaction categories.
//
// The index is built once from category configuration and is read-only
// afterwards, so it is safe for concurrent use. Matching is deliberately
// first-match over an ordered entry list, not best-match: downstream
// behavior depends on registration order being stable.
package lexicon

import (
	"log/slog"
	"strings"

	"finchat/internal/core"
)

// Entry binds a single normalized keyword to its category.
type Entry struct {
	Keyword  string
	Category core.Category
}

// Index is an ordered keyword → category mapping.
type Index struct {
	entries []Entry
	byWord  map[string]int // keyword → index into entries, first writer wins
}

// New builds an index from categories in order. Keywords are trimmed and
// lowercased. A keyword already claimed by an earlier category is skipped;
// intended precedence for duplicates is unspecified upstream, so the first
// registration wins and the collision is logged.
func New(categories []core.Category) *Index {
	idx := &Index{byWord: make(map[string]int)}

	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if prev, dup := idx.byWord[kw]; dup {
				if idx.entries[prev].Category.ID != cat.ID {
					slog.Warn("Duplicate lexicon keyword, keeping first registration",
						"keyword", kw,
						"kept_category", idx.entries[prev].Category.Name,
						"skipped_category", cat.Name)
				}
				continue
			}
			idx.byWord[kw] = len(idx.entries)
			idx.entries = append(idx.entries, Entry{Keyword: kw, Category: cat})
		}
	}

	return idx
}

// Len returns the number of registered keywords.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Lookup returns the category for an exact single-token keyword.
func (idx *Index) Lookup(word string) (core.Category, bool) {
	i, ok := idx.byWord[strings.ToLower(word)]
	if !ok {
		return core.Category{}, false
	}
	return idx.entries[i].Category, true
}

// ScanPhrases returns the first registered keyword that occurs as a
// substring of the lowercased message.
func (idx *Index) ScanPhrases(message string) (core.Category, bool) {
	message = strings.ToLower(message)
	for _, e := range idx.entries {
		if strings.Contains(message, e.Keyword) {
			return e.Category, true
		}
	}
	return core.Category{}, false
}

// Match resolves a message to a category using the two-phase policy:
// whitespace tokens are scanned left-to-right for an exact keyword first,
// and only if no token hits are multi-word phrases tried as substrings.
func (idx *Index) Match(message string) (core.Category, bool) {
	for _, word := range strings.Fields(strings.ToLower(message)) {
		if cat, ok := idx.Lookup(word); ok {
			return cat, true
		}
	}
	return idx.ScanPhrases(message)
}
