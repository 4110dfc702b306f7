// Package filter narrows the search results and the locker down to the
// entries matching a typed query. It never changes the underlying lists.
package filter

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/locker/internal/domain"
)

// Match is one filtered entry with highlighting positions
type Match struct {
	Item           domain.Thumbnail
	Index          int   // Index in the input slice
	MatchedIndexes []int // Rune positions in Item.Title that matched
	Score          int   // Higher is better
}

// Index implements sahilm/fuzzy.Source over lower-cased titles
type Index struct {
	items       []domain.Thumbnail
	lowerTitles []string
}

// NewIndex pre-computes the lower-cased titles of items
func NewIndex(items []domain.Thumbnail) *Index {
	lower := make([]string, len(items))
	for i, it := range items {
		lower[i] = strings.ToLower(it.Title)
	}
	return &Index{items: items, lowerTitles: lower}
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of items (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.items) }

// Fuzzy returns the items whose title matches query, best match first.
// An empty query matches everything in input order.
func Fuzzy(query string, items []domain.Thumbnail) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		all := make([]Match, len(items))
		for i, it := range items {
			all[i] = Match{Item: it, Index: i}
		}
		return all
	}

	idx := NewIndex(items)
	found := fuzzy.FindFrom(strings.ToLower(query), idx)

	matches := make([]Match, len(found))
	for i, m := range found {
		matches[i] = Match{
			Item:           items[m.Index],
			Index:          m.Index,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return matches
}

// Indexes returns only the input positions of Fuzzy's matches
func Indexes(query string, items []domain.Thumbnail) []int {
	matches := Fuzzy(query, items)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

// Rank orders the items whose title contains the query's characters in order,
// closest first by Levenshtein distance. Matching ignores case and diacritics.
// An empty query returns items unchanged.
func Rank(query string, items []domain.Thumbnail) []domain.Thumbnail {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}

	ranks := lfuzzy.RankFindNormalizedFold(query, titles)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]domain.Thumbnail, len(ranks))
	for i, r := range ranks {
		out[i] = items[r.OriginalIndex]
	}
	return out
}
