package store

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Find returns entries whose title or original query fuzzily contains term,
// closest matches first.
func (s *Store) Find(ctx context.Context, term string) ([]Entry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return rankEntries(all, term), nil
}

func rankEntries(entries []Entry, term string) []Entry {
	targets := make([]string, 0, len(entries)*2)
	owners := make([]int, 0, len(entries)*2)
	for i, entry := range entries {
		targets = append(targets, entry.Record.Title)
		owners = append(owners, i)
		if q := strings.TrimSpace(entry.Record.Query); q != "" && !strings.EqualFold(q, entry.Record.Title) {
			targets = append(targets, q)
			owners = append(owners, i)
		}
	}

	ranks := fuzzy.RankFindFold(term, targets)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return owners[ranks[i].OriginalIndex] < owners[ranks[j].OriginalIndex]
	})

	seen := make(map[int]bool, len(ranks))
	var out []Entry
	for _, r := range ranks {
		idx := owners[r.OriginalIndex]
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, entries[idx])
	}
	return out
}
