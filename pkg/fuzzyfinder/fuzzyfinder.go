package fuzzyfinder

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

type Rank struct {
	// Source is used as the source for matching.
	Source string

	// Target is the word matched against.
	Target string

	// Distance is the Levenshtein distance between Source and Target.
	Distance int

	// Location of Target in original list
	OriginalIndex int
}

// RankFind returns the keys containing query as a fuzzy match, closest first.
func RankFind(keys []string, query string) []Rank {
	return convert(fuzzy.RankFind(query, keys))
}

// RankFindFold is RankFind ignoring case.
func RankFindFold(keys []string, query string) []Rank {
	return convert(fuzzy.RankFindFold(query, keys))
}

func convert(ranksLib fuzzy.Ranks) []Rank {
	sort.Stable(ranksLib)
	ranks := make([]Rank, ranksLib.Len())
	for i, r := range ranksLib {
		ranks[i] = Rank{
			Source:        r.Source,
			Target:        r.Target,
			Distance:      r.Distance,
			OriginalIndex: r.OriginalIndex,
		}
	}
	return ranks
}
