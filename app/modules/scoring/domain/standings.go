package scoringdomain

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// Standing is a user's aggregated fantasy score within a tournament.
type Standing struct {
	UserID      uuid.UUID
	DisplayName string
	Score       int
	Rank        int // 1 is best; equal scores share a rank
}

// RankStandings orders standings ascending by score (worst first), keeping the
// input order for ties, and assigns competition ranks where the highest score is 1.
func RankStandings(in []Standing) []Standing {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b Standing) int {
		return cmp.Compare(a.Score, b.Score)
	})

	for i := len(out) - 1; i >= 0; i-- {
		if i < len(out)-1 && out[i].Score == out[i+1].Score {
			out[i].Rank = out[i+1].Rank
			continue
		}
		out[i].Rank = len(out) - i
	}
	return out
}
