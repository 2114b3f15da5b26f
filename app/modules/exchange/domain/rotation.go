package exchangedomain

import (
	"cmp"
	"slices"
	"time"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	"github.com/google/uuid"
)

// Turn is one user's place in the rotation.
type Turn struct {
	UserID   uuid.UUID
	OpensAt  time.Time
	Eligible bool
}

// SimulateRotation hands out one turn per user, worst score first (ties keep
// standings order), starting at windowStart. A turn is eligible once it opens
// at or before now.
func SimulateRotation(standings []scoringdomain.Standing, windowStart, now time.Time, loc *time.Location) []Turn {
	order := slices.Clone(standings)
	slices.SortStableFunc(order, func(a, b scoringdomain.Standing) int {
		return cmp.Compare(a.Score, b.Score)
	})

	turns := make([]Turn, 0, len(order))
	opens := windowStart
	for i, st := range order {
		if i > 0 {
			opens = NextWindow(opens, loc)
		}
		turns = append(turns, Turn{
			UserID:   st.UserID,
			OpensAt:  opens,
			Eligible: !opens.After(now),
		})
	}
	return turns
}
