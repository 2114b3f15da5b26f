package scoringdomain

import "math"

// BasePoints maps a finishing placement to unweighted fantasy points.
func BasePoints(placement int) int {
	switch {
	case placement <= 0:
		return 0
	case placement == 1:
		return 100
	case placement == 2:
		return 85
	case placement == 3:
		return 75
	case placement == 4:
		return 69
	case placement == 5:
		return 64
	case placement == 6:
		return 60
	case placement == 7:
		return 57
	case placement <= 20:
		return 54 - 2*(placement-8)
	case placement <= 48:
		return 50 - placement
	case placement <= 50:
		return 2
	default:
		return 0
	}
}

// Score applies a competition level weight to the base points, rounding half away from zero.
func Score(placement int, levelWeight float64) int {
	return int(math.Round(float64(BasePoints(placement)) * levelWeight))
}
