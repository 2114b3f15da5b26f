package scoringdomain

import (
	"fmt"
	"math"
	"strings"
)

// LevelWeights maps a competition level to its score multiplier.
type LevelWeights struct {
	weights       map[string]float64
	defaultWeight float64
}

// NewLevelWeights validates a level table. Level names are case-insensitive.
func NewLevelWeights(table map[string]float64, defaultWeight float64) (LevelWeights, error) {
	if err := validWeight(defaultWeight); err != nil {
		return LevelWeights{}, fmt.Errorf("default weight: %w", err)
	}
	weights := make(map[string]float64, len(table))
	for level, w := range table {
		if err := validWeight(w); err != nil {
			return LevelWeights{}, fmt.Errorf("level %q: %w", level, err)
		}
		weights[normalizeLevel(level)] = w
	}
	return LevelWeights{weights: weights, defaultWeight: defaultWeight}, nil
}

// For returns the weight for level and whether the level was configured.
// Unknown levels fall back to the default weight.
func (lw LevelWeights) For(level string) (float64, bool) {
	if w, ok := lw.weights[normalizeLevel(level)]; ok {
		return w, true
	}
	return lw.defaultWeight, false
}

func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

func validWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return fmt.Errorf("weight must be a finite non-negative number, got %v", w)
	}
	return nil
}
