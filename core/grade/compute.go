package grade

import (
	"math"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// Weights of the three cortes in the final grade.
const (
	WeightCorte1 = 0.30
	WeightCorte2 = 0.35
	WeightCorte3 = 0.35

	MinScore = 0.0
	MaxScore = 5.0
)

var errScoreOutOfRange = errors.Errorf("scores must be between %.1f and %.1f", MinScore, MaxScore)

// ComputeFinal returns the weighted final grade rounded to 2 decimal
// places, or an absent value unless all three cortes are present.
func ComputeFinal(corte1, corte2, corte3 null.Float64) null.Float64 {
	if !(corte1.Valid && corte2.Valid && corte3.Valid) {
		return null.Float64{}
	}
	final := WeightCorte1*corte1.Float64 + WeightCorte2*corte2.Float64 + WeightCorte3*corte3.Float64
	return null.Float64From(math.Round(final*100) / 100)
}

// ValidPartial reports whether a corte value lies in the accepted range.
func ValidPartial(value float64) bool {
	return value >= MinScore && value <= MaxScore
}
