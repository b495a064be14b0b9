// Package daylight models the share of peak photovoltaic output available in each time slot.
package daylight

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"plugsim/backend/libs/random"
)

// DefaultScale is the standard deviation of the Gaussian behind the morning samples.
const DefaultScale = 0.4

// Curve holds one weight per time slot. The first half rises monotonically towards solar noon
// and the second half mirrors it, so w[i] == w[len-1-i].
type Curve []float64

// NewCurve draws slots/2 half-normal samples |N(0, scale)|, sorts them ascending for the
// morning and appends the reverse for the afternoon. slots must be even.
func NewCurve(src random.Source, slots int, scale float64) (Curve, error) {
	if slots <= 0 || slots%2 != 0 {
		return nil, fmt.Errorf("daylight: slot count must be positive and even, got %d", slots)
	}
	if scale <= 0 {
		return nil, errors.New("daylight: scale must be positive")
	}

	half := slots / 2
	morning := make([]float64, half)
	for i := range morning {
		morning[i] = math.Abs(src.Normal(0, scale))
	}
	sort.Float64s(morning)

	curve := make(Curve, slots)
	copy(curve, morning)
	for i, w := range morning {
		curve[slots-1-i] = w
	}
	return curve, nil
}

// Apply scales each counter by the weight of slot i.
func (c Curve) Apply(i int, counters [3]float64) [3]float64 {
	w := c[i]
	return [3]float64{counters[0] * w, counters[1] * w, counters[2] * w}
}
