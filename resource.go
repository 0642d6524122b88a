/*
Copyright © 2025 the windfarm authors.
This file is part of windfarm.

windfarm is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

windfarm is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with windfarm.  If not, see <http://www.gnu.org/licenses/>.
*/

package windfarm

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrResourceLength is returned when the frequency, scale, and shape
// sequences of a wind resource are empty or have different lengths.
var ErrResourceLength = errors.New("windfarm: wind resource frequency, scale, and shape must have the same non-zero length")

// WindResource is a directional wind-speed distribution: each direction
// sector has a probability of occurrence and a Weibull distribution of
// wind speed. Sector i is centred on the i'th evaluated wind direction.
type WindResource struct {
	// Frequency is the probability of the wind coming from each sector.
	// It sums to 1.
	Frequency []float64

	// Scale is the Weibull scale parameter (A) [m/s] in each sector.
	Scale []float64

	// Shape is the Weibull shape parameter (k) in each sector.
	Shape []float64

	// TurbulenceIntensity is the ambient turbulence intensity at the site.
	TurbulenceIntensity float64

	weibull []distuv.Weibull
}

// NewWindResource creates a new wind resource from parallel per-sector
// sequences of frequency, Weibull scale, and Weibull shape. The frequencies
// do not need to be normalized: they are divided by their sum.
// The input slices are copied.
func NewWindResource(frequency, scale, shape []float64, ti float64) (*WindResource, error) {
	n := len(frequency)
	if n == 0 || len(scale) != n || len(shape) != n {
		return nil, fmt.Errorf("%w (frequency=%d, scale=%d, shape=%d)",
			ErrResourceLength, len(frequency), len(scale), len(shape))
	}
	for i := 0; i < n; i++ {
		if frequency[i] < 0 {
			return nil, fmt.Errorf("windfarm: sector %d frequency %g is negative", i, frequency[i])
		}
		if !(scale[i] > 0) || !(shape[i] > 0) {
			return nil, fmt.Errorf("windfarm: sector %d Weibull parameters (A=%g, k=%g) must be positive",
				i, scale[i], shape[i])
		}
	}
	if ti < 0 {
		return nil, fmt.Errorf("windfarm: turbulence intensity %g is negative", ti)
	}
	f, err := Normalize(frequency)
	if err != nil {
		return nil, err
	}
	r := &WindResource{
		Frequency:           f,
		Scale:               append([]float64(nil), scale...),
		Shape:               append([]float64(nil), shape...),
		TurbulenceIntensity: ti,
		weibull:             make([]distuv.Weibull, n),
	}
	for i := range r.weibull {
		r.weibull[i] = distuv.Weibull{K: r.Shape[i], Lambda: r.Scale[i]}
	}
	return r, nil
}

// Normalize returns a copy of f divided by its sum.
func Normalize(f []float64) ([]float64, error) {
	sum := floats.Sum(f)
	if !(sum > 0) {
		return nil, fmt.Errorf("windfarm: frequencies sum to %g; they must sum to a positive number", sum)
	}
	out := make([]float64, len(f))
	floats.ScaleTo(out, 1/sum, f)
	return out, nil
}

// Sectors returns the number of direction sectors.
func (r *WindResource) Sectors() int { return len(r.Frequency) }

// SpeedProbability returns the probability that the wind speed in the
// given sector is greater than lo and less than or equal to hi.
func (r *WindResource) SpeedProbability(sector int, lo, hi float64) float64 {
	w := r.weibull[sector]
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return 0
	}
	return w.CDF(hi) - w.CDF(lo)
}

// MeanSpeed returns the mean wind speed [m/s] in the given sector.
func (r *WindResource) MeanSpeed(sector int) float64 {
	return r.weibull[sector].Mean()
}
