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
	"math"
	"sort"
)

// WakeModel calculates the wind speed at each turbine after the
// speed deficits caused by the wakes of upstream turbines.
type WakeModel interface {
	// EffectiveSpeeds sets dst[i] to the wind speed [m/s] at turbine i
	// located at (x[i], y[i]) when the free-stream wind comes from direction
	// wd (degrees clockwise from north) with speed ws [m/s]. All turbines use
	// the same power curve. EffectiveSpeeds must not retain or modify
	// x or y.
	EffectiveSpeeds(dst, x, y []float64, wd, ws float64, curve PowerCurve, diameter float64)
}

// NoWake is a WakeModel in which turbines do not interact.
type NoWake struct{}

// EffectiveSpeeds implements WakeModel.
func (NoWake) EffectiveSpeeds(dst, x, y []float64, wd, ws float64, curve PowerCurve, diameter float64) {
	for i := range dst {
		dst[i] = ws
	}
}

// BastankhahGaussian is the self-similar Gaussian wake deficit model of
//
// Bastankhah, M., & Porté-Agel, F. (2014). A new analytical model for
// wind-turbine wakes. Renewable Energy, 70, 116–123.
// http://doi.org/10.1016/j.renene.2014.01.002
//
// Deficits from multiple upstream turbines are combined as the root of
// the sum of squares.
type BastankhahGaussian struct {
	// K is the wake expansion rate. If K is zero, it is calculated from
	// TurbulenceIntensity following Niayifar & Porté-Agel (2016):
	// K = 0.3837 TI + 0.003837.
	K float64

	// TurbulenceIntensity is the ambient turbulence intensity, which is
	// only used when K is zero.
	TurbulenceIntensity float64
}

// expansion returns the wake expansion rate.
func (b BastankhahGaussian) expansion() float64 {
	if b.K != 0 {
		return b.K
	}
	return 0.3837*b.TurbulenceIntensity + 0.003837
}

// maxCT keeps the near-wake terms finite.
const maxCT = 0.9999

// Deficit returns the wind-speed deficit [m/s] at a point a distance
// downwind [m] downstream and crosswind [m] to the side of a turbine
// with rotor diameter d [m] and thrust coefficient ct in a free
// stream of speed ws [m/s].
func (b BastankhahGaussian) Deficit(downwind, crosswind, d, ct, ws float64) float64 {
	if downwind <= 0 {
		return 0
	}
	ct = math.Min(ct, maxCT)
	sqrt1mCT := math.Sqrt(1 - ct)
	beta := 0.5 * (1 + sqrt1mCT) / sqrt1mCT
	epsilon := 0.2 * math.Sqrt(beta)
	sigmaD := b.expansion()*downwind/d + epsilon // σ/D
	c := 1 - math.Sqrt(math.Max(0, 1-ct/(8*sigmaD*sigmaD)))
	r := crosswind / d
	return ws * c * math.Exp(-r*r/(2*sigmaD*sigmaD))
}

// EffectiveSpeeds implements WakeModel.
func (b BastankhahGaussian) EffectiveSpeeds(dst, x, y []float64, wd, ws float64, curve PowerCurve, diameter float64) {
	n := len(x)
	theta := wd * math.Pi / 180
	// (ux, uy) is the unit vector the wind blows toward.
	ux, uy := -math.Sin(theta), -math.Cos(theta)

	// Process the turbines from upstream to downstream so that the thrust
	// of every wake-generating turbine is known before it is needed.
	order := make([]int, n)
	along := make([]float64, n)
	for i := range order {
		order[i] = i
		along[i] = x[i]*ux + y[i]*uy
	}
	sort.SliceStable(order, func(a, b int) bool { return along[order[a]] < along[order[b]] })

	ct := make([]float64, n)
	for oj, j := range order {
		var sumSq float64
		for _, i := range order[:oj] {
			dx, dy := x[j]-x[i], y[j]-y[i]
			downwind := dx*ux + dy*uy
			if downwind <= 0 {
				continue
			}
			crosswind := math.Abs(dx*uy - dy*ux)
			d := b.Deficit(downwind, crosswind, diameter, ct[i], ws)
			sumSq += d * d
		}
		dst[j] = math.Max(0, ws-math.Sqrt(sumSq))
		ct[j] = curve.ThrustCoefficient(dst[j])
	}
}
