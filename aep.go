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

	"github.com/ctessum/geom"
	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/floats"
)

// ErrDirectionMismatch is returned when the number of evaluated wind
// directions differs from the number of wind resource sectors.
var ErrDirectionMismatch = errors.New("windfarm: number of wind directions does not match number of resource sectors")

const (
	// HoursPerYear is the number of hours in a (non-leap) year.
	HoursPerYear = 24 * 365

	// kWToGW converts kilowatts to gigawatts.
	kWToGW = 1e-6

	// joulesPerGWh converts gigawatt-hours to joules.
	joulesPerGWh = 3.6e12
)

// AEPFunc calculates the annual energy production [GWh] of turbines at
// eastings x and northings y.
type AEPFunc func(x, y []float64) (float64, error)

// StandardDirections returns the first n of the wind directions
// 0, 30, ..., 330 degrees.
func StandardDirections(n int) ([]float64, error) {
	if n < 1 || n > 12 {
		return nil, fmt.Errorf("windfarm: there are 12 standard wind directions; %d were requested", n)
	}
	wd := make([]float64, n)
	for i := range wd {
		wd[i] = float64(30 * i)
	}
	return wd, nil
}

// DefaultSpeeds returns the evaluated wind speeds 3, 4, ..., 25 m/s.
func DefaultSpeeds() []float64 {
	ws := make([]float64, 0, 23)
	for s := 3.0; s <= 25; s++ {
		ws = append(ws, s)
	}
	return ws
}

// speedBinEdges returns the edges of the wind speed bins centred on
// speeds, which must be increasing. The edges are midway between
// neighbouring speeds; the outer bins are symmetric about their speeds.
func speedBinEdges(speeds []float64) ([]float64, error) {
	n := len(speeds)
	if n == 0 {
		return nil, fmt.Errorf("windfarm: no wind speeds to evaluate")
	}
	for i, s := range speeds {
		if s < 0 {
			return nil, fmt.Errorf("windfarm: wind speed %g is negative", s)
		}
		if i > 0 && s <= speeds[i-1] {
			return nil, fmt.Errorf("windfarm: wind speeds must be strictly increasing")
		}
	}
	edges := make([]float64, n+1)
	if n == 1 {
		edges[0], edges[1] = speeds[0]-0.5, speeds[0]+0.5
		return edges, nil
	}
	for i := 1; i < n; i++ {
		edges[i] = (speeds[i-1] + speeds[i]) / 2
	}
	edges[0] = speeds[0] - (edges[1] - speeds[0])
	edges[n] = speeds[n-1] + (speeds[n-1] - edges[n-1])
	return edges, nil
}

// Evaluator calculates the annual energy production of a wind farm.
// An Evaluator is not modified after it is created, so AEP always returns
// the same result for the same positions.
type Evaluator struct {
	Resource   *WindResource
	Turbine    Turbine
	Curve      PowerCurve
	Wake       WakeModel
	Directions []float64
	Speeds     []float64

	// weights[d][s] is the probability of direction d and speed s.
	weights [][]float64
}

// NewEvaluator creates a new AEP evaluator. directions[i] is the wind
// direction [degrees] evaluated for resource sector i, so len(directions)
// must equal r.Sectors(). If speeds is nil, DefaultSpeeds is used.
func NewEvaluator(r *WindResource, t Turbine, curve PowerCurve, wake WakeModel, directions, speeds []float64) (*Evaluator, error) {
	if r == nil {
		return nil, fmt.Errorf("windfarm: wind resource is nil")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if curve == nil || wake == nil {
		return nil, fmt.Errorf("windfarm: power curve and wake model must not be nil")
	}
	if len(directions) != r.Sectors() {
		return nil, fmt.Errorf("%w: %d directions, %d sectors", ErrDirectionMismatch, len(directions), r.Sectors())
	}
	if speeds == nil {
		speeds = DefaultSpeeds()
	}
	edges, err := speedBinEdges(speeds)
	if err != nil {
		return nil, err
	}
	e := &Evaluator{
		Resource:   r,
		Turbine:    t,
		Curve:      curve,
		Wake:       wake,
		Directions: append([]float64(nil), directions...),
		Speeds:     append([]float64(nil), speeds...),
		weights:    make([][]float64, len(directions)),
	}
	for d := range directions {
		e.weights[d] = make([]float64, len(speeds))
		for s := range speeds {
			e.weights[d][s] = r.Frequency[d] * r.SpeedProbability(d, edges[s], edges[s+1])
		}
	}
	return e, nil
}

// AEPResult holds the results of an annual energy production calculation.
// All energies are in GWh.
type AEPResult struct {
	// AEP is the total wake-reduced annual energy production.
	AEP float64

	// PerTurbine is the annual energy production of each turbine.
	PerTurbine []float64

	// PerDirection is the annual energy production from each wind direction.
	PerDirection []float64

	// Unwaked is the annual energy production the turbines would have
	// without wake losses.
	Unwaked float64
}

// WakeLoss returns the fraction of the unwaked energy lost to wakes.
func (r *AEPResult) WakeLoss() float64 {
	if r.Unwaked == 0 {
		return 0
	}
	return 1 - r.AEP/r.Unwaked
}

// Energy returns the AEP as a dimensioned quantity [J].
func (r *AEPResult) Energy() *unit.Unit {
	return unit.New(r.AEP*joulesPerGWh, unit.Joule)
}

// AEP calculates the annual energy production of turbines at the given
// planar positions [m].
func (e *Evaluator) AEP(positions []geom.Point) (*AEPResult, error) {
	x, y := pointsToXY(positions)
	return e.AEPXY(x, y)
}

// AEPXY is like AEP but takes the turbine eastings and northings as
// separate slices.
func (e *Evaluator) AEPXY(x, y []float64) (*AEPResult, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("windfarm: %d eastings but %d northings", len(x), len(y))
	}
	n := len(x)
	res := &AEPResult{
		PerTurbine:   make([]float64, n),
		PerDirection: make([]float64, len(e.Directions)),
	}
	if n == 0 {
		return res, nil
	}
	eff := make([]float64, n)
	var unwaked float64
	for d, wd := range e.Directions {
		var dirTotal float64
		for s, ws := range e.Speeds {
			w := e.weights[d][s]
			if w == 0 {
				continue
			}
			e.Wake.EffectiveSpeeds(eff, x, y, wd, ws, e.Curve, e.Turbine.Diameter)
			for i, v := range eff {
				p := e.Curve.Power(v) * w
				res.PerTurbine[i] += p
				dirTotal += p
			}
			unwaked += e.Curve.Power(ws) * w * float64(n)
		}
		res.PerDirection[d] = dirTotal * HoursPerYear * kWToGW
	}
	floats.Scale(HoursPerYear*kWToGW, res.PerTurbine)
	res.AEP = floats.Sum(res.PerTurbine)
	res.Unwaked = unwaked * HoursPerYear * kWToGW
	return res, nil
}

// AEPFunc returns the total AEP calculation in the form used by
// layout optimizers.
func (e *Evaluator) AEPFunc() AEPFunc {
	return func(x, y []float64) (float64, error) {
		r, err := e.AEPXY(x, y)
		if err != nil {
			return 0, err
		}
		return r.AEP, nil
	}
}
