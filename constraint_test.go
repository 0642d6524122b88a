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
	"testing"

	"github.com/ctessum/geom"
)

// box returns constraints with a square boundary with the given side length.
func box(side, spacing float64) *Constraints {
	return &Constraints{
		Boundary: geom.Polygon{{
			{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side}, {X: 0, Y: 0},
		}},
		MinSpacing: spacing,
	}
}

func square(spacing float64) *Constraints { return box(1000, spacing) }

func TestConstraintsCheck(t *testing.T) {
	c := square(100)
	tests := []struct {
		name     string
		x, y     []float64
		outside  int
		maxOut   float64
		tooClose int
		minDist  float64
	}{
		{
			name: "feasible",
			x:    []float64{100, 500, 900}, y: []float64{100, 500, 900},
			minDist: math.Hypot(400, 400),
		},
		{
			name: "on edge",
			x:    []float64{0, 1000}, y: []float64{500, 500},
			minDist: 1000,
		},
		{
			name: "outside",
			x:    []float64{500, 1050}, y: []float64{500, 500},
			outside: 1, maxOut: 50, minDist: 550,
		},
		{
			name: "outside corner",
			x:    []float64{-30}, y: []float64{-40},
			outside: 1, maxOut: 50, minDist: math.Inf(1),
		},
		{
			name: "too close",
			x:    []float64{500, 550, 900}, y: []float64{500, 500, 900},
			tooClose: 1, minDist: 50,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v := c.Check(test.x, test.y)
			if v.Outside != test.outside || v.TooClose != test.tooClose {
				t.Errorf("have %s", v)
			}
			if math.Abs(v.MaxOutsideDistance-test.maxOut) > 1e-9 {
				t.Errorf("max outside distance: have %g, want %g", v.MaxOutsideDistance, test.maxOut)
			}
			if v.MinDistance != test.minDist && math.Abs(v.MinDistance-test.minDist) > 1e-9 {
				t.Errorf("min distance: have %g, want %g", v.MinDistance, test.minDist)
			}
			feasible := test.outside == 0 && test.tooClose == 0
			if c.Feasible(test.x, test.y) != feasible || v.Feasible() != feasible {
				t.Errorf("feasible should be %v", feasible)
			}
		})
	}
}

func TestConstraintsPenalty(t *testing.T) {
	c := square(100)
	tests := []struct {
		name    string
		x, y    []float64
		margin  float64
		penalty float64
	}{
		{name: "inside", x: []float64{100, 500}, y: []float64{100, 500}, margin: 1, penalty: 0},
		{name: "outside", x: []float64{1050}, y: []float64{500}, margin: 0, penalty: 50 * 50},
		{name: "outside with margin", x: []float64{1050}, y: []float64{500}, margin: 2, penalty: 52 * 52},
		{name: "on edge", x: []float64{1000}, y: []float64{500}, margin: 1, penalty: 1},
		{name: "too close", x: []float64{500, 560}, y: []float64{500, 500}, margin: 0, penalty: 40 * 40},
		{name: "too close with margin", x: []float64{500, 560}, y: []float64{500, 500}, margin: 1, penalty: 41 * 41},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if p := c.Penalty(test.x, test.y, test.margin); math.Abs(p-test.penalty) > 1e-9 {
				t.Errorf("have %g, want %g", p, test.penalty)
			}
		})
	}
}

func TestConstraintsValidate(t *testing.T) {
	if err := square(100).Validate(); err != nil {
		t.Error(err)
	}
	if err := square(-1).Validate(); err == nil {
		t.Error("expected an error for negative spacing")
	}
	if err := (&Constraints{}).Validate(); err == nil {
		t.Error("expected an error for a missing boundary")
	}
}
