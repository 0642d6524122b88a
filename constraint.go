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
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// Constraints are the restrictions on where turbines may be placed.
type Constraints struct {
	// Boundary is the lease area that all turbines must be within.
	// Turbines on the edge of the boundary are allowed.
	Boundary geom.Polygon

	// MinSpacing is the minimum allowed distance between any two turbines [m].
	MinSpacing float64
}

// Validate checks that c describes a usable set of constraints.
func (c *Constraints) Validate() error {
	if len(c.Boundary) == 0 || len(c.Boundary[0]) < 3 {
		return fmt.Errorf("windfarm: constraint boundary must have at least 3 points")
	}
	if c.MinSpacing < 0 {
		return fmt.Errorf("windfarm: minimum spacing %g is negative", c.MinSpacing)
	}
	return nil
}

// Violation summarizes how far a layout is from satisfying the constraints.
type Violation struct {
	// Outside is the number of turbines outside of the boundary.
	Outside int

	// MaxOutsideDistance is the largest distance [m] from a turbine
	// outside the boundary to the boundary.
	MaxOutsideDistance float64

	// TooClose is the number of turbine pairs closer than the minimum spacing.
	TooClose int

	// MinDistance is the smallest distance [m] between any two turbines.
	MinDistance float64
}

// Feasible returns whether the layout has no violations.
func (v Violation) Feasible() bool { return v.Outside == 0 && v.TooClose == 0 }

func (v Violation) String() string {
	return fmt.Sprintf("%d turbines outside boundary (max %.1f m), %d pairs closer than minimum spacing (min distance %.1f m)",
		v.Outside, v.MaxOutsideDistance, v.TooClose, v.MinDistance)
}

// Check calculates the constraint violations of turbines at eastings x
// and northings y.
func (c *Constraints) Check(x, y []float64) Violation {
	v := Violation{MinDistance: math.Inf(1)}
	for i := range x {
		p := geom.Point{X: x[i], Y: y[i]}
		if p.Within(c.Boundary) == geom.Outside {
			v.Outside++
			v.MaxOutsideDistance = math.Max(v.MaxOutsideDistance, distanceToBoundary(p, c.Boundary))
		}
		for j := i + 1; j < len(x); j++ {
			d := math.Hypot(x[j]-x[i], y[j]-y[i])
			v.MinDistance = math.Min(v.MinDistance, d)
			if d < c.MinSpacing {
				v.TooClose++
			}
		}
	}
	return v
}

// Feasible returns whether turbines at eastings x and northings y satisfy
// the constraints.
func (c *Constraints) Feasible(x, y []float64) bool {
	return c.Check(x, y).Feasible()
}

// Penalty returns the sum of squared constraint violations [m²]. The
// constraints are tightened by margin [m], so that layouts with zero penalty
// are at least margin inside the boundary and margin farther apart than
// the minimum spacing.
func (c *Constraints) Penalty(x, y []float64, margin float64) float64 {
	var sum float64
	for i := range x {
		p := geom.Point{X: x[i], Y: y[i]}
		d := distanceToBoundary(p, c.Boundary)
		if p.Within(c.Boundary) != geom.Outside {
			d = -d
		}
		if v := d + margin; v > 0 {
			sum += v * v
		}
		for j := i + 1; j < len(x); j++ {
			if v := c.MinSpacing + margin - math.Hypot(x[j]-x[i], y[j]-y[i]); v > 0 {
				sum += v * v
			}
		}
	}
	return sum
}

// distanceToBoundary returns the distance from p to the nearest edge of poly.
func distanceToBoundary(p geom.Point, poly geom.Polygon) float64 {
	min := math.Inf(1)
	for _, ring := range poly {
		for i := range ring {
			a := ring[i]
			b := ring[(i+1)%len(ring)]
			min = math.Min(min, distanceToSegment(p, a, b))
		}
	}
	return min
}

// distanceToSegment returns the distance from p to the line segment ab.
func distanceToSegment(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
