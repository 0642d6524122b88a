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
	"math"
	"testing"

	"github.com/ctessum/geom"
)

func TestUTMProjector(t *testing.T) {
	tests := []struct {
		zone     int
		lon, lat float64
		x, y     float64
		tol      float64 // m
	}{
		{zone: 18, lon: -75, lat: 0, x: 500000, y: 0, tol: 1e-3},
		{zone: 19, lon: -69, lat: 0, x: 500000, y: 0, tol: 1e-3},
		{zone: 18, lon: -75, lat: 45, x: 500000, y: 4982950.4, tol: 1},
	}
	for _, test := range tests {
		p, err := NewUTMProjector(test.zone)
		if err != nil {
			t.Fatal(err)
		}
		have, err := p.Project(geom.Point{X: test.lon, Y: test.lat})
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(have.X-test.x) > test.tol || math.Abs(have.Y-test.y) > test.tol {
			t.Errorf("zone %d (%g, %g): have (%f, %f), want (%f, %f)",
				test.zone, test.lon, test.lat, have.X, have.Y, test.x, test.y)
		}
	}
}

func TestUTMRoundTrip(t *testing.T) {
	p, err := NewUTMProjector(19)
	if err != nil {
		t.Fatal(err)
	}
	pts := []geom.Point{{X: -70.5, Y: 41.1}, {X: -71.2, Y: 40.9}, {X: -69, Y: 41}}
	proj, err := p.ProjectPoints(pts)
	if err != nil {
		t.Fatal(err)
	}
	back, err := p.UnprojectPoints(proj)
	if err != nil {
		t.Fatal(err)
	}
	for i := range pts {
		if math.Abs(back[i].X-pts[i].X) > 1e-7 || math.Abs(back[i].Y-pts[i].Y) > 1e-7 {
			t.Errorf("point %d: have %v, want %v", i, back[i], pts[i])
		}
	}
}

func TestProjectLayout(t *testing.T) {
	l, err := ReadLayoutFiles("testdata/turbines.geojson", "testdata/boundary.geojson")
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewUTMProjector(18)
	if err != nil {
		t.Fatal(err)
	}
	pl, err := p.ProjectLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	if len(pl.Turbines) != len(l.Turbines) || len(pl.Boundary[0]) != len(l.Boundary[0]) {
		t.Fatalf("projected layout has a different size")
	}
	// Turbines 0 and 1 are 0.01° of longitude apart at 36.9° N.
	d := math.Hypot(pl.Turbines[1].X-pl.Turbines[0].X, pl.Turbines[1].Y-pl.Turbines[0].Y)
	if d < 880 || d > 900 {
		t.Errorf("turbine spacing: have %f m, want about 890 m", d)
	}
	for i, pt := range pl.Turbines {
		if pt.Within(pl.Boundary) != geom.Inside {
			t.Errorf("turbine %d should be inside the boundary", i)
		}
	}
	if l.Turbines[0].X != -75 {
		t.Error("ProjectLayout modified its input")
	}
}

func TestProjectorErrors(t *testing.T) {
	for _, zone := range []int{0, 61, -5} {
		if _, err := NewUTMProjector(zone); !errors.Is(err, ErrInvalidZone) {
			t.Errorf("zone %d: have error %v, want %v", zone, err, ErrInvalidZone)
		}
	}
	p, err := NewUTMProjector(18)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Project(geom.Point{X: math.NaN(), Y: 0}); err == nil {
		t.Error("expected an error for a NaN coordinate")
	}
}
