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
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
)

func TestWriteLayoutGeoJSON(t *testing.T) {
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
	x, y := pl.XY()
	buf := new(bytes.Buffer)
	if err := WriteLayoutGeoJSON(buf, p, x, y, []float64{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	pts, err := ReadTurbines(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != len(l.Turbines) {
		t.Fatalf("have %d turbines, want %d", len(pts), len(l.Turbines))
	}
	for i, pt := range pts {
		if math.Abs(pt.X-l.Turbines[i].X) > 1e-7 || math.Abs(pt.Y-l.Turbines[i].Y) > 1e-7 {
			t.Errorf("turbine %d: have %v, want %v", i, pt, l.Turbines[i])
		}
	}
	if err := WriteLayoutGeoJSON(new(bytes.Buffer), p, x, y, []float64{1}); err == nil {
		t.Error("expected an error for the wrong number of AEP values")
	}
}

func TestWriteLayoutShapefile(t *testing.T) {
	p, err := NewUTMProjector(19)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	fname := filepath.Join(dir, "layout.shp")
	x := []float64{500000, 501000}
	y := []float64{4540000, 4540000}
	if err := WriteLayoutShapefile(fname, p, x, y, []float64{30.5, 29.1}); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".shp", ".shx", ".dbf", ".prj"} {
		if _, err := os.Stat(filepath.Join(dir, "layout"+ext)); err != nil {
			t.Error(err)
		}
	}
	if err := WriteLayoutShapefile(fname, p, x, y[:1], nil); err == nil {
		t.Error("expected an error for mismatched coordinates")
	}
}

func TestSaveLoadResult(t *testing.T) {
	r := &OptimizationResult{
		X:          []float64{1, 2},
		Y:          []float64{3, 4},
		AEP:        70.5,
		Cost:       -70.5,
		InitialAEP: 69.25,
		Trace: []TraceEntry{
			{Iteration: 0, AEP: 69.25, X: []float64{0, 2}, Y: []float64{3, 5}, Feasible: true},
			{Iteration: 1, AEP: 70.5, X: []float64{1, 2}, Y: []float64{3, 4}, Feasible: true},
		},
		Converged:   true,
		Status:      "FunctionConvergence",
		Evaluations: 42,
	}
	buf := new(bytes.Buffer)
	if err := SaveResult(buf, r); err != nil {
		t.Fatal(err)
	}
	r2, err := LoadResult(buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(r2, r); len(diff) > 0 {
		t.Errorf("have, want: %v", diff)
	}
	if _, err := LoadResult(new(bytes.Buffer)); err == nil {
		t.Error("expected an error for empty input")
	}
}
