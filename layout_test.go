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
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/kr/pretty"
)

func TestReadTurbines(t *testing.T) {
	l, err := ReadLayoutFiles("testdata/turbines.geojson", "testdata/boundary.geojson")
	if err != nil {
		t.Fatal(err)
	}
	want := []geom.Point{
		{X: -75.00, Y: 36.90},
		{X: -74.99, Y: 36.90},
		{X: -75.00, Y: 36.91},
		{X: -74.99, Y: 36.91},
	}
	if diff := pretty.Diff(l.Turbines, want); len(diff) > 0 {
		t.Errorf("turbines (have, want): %v", diff)
	}
	wantBoundary := geom.Polygon{{
		{X: -75.02, Y: 36.88}, {X: -74.96, Y: 36.88}, {X: -74.96, Y: 36.92},
		{X: -75.02, Y: 36.92}, {X: -75.02, Y: 36.88},
	}}
	if diff := pretty.Diff(l.Boundary, wantBoundary); len(diff) > 0 {
		t.Errorf("boundary (have, want): %v", diff)
	}
	x, y := l.XY()
	if len(x) != 4 || x[1] != -74.99 || y[2] != 36.91 {
		t.Errorf("XY: have %v, %v", x, y)
	}
}

func TestReadBoundaryClosesRing(t *testing.T) {
	const open = `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [0, 0]}},
		{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1]]]}},
		{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[5, 5], [6, 5], [6, 6], [5, 5]]]}}
	]}`
	b, err := ReadBoundary(strings.NewReader(open))
	if err != nil {
		t.Fatal(err)
	}
	want := geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}}
	if diff := pretty.Diff(b, want); len(diff) > 0 {
		t.Errorf("boundary (have, want): %v", diff)
	}
}

func TestReadLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		f    func() error
		want error
	}{
		{
			name: "no boundary",
			f: func() error {
				_, err := ReadBoundary(strings.NewReader(`{"type": "FeatureCollection", "features": [
					{"type": "Feature", "geometry": {"type": "Point", "coordinates": [0, 0]}}]}`))
				return err
			},
			want: ErrMissingBoundary,
		},
		{
			name: "empty boundary",
			f: func() error {
				_, err := ReadBoundary(strings.NewReader(`{"type": "FeatureCollection", "features": []}`))
				return err
			},
			want: ErrMissingBoundary,
		},
		{
			name: "no turbines",
			f: func() error {
				_, err := ReadTurbines(strings.NewReader(`{"type": "FeatureCollection", "features": [
					{"type": "Feature", "geometry": null}]}`))
				return err
			},
			want: ErrNoTurbines,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.f(); !errors.Is(err, test.want) {
				t.Errorf("have error %v, want %v", err, test.want)
			}
		})
	}
}

func TestReadTurbinesInvalid(t *testing.T) {
	for _, s := range []string{
		`{"type": "Feature", "geometry": {"type": "Point", "coordinates": [0, 0]}}`,
		`not json`,
	} {
		if _, err := ReadTurbines(strings.NewReader(s)); err == nil {
			t.Errorf("%s: expected an error", s)
		}
	}
	if _, err := ReadLayoutFiles("testdata/missing.geojson", "testdata/boundary.geojson"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
