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

// Package windfarm estimates the annual energy production (AEP) of offshore
// wind farms and optimizes turbine layouts to maximize it.
//
// A typical calculation reads the turbine and lease-boundary geometry
// from GeoJSON files (ReadLayoutFiles), projects it into the site's UTM zone
// (Projector), builds a directional Weibull wind resource (WindResource)
// and a turbine power curve (PowerCurve), and evaluates the wake-reduced
// energy yield (Evaluator). The AEP calculation can then be handed to a
// Maximizer to search for a better layout within the site constraints.
package windfarm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
)

var (
	// ErrMissingBoundary is returned when a boundary file does not
	// contain any Polygon features.
	ErrMissingBoundary = errors.New("windfarm: no Polygon feature in boundary data")

	// ErrNoTurbines is returned when a turbine file does not contain any
	// Point features.
	ErrNoTurbines = errors.New("windfarm: no Point features in turbine data")
)

// Layout holds the turbine locations and lease boundary of a wind farm.
// The order of Turbines is the canonical turbine index used by the
// AEP calculation and by the optimizer.
type Layout struct {
	Turbines []geom.Point
	Boundary geom.Polygon
}

// featureCollection is the subset of a GeoJSON FeatureCollection that
// is needed to extract geometries.
type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Type     string          `json:"type"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"features"`
}

// readGeometries decodes all of the non-null feature geometries
// in a GeoJSON FeatureCollection, in file order.
func readGeometries(r io.Reader) ([]geom.Geom, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var fc featureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("GeoJSON type is %q; it should be FeatureCollection", fc.Type)
	}
	var geoms []geom.Geom
	for i, f := range fc.Features {
		if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
			continue
		}
		g, err := geojson.Decode(f.Geometry)
		if err != nil {
			// Feature types we don't use are allowed in the files.
			var unsupported *geojson.UnsupportedGeometryError
			if errors.As(err, &unsupported) {
				continue
			}
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		geoms = append(geoms, g)
	}
	return geoms, nil
}

// ReadTurbines returns the coordinates of all Point features in the
// GeoJSON FeatureCollection in r, in file order.
func ReadTurbines(r io.Reader) ([]geom.Point, error) {
	geoms, err := readGeometries(r)
	if err != nil {
		return nil, fmt.Errorf("windfarm: reading turbines: %w", err)
	}
	var pts []geom.Point
	for _, g := range geoms {
		if p, ok := g.(geom.Point); ok {
			pts = append(pts, p)
		}
	}
	if len(pts) == 0 {
		return nil, ErrNoTurbines
	}
	return pts, nil
}

// ReadBoundary returns the exterior ring of the first Polygon feature
// in the GeoJSON FeatureCollection in r. The returned ring is always
// closed: its first and last points are the same.
func ReadBoundary(r io.Reader) (geom.Polygon, error) {
	geoms, err := readGeometries(r)
	if err != nil {
		return nil, fmt.Errorf("windfarm: reading boundary: %w", err)
	}
	for _, g := range geoms {
		if p, ok := g.(geom.Polygon); ok && len(p) > 0 && len(p[0]) > 0 {
			return geom.Polygon{closeRing(p[0])}, nil
		}
	}
	return nil, ErrMissingBoundary
}

// closeRing returns a copy of ring whose last point equals its first point.
func closeRing(ring geom.Path) geom.Path {
	out := make(geom.Path, len(ring), len(ring)+1)
	copy(out, ring)
	if !out[0].Equals(out[len(out)-1]) {
		out = append(out, out[0])
	}
	return out
}

// ReadLayout reads a turbine Point collection and a boundary Polygon
// collection.
func ReadLayout(turbines, boundary io.Reader) (*Layout, error) {
	t, err := ReadTurbines(turbines)
	if err != nil {
		return nil, err
	}
	b, err := ReadBoundary(boundary)
	if err != nil {
		return nil, err
	}
	return &Layout{Turbines: t, Boundary: b}, nil
}

// ReadLayoutFiles is like ReadLayout but reads from the named files.
// Environment variables in the file names are expanded.
func ReadLayoutFiles(turbineFile, boundaryFile string) (*Layout, error) {
	tf, err := os.Open(os.ExpandEnv(turbineFile))
	if err != nil {
		return nil, fmt.Errorf("windfarm: opening turbine file: %w", err)
	}
	defer tf.Close()
	bf, err := os.Open(os.ExpandEnv(boundaryFile))
	if err != nil {
		return nil, fmt.Errorf("windfarm: opening boundary file: %w", err)
	}
	defer bf.Close()
	return ReadLayout(tf, bf)
}

// XY splits the turbine positions into separate easting and northing
// slices, which is the form used by AEPFunc and the optimizer.
func (l *Layout) XY() (x, y []float64) {
	return pointsToXY(l.Turbines)
}

func pointsToXY(pts []geom.Point) (x, y []float64) {
	x = make([]float64, len(pts))
	y = make([]float64, len(pts))
	for i, p := range pts {
		x[i], y[i] = p.X, p.Y
	}
	return x, y
}

func xyToPoints(x, y []float64) []geom.Point {
	pts := make([]geom.Point, len(x))
	for i := range x {
		pts[i] = geom.Point{X: x[i], Y: y[i]}
	}
	return pts
}
