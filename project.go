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
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// ErrInvalidZone is returned when a UTM zone outside of 1–60 is requested.
var ErrInvalidZone = errors.New("windfarm: UTM zone must be between 1 and 60")

// LongLatProj is the spatial reference of the input GeoJSON files.
const LongLatProj = "+proj=longlat +datum=WGS84 +no_defs"

// UTMProj returns the Proj4 definition of the northern-hemisphere UTM
// zone with the given number.
func UTMProj(zone int) string {
	return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone)
}

// Projector converts between geographic (longitude, latitude) coordinates
// and planar (easting, northing) coordinates in meters.
type Projector struct {
	Zone int

	forward, inverse proj.Transformer
}

// NewUTMProjector returns a Projector for the given UTM zone. The zone is
// chosen by the caller for each site; it is never inferred from the data.
func NewUTMProjector(zone int) (*Projector, error) {
	if zone < 1 || zone > 60 {
		return nil, ErrInvalidZone
	}
	llSR, err := proj.Parse(LongLatProj)
	if err != nil {
		return nil, fmt.Errorf("windfarm: parsing geographic projection: %w", err)
	}
	utmSR, err := proj.Parse(UTMProj(zone))
	if err != nil {
		return nil, fmt.Errorf("windfarm: parsing UTM zone %d projection: %w", zone, err)
	}
	fwd, err := llSR.NewTransform(utmSR)
	if err != nil {
		return nil, fmt.Errorf("windfarm: creating UTM transform: %w", err)
	}
	inv, err := utmSR.NewTransform(llSR)
	if err != nil {
		return nil, fmt.Errorf("windfarm: creating inverse UTM transform: %w", err)
	}
	return &Projector{Zone: zone, forward: fwd, inverse: inv}, nil
}

// Project converts a (longitude, latitude) point to (easting, northing).
func (p *Projector) Project(pt geom.Point) (geom.Point, error) {
	return transformPoint(p.forward, pt)
}

// Unproject converts an (easting, northing) point back to
// (longitude, latitude).
func (p *Projector) Unproject(pt geom.Point) (geom.Point, error) {
	return transformPoint(p.inverse, pt)
}

func transformPoint(t proj.Transformer, pt geom.Point) (geom.Point, error) {
	if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
		return geom.Point{}, fmt.Errorf("windfarm: invalid coordinate %v", pt)
	}
	x, y, err := t(pt.X, pt.Y)
	if err != nil {
		return geom.Point{}, fmt.Errorf("windfarm: transforming %v: %w", pt, err)
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return geom.Point{}, fmt.Errorf("windfarm: coordinate %v could not be transformed", pt)
	}
	return geom.Point{X: x, Y: y}, nil
}

// ProjectPoints projects every point in pts.
func (p *Projector) ProjectPoints(pts []geom.Point) ([]geom.Point, error) {
	out := make([]geom.Point, len(pts))
	for i, pt := range pts {
		var err error
		if out[i], err = p.Project(pt); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UnprojectPoints converts every point in pts back to longitude and latitude.
func (p *Projector) UnprojectPoints(pts []geom.Point) ([]geom.Point, error) {
	out := make([]geom.Point, len(pts))
	for i, pt := range pts {
		var err error
		if out[i], err = p.Unproject(pt); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ProjectLayout returns a copy of l with the turbines and the boundary
// projected by the same transform, so that distances and containment
// tests are in meters in a single frame.
func (p *Projector) ProjectLayout(l *Layout) (*Layout, error) {
	turbines, err := p.ProjectPoints(l.Turbines)
	if err != nil {
		return nil, err
	}
	boundary := make(geom.Polygon, len(l.Boundary))
	for i, ring := range l.Boundary {
		pts, err := p.ProjectPoints(ring)
		if err != nil {
			return nil, err
		}
		boundary[i] = pts
	}
	return &Layout{Turbines: turbines, Boundary: boundary}, nil
}
