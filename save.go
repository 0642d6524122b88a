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
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
)

// wgs84WKT is the projection file contents for longitude-latitude shapefiles.
const wgs84WKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["Degree",0.017453292519943295]]`

// SaveResult writes r to w in gob format
// (format description at https://golang.org/pkg/encoding/gob/)
// so that it can be reported on later without rerunning the optimization.
func SaveResult(w io.Writer, r *OptimizationResult) error {
	if err := gob.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("windfarm.SaveResult: %v", err)
	}
	return nil
}

// LoadResult reads a result previously written by SaveResult.
func LoadResult(r io.Reader) (*OptimizationResult, error) {
	res := new(OptimizationResult)
	if err := gob.NewDecoder(r).Decode(res); err != nil {
		return nil, fmt.Errorf("windfarm.LoadResult: %v", err)
	}
	return res, nil
}

type turbineFeature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties turbineProperties `json:"properties"`
}

type turbineProperties struct {
	Turbine int     `json:"turbine"`
	AEP     float64 `json:"aep_gwh,omitempty"`
}

type turbineCollection struct {
	Type     string            `json:"type"`
	Features []*turbineFeature `json:"features"`
}

// unprojectTurbines converts UTM turbine positions back to longitude
// and latitude.
func unprojectTurbines(p *Projector, x, y []float64) ([]geom.Point, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("windfarm: %d eastings but %d northings", len(x), len(y))
	}
	return p.UnprojectPoints(xyToPoints(x, y))
}

// WriteLayoutGeoJSON writes the turbine positions x and y, which are in the
// projection of p, to w as a GeoJSON FeatureCollection of longitude-latitude
// Points in the same order. If aep is not nil, it holds the AEP of each
// turbine [GWh], which is written as a feature property.
func WriteLayoutGeoJSON(w io.Writer, p *Projector, x, y, aep []float64) error {
	pts, err := unprojectTurbines(p, x, y)
	if err != nil {
		return err
	}
	if aep != nil && len(aep) != len(pts) {
		return fmt.Errorf("windfarm: %d turbine AEP values for %d turbines", len(aep), len(pts))
	}
	fc := turbineCollection{Type: "FeatureCollection", Features: make([]*turbineFeature, len(pts))}
	for i, pt := range pts {
		g, err := geojson.ToGeoJSON(pt)
		if err != nil {
			return err
		}
		f := &turbineFeature{Type: "Feature", Geometry: g, Properties: turbineProperties{Turbine: i}}
		if aep != nil {
			f.Properties.AEP = aep[i]
		}
		fc.Features[i] = f
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(fc)
}

// WriteLayoutShapefile is like WriteLayoutGeoJSON, but writes the turbines
// to the shapefile fname along with a matching .prj file.
func WriteLayoutShapefile(fname string, p *Projector, x, y, aep []float64) error {
	type turbineRec struct {
		geom.Point
		Turbine int
		AEP     float64 `shp:"AEP_GWH"`
	}
	pts, err := unprojectTurbines(p, x, y)
	if err != nil {
		return err
	}
	if aep != nil && len(aep) != len(pts) {
		return fmt.Errorf("windfarm: %d turbine AEP values for %d turbines", len(aep), len(pts))
	}
	fname = os.ExpandEnv(fname)
	e, err := shp.NewEncoder(fname, turbineRec{})
	if err != nil {
		return fmt.Errorf("windfarm: creating shapefile: %w", err)
	}
	for i, pt := range pts {
		rec := &turbineRec{Point: pt, Turbine: i}
		if aep != nil {
			rec.AEP = aep[i]
		}
		if err := e.Encode(rec); err != nil {
			e.Close()
			return fmt.Errorf("windfarm: writing shapefile: %w", err)
		}
	}
	e.Close()
	prj, err := os.Create(strings.TrimSuffix(fname, ".shp") + ".prj")
	if err != nil {
		return err
	}
	if _, err := prj.Write([]byte(wgs84WKT)); err != nil {
		prj.Close()
		return err
	}
	return prj.Close()
}
