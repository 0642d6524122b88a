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
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func TestReadSiteConfigFile(t *testing.T) {
	c, err := ReadSiteConfigFile("testdata/site.toml")
	if err != nil {
		t.Fatal(err)
	}
	if c.TurbineFile != filepath.Join("testdata", "turbines.geojson") {
		t.Errorf("turbine file path: %s", c.TurbineFile)
	}
	if c.UTMZone != 18 || c.Turbine != SG80167DD || c.Optimizer.MaxIterations != 5 {
		t.Errorf("unexpected configuration: %# v", pretty.Formatter(c))
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	s, err := c.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Layout.Turbines) != 4 {
		t.Fatalf("have %d turbines, want 4", len(s.Layout.Turbines))
	}
	x, y := s.Layout.XY()
	if !s.Constraints.Feasible(x, y) {
		t.Errorf("initial layout should be feasible: %s", s.Constraints.Check(x, y))
	}
	r, err := s.AEP()
	if err != nil {
		t.Fatal(err)
	}
	if !(r.AEP > 0) || !(r.AEP < r.Unwaked) {
		t.Errorf("AEP %g should be positive and less than unwaked AEP %g", r.AEP, r.Unwaked)
	}
	// Four turbines of 8 MW produce less than 4 * 8 MW * 8760 h.
	if r.AEP > 4*8*8760/1000. {
		t.Errorf("AEP %g GWh is larger than the farm capacity", r.AEP)
	}

	o := c.PenaltyOptimizer()
	if o.MaxIterations != 5 || o.Method != "LBFGS" || o.PenaltyRounds != NewPenaltyOptimizer().PenaltyRounds {
		t.Errorf("optimizer settings: %+v", o)
	}
	res, err := s.Optimize(o)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Constraints.Feasible(res.X, res.Y) || res.AEP < r.AEP {
		t.Errorf("optimization result: AEP %g (initial %g), %s", res.AEP, r.AEP, s.Constraints.Check(res.X, res.Y))
	}
	ol := s.OptimizedLayout(res)
	if len(ol.Turbines) != 4 || ol.Turbines[2].X != res.X[2] {
		t.Errorf("optimized layout: %v", ol.Turbines)
	}
}

func TestSiteConfigRoundTrip(t *testing.T) {
	c, err := Preset("south-fork", "data")
	if err != nil {
		t.Fatal(err)
	}
	c.Optimizer.Method = "BFGS"
	buf := new(bytes.Buffer)
	if err := c.Write(buf); err != nil {
		t.Fatal(err)
	}
	c2, err := ReadSiteConfig(buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(c2, c); len(diff) > 0 {
		t.Errorf("round trip (have, want): %v", diff)
	}
}

func TestSiteConfigErrors(t *testing.T) {
	valid := func() *SiteConfig {
		c, err := Preset("vineyard-wind", "")
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	tests := []struct {
		name   string
		modify func(c *SiteConfig)
		want   error
	}{
		{name: "zone", modify: func(c *SiteConfig) { c.UTMZone = 0 }, want: ErrInvalidZone},
		{name: "directions", modify: func(c *SiteConfig) { c.Directions = []float64{0, 90} }, want: ErrDirectionMismatch},
		{name: "resource", modify: func(c *SiteConfig) { c.Shape = c.Shape[:3] }, want: ErrResourceLength},
		{name: "files", modify: func(c *SiteConfig) { c.BoundaryFile = "" }},
		{name: "wake", modify: func(c *SiteConfig) { c.WakeModel = "jensen" }},
		{name: "spacing", modify: func(c *SiteConfig) { c.MinSpacing = -1 }},
		{name: "turbine", modify: func(c *SiteConfig) { c.Turbine.Diameter = 0 }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := valid()
			test.modify(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if test.want != nil && !errors.Is(err, test.want) {
				t.Errorf("have error %v, want %v", err, test.want)
			}
		})
	}
	if _, err := ReadSiteConfig(strings.NewReader("UTMZone = \"eighteen\"")); err == nil {
		t.Error("expected a decoding error")
	}
	if _, err := ReadSiteConfigFile("testdata/missing.toml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	if diff := pretty.Diff(names, []string{"coastal-virginia", "south-fork", "vineyard-wind"}); len(diff) > 0 {
		t.Errorf("preset names (have, want): %v", diff)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			c, err := Preset(name, "data")
			if err != nil {
				t.Fatal(err)
			}
			if err := c.Validate(); err != nil {
				t.Fatal(err)
			}
			if filepath.Dir(c.TurbineFile) != "data" {
				t.Errorf("turbine file should be in the data directory: %s", c.TurbineFile)
			}
			e, err := c.Evaluator()
			if err != nil {
				t.Fatal(err)
			}
			r, err := e.AEPXY([]float64{0}, []float64{0})
			if err != nil {
				t.Fatal(err)
			}
			cf := r.AEP / (8 * 8760 / 1000.)
			if cf < 0.3 || cf > 0.7 {
				t.Errorf("single-turbine capacity factor %g is unrealistic", cf)
			}
			c.Scale[0] = -1
			c2, err := Preset(name, "data")
			if err != nil {
				t.Fatal(err)
			}
			if c2.Scale[0] == -1 {
				t.Error("modifying a preset changed the built-in configuration")
			}
		})
	}
	if _, err := Preset("cape-wind", ""); err == nil {
		t.Error("expected an error for an unknown site")
	}
}
