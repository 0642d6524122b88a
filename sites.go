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
	"sort"
)

// SG80167DD is the Siemens Gamesa SG 8.0-167 DD offshore turbine.
var SG80167DD = Turbine{
	Name:                "SG 8.0-167 DD",
	Diameter:            167,
	HubHeight:           119,
	RatedPower:          8000,
	TurbulenceIntensity: 0.07,
}

// presetSpacing is the minimum turbine spacing [m] used by the preset
// sites, two rotor diameters of the SG 8.0-167 DD.
const presetSpacing = 334

// presetWakeExpansion is the Bastankhah wake expansion rate used by the
// preset sites.
const presetWakeExpansion = 0.04

var presets = map[string]SiteConfig{
	"coastal-virginia": {
		Name:          "Coastal Virginia",
		TurbineFile:   "Coastal_Virginia_point.geojson",
		BoundaryFile:  "Coastal_Virginia_polygon.geojson",
		UTMZone:       18,
		Turbine:       SG80167DD,
		Scale:         []float64{10.87, 10.29, 8.68, 7.59, 7.55, 8.86, 11.16, 13.27, 13.81, 12.40, 11.94, 11.82},
		Shape:         []float64{2.260, 2.166, 1.955, 1.627, 1.627, 1.936, 2.029, 2.256, 2.557, 2.393, 2.475, 2.650},
		WakeExpansion: presetWakeExpansion,
		MinSpacing:    presetSpacing,
	},
	"south-fork": {
		Name:         "South Fork",
		TurbineFile:  "SouthForkpoint.geojson",
		BoundaryFile: "SouthForkpolygon.geojson",
		UTMZone:      19,
		Turbine:      SG80167DD,
		Frequency: []float64{0.064452, 0.076731, 0.064733, 0.060399, 0.048786, 0.045663,
			0.073180, 0.117882, 0.138072, 0.117932, 0.097412},
		Scale:         []float64{10.26, 10.44, 9.52, 8.96, 9.58, 9.72, 11.48, 12.38, 12.77, 11.86, 11.13},
		Shape:         []float64{2.225, 2.697, 1.877, 1.899, 2.123, 1.755, 2.401, 2.366, 2.186, 2.385, 2.404},
		WakeExpansion: presetWakeExpansion,
		MinSpacing:    presetSpacing,
	},
	"vineyard-wind": {
		Name:          "Vineyard Wind",
		TurbineFile:   "Vineyardwind_point.geojson",
		BoundaryFile:  "Vineyardwind_boundary.geojson",
		UTMZone:       19,
		Turbine:       SG80167DD,
		Scale:         []float64{10.26, 10.44, 9.52, 8.96, 9.58, 9.72, 11.48, 13.25, 12.46, 11.40, 12.35, 10.48},
		Shape:         []float64{2.225, 1.697, 1.721, 1.689, 1.525, 1.498, 1.686, 2.143, 2.369, 2.186, 2.385, 2.404},
		WakeExpansion: presetWakeExpansion,
		MinSpacing:    presetSpacing,
	},
}

// PresetNames returns the names of the built-in sites in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Preset returns the configuration of the named built-in site, with its
// input files located in dataDir.
func Preset(name, dataDir string) (*SiteConfig, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("windfarm: unknown site %q; valid sites are %v", name, PresetNames())
	}
	c := p
	c.TurbineFile = resolvePath(dataDir, c.TurbineFile)
	c.BoundaryFile = resolvePath(dataDir, c.BoundaryFile)
	c.Frequency = append([]float64(nil), p.Frequency...)
	c.Scale = append([]float64(nil), p.Scale...)
	c.Shape = append([]float64(nil), p.Shape...)
	return &c, nil
}
