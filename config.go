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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom"
)

// SiteConfig holds the information needed to evaluate and optimize the
// layout of a wind farm at one site.
type SiteConfig struct {
	// Name is a human-readable name of the site.
	Name string

	// TurbineFile is the path to a GeoJSON FeatureCollection of turbine
	// Points in longitude-latitude coordinates. Environment variables
	// are expanded.
	TurbineFile string

	// BoundaryFile is the path to a GeoJSON FeatureCollection containing
	// the lease boundary Polygon in longitude-latitude coordinates.
	BoundaryFile string

	// UTMZone is the UTM zone that the site is projected into.
	UTMZone int

	// Turbine describes the turbine model used at all turbine locations.
	Turbine Turbine

	// Frequency, Scale, and Shape are the per-sector probability of
	// occurrence and Weibull parameters. If Frequency is empty, all
	// sectors are equally likely.
	Frequency, Scale, Shape []float64

	// TurbulenceIntensity is the ambient turbulence intensity. If it is
	// zero, the turbine's turbulence intensity is used.
	TurbulenceIntensity float64

	// Directions are the wind directions [degrees] evaluated for each
	// sector. If empty, the first len(Scale) directions of 0, 30, ..., 330
	// are used.
	Directions []float64

	// Speeds are the wind speeds [m/s] evaluated. If empty,
	// DefaultSpeeds is used.
	Speeds []float64

	// WakeModel is either "bastankhah" (the default) or "none".
	WakeModel string

	// WakeExpansion is the wake expansion rate of the Bastankhah model.
	// If it is zero, it is calculated from the turbulence intensity.
	WakeExpansion float64

	// MinSpacing is the minimum distance between turbines [m]. If it is
	// zero, twice the rotor diameter is used.
	MinSpacing float64

	// Optimizer holds layout optimization settings.
	Optimizer OptimizerConfig
}

// OptimizerConfig holds PenaltyOptimizer settings. Zero values are
// replaced with the NewPenaltyOptimizer defaults.
type OptimizerConfig struct {
	Method        string
	MaxIterations int
	Tolerance     float64
	PenaltyRounds int
}

// ReadSiteConfig decodes a TOML site configuration from r.
func ReadSiteConfig(r io.Reader) (*SiteConfig, error) {
	c := new(SiteConfig)
	if _, err := toml.DecodeReader(r, c); err != nil {
		return nil, fmt.Errorf("windfarm: reading site configuration: %v", err)
	}
	return c, nil
}

// ReadSiteConfigFile reads a TOML site configuration from the named
// file. Relative input file paths are interpreted relative to the
// directory of the configuration file.
func ReadSiteConfigFile(filename string) (*SiteConfig, error) {
	filename = os.ExpandEnv(filename)
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("windfarm: opening site configuration: %v", err)
	}
	defer f.Close()
	c, err := ReadSiteConfig(f)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(filename)
	c.TurbineFile = resolvePath(dir, c.TurbineFile)
	c.BoundaryFile = resolvePath(dir, c.BoundaryFile)
	return c, nil
}

func resolvePath(dir, path string) string {
	path = os.ExpandEnv(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Write encodes c to w in TOML format.
func (c *SiteConfig) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// frequency returns the configured sector frequencies, or uniform
// frequencies if none are configured.
func (c *SiteConfig) frequency() []float64 {
	if len(c.Frequency) > 0 {
		return c.Frequency
	}
	f := make([]float64, len(c.Scale))
	for i := range f {
		f[i] = 1
	}
	return f
}

// directions returns the configured wind directions, or the standard
// directions for the number of sectors.
func (c *SiteConfig) directions() ([]float64, error) {
	if len(c.Directions) > 0 {
		return c.Directions, nil
	}
	return StandardDirections(len(c.Scale))
}

func (c *SiteConfig) minSpacing() float64 {
	if c.MinSpacing > 0 {
		return c.MinSpacing
	}
	return 2 * c.Turbine.Diameter
}

// Validate checks the configuration for errors that can be found without
// reading the input files.
func (c *SiteConfig) Validate() error {
	if c.TurbineFile == "" || c.BoundaryFile == "" {
		return fmt.Errorf("windfarm: site %q: TurbineFile and BoundaryFile must be specified", c.Name)
	}
	if c.UTMZone < 1 || c.UTMZone > 60 {
		return fmt.Errorf("windfarm: site %q: %w", c.Name, ErrInvalidZone)
	}
	if err := c.Turbine.Validate(); err != nil {
		return err
	}
	if _, err := c.Resource(); err != nil {
		return err
	}
	dirs, err := c.directions()
	if err != nil {
		return err
	}
	if len(dirs) != len(c.Scale) {
		return fmt.Errorf("%w: %d directions, %d sectors", ErrDirectionMismatch, len(dirs), len(c.Scale))
	}
	switch strings.ToLower(c.WakeModel) {
	case "", "bastankhah", "none":
	default:
		return fmt.Errorf("windfarm: site %q: invalid wake model %q", c.Name, c.WakeModel)
	}
	if c.MinSpacing < 0 {
		return fmt.Errorf("windfarm: site %q: MinSpacing must not be negative", c.Name)
	}
	return nil
}

// Resource returns the wind resource described by c.
func (c *SiteConfig) Resource() (*WindResource, error) {
	ti := c.TurbulenceIntensity
	if ti == 0 {
		ti = c.Turbine.TurbulenceIntensity
	}
	return NewWindResource(c.frequency(), c.Scale, c.Shape, ti)
}

// Wake returns the configured wake model.
func (c *SiteConfig) Wake(ti float64) WakeModel {
	if strings.ToLower(c.WakeModel) == "none" {
		return NoWake{}
	}
	return BastankhahGaussian{K: c.WakeExpansion, TurbulenceIntensity: ti}
}

// Evaluator returns an AEP evaluator for the site.
func (c *SiteConfig) Evaluator() (*Evaluator, error) {
	r, err := c.Resource()
	if err != nil {
		return nil, err
	}
	curve, err := NewGenericCurve(c.Turbine)
	if err != nil {
		return nil, err
	}
	dirs, err := c.directions()
	if err != nil {
		return nil, err
	}
	return NewEvaluator(r, c.Turbine, curve, c.Wake(r.TurbulenceIntensity), dirs, c.Speeds)
}

// PenaltyOptimizer returns a PenaltyOptimizer with the configured settings.
func (c *SiteConfig) PenaltyOptimizer() *PenaltyOptimizer {
	o := NewPenaltyOptimizer()
	if c.Optimizer.Method != "" {
		o.Method = c.Optimizer.Method
	}
	if c.Optimizer.MaxIterations > 0 {
		o.MaxIterations = c.Optimizer.MaxIterations
	}
	if c.Optimizer.Tolerance > 0 {
		o.Tolerance = c.Optimizer.Tolerance
	}
	if c.Optimizer.PenaltyRounds > 0 {
		o.PenaltyRounds = c.Optimizer.PenaltyRounds
	}
	return o
}

// Site is a wind farm whose inputs have been read and projected.
type Site struct {
	Config *SiteConfig

	// Projector converts between longitude-latitude and the site's
	// UTM coordinates.
	Projector *Projector

	// Layout holds the turbines and boundary in UTM coordinates.
	Layout *Layout

	Evaluator   *Evaluator
	Constraints *Constraints
}

// Load reads the site's input files and prepares it for evaluation.
func (c *SiteConfig) Load() (*Site, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	l, err := ReadLayoutFiles(c.TurbineFile, c.BoundaryFile)
	if err != nil {
		return nil, err
	}
	p, err := NewUTMProjector(c.UTMZone)
	if err != nil {
		return nil, err
	}
	l, err = p.ProjectLayout(l)
	if err != nil {
		return nil, err
	}
	e, err := c.Evaluator()
	if err != nil {
		return nil, err
	}
	return &Site{
		Config:      c,
		Projector:   p,
		Layout:      l,
		Evaluator:   e,
		Constraints: &Constraints{Boundary: l.Boundary, MinSpacing: c.minSpacing()},
	}, nil
}

// AEP calculates the annual energy production of the existing layout.
func (s *Site) AEP() (*AEPResult, error) {
	return s.Evaluator.AEP(s.Layout.Turbines)
}

// Optimize maximizes the AEP of the site starting from the existing layout.
func (s *Site) Optimize(m Maximizer) (*OptimizationResult, error) {
	x, y := s.Layout.XY()
	return m.Maximize(s.Evaluator.AEPFunc(), x, y, s.Constraints)
}

// OptimizedLayout returns a copy of the site layout with the turbines
// moved to the positions in r.
func (s *Site) OptimizedLayout(r *OptimizationResult) *Layout {
	return &Layout{
		Turbines: xyToPoints(r.X, r.Y),
		Boundary: append(geom.Polygon(nil), s.Layout.Boundary...),
	}
}
