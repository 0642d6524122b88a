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

package windfarmutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cast"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/spatialmodel/windfarm"
	"github.com/spatialmodel/windfarm/report"
)

// SiteConfig creates a site configuration from a viper configuration,
// either by reading the file given by the "site" option or from the
// built-in site given by the "preset" option. Other options override
// the values in the site configuration.
func SiteConfig(cfg *viper.Viper) (*windfarm.SiteConfig, error) {
	var c *windfarm.SiteConfig
	var err error
	if f := cfg.GetString("site"); f != "" {
		c, err = windfarm.ReadSiteConfigFile(f)
	} else {
		c, err = windfarm.Preset(cfg.GetString("preset"), os.ExpandEnv(cfg.GetString("datadir")))
	}
	if err != nil {
		return nil, err
	}
	if f := cfg.GetString("turbines"); f != "" {
		c.TurbineFile = os.ExpandEnv(f)
	}
	if f := cfg.GetString("boundary"); f != "" {
		c.BoundaryFile = os.ExpandEnv(f)
	}
	dirs, err := directions(cfg.Get("directions"))
	if err != nil {
		return nil, err
	}
	if len(dirs) > 0 {
		c.Directions = dirs
	}
	if m := cfg.GetString("Optimizer.Method"); m != "" {
		c.Optimizer.Method = m
	}
	if n := cfg.GetInt("Optimizer.MaxIterations"); n > 0 {
		c.Optimizer.MaxIterations = n
	}
	if tol := cfg.GetFloat64("Optimizer.Tolerance"); tol > 0 {
		c.Optimizer.Tolerance = tol
	}
	return c, nil
}

// directions converts a list of wind directions from a flag, environment
// variable, or configuration file, where they may be separated by commas
// or spaces.
func directions(v interface{}) ([]float64, error) {
	items, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("windfarm: invalid directions: %v", err)
	}
	var dirs []float64
	for _, item := range items {
		for _, s := range strings.Split(strings.Trim(item, "[]"), ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			d, err := cast.ToFloat64E(s)
			if err != nil {
				return nil, fmt.Errorf("windfarm: invalid direction %q: %v", s, err)
			}
			dirs = append(dirs, d)
		}
	}
	return dirs, nil
}

// AEP calculates the annual energy production of the existing layout of
// the site described by c and writes a summary to w. If outputDir is not
// empty, the layout is also written there as GeoJSON and as a shapefile.
func AEP(w io.Writer, c *windfarm.SiteConfig, outputDir string) error {
	s, err := c.Load()
	if err != nil {
		return err
	}
	Log.WithField("site", c.Name).Infof("calculating AEP for %d turbines", len(s.Layout.Turbines))
	r, err := s.AEP()
	if err != nil {
		return err
	}
	sum, err := report.Summarize(c.Name, c.Turbine, r)
	if err != nil {
		return err
	}
	if err := sum.Write(w); err != nil {
		return err
	}
	if outputDir == "" {
		return nil
	}
	x, y := s.Layout.XY()
	return writeLayout(outputDir, "layout", s.Projector, x, y, r.PerTurbine)
}

// OptimizeOptions holds settings for the Optimize function.
type OptimizeOptions struct {
	// OutputDir is the directory to write output files to. If it is
	// empty, no files are written.
	OutputDir string

	// Progress specifies whether to display a progress bar.
	Progress bool

	// Show specifies whether to open the output plots.
	Show bool
}

// Optimize optimizes the layout of the site described by c and writes a
// summary to w.
func Optimize(w io.Writer, c *windfarm.SiteConfig, opts OptimizeOptions) error {
	s, err := c.Load()
	if err != nil {
		return err
	}
	initial, err := s.AEP()
	if err != nil {
		return err
	}
	if err := report.PrintTotalAEP(w, c.Name, initial.AEP); err != nil {
		return err
	}

	o := c.PenaltyOptimizer()
	o.Log = Log.WithField("site", c.Name)
	if opts.Progress {
		bar := pb.New(o.MaxIterations)
		bar.Output = os.Stderr
		bar.ShowSpeed = false
		bar.Start()
		o.Progress = func(iteration int, _ float64) {
			if iteration <= o.MaxIterations {
				bar.Set(iteration)
			}
		}
		defer bar.Finish()
	}
	Log.WithFields(logrus.Fields{
		"site":          c.Name,
		"method":        o.Method,
		"maxIterations": o.MaxIterations,
	}).Info("optimizing layout")
	res, err := s.Optimize(o)
	if err != nil {
		return err
	}
	if !res.Converged {
		Log.WithField("status", res.Status).Warn("optimization did not converge; reporting the best layout found")
	}
	if err := report.PrintTrace(w, res.Trace); err != nil {
		return err
	}
	if err := report.PrintFinalAEP(w, c.Name, res.AEP); err != nil {
		return err
	}
	if opts.OutputDir == "" {
		return nil
	}
	return writeOptimizationOutputs(s, initial, res, opts)
}

// writeLayout writes turbine positions to GeoJSON and shapefile files
// with the given base name in dir.
func writeLayout(dir, base string, p *windfarm.Projector, x, y, aep []float64) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, base+".geojson"))
	if err != nil {
		return err
	}
	if err := windfarm.WriteLayoutGeoJSON(f, p, x, y, aep); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return windfarm.WriteLayoutShapefile(filepath.Join(dir, base+".shp"), p, x, y, aep)
}

func writeOptimizationOutputs(s *windfarm.Site, initial *windfarm.AEPResult, res *windfarm.OptimizationResult, opts OptimizeOptions) error {
	dir := opts.OutputDir
	final, err := s.Evaluator.AEPXY(res.X, res.Y)
	if err != nil {
		return err
	}
	x0, y0 := s.Layout.XY()
	if err := writeLayout(dir, "initial_layout", s.Projector, x0, y0, initial.PerTurbine); err != nil {
		return err
	}
	if err := writeLayout(dir, "optimized_layout", s.Projector, res.X, res.Y, final.PerTurbine); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "result.gob"))
	if err != nil {
		return err
	}
	if err := windfarm.SaveResult(f, res); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := report.WriteTraceXLSX(filepath.Join(dir, "trace.xlsx"), res.Trace); err != nil {
		return err
	}

	name := s.Config.Name
	lp, err := report.LayoutPlot(name+" layout", s.Layout.Boundary, s.Layout, s.OptimizedLayout(res))
	if err != nil {
		return err
	}
	layoutFile := filepath.Join(dir, "layout.png")
	if err := report.SavePlot(lp, layoutFile); err != nil {
		return err
	}
	cp, err := report.ConvergencePlot(name+" convergence", res.Trace, res.AEP)
	if err != nil {
		return err
	}
	convergenceFile := filepath.Join(dir, "convergence.png")
	if err := report.SavePlot(cp, convergenceFile); err != nil {
		return err
	}
	Log.WithField("dir", dir).Info("wrote output files")

	if opts.Show {
		for _, f := range []string{layoutFile, convergenceFile} {
			if err := open.Run(f); err != nil {
				Log.WithError(err).Warn("unable to open plot")
			}
		}
	}
	return nil
}
