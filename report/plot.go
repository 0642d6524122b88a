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

package report

import (
	"fmt"
	"os"

	"github.com/ctessum/geom"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spatialmodel/windfarm"
)

// LayoutPlot plots the lease boundary and the initial and optimized
// turbine positions, all in UTM coordinates [m]. optimized may be nil.
func LayoutPlot(title string, boundary geom.Polygon, initial, optimized *windfarm.Layout) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Easting (m)"
	p.Y.Label.Text = "Northing (m)"

	for _, ring := range boundary {
		xy := make(plotter.XYs, len(ring))
		for i, pt := range ring {
			xy[i].X, xy[i].Y = pt.X, pt.Y
		}
		l, err := plotter.NewLine(xy)
		if err != nil {
			return nil, err
		}
		l.Color = plotutil.Color(0)
		p.Add(l)
		p.Legend.Add("Boundary", l)
	}

	add := func(name string, l *windfarm.Layout, i int, shape draw.GlyphDrawer) error {
		s, err := plotter.NewScatter(turbineXYs(l))
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = shape
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(name, s)
		return nil
	}
	if initial != nil {
		if err := add("Initial", initial, 1, draw.CircleGlyph{}); err != nil {
			return nil, err
		}
	}
	if optimized != nil {
		if err := add("Optimized", optimized, 2, draw.CrossGlyph{}); err != nil {
			return nil, err
		}
	}
	p.Legend.Top = true
	return p, nil
}

func turbineXYs(l *windfarm.Layout) plotter.XYs {
	xy := make(plotter.XYs, len(l.Turbines))
	for i, pt := range l.Turbines {
		xy[i].X, xy[i].Y = pt.X, pt.Y
	}
	return xy
}

// ConvergencePlot plots the AEP at each iteration of an optimization
// relative to opt, the optimized AEP.
func ConvergencePlot(title string, trace []windfarm.TraceEntry, opt float64) (*plot.Plot, error) {
	xy, err := convergenceXYs(trace, opt)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "AEP/AEP_opt"
	if err := plotutil.AddLinePoints(p, "AEP", xy); err != nil {
		return nil, err
	}
	return p, nil
}

func convergenceXYs(trace []windfarm.TraceEntry, opt float64) (plotter.XYs, error) {
	if len(trace) == 0 {
		return nil, fmt.Errorf("report: empty optimization trace")
	}
	if opt == 0 {
		return nil, fmt.Errorf("report: optimized AEP is zero")
	}
	xy := make(plotter.XYs, len(trace))
	for i, t := range trace {
		xy[i].X = float64(t.Iteration)
		xy[i].Y = t.AEP / opt
	}
	return xy, nil
}

// SavePlot writes p to filename. The file format is determined by
// the file extension.
func SavePlot(p *plot.Plot, filename string) error {
	filename = os.ExpandEnv(filename)
	if err := p.Save(6*vg.Inch, 5*vg.Inch, filename); err != nil {
		return fmt.Errorf("report: saving plot: %v", err)
	}
	return nil
}
