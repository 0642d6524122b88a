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

// Package report summarizes, tabulates, and plots wind farm energy
// calculations and layout optimizations.
package report

import (
	"fmt"
	"io"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/unit"

	"github.com/spatialmodel/windfarm"
)

// Summary holds summary statistics for an AEP calculation.
type Summary struct {
	Site    string
	Turbine string
	N       int

	// AEP is the total annual energy production [GWh].
	AEP float64

	// Unwaked is the annual energy production without wake losses [GWh].
	Unwaked float64

	// WakeLoss is the fraction of the unwaked AEP lost to wakes.
	WakeLoss float64

	// CapacityFactor is the AEP divided by the energy the farm would
	// produce running at rated power all year.
	CapacityFactor float64

	// Statistics of the per-turbine AEP [GWh].
	TurbineMean, TurbineMin, TurbineMax, TurbineStdDev float64
}

// Summarize calculates summary statistics for r, which was calculated
// for turbines of type t.
func Summarize(site string, t windfarm.Turbine, r *windfarm.AEPResult) (*Summary, error) {
	n := len(r.PerTurbine)
	if n == 0 {
		return nil, fmt.Errorf("report: AEP result has no turbines")
	}
	s := &Summary{
		Site:        site,
		Turbine:     t.Name,
		N:           n,
		AEP:         r.AEP,
		Unwaked:     r.Unwaked,
		WakeLoss:    r.WakeLoss(),
		TurbineMean: stats.StatsMean(r.PerTurbine),
		TurbineMin:  stats.StatsMin(r.PerTurbine),
		TurbineMax:  stats.StatsMax(r.PerTurbine),
	}
	if n > 1 {
		s.TurbineStdDev = stats.StatsSampleStandardDeviation(r.PerTurbine)
	}
	cf, err := CapacityFactor(r.Energy(), t.Capacity(), n)
	if err != nil {
		return nil, err
	}
	s.CapacityFactor = cf
	return s, nil
}

// CapacityFactor returns the ratio of energy to the energy that n
// turbines of the given capacity would produce in a year.
func CapacityFactor(energy, capacity *unit.Unit, n int) (float64, error) {
	year := unit.New(windfarm.HoursPerYear*3600, unit.Second)
	cf := unit.Div(energy, capacity, year, unit.New(float64(n), unit.Dimless))
	if err := cf.Check(unit.Dimless); err != nil {
		return 0, fmt.Errorf("report: capacity factor: %v", err)
	}
	return cf.Value(), nil
}

// Write prints the summary to w.
func (s *Summary) Write(w io.Writer) error {
	if err := PrintTotalAEP(w, s.Site, s.AEP); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Turbines: %d x %s\n"+
		"Unwaked AEP: %.2f GWh/year\n"+
		"Wake loss: %.2f%%\n"+
		"Capacity factor: %.1f%%\n"+
		"Per-turbine AEP: mean %.2f, min %.2f, max %.2f, std. dev. %.2f GWh/year\n",
		s.N, s.Turbine, s.Unwaked, s.WakeLoss*100, s.CapacityFactor*100,
		s.TurbineMean, s.TurbineMin, s.TurbineMax, s.TurbineStdDev)
	return err
}

// PrintTotalAEP prints the total AEP [GWh] of the named site.
func PrintTotalAEP(w io.Writer, site string, aep float64) error {
	_, err := fmt.Fprintf(w, " Total AEP for %s: %.2f GWh/year\n", site, aep)
	return err
}

// PrintTrace prints the AEP [GWh] at each optimization iteration.
func PrintTrace(w io.Writer, trace []windfarm.TraceEntry) error {
	for _, t := range trace {
		if _, err := fmt.Fprintf(w, "Iteration %d: %.2f GWh\n", t.Iteration, t.AEP); err != nil {
			return err
		}
	}
	return nil
}

// PrintFinalAEP prints the optimized AEP [GWh] of the named site.
func PrintFinalAEP(w io.Writer, site string, aep float64) error {
	_, err := fmt.Fprintf(w, "Final Optimized AEP for %s: %.2f GWh/year\n", site, aep)
	return err
}
