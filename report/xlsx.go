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

	"github.com/tealeg/xlsx"

	"github.com/spatialmodel/windfarm"
)

// WriteTraceXLSX writes an optimization trace to an Excel file with two
// sheets: "AEP", with the AEP at each iteration, and "Layout", with the
// turbine positions at each iteration.
func WriteTraceXLSX(filename string, trace []windfarm.TraceEntry) error {
	f := xlsx.NewFile()
	aep, err := f.AddSheet("AEP")
	if err != nil {
		return err
	}
	row := aep.AddRow()
	for _, h := range []string{"Iteration", "AEP (GWh)", "Feasible"} {
		row.AddCell().SetString(h)
	}
	for _, t := range trace {
		row = aep.AddRow()
		row.AddCell().SetInt(t.Iteration)
		row.AddCell().SetFloat(t.AEP)
		row.AddCell().SetBool(t.Feasible)
	}

	layout, err := f.AddSheet("Layout")
	if err != nil {
		return err
	}
	row = layout.AddRow()
	for _, h := range []string{"Iteration", "Turbine", "Easting (m)", "Northing (m)"} {
		row.AddCell().SetString(h)
	}
	for _, t := range trace {
		for i := range t.X {
			row = layout.AddRow()
			row.AddCell().SetInt(t.Iteration)
			row.AddCell().SetInt(i)
			row.AddCell().SetFloat(t.X[i])
			row.AddCell().SetFloat(t.Y[i])
		}
	}
	if err := f.Save(os.ExpandEnv(filename)); err != nil {
		return fmt.Errorf("report: saving trace: %v", err)
	}
	return nil
}
