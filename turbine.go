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
	"math"

	"github.com/ctessum/unit"
)

// Turbine holds the fixed attributes of a wind turbine model.
type Turbine struct {
	Name string

	// Diameter is the rotor diameter [m].
	Diameter float64

	// HubHeight is the hub height above sea level [m].
	HubHeight float64

	// RatedPower is the nameplate capacity [kW].
	RatedPower float64

	// TurbulenceIntensity is the ambient turbulence intensity the turbine
	// was specified for.
	TurbulenceIntensity float64
}

// Validate checks that the turbine attributes are physically meaningful.
func (t Turbine) Validate() error {
	if !(t.Diameter > 0) {
		return fmt.Errorf("windfarm: turbine %q diameter must be positive", t.Name)
	}
	if !(t.HubHeight > 0) {
		return fmt.Errorf("windfarm: turbine %q hub height must be positive", t.Name)
	}
	if !(t.RatedPower > 0) {
		return fmt.Errorf("windfarm: turbine %q rated power must be positive", t.Name)
	}
	if t.TurbulenceIntensity < 0 {
		return fmt.Errorf("windfarm: turbine %q turbulence intensity must not be negative", t.Name)
	}
	return nil
}

// RotorArea returns the swept area of the rotor [m²].
func (t Turbine) RotorArea() float64 {
	return math.Pi * t.Diameter * t.Diameter / 4
}

// Capacity returns the rated power as a dimensioned quantity [W].
func (t Turbine) Capacity() *unit.Unit {
	return unit.New(t.RatedPower*1000, unit.Watt)
}

// PowerCurve gives the electrical power output and thrust coefficient of
// a turbine as a function of the wind speed at hub height.
type PowerCurve interface {
	// Power returns the power output [kW] at wind speed ws [m/s].
	Power(ws float64) float64

	// ThrustCoefficient returns the thrust coefficient at wind speed ws [m/s].
	ThrustCoefficient(ws float64) float64
}

const (
	airDensity = 1.225 // kg/m³

	// Generic turbine curve parameters.
	genericCutIn  = 3.0  // m/s
	genericCutOut = 25.0 // m/s
	genericCp     = 0.48
	genericCt     = 0.8
	genericCtIdle = 0.03
)

// GenericCurve is a simple power and thrust curve for a modern
// pitch-regulated turbine with the given Turbine attributes. Below the rated
// wind speed the turbine operates at a constant power coefficient, and
// above it the power is held at the rated value by reducing the thrust.
type GenericCurve struct {
	Turbine

	CutIn, CutOut float64 // m/s

	// RatedSpeed is the wind speed at which rated power is reached [m/s].
	RatedSpeed float64
}

// NewGenericCurve returns a generic power curve for t.
func NewGenericCurve(t Turbine) (*GenericCurve, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	vr := math.Cbrt(2 * t.RatedPower * 1000 / (airDensity * t.RotorArea() * genericCp))
	return &GenericCurve{
		Turbine:    t,
		CutIn:      genericCutIn,
		CutOut:     genericCutOut,
		RatedSpeed: vr,
	}, nil
}

// Power implements PowerCurve.
func (c *GenericCurve) Power(ws float64) float64 {
	if ws < c.CutIn || ws > c.CutOut {
		return 0
	}
	if ws >= c.RatedSpeed {
		return c.RatedPower
	}
	p := 0.5 * airDensity * c.RotorArea() * genericCp * ws * ws * ws / 1000
	return math.Min(p, c.RatedPower)
}

// ThrustCoefficient implements PowerCurve.
func (c *GenericCurve) ThrustCoefficient(ws float64) float64 {
	if ws < c.CutIn || ws > c.CutOut {
		return genericCtIdle
	}
	if ws <= c.RatedSpeed {
		return genericCt
	}
	r := c.RatedSpeed / ws
	return math.Max(genericCt*r*r*r, genericCtIdle)
}
