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
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/spatialmodel/windfarm/internal/hash"
)

// ErrInfeasible is returned when an optimizer cannot find any layout that
// satisfies the constraints.
var ErrInfeasible = errors.New("windfarm: no layout satisfying the constraints was found")

// Maximizer searches for turbine positions that maximize an AEPFunc
// subject to Constraints, starting from eastings x0 and northings y0.
// The returned layout must satisfy the constraints.
type Maximizer interface {
	Maximize(f AEPFunc, x0, y0 []float64, c *Constraints) (*OptimizationResult, error)
}

// TraceEntry records the state of an optimization at one iteration.
type TraceEntry struct {
	Iteration int
	AEP       float64 // GWh
	X, Y      []float64
	Feasible  bool
}

// OptimizationResult holds the outcome of a layout optimization.
type OptimizationResult struct {
	// X and Y are the optimized turbine eastings and northings. They
	// always satisfy the constraints.
	X, Y []float64

	// AEP is the annual energy production of the optimized layout [GWh].
	AEP float64

	// Cost is the objective value minimized by the solver, which is -AEP.
	Cost float64

	// InitialAEP is the annual energy production of the starting layout [GWh].
	InitialAEP float64

	// Trace holds the starting layout as iteration 0, followed by
	// every major iteration of the solver.
	Trace []TraceEntry

	// Converged is false if the solver stopped because it reached the
	// iteration limit or failed before meeting its convergence criteria.
	Converged bool

	// Status describes why the solver stopped.
	Status string

	// Evaluations is the number of AEP evaluations performed.
	Evaluations int
}

// PenaltyOptimizer is a Maximizer that converts the constrained problem
// into a sequence of unconstrained problems by adding a quadratic penalty
// for constraint violations, with the penalty weight increasing tenfold
// each round until the solution is feasible. The unconstrained problems
// are solved with gonum's optimize package using finite-difference gradients.
type PenaltyOptimizer struct {
	// Method is the gonum optimization method: LBFGS (the default), BFGS,
	// GradientDescent, or NelderMead.
	Method string

	// MaxIterations is the maximum number of major iterations over all
	// penalty rounds.
	MaxIterations int

	// Tolerance is the convergence tolerance of the relative AEP.
	Tolerance float64

	// PenaltyRounds is the maximum number of penalty weight increases.
	PenaltyRounds int

	// PenaltyWeight is the initial weight of the penalty term.
	PenaltyWeight float64

	// Margin [m] tightens the constraints seen by the solver so that
	// converged layouts are strictly feasible.
	Margin float64

	// Step is the finite-difference step [m].
	Step float64

	// Log receives status messages. If it is nil, the logrus standard
	// logger is used.
	Log logrus.FieldLogger

	// Progress, if not nil, is called after every major iteration.
	Progress func(iteration int, aep float64)
}

// NewPenaltyOptimizer returns a PenaltyOptimizer with default settings.
func NewPenaltyOptimizer() *PenaltyOptimizer {
	return &PenaltyOptimizer{
		Method:        "LBFGS",
		MaxIterations: 100,
		Tolerance:     1e-6,
		PenaltyRounds: 4,
		PenaltyWeight: 1,
		Margin:        1,
		Step:          1,
	}
}

// penaltyScale [m] non-dimensionalizes the squared constraint violations.
const penaltyScale = 10.0

func (o *PenaltyOptimizer) log() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

func (o *PenaltyOptimizer) method() (optimize.Method, error) {
	switch strings.ToLower(o.Method) {
	case "", "lbfgs":
		return &optimize.LBFGS{}, nil
	case "bfgs":
		return &optimize.BFGS{}, nil
	case "gradientdescent":
		return &optimize.GradientDescent{}, nil
	case "neldermead":
		return &optimize.NelderMead{}, nil
	default:
		return nil, fmt.Errorf("windfarm: invalid optimization method %q", o.Method)
	}
}

// memoAEP remembers the AEP of the layouts evaluated since it was last
// reset, so that the solver's iterates are not evaluated twice.
type memoAEP struct {
	f     AEPFunc
	cache map[string]float64

	// evaluations is the number of calls to f.
	evaluations int
}

func (m *memoAEP) aep(x, y []float64) (float64, error) {
	key := hash.Layout(x, y)
	if v, ok := m.cache[key]; ok {
		return v, nil
	}
	v, err := m.f(x, y)
	if err != nil {
		return 0, err
	}
	m.evaluations++
	m.cache[key] = v
	return v, nil
}

func (m *memoAEP) reset() { m.cache = make(map[string]float64) }

// traceRecorder is an optimize.Recorder that records the feasible
// layout with the highest AEP and the AEP at each major iteration.
type traceRecorder struct {
	o   *PenaltyOptimizer
	f   *memoAEP
	c   *Constraints
	res *OptimizationResult

	bestAEP float64
	best    []float64
}

func (r *traceRecorder) Init() error { return nil }

func (r *traceRecorder) Record(loc *optimize.Location, op optimize.Operation, _ *optimize.Stats) error {
	if op != optimize.MajorIteration {
		return nil
	}
	return r.add(loc.X)
}

// isLast reports whether v is the layout at the end of the trace.
func (r *traceRecorder) isLast(v []float64) bool {
	n := len(v) / 2
	last := r.res.Trace[len(r.res.Trace)-1]
	return floats.Equal(last.X, v[:n]) && floats.Equal(last.Y, v[n:])
}

// add evaluates the layout v and adds it to the trace.
func (r *traceRecorder) add(v []float64) error {
	n := len(v) / 2
	x := append([]float64(nil), v[:n]...)
	y := append([]float64(nil), v[n:]...)
	aep, err := r.f.aep(x, y)
	if err != nil {
		return err
	}
	r.f.reset()
	feasible := r.c.Feasible(x, y)
	it := len(r.res.Trace)
	r.res.Trace = append(r.res.Trace, TraceEntry{Iteration: it, AEP: aep, X: x, Y: y, Feasible: feasible})
	if feasible && (r.best == nil || aep > r.bestAEP) {
		r.bestAEP = aep
		r.best = append(r.best[:0], v...)
	}
	r.o.log().WithFields(logrus.Fields{
		"iteration": it,
		"aep":       aep,
		"feasible":  feasible,
	}).Debug("optimization iteration")
	if r.o.Progress != nil {
		r.o.Progress(it, aep)
	}
	return nil
}

// Maximize implements Maximizer.
func (o *PenaltyOptimizer) Maximize(f AEPFunc, x0, y0 []float64, c *Constraints) (*OptimizationResult, error) {
	if len(x0) == 0 || len(x0) != len(y0) {
		return nil, fmt.Errorf("windfarm: optimization needs the same non-zero number of eastings and northings (%d, %d)",
			len(x0), len(y0))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if o.MaxIterations < 1 {
		return nil, fmt.Errorf("windfarm: MaxIterations must be at least 1")
	}
	n := len(x0)
	v := make([]float64, 2*n)
	copy(v[:n], x0)
	copy(v[n:], y0)

	res := new(OptimizationResult)
	memo := &memoAEP{f: f}
	memo.reset()
	defer func() { res.Evaluations = memo.evaluations }()
	rec := &traceRecorder{o: o, f: memo, c: c, res: res}
	if err := rec.add(v); err != nil {
		return nil, fmt.Errorf("windfarm: evaluating initial layout: %w", err)
	}
	res.InitialAEP = res.Trace[0].AEP
	if !res.Trace[0].Feasible {
		o.log().WithField("violation", c.Check(x0, y0).String()).Warn("initial layout is infeasible")
	}
	scale := math.Abs(res.InitialAEP)
	if scale == 0 {
		scale = 1
	}

	var evalErr error
	weight := o.PenaltyWeight
	cost := func(v []float64) float64 {
		if evalErr != nil {
			return math.Inf(1)
		}
		aep, err := memo.aep(v[:n], v[n:])
		if err != nil {
			evalErr = err
			return math.Inf(1)
		}
		p := c.Penalty(v[:n], v[n:], o.Margin) / (penaltyScale * penaltyScale)
		return -aep/scale + weight*p
	}
	step := o.Step
	if step <= 0 {
		step = 1
	}
	problem := optimize.Problem{
		Func: cost,
		Grad: func(grad, v []float64) {
			fd.Gradient(grad, cost, v, &fd.Settings{Formula: fd.Central, Step: step})
		},
	}

	rounds := o.PenaltyRounds
	if rounds < 1 {
		rounds = 1
	}
	var status optimize.Status
	for round := 0; round < rounds; round++ {
		remaining := o.MaxIterations - (len(res.Trace) - 1)
		if remaining < 1 {
			status = optimize.IterationLimit
			break
		}
		method, err := o.method()
		if err != nil {
			return nil, err
		}
		settings := &optimize.Settings{
			MajorIterations: remaining,
			Converger: &optimize.FunctionConverge{
				Absolute:   o.Tolerance,
				Iterations: 3,
			},
			Recorder: rec,
		}
		o.log().WithFields(logrus.Fields{
			"round":  round,
			"weight": weight,
		}).Debug("starting penalty round")
		result, err := optimize.Minimize(problem, v, settings, method)
		if evalErr != nil {
			return nil, fmt.Errorf("windfarm: evaluating AEP during optimization: %w", evalErr)
		}
		if result == nil {
			return nil, fmt.Errorf("windfarm: optimization failed: %w", err)
		}
		status = result.Status
		if err != nil {
			// Failing to make progress is not fatal: the best feasible
			// iterate so far is still usable.
			o.log().WithError(err).Warn("optimizer stopped before converging")
			status = optimize.Failure
			break
		}
		// gonum returns at the iteration limit without recording the
		// final major iteration.
		if len(res.Trace)-1 < o.MaxIterations && !rec.isLast(result.X) {
			if err := rec.add(result.X); err != nil {
				return nil, fmt.Errorf("windfarm: evaluating AEP during optimization: %w", err)
			}
		}
		copy(v, result.X)
		if c.Feasible(v[:n], v[n:]) || status == optimize.IterationLimit {
			break
		}
		weight *= 10
	}

	if rec.best == nil {
		return nil, fmt.Errorf("%w: %s", ErrInfeasible, c.Check(v[:n], v[n:]).String())
	}
	res.X = append([]float64(nil), rec.best[:n]...)
	res.Y = append([]float64(nil), rec.best[n:]...)
	res.AEP = rec.bestAEP
	res.Cost = -rec.bestAEP
	res.Status = status.String()
	switch status {
	case optimize.Success, optimize.FunctionConvergence, optimize.GradientThreshold,
		optimize.StepConvergence, optimize.MethodConverge:
		res.Converged = true
	}
	return res, nil
}
