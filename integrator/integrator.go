// integrator project integrator.go
// Adaptive Dormand-Prince 5(4) stepper with root (event) detection.
// The event clock in the state is watched after every accepted step; a
// sign change is located by bisection to RootTol, the transform applied,
// and integration resumes from the rewritten state.
/*
Copyright 2021 Bruce Golden and Matt Spangler

Permission is hereby granted, free of charge, to any person obtaining a copy of
this software and associated documentation files (the "Software"), to deal in
the Software without restriction, including without limitation the rights to
use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
of the Software, and to permit persons to whom the Software is furnished to do
so, subject to the following conditions:
The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package integrator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Func is the right hand side of the system: it fills dy with the
// derivative of y at time t.
type Func func(t float64, y, dy []float64)

// EventFunc fills g with one signed value per watched root condition.
type EventFunc func(t float64, y, g []float64)

// Transform rewrites the state at a located root crossing.  It must not
// modify y; it returns the post-event state.
type Transform func(t float64, y []float64) []float64

var (
	// ErrStepTooSmall means the step control pushed the step size below
	// MinStep without meeting the error tolerance.
	ErrStepTooSmall = errors.New("integrator: step size below minimum, tolerance not met")

	// ErrMaxSteps means the step budget for one Integrate call ran out.
	ErrMaxSteps = errors.New("integrator: maximum step count exceeded")

	// ErrInvalidState means the state picked up a NaN or Inf.
	ErrInvalidState = errors.New("integrator: state is NaN or Inf")
)

// Config controls the adaptive step machinery.  Zero values take the
// defaults.
type Config struct {
	InitialStep float64 // first attempted step size (default 1e-2)
	MinStep     float64 // abort below this (default 1e-12)
	MaxStep     float64 // never step farther than this (default 1.0)

	AbsTol float64 // absolute error tolerance (default 1e-8)
	RelTol float64 // relative error tolerance (default 1e-6)

	RootTol float64 // event location tolerance in time (default 1e-9)

	MaxSteps int // attempted steps per Integrate call (default 500000)
}

func (c Config) withDefaults() Config {
	if c.InitialStep <= 0 {
		c.InitialStep = 1e-2
	}
	if c.MinStep <= 0 {
		c.MinStep = 1e-12
	}
	if c.MaxStep <= 0 {
		c.MaxStep = 1.0
	}
	if c.AbsTol <= 0 {
		c.AbsTol = 1e-8
	}
	if c.RelTol <= 0 {
		c.RelTol = 1e-6
	}
	if c.RootTol <= 0 {
		c.RootTol = 1e-9
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = 500000
	}
	return c
}

// Statistics accumulates across Integrate calls on one stepper.
type Statistics struct {
	Steps       int // accepted steps
	Rejected    int // rejected step attempts
	Evaluations int // right-hand-side evaluations
	Events      int // root crossings handled

	LastStep    float64
	CurrentTime float64
}

// Dormand-Prince 5(4) tableau.
var (
	dpA = [7][6]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0.0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}
	dpC = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1.0, 1.0}

	// 5th order solution weights are row 6 of dpA; these are the error
	// weights, the difference against the embedded 4th order solution.
	dpE = [7]float64{
		71.0 / 57600.0, 0.0, -71.0 / 16695.0, 71.0 / 1920.0,
		-17253.0 / 339200.0, 22.0 / 525.0, -1.0 / 40.0,
	}
)

// DormandPrince integrates one system.  It is not safe for concurrent
// use; each replicate owns its own stepper.
type DormandPrince struct {
	fcn Func
	cfg Config

	stat Statistics
	h    float64 // carried step size between calls

	nRoots int
	roots  EventFunc
	apply  Transform

	k     [7][]float64
	ytmp  []float64
	ynew  []float64
	yerr  []float64
	gPrev []float64
	gCur  []float64
}

// New builds a stepper for an n-dimensional system.
func New(fcn Func, n int, cfg Config) *DormandPrince {
	dp := &DormandPrince{fcn: fcn, cfg: cfg.withDefaults()}
	for i := range dp.k {
		dp.k[i] = make([]float64, n)
	}
	dp.ytmp = make([]float64, n)
	dp.ynew = make([]float64, n)
	dp.yerr = make([]float64, n)
	dp.h = dp.cfg.InitialStep
	return dp
}

// SetEvents registers the root conditions and the state transform fired
// at each located crossing.
func (dp *DormandPrince) SetEvents(nRoots int, roots EventFunc, apply Transform) {
	dp.nRoots = nRoots
	dp.roots = roots
	dp.apply = apply
	dp.gPrev = make([]float64, nRoots)
	dp.gCur = make([]float64, nRoots)
}

// Stats returns the accumulated statistics.
func (dp *DormandPrince) Stats() Statistics {
	return dp.stat
}

// step takes one trial step of size h from (t, y) into dp.ynew and
// returns the scaled error norm.
func (dp *DormandPrince) step(t, h float64, y []float64) float64 {
	dp.fcn(t, y, dp.k[0])
	for s := 1; s < 7; s++ {
		copy(dp.ytmp, y)
		for j := 0; j < s; j++ {
			if dpA[s][j] != 0 {
				floats.AddScaled(dp.ytmp, h*dpA[s][j], dp.k[j])
			}
		}
		dp.fcn(t+dpC[s]*h, dp.ytmp, dp.k[s])
	}
	dp.stat.Evaluations += 7

	// 5th order solution is the last stage evaluation point.
	copy(dp.ynew, y)
	for j := 0; j < 6; j++ {
		if dpA[6][j] != 0 {
			floats.AddScaled(dp.ynew, h*dpA[6][j], dp.k[j])
		}
	}

	for i := range dp.yerr {
		dp.yerr[i] = 0
	}
	for j := 0; j < 7; j++ {
		if dpE[j] != 0 {
			floats.AddScaled(dp.yerr, h*dpE[j], dp.k[j])
		}
	}

	var sum float64
	for i := range dp.yerr {
		sc := dp.cfg.AbsTol + dp.cfg.RelTol*math.Max(math.Abs(y[i]), math.Abs(dp.ynew[i]))
		r := dp.yerr[i] / sc
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(dp.yerr)))
}

// crossed reports whether any root component changed sign between the
// two evaluations.
func crossed(gOld, gNew []float64) bool {
	for i := range gOld {
		if (gOld[i] < 0 && gNew[i] >= 0) || (gOld[i] > 0 && gNew[i] <= 0) {
			return true
		}
	}
	return false
}

// settleRoots zeroes components sitting on the crossed side within
// RootTol so a just-handled crossing cannot refire from numerical
// residue.  A component still short of its threshold is left alone no
// matter how close: that crossing has not fired yet and must still be
// detected.
func (dp *DormandPrince) settleRoots(g []float64) {
	for i := range g {
		if g[i] >= 0 && g[i] <= dp.cfg.RootTol {
			g[i] = 0
		}
	}
}

// locate bisects the step length down to RootTol and returns the
// smallest length at which a crossing has occurred.  gTrial evaluations
// use fresh trial steps from the accepted step's start state.
func (dp *DormandPrince) locate(t float64, y []float64, h float64) float64 {
	lo, hi := 0.0, h
	gTrial := make([]float64, dp.nRoots)
	for hi-lo > dp.cfg.RootTol {
		mid := 0.5 * (lo + hi)
		dp.step(t, mid, y)
		dp.roots(t+mid, dp.ynew, gTrial)
		if crossed(dp.gPrev, gTrial) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

// Integrate advances y in place from t0 to t1, handling any root
// crossings on the way.  The step size carries over between calls.
func (dp *DormandPrince) Integrate(t0, t1 float64, y []float64) error {
	t := t0
	if dp.nRoots > 0 {
		dp.roots(t, y, dp.gPrev)
		dp.settleRoots(dp.gPrev)
	}

	steps := 0
	for t < t1 {
		steps++
		if steps > dp.cfg.MaxSteps {
			return ErrMaxSteps
		}

		h := math.Min(dp.h, dp.cfg.MaxStep)
		truncated := t+h > t1
		if truncated {
			h = t1 - t
		}

		errNorm := dp.step(t, h, y)

		if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
			dp.stat.Rejected++
			dp.h = 0.5 * h
			if dp.h < dp.cfg.MinStep {
				return ErrInvalidState
			}
			continue
		}

		if errNorm > 1 {
			dp.stat.Rejected++
			dp.h = h * math.Max(0.2, 0.9*math.Pow(errNorm, -0.2))
			if dp.h < dp.cfg.MinStep {
				return ErrStepTooSmall
			}
			continue
		}

		// Accepted.
		if dp.nRoots > 0 {
			dp.roots(t+h, dp.ynew, dp.gCur)
			if crossed(dp.gPrev, dp.gCur) {
				he := dp.locate(t, y, h)
				dp.step(t, he, y)
				te := t + he

				post := dp.apply(te, dp.ynew)
				copy(y, post)
				t = te

				// The kept step is the event-truncated one.
				dp.stat.Steps++
				dp.stat.LastStep = he
				dp.stat.Events++

				dp.roots(t, y, dp.gPrev)
				dp.settleRoots(dp.gPrev)
				continue
			}
			copy(dp.gPrev, dp.gCur)
		}

		dp.stat.Steps++
		dp.stat.LastStep = h
		copy(y, dp.ynew)
		t += h

		grow := 5.0
		if errNorm > 0 {
			grow = 0.9 * math.Pow(errNorm, -0.2)
		}
		newH := h * math.Min(5.0, math.Max(0.2, grow))
		// A boundary-truncated step must not shrink the carried step size.
		if !truncated || newH > dp.h {
			dp.h = newH
		}
	}

	dp.stat.CurrentTime = t
	return nil
}
