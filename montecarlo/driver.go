// montecarlo project driver.go
// Outer replicate loop: one parameter draw, one fresh state vector and
// one integrator per replicate, fanned out across the CPUs.  Replicates
// share nothing but the seed stream, which is drawn up front.
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
package montecarlo

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/herd"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/integrator"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/sampler"
)

// nonNegTol is the numerical slack allowed before a negative compartment
// is flagged as an invariant violation.
const nonNegTol = 1e-6

// Result_t is one replicate's outcome.  Err is set when the replicate
// failed; the partial trajectory up to the failure is kept.
type Result_t struct {
	Replicate int
	Seed      uint64

	Params herd.Params_t
	Values map[string]float64 // realized draws by parameter name

	// Trajectory row r is the full state vector at day r.
	Trajectory *mat.Dense

	Violations []string // flagged invariant violations, never clamped
	Events     int      // stage advances fired
	Err        error
}

// Driver runs the replicate ensemble.
type Driver struct {
	Cfg        herd.Config_t
	Table      sampler.Table_t
	Replicates int
	Seed       int64
	Integrator integrator.Config
	Workers    int // goroutine cap; 0 means NumCPU
}

// Run draws and integrates every replicate and returns the results in
// replicate order.  The contract is best-effort: a failed replicate
// carries its error in its result slot and never aborts the ensemble.
// Only configuration problems return a top-level error.
func (d *Driver) Run() ([]Result_t, error) {
	if err := d.Table.Validate(); err != nil {
		return nil, err
	}
	if err := sampler.CheckNames(d.Table); err != nil {
		return nil, err
	}
	if d.Replicates <= 0 {
		return nil, fmt.Errorf("montecarlo: replicate count %d must be positive", d.Replicates)
	}
	if err := d.Cfg.Validate(); err != nil {
		return nil, err
	}

	// The seed stream is drawn up front so replicate i always gets the
	// same substream regardless of scheduling.
	master := rand.New(rand.NewSource(uint64(d.Seed)))
	seeds := make([]uint64, d.Replicates)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}

	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	swg := sizedwaitgroup.New(workers)
	ch := make(chan Result_t, d.Replicates)

	for i := 0; i < d.Replicates; i++ {
		swg.Add()
		go func(rep int, seed uint64) {
			defer swg.Done()
			ch <- d.replicate(rep, seed)
		}(i, seeds[i])
	}
	swg.Wait()

	results := make([]Result_t, 0, d.Replicates)
	for i := 0; i < d.Replicates; i++ {
		results = append(results, <-ch)
	}
	sort.Slice(results, func(a, b int) bool { return results[a].Replicate < results[b].Replicate })

	return results, nil
}

// Failures returns the replicates that did not complete.
func Failures(results []Result_t) []Result_t {
	var failed []Result_t
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// replicate runs one full trajectory with a 1-day reporting interval.
func (d *Driver) replicate(rep int, seed uint64) Result_t {
	res := Result_t{Replicate: rep, Seed: seed}

	src := rand.NewSource(seed)
	p, vals, err := sampler.DrawParams(d.Table, src)
	if err != nil {
		res.Err = err
		return res
	}
	res.Params = p
	res.Values = vals

	model := herd.NewModel(d.Cfg, p)
	sched := herd.NewSchedule(d.Cfg.StageDays, d.Cfg.HorizonDays)

	dp := integrator.New(model.Derivatives, herd.NState, d.Integrator)
	dp.SetEvents(len(sched.Thresholds), sched.Roots, model.AdvanceStages)

	y := d.Cfg.InitialState()
	days := int(d.Cfg.HorizonDays)
	traj := mat.NewDense(days+1, herd.NState, nil)
	traj.SetRow(0, y)
	res.Trajectory = traj

	for day := 1; day <= days; day++ {
		if err := dp.Integrate(float64(day-1), float64(day), y); err != nil {
			res.Err = fmt.Errorf("replicate %d: integration failed at day %d: %w", rep, day, err)
			res.Events = dp.Stats().Events
			return res
		}
		traj.SetRow(day, y)
		res.Violations = append(res.Violations, herd.CheckInvariants(float64(day), y, nonNegTol)...)
	}

	res.Events = dp.Stats().Events
	if expected := len(sched.Thresholds); res.Events != expected {
		// Stage advancement is structurally required for the accounting
		// to mean anything, so a missed crossing fails the replicate.
		res.Err = fmt.Errorf("replicate %d: missed stage-advance event: fired %d of %d", rep, res.Events, expected)
	}
	return res
}
