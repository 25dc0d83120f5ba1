// herd project events.go
// Stage-advance schedule: the root functions the integrator watches and
// the transform that rewrites the state at each crossing.  The detector
// and the transform are separate pure functions so the transform can be
// tested without driving an integrator.
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
package herd

// DeparturePolicy_t attributes the terminal stage's departures to the
// output accumulators.  The original model's accounting here was
// ambiguous, so the attribution is a policy value rather than a fixed
// contract.
type DeparturePolicy_t struct {
	SoldPregnant     []HealthState
	AsymptomaticLeft []HealthState
	CarrierLeft      []HealthState
	Sacrificed       []HealthState
}

// DefaultDeparturePolicy books healthy-appearing animals (S, R) as sold
// pregnant, known asymptomatic and carrier animals to their own
// accumulators, and clinically ill animals as sacrificed.
func DefaultDeparturePolicy() DeparturePolicy_t {
	return DeparturePolicy_t{
		SoldPregnant:     []HealthState{Susceptible, Recovered},
		AsymptomaticLeft: []HealthState{Asymptomatic},
		CarrierLeft:      []HealthState{Carrier},
		Sacrificed:       []HealthState{Infected},
	}
}

// Schedule_t is the fixed set of clock thresholds, one per stage advance.
type Schedule_t struct {
	StageDays  float64
	Thresholds []float64
}

// NewSchedule builds the thresholds {d, 2d, ...} up to and including the
// horizon.
func NewSchedule(stageDays, horizonDays float64) Schedule_t {
	s := Schedule_t{StageDays: stageDays}
	for d := stageDays; d <= horizonDays; d += stageDays {
		s.Thresholds = append(s.Thresholds, d)
	}
	return s
}

// Roots fills g with the signed distance of the event clock from every
// threshold.  A stage advance is due when any component crosses zero.
func (s Schedule_t) Roots(t float64, y, g []float64) {
	clock := y[IdxClock]
	for i, d := range s.Thresholds {
		g[i] = clock - d
	}
}

// AdvanceStages is the event transform.  It returns a new state vector;
// the input is never written, so all reads see pre-event values and the
// shift is atomic by construction.  Effects:
//
//	1. the terminal stage's occupants leave, booked per the policy
//	2. every other stage's buckets move one stage forward
//	3. stage 1 restarts with the fresh all-susceptible entrant cohort
//	4. each stage's completion counter grows by the departing total
func (m *Model) AdvanceStages(t float64, y []float64) []float64 {
	out := make([]float64, len(y))
	copy(out, y)

	pol := m.Cfg.Departures

	for _, h := range pol.SoldPregnant {
		out[IdxSoldPregnant] += y[PopIndex(h, TerminalStage)]
	}
	for _, h := range pol.AsymptomaticLeft {
		out[IdxAsymptomaticLeft] += y[PopIndex(h, TerminalStage)]
	}
	for _, h := range pol.CarrierLeft {
		out[IdxCarrierLeft] += y[PopIndex(h, TerminalStage)]
	}
	for _, h := range pol.Sacrificed {
		out[IdxSacrificed] += y[PopIndex(h, TerminalStage)]
	}

	// Oldest first, each stage reads the next-younger stage's pre-event
	// values.
	for k := TerminalStage; k >= 2; k-- {
		for h := HealthState(0); h < NHealthStates; h++ {
			out[PopIndex(h, k)] = y[PopIndex(h, k-1)]
		}
	}

	for h := HealthState(0); h < NHealthStates; h++ {
		out[PopIndex(h, 1)] = 0
	}
	out[PopIndex(Susceptible, 1)] = m.Cfg.NewEntrants

	for k := Stage(1); k <= NStages; k++ {
		out[CompletedIndex(k)] += StageTotal(y, k)
	}

	return out
}
