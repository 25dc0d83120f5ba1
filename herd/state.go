// herd project state.go
// Canonical state-vector layout generated from the topology.
// Every compartment is addressed through the index functions here;
// nothing else in the model hard-codes a position.
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

import "fmt"

// Layout of the state vector.  Population counts come first,
// health-state major, then the per-stage environment loads, then the
// cumulative accounting block, then the event clock.
const (
	popBase   = 0
	envBase   = popBase + NHealthStates*NStages
	deathBase = envBase + NStages

	IdxAbortions        = deathBase + NDeathStages
	IdxAsymptomaticLeft = IdxAbortions + 1
	IdxCarrierLeft      = IdxAsymptomaticLeft + 1
	IdxSoldPregnant     = IdxCarrierLeft + 1
	IdxSacrificed       = IdxSoldPregnant + 1
	IdxTreatCalves      = IdxSacrificed + 1
	IdxTreatPregnant    = IdxTreatCalves + 1

	completedBase = IdxTreatPregnant + 1

	IdxClock = completedBase + NStages

	// NState is the full state dimension
	NState = IdxClock + 1
)

// PopIndex returns the state-vector slot of a (health state, stage) count.
func PopIndex(h HealthState, k Stage) int {
	return popBase + int(h)*NStages + int(k) - 1
}

// EnvIndex returns the slot of a stage's environmental pathogen load.
func EnvIndex(k Stage) int {
	return envBase + int(k) - 1
}

// DeathIndex returns the slot of a stage's cumulative death counter.
// Only stages 1..NDeathStages carry one.
func DeathIndex(k Stage) int {
	return deathBase + int(k) - 1
}

// CompletedIndex returns the slot of a stage's cumulative completion counter.
func CompletedIndex(k Stage) int {
	return completedBase + int(k) - 1
}

// CompartmentNames returns the column labels in canonical slot order,
// for trajectory dumps.
func CompartmentNames() []string {
	names := make([]string, NState)
	for h := HealthState(0); h < NHealthStates; h++ {
		for k := Stage(1); k <= NStages; k++ {
			names[PopIndex(h, k)] = fmt.Sprintf("%s%d", HealthStateNames[h], k)
		}
	}
	for k := Stage(1); k <= NStages; k++ {
		names[EnvIndex(k)] = fmt.Sprintf("Env%d", k)
	}
	for k := Stage(1); k <= NDeathStages; k++ {
		names[DeathIndex(k)] = fmt.Sprintf("Died%d", k)
	}
	names[IdxAbortions] = "Abortions"
	names[IdxAsymptomaticLeft] = "LeftAsymptomatic"
	names[IdxCarrierLeft] = "LeftCarrier"
	names[IdxSoldPregnant] = "SoldPregnant"
	names[IdxSacrificed] = "Sacrificed"
	names[IdxTreatCalves] = "TreatCalves"
	names[IdxTreatPregnant] = "TreatPregnant"
	for k := Stage(1); k <= NStages; k++ {
		names[CompletedIndex(k)] = fmt.Sprintf("Completed%d", k)
	}
	names[IdxClock] = "Clock"
	return names
}

// InitialState builds the t=0 state vector: the herd split evenly across
// the stages into Susceptible, with the configured seeded animals moved
// out of stage 1's susceptible share.
func (cfg *Config_t) InitialState() []float64 {
	y := make([]float64, NState)

	perStage := cfg.HerdSize / float64(NStages)
	for k := Stage(1); k <= NStages; k++ {
		y[PopIndex(Susceptible, k)] = perStage
	}

	seeded := cfg.SeededAsymptomatic + cfg.SeededCarrier
	y[PopIndex(Susceptible, 1)] = perStage - seeded
	y[PopIndex(Asymptomatic, 1)] = cfg.SeededAsymptomatic
	y[PopIndex(Carrier, 1)] = cfg.SeededCarrier

	return y
}

// TotalLive returns the live population summed over all health states
// and stages.
func TotalLive(y []float64) float64 {
	var sum float64
	for h := HealthState(0); h < NHealthStates; h++ {
		for k := Stage(1); k <= NStages; k++ {
			sum += y[PopIndex(h, k)]
		}
	}
	return sum
}

// StageTotal returns the live population of one stage.
func StageTotal(y []float64, k Stage) float64 {
	var sum float64
	for h := HealthState(0); h < NHealthStates; h++ {
		sum += y[PopIndex(h, k)]
	}
	return sum
}

// CheckInvariants reports compartments that have gone negative beyond
// tol.  Violations are reported, never clamped, so that integrator or
// model-formulation bugs stay visible.
func CheckInvariants(t float64, y []float64, tol float64) []string {
	var violations []string
	names := CompartmentNames()
	for i := 0; i < NState; i++ {
		if y[i] < -tol {
			violations = append(violations,
				fmt.Sprintf("t=%.2f: %s = %g below zero beyond tolerance %g", t, names[i], y[i], tol))
		}
	}
	return violations
}
