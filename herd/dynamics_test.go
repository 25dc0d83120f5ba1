// herd project dynamics_test.go
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

import (
	"math"
	"testing"
)

func baseConfig() Config_t {
	return Config_t{
		HerdSize:           1000,
		NewEntrants:        84,
		SeededAsymptomatic: 1,
		StageDays:          45,
		HorizonDays:        731,
		TempAmplitude:      12,
		TempMean:           8,
		TempPhase:          math.Pi, // winter start
		ColdDecay:          0.16,
		CleaningRate:       0.10,
		BeddingRate:        0.05,
		Departures:         DefaultDeparturePolicy(),
	}
}

func baseParams() Params_t {
	return Params_t{
		Beta:      0.0005,
		Kappa:     0.05,
		Rho:       0.0001,
		Omega:     0.01,
		Gamma:     1.0 / 14.0,
		MRate:     0.02,
		WRate:     0.01,
		Eta:       1.0 / 60.0,
		UClinical: [NAgeClasses]float64{0.5, 0.25, 0.1},
		DClinical: [NAgeClasses]float64{0.05, 0.02, 0},
		Vacc:      0.2,
		AbortA:    0.02,
		AbortC:    0.005,
		ShedPerKg: 0.001,
		ShedMult:  15,
	}
}

// A state with animals and pathogen spread across every compartment, so
// every term of the rate equations is exercised.
func populatedState() []float64 {
	y := make([]float64, NState)
	for k := Stage(1); k <= NStages; k++ {
		y[PopIndex(Susceptible, k)] = 60 + float64(k)
		y[PopIndex(Asymptomatic, k)] = 5 + 0.1*float64(k)
		y[PopIndex(Infected, k)] = 3 + 0.2*float64(k)
		y[PopIndex(Carrier, k)] = 2
		y[PopIndex(Recovered, k)] = 10
		y[EnvIndex(k)] = 0.5 * float64(k)
	}
	return y
}

// With no background mortality and no clinical deaths the live
// population is closed between events: the state derivatives must sum
// to zero exactly.
func TestConservationWithoutDeaths(t *testing.T) {
	p := baseParams()
	p.Rho = 0
	p.DClinical = [NAgeClasses]float64{0, 0, 0}

	m := NewModel(baseConfig(), p)
	y := populatedState()
	dy := make([]float64, NState)
	m.Derivatives(100, y, dy)

	var sum float64
	for h := HealthState(0); h < NHealthStates; h++ {
		for k := Stage(1); k <= NStages; k++ {
			sum += dy[PopIndex(h, k)]
		}
	}
	if math.Abs(sum) > 1e-12 {
		t.Errorf("population derivative sums to %g with deaths off, want 0", sum)
	}
}

// With deaths on, the only leak from the live population must be the
// background mortality plus exactly what the death counters record.
func TestDeathAccountingMatchesOutflow(t *testing.T) {
	p := baseParams()
	m := NewModel(baseConfig(), p)
	y := populatedState()
	dy := make([]float64, NState)
	m.Derivatives(100, y, dy)

	var popSum, deathSum float64
	for h := HealthState(0); h < NHealthStates; h++ {
		for k := Stage(1); k <= NStages; k++ {
			popSum += dy[PopIndex(h, k)]
		}
	}
	for k := Stage(1); k <= NDeathStages; k++ {
		deathSum += dy[DeathIndex(k)]
	}
	want := -p.Rho*TotalLive(y) - deathSum
	if math.Abs(popSum-want) > 1e-10 {
		t.Errorf("population outflow %g, want %g", popSum, want)
	}
}

func TestClockDerivative(t *testing.T) {
	m := NewModel(baseConfig(), baseParams())
	dy := make([]float64, NState)
	m.Derivatives(0, make([]float64, NState), dy)
	if dy[IdxClock] != 1 {
		t.Errorf("clock derivative = %g, want 1", dy[IdxClock])
	}
	m.Derivatives(500, populatedState(), dy)
	if dy[IdxClock] != 1 {
		t.Errorf("clock derivative = %g at t=500, want 1", dy[IdxClock])
	}
}

func TestDecayRateBranches(t *testing.T) {
	cfg := baseConfig()
	cfg.TempAmplitude = 0
	cfg.TempMean = 20
	m := NewModel(cfg, baseParams())
	want := -(-0.009*20.0 - 0.455)
	if got := m.DecayRate(0); math.Abs(got-want) > 1e-12 {
		t.Errorf("warm decay = %g, want %g", got, want)
	}

	cfg.TempMean = -5
	m = NewModel(cfg, baseParams())
	if got := m.DecayRate(0); got != cfg.ColdDecay {
		t.Errorf("cold decay = %g, want %g", got, cfg.ColdDecay)
	}
}

// With no cross-pen mixing a pen with a clean environment sees no
// infection pressure; with full mixing it sees the whole barn.
func TestCrossPenExposure(t *testing.T) {
	p := baseParams()
	p.Rho = 0
	p.Omega = 0

	y := make([]float64, NState)
	y[PopIndex(Susceptible, 3)] = 100
	y[EnvIndex(7)] = 2.0 // contamination in another pen only
	dy := make([]float64, NState)

	p.Kappa = 0
	m := NewModel(baseConfig(), p)
	m.Derivatives(0, y, dy)
	if dy[PopIndex(Susceptible, 3)] != 0 {
		t.Errorf("kappa=0: stage 3 susceptibles exposed to a foreign pen: dS = %g", dy[PopIndex(Susceptible, 3)])
	}

	p.Kappa = 1
	m = NewModel(baseConfig(), p)
	m.Derivatives(0, y, dy)
	want := -p.Beta * 100 * 2.0
	if math.Abs(dy[PopIndex(Susceptible, 3)]-want) > 1e-12 {
		t.Errorf("kappa=1: dS = %g, want %g", dy[PopIndex(Susceptible, 3)], want)
	}
}

// Abortions accrue from the terminal pregnant stage only.
func TestAbortionsTerminalStageOnly(t *testing.T) {
	p := baseParams()
	m := NewModel(baseConfig(), p)
	dy := make([]float64, NState)

	y := make([]float64, NState)
	y[PopIndex(Asymptomatic, 11)] = 10
	y[PopIndex(Infected, 11)] = 10
	y[PopIndex(Carrier, 11)] = 10
	m.Derivatives(0, y, dy)
	if dy[IdxAbortions] != 0 {
		t.Errorf("stage 11 drove abortions: %g", dy[IdxAbortions])
	}

	y = make([]float64, NState)
	y[PopIndex(Asymptomatic, 12)] = 10
	y[PopIndex(Infected, 12)] = 4
	y[PopIndex(Carrier, 12)] = 6
	m.Derivatives(0, y, dy)
	want := p.AbortA*(10+4) + p.AbortC*6
	if math.Abs(dy[IdxAbortions]-want) > 1e-12 {
		t.Errorf("abortion rate = %g, want %g", dy[IdxAbortions], want)
	}
}

// Pregnant stages have no clinical death term; their infected simply
// progress or recover.
func TestNoClinicalDeathWhenPregnant(t *testing.T) {
	p := baseParams()
	m := NewModel(baseConfig(), p)
	dy := make([]float64, NState)

	y := make([]float64, NState)
	y[PopIndex(Infected, 10)] = 20
	m.Derivatives(0, y, dy)

	want := -(p.Gamma + p.WRate + p.Rho) * 20
	if math.Abs(dy[PopIndex(Infected, 10)]-want) > 1e-12 {
		t.Errorf("pregnant dI = %g, want %g (no death term)", dy[PopIndex(Infected, 10)], want)
	}
}

// New clinical cases split into the calf and pregnant treatment
// triggers by age class.
func TestTreatmentTriggerSplit(t *testing.T) {
	p := baseParams()
	p.Kappa = 0
	m := NewModel(baseConfig(), p)
	dy := make([]float64, NState)

	y := make([]float64, NState)
	y[PopIndex(Susceptible, 2)] = 50 // growing
	y[EnvIndex(2)] = 1.0
	y[PopIndex(Susceptible, 10)] = 30 // pregnant
	y[EnvIndex(10)] = 2.0
	m.Derivatives(0, y, dy)

	wantCalves := p.UClinical[Growing] * p.Beta * 50 * 1.0
	wantPregnant := p.UClinical[Pregnant] * p.Beta * 30 * 2.0
	if math.Abs(dy[IdxTreatCalves]-wantCalves) > 1e-12 {
		t.Errorf("calf treatment trigger = %g, want %g", dy[IdxTreatCalves], wantCalves)
	}
	if math.Abs(dy[IdxTreatPregnant]-wantPregnant) > 1e-12 {
		t.Errorf("pregnant treatment trigger = %g, want %g", dy[IdxTreatPregnant], wantPregnant)
	}
}

// Shedding feeds the environment at the low rate for A and C and the
// multiplied rate for clinical animals.
func TestSheddingRates(t *testing.T) {
	p := baseParams()
	m := NewModel(baseConfig(), p)
	dy := make([]float64, NState)

	y := make([]float64, NState)
	y[PopIndex(Asymptomatic, 5)] = 2
	y[PopIndex(Carrier, 5)] = 3
	y[PopIndex(Infected, 5)] = 1
	m.Derivatives(0, y, dy)

	lambda := p.ShedPerKg * FecalKgPerDay[5]
	want := lambda*(2+3) + lambda*p.ShedMult*1
	if math.Abs(dy[EnvIndex(5)]-want) > 1e-12 {
		t.Errorf("environment inflow = %g, want %g", dy[EnvIndex(5)], want)
	}
}
