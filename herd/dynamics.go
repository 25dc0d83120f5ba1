// herd project dynamics.go
// The continuous-time rate equations.  Derivatives is pure: it reads the
// state and the replicate's parameter draw and fills the derivative
// vector, nothing else.
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

import "math"

// Params_t is one replicate's realized parameter vector.  Sampled once
// per replicate and held constant for the whole trajectory.
type Params_t struct {
	Beta  float64 // transmission rate per unit of environment load
	Kappa float64 // cross-pen exposure fraction (imperfect mixing)
	Rho   float64 // background removal (natural death) rate
	Omega float64 // waning immunity rate, R back to S

	Gamma float64 // recovery rate of A and I, derived as 1/durShedding
	MRate float64 // asymptomatic to carrier conversion rate
	WRate float64 // clinical to carrier conversion rate
	Eta   float64 // carrier recovery rate, derived as 1/durCarrier

	UClinical [NAgeClasses]float64 // probability a new infection turns clinical
	DClinical [NAgeClasses]float64 // clinical death rate; zero for pregnant stages
	Vacc      float64              // vaccine attenuation of clinical death

	AbortA float64 // abortion rate from A and I in the terminal pregnant stage
	AbortC float64 // abortion rate from C in the terminal pregnant stage

	ShedPerKg float64 // pathogen shed per kg of feces by low shedders
	ShedMult  float64 // clinical shedding multiplier over low shedders
}

// Model binds the operation setup to a replicate's parameter draw and
// precomputes the per-stage shedding rates.
type Model struct {
	Cfg Config_t
	P   Params_t

	lambda [NStages + 1]float64 // low-shedder rate by stage
	eps    [NStages + 1]float64 // clinical (high) shedder rate by stage
}

// NewModel precomputes the shedding rates from the stage fecal outputs.
func NewModel(cfg Config_t, p Params_t) *Model {
	m := &Model{Cfg: cfg, P: p}
	for k := Stage(1); k <= NStages; k++ {
		m.lambda[k] = p.ShedPerKg * FecalKgPerDay[k]
		m.eps[k] = m.lambda[k] * p.ShedMult
	}
	return m
}

// TempC returns the ambient temperature on day t of the annual cycle.
func (m *Model) TempC(t float64) float64 {
	return m.Cfg.TempAmplitude*math.Cos(2.0*math.Pi*t/365.0+m.Cfg.TempPhase) + m.Cfg.TempMean
}

// DecayRate returns the temperature-dependent environmental decay rate.
// The warm branch is the fitted empirical curve; below freezing a fixed
// cold-weather constant applies.  The two branches do not meet: the jump
// is part of the fitted temperature-survival data and is kept as is.
func (m *Model) DecayRate(t float64) float64 {
	tempC := m.TempC(t)
	if tempC > 0 {
		return -(-0.009*tempC - 0.455)
	}
	return m.Cfg.ColdDecay
}

// Derivatives fills dy with the instantaneous rate of change of every
// compartment.  The per-stage equations are generated from the topology;
// no stage is unrolled by hand.
func (m *Model) Derivatives(t float64, y, dy []float64) {
	for i := range dy {
		dy[i] = 0
	}

	p := &m.P
	phi := m.DecayRate(t)
	envLoss := phi + m.Cfg.CleaningRate + m.Cfg.BeddingRate

	var envSum float64
	for k := Stage(1); k <= NStages; k++ {
		envSum += y[EnvIndex(k)]
	}

	for k := Stage(1); k <= NStages; k++ {
		c := AgeClassOf(k)

		s := y[PopIndex(Susceptible, k)]
		a := y[PopIndex(Asymptomatic, k)]
		i := y[PopIndex(Infected, k)]
		cc := y[PopIndex(Carrier, k)]
		r := y[PopIndex(Recovered, k)]
		e := y[EnvIndex(k)]

		// Full-rate exposure to the own pen, reduced-rate exposure to
		// every other pen's environment.
		infection := p.Beta*s*e + p.Beta*p.Kappa*s*(envSum-e)

		u := p.UClinical[c]
		death := p.DClinical[c] * (1.0 - p.Vacc)

		dy[PopIndex(Susceptible, k)] = -infection - p.Rho*s + p.Omega*r
		dy[PopIndex(Asymptomatic, k)] = (1.0-u)*infection - (p.Gamma+p.MRate)*a - p.Rho*a
		dy[PopIndex(Infected, k)] = u*infection - (p.Gamma+p.WRate+death)*i - p.Rho*i
		dy[PopIndex(Carrier, k)] = p.MRate*a + p.WRate*i - (p.Eta+p.Rho)*cc
		dy[PopIndex(Recovered, k)] = p.Gamma*(a+i) + p.Eta*cc - (p.Omega+p.Rho)*r

		dy[EnvIndex(k)] = -envLoss*e + m.lambda[k]*(a+cc) + m.eps[k]*i

		if k <= NDeathStages {
			dy[DeathIndex(k)] = death * i
		}
		if k == TerminalStage {
			dy[IdxAbortions] = p.AbortA*(a+i) + p.AbortC*cc
		}

		// New clinical cases drive the treatment-cost triggers,
		// split calves (weaned+growing) from pregnant heifers.
		if c == Pregnant {
			dy[IdxTreatPregnant] += u * infection
		} else {
			dy[IdxTreatCalves] += u * infection
		}
	}

	// The event clock tracks elapsed time; the stage-advance detector
	// watches it rather than the integrator's own time variable.
	dy[IdxClock] = 1.0
}
