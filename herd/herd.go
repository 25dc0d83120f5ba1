// herd project herd.go
// Defines the raising-stage topology of the operation: health states,
// stages, age classes and the per-stage physical constants
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

// HealthState is the disease-progression label of an animal
type HealthState int

const (
	Susceptible HealthState = iota
	Asymptomatic
	Infected // clinically ill
	Carrier
	Recovered
)

const NHealthStates = 5

var HealthStateNames = [NHealthStates]string{"S", "A", "I", "C", "R"}

// Stage is a fixed-duration raising window, 1..NStages
type Stage int

const NStages = 12

const TerminalStage = Stage(NStages)

// AgeClass partitions the stages into management groups
type AgeClass int

const (
	Weaned AgeClass = iota
	Growing
	Pregnant
)

const NAgeClasses = 3

var AgeClassNames = [NAgeClasses]string{"weaned", "growing", "pregnant"}

// AgeClassOf returns the age class a stage belongs to.
// Stage 1 is the weaned pen, 2-8 are growing, 9-12 are pregnant heifers.
func AgeClassOf(k Stage) AgeClass {
	switch {
	case k <= 1:
		return Weaned
	case k <= 8:
		return Growing
	default:
		return Pregnant
	}
}

// NextStage returns the stage an animal advances to, or 0 if it
// leaves the operation from the terminal stage.
func NextStage(k Stage) Stage {
	if k >= TerminalStage {
		return 0
	}
	return k + 1
}

// NDeathStages is the number of stages carrying a death accumulator.
// Pregnant animals are assumed not to die of the infection, only to abort.
const NDeathStages = 8

// FecalKgPerDay is the daily fecal output by stage (1-based), used to
// derive the per-stage environmental shedding rates.
var FecalKgPerDay = [NStages + 1]float64{0,
	2.3, 3.1, 4.0, 4.9, 5.8, 6.7, 7.6, 8.5, 9.6, 10.8, 12.1, 13.5,
}

// Config_t is the fixed (non-sampled) operation setup read from the
// parameter file.
type Config_t struct {
	HerdSize           float64 // total animals on the operation at t=0
	NewEntrants        float64 // fresh susceptible cohort entering stage 1 at each advance
	SeededAsymptomatic float64 // asymptomatic animals seeded into stage 1 at t=0
	SeededCarrier      float64 // carrier animals seeded into stage 1 at t=0
	StageDays          float64 // days between stage advances
	HorizonDays        float64 // simulation horizon

	TempAmplitude float64 // seasonal temperature amplitude, C
	TempMean      float64 // annual mean temperature, C
	TempPhase     float64 // phase shift, radians, selects the starting season
	ColdDecay     float64 // pathogen decay rate when the temperature is below freezing
	CleaningRate  float64 // environment removal by cleaning, 1/day
	BeddingRate   float64 // environment removal by bedding coverage, 1/day

	Departures DeparturePolicy_t
}

// Validate fails fast on a setup the initial state cannot represent,
// before any replicate runs.
func (cfg *Config_t) Validate() error {
	if cfg.HerdSize <= 0 {
		return fmt.Errorf("herd: herdSize %g must be positive", cfg.HerdSize)
	}
	if cfg.NewEntrants < 0 {
		return fmt.Errorf("herd: newEntrants %g must not be negative", cfg.NewEntrants)
	}
	if cfg.SeededAsymptomatic < 0 || cfg.SeededCarrier < 0 {
		return fmt.Errorf("herd: seeded animal counts must not be negative")
	}
	share := cfg.HerdSize / float64(NStages)
	if seeded := cfg.SeededAsymptomatic + cfg.SeededCarrier; seeded > share {
		return fmt.Errorf("herd: %g seeded animals exceed the stage 1 share of %g", seeded, share)
	}
	if cfg.StageDays <= 0 || cfg.HorizonDays <= 0 {
		return fmt.Errorf("herd: stageDays and horizonDays must be positive")
	}
	return nil
}
