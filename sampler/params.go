// sampler project params.go
// Assembles a herd.Params_t from one replicate's draws, computing the
// derived rates after the quantities they depend on have been drawn so
// every derived rate shares the same realized duration.
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
package sampler

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/herd"
)

// RequiredNames are the parameters the model needs from the table.
// durShedding and durCarrier are durations in days; their reciprocals
// become the recovery rates.
var RequiredNames = []string{
	"beta", "kappa", "rho", "omega",
	"durShedding", "mRate", "wRate", "durCarrier",
	"uWeaned", "uGrowing", "uPregnant",
	"dWeaned", "dGrowing", "vacc",
	"abortA", "abortC",
	"shedPerKg", "shedMult",
}

// CheckNames verifies the table supplies every required parameter,
// before any replicate runs.
func CheckNames(tb Table_t) error {
	have := make(map[string]bool, len(tb.Specs))
	for _, s := range tb.Specs {
		have[s.Name] = true
	}
	for _, n := range RequiredNames {
		if !have[n] {
			return fmt.Errorf("sampler: parameter %s missing from the Parameters table", n)
		}
	}
	return nil
}

// DrawParams draws one replicate's parameter vector and fills in the
// derived rates.
func DrawParams(tb Table_t, src rand.Source) (herd.Params_t, map[string]float64, error) {
	vals := tb.Draw(src)

	var p herd.Params_t

	p.Beta = vals["beta"]
	p.Kappa = vals["kappa"]
	p.Rho = vals["rho"]
	p.Omega = vals["omega"]

	if vals["durShedding"] <= 0 {
		return p, vals, fmt.Errorf("sampler: parameter durShedding: drew %g, must be positive", vals["durShedding"])
	}
	if vals["durCarrier"] <= 0 {
		return p, vals, fmt.Errorf("sampler: parameter durCarrier: drew %g, must be positive", vals["durCarrier"])
	}
	p.Gamma = 1.0 / vals["durShedding"]
	p.Eta = 1.0 / vals["durCarrier"]

	p.MRate = vals["mRate"]
	p.WRate = vals["wRate"]

	p.UClinical[herd.Weaned] = vals["uWeaned"]
	p.UClinical[herd.Growing] = vals["uGrowing"]
	p.UClinical[herd.Pregnant] = vals["uPregnant"]

	p.DClinical[herd.Weaned] = vals["dWeaned"]
	p.DClinical[herd.Growing] = vals["dGrowing"]
	p.DClinical[herd.Pregnant] = 0 // pregnant animals abort, they do not die of this

	p.Vacc = vals["vacc"]
	p.AbortA = vals["abortA"]
	p.AbortC = vals["abortC"]
	p.ShedPerKg = vals["shedPerKg"]
	p.ShedMult = vals["shedMult"]

	return p, vals, nil
}
