// sampler project sampler_test.go
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
	"strings"
	"testing"

	"golang.org/x/exp/rand"

	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/herd"
)

func TestParseTable(t *testing.T) {
	rows := []interface{}{
		"beta,  pert, 0.0002, 0.0005, 0.0010",
		"rho,   fixed, 0.0001",
		"vacc,  uniform, 0.0, 0.6",
		"shedPerKg, texp, 900, 0.0005, 0.0050",
	}
	tb, err := ParseTable(rows)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if len(tb.Specs) != 4 {
		t.Fatalf("got %d specs, want 4", len(tb.Specs))
	}
	if tb.Specs[0].Name != "beta" || tb.Specs[0].Kind != Pert {
		t.Errorf("first spec parsed as %+v", tb.Specs[0])
	}
	if tb.Specs[1].Args[0] != 0.0001 {
		t.Errorf("fixed arg parsed as %g", tb.Specs[1].Args[0])
	}
}

func TestValidateRejectsBadShapes(t *testing.T) {
	cases := []struct {
		row  string
		want string
	}{
		{"x, uniform, 2, 1", "min"},
		{"x, pert, 0, 5, 1", "mode"},
		{"x, pert, 1, 1, 1", "min"},
		{"x, texp, -3, 0", "rate"},
		{"x, texp, 1, 5, 2", "upper"},
		{"x, gamma, 1, 2", "unknown"},
		{"x, fixed, 1, 2", "one value"},
	}
	for _, c := range cases {
		_, err := ParseTable([]interface{}{c.row})
		if err == nil {
			t.Errorf("row %q passed validation", c.row)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("row %q: error %q does not mention %q", c.row, err, c.want)
		}
	}
}

func TestValidateReportsEveryBadParameter(t *testing.T) {
	rows := []interface{}{
		"a, uniform, 2, 1",
		"b, fixed, 3",
		"c, texp, -1, 0",
	}
	_, err := ParseTable(rows)
	if err == nil {
		t.Fatal("bad table passed validation")
	}
	if !strings.Contains(err.Error(), "parameter a") || !strings.Contains(err.Error(), "parameter c") {
		t.Errorf("error %q should name both bad parameters", err)
	}
}

func TestFixedDraw(t *testing.T) {
	tb, _ := ParseTable([]interface{}{"rho, fixed, 0.0001"})
	vals := tb.Draw(rand.NewSource(1))
	if vals["rho"] != 0.0001 {
		t.Errorf("fixed draw = %g", vals["rho"])
	}
}

func TestDrawsRespectBounds(t *testing.T) {
	rows := []interface{}{
		"u, uniform, 2, 5",
		"p, pert, 10, 12, 20",
		"e, texp, 0.5, 1, 4",
	}
	tb, err := ParseTable(rows)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	src := rand.NewSource(42)
	for i := 0; i < 2000; i++ {
		vals := tb.Draw(src)
		if v := vals["u"]; v < 2 || v > 5 {
			t.Fatalf("uniform draw %g outside [2,5]", v)
		}
		if v := vals["p"]; v < 10 || v > 20 {
			t.Fatalf("pert draw %g outside [10,20]", v)
		}
		if v := vals["e"]; v < 1 || v > 4 {
			t.Fatalf("texp draw %g outside [1,4]", v)
		}
	}
}

func TestUnboundedTexp(t *testing.T) {
	tb, err := ParseTable([]interface{}{"e, texp, 2, 3"})
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	src := rand.NewSource(7)
	for i := 0; i < 500; i++ {
		if v := tb.Draw(src)["e"]; v < 3 {
			t.Fatalf("unbounded texp draw %g below lower bound 3", v)
		}
	}
}

func TestDrawReproducible(t *testing.T) {
	rows := []interface{}{
		"u, uniform, 0, 1",
		"p, pert, 0, 0.5, 1",
		"e, texp, 1, 0",
	}
	tb, _ := ParseTable(rows)

	a1 := tb.Draw(rand.NewSource(99))
	a2 := tb.Draw(rand.NewSource(99))
	for k := range a1 {
		if a1[k] != a2[k] {
			t.Errorf("parameter %s differs across same-seed draws: %g vs %g", k, a1[k], a2[k])
		}
	}

	b := tb.Draw(rand.NewSource(100))
	same := true
	for k := range a1 {
		if a1[k] != b[k] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical draws")
	}
}

func fullTable(t *testing.T) Table_t {
	rows := []interface{}{
		"beta,        fixed, 0.0005",
		"kappa,       fixed, 0.05",
		"rho,         fixed, 0.0001",
		"omega,       fixed, 0.01",
		"durShedding, fixed, 14",
		"mRate,       fixed, 0.02",
		"wRate,       fixed, 0.01",
		"durCarrier,  fixed, 60",
		"uWeaned,     fixed, 0.5",
		"uGrowing,    fixed, 0.25",
		"uPregnant,   fixed, 0.1",
		"dWeaned,     fixed, 0.05",
		"dGrowing,    fixed, 0.02",
		"vacc,        fixed, 0.2",
		"abortA,      fixed, 0.02",
		"abortC,      fixed, 0.005",
		"shedPerKg,   fixed, 0.001",
		"shedMult,    fixed, 15",
	}
	tb, err := ParseTable(rows)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	return tb
}

func TestCheckNames(t *testing.T) {
	tb := fullTable(t)
	if err := CheckNames(tb); err != nil {
		t.Errorf("complete table rejected: %v", err)
	}

	tb.Specs = tb.Specs[1:] // drop beta
	err := CheckNames(tb)
	if err == nil || !strings.Contains(err.Error(), "beta") {
		t.Errorf("missing beta not reported: %v", err)
	}
}

// The recovery rates are derived from the drawn durations, one shared
// draw per replicate.
func TestDrawParamsDerivedRates(t *testing.T) {
	tb := fullTable(t)
	p, vals, err := DrawParams(tb, rand.NewSource(5))
	if err != nil {
		t.Fatalf("DrawParams: %v", err)
	}
	if p.Gamma != 1.0/vals["durShedding"] {
		t.Errorf("gamma = %g, want 1/%g", p.Gamma, vals["durShedding"])
	}
	if p.Eta != 1.0/vals["durCarrier"] {
		t.Errorf("eta = %g, want 1/%g", p.Eta, vals["durCarrier"])
	}
	if p.DClinical[herd.Pregnant] != 0 {
		t.Errorf("pregnant clinical death rate = %g, want 0", p.DClinical[herd.Pregnant])
	}
	if p.UClinical[herd.Weaned] != 0.5 || p.UClinical[herd.Growing] != 0.25 {
		t.Errorf("clinical probabilities misassigned: %v", p.UClinical)
	}
}

func TestDrawParamsRejectsBadDuration(t *testing.T) {
	tb := fullTable(t)
	for i := range tb.Specs {
		if tb.Specs[i].Name == "durShedding" {
			tb.Specs[i].Args = []float64{-2}
		}
	}
	_, _, err := DrawParams(tb, rand.NewSource(5))
	if err == nil || !strings.Contains(err.Error(), "durShedding") {
		t.Errorf("negative duration not rejected: %v", err)
	}
}
