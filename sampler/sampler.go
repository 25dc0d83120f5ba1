// sampler project sampler.go
// Distribution specification table and per-replicate parameter draws.
// Each row of the Parameters: table in the hjson file becomes one
// Spec_t; validation happens once, before any integration starts.
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
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Kind names a supported distribution family.
type Kind string

const (
	Fixed    Kind = "fixed"   // fixed, value
	Uniform  Kind = "uniform" // uniform, min, max
	Pert     Kind = "pert"    // pert, min, mode, max [, shape]
	TruncExp Kind = "texp"    // texp, rate, lower [, upper]
)

// defaultPertShape is the conventional pert shape exponent.
const defaultPertShape = 4.0

// Spec_t is one parameter's distribution specification.
type Spec_t struct {
	Name string
	Kind Kind
	Args []float64
}

// Table_t is the ordered parameter table.  The order is fixed so draws
// are replicate-order-stable for a given seed.
type Table_t struct {
	Specs []Spec_t
}

// ParseTable reads the Parameters: rows from the hjson file.  Each row
// is "name, kind, arg, arg, ...".
func ParseTable(rows []interface{}) (Table_t, error) {
	var tb Table_t
	for i := range rows {
		row, ok := rows[i].(string)
		if !ok {
			return tb, fmt.Errorf("sampler: Parameters row %d is not a string", i+1)
		}
		f := strings.Split(row, ",")
		if len(f) < 3 {
			return tb, fmt.Errorf("sampler: Parameters row %q needs name, kind and at least one argument", row)
		}
		var s Spec_t
		s.Name = strings.TrimSpace(f[0])
		s.Kind = Kind(strings.TrimSpace(f[1]))
		for _, a := range f[2:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
			if err != nil {
				return tb, fmt.Errorf("sampler: parameter %s: bad argument %q", s.Name, strings.TrimSpace(a))
			}
			s.Args = append(s.Args, v)
		}
		tb.Specs = append(tb.Specs, s)
	}
	return tb, tb.Validate()
}

// Validate checks every specification and reports all bad parameters at
// once, before any sampling or integration begins.
func (tb Table_t) Validate() error {
	var bad []string
	seen := make(map[string]bool)
	for _, s := range tb.Specs {
		if seen[s.Name] {
			bad = append(bad, fmt.Sprintf("parameter %s: duplicated", s.Name))
		}
		seen[s.Name] = true
		if err := s.validate(); err != nil {
			bad = append(bad, err.Error())
		}
	}
	if len(bad) > 0 {
		return errors.New("sampler: " + strings.Join(bad, "; "))
	}
	return nil
}

func (s Spec_t) validate() error {
	switch s.Kind {
	case Fixed:
		if len(s.Args) != 1 {
			return fmt.Errorf("parameter %s: fixed takes one value", s.Name)
		}
	case Uniform:
		if len(s.Args) != 2 {
			return fmt.Errorf("parameter %s: uniform takes min, max", s.Name)
		}
		if s.Args[0] >= s.Args[1] {
			return fmt.Errorf("parameter %s: uniform min %g >= max %g", s.Name, s.Args[0], s.Args[1])
		}
	case Pert:
		if len(s.Args) != 3 && len(s.Args) != 4 {
			return fmt.Errorf("parameter %s: pert takes min, mode, max and an optional shape", s.Name)
		}
		min, mode, max := s.Args[0], s.Args[1], s.Args[2]
		if min >= max {
			return fmt.Errorf("parameter %s: pert min %g >= max %g", s.Name, min, max)
		}
		if mode < min || mode > max {
			return fmt.Errorf("parameter %s: pert mode %g outside [%g, %g]", s.Name, mode, min, max)
		}
		if len(s.Args) == 4 && s.Args[3] <= 0 {
			return fmt.Errorf("parameter %s: pert shape %g must be positive", s.Name, s.Args[3])
		}
	case TruncExp:
		if len(s.Args) != 2 && len(s.Args) != 3 {
			return fmt.Errorf("parameter %s: texp takes rate, lower and an optional upper", s.Name)
		}
		if s.Args[0] <= 0 {
			return fmt.Errorf("parameter %s: texp rate %g must be positive", s.Name, s.Args[0])
		}
		if len(s.Args) == 3 && s.Args[2] <= s.Args[1] {
			return fmt.Errorf("parameter %s: texp upper %g <= lower %g", s.Name, s.Args[2], s.Args[1])
		}
	default:
		return fmt.Errorf("parameter %s: unknown distribution kind %q", s.Name, s.Kind)
	}
	return nil
}

// sample draws one value from the specification.
func (s Spec_t) sample(src rand.Source) float64 {
	switch s.Kind {
	case Fixed:
		return s.Args[0]

	case Uniform:
		return distuv.Uniform{Min: s.Args[0], Max: s.Args[1], Src: src}.Rand()

	case Pert:
		min, mode, max := s.Args[0], s.Args[1], s.Args[2]
		shape := defaultPertShape
		if len(s.Args) == 4 {
			shape = s.Args[3]
		}
		alpha := 1.0 + shape*(mode-min)/(max-min)
		beta := 1.0 + shape*(max-mode)/(max-min)
		b := distuv.Beta{Alpha: alpha, Beta: beta, Src: src}
		return min + b.Rand()*(max-min)

	case TruncExp:
		rate, lower := s.Args[0], s.Args[1]
		if len(s.Args) == 2 {
			return lower + distuv.Exponential{Rate: rate, Src: src}.Rand()
		}
		// Bounded tail by inverse CDF.
		upper := s.Args[2]
		u := distuv.Uniform{Min: 0, Max: 1, Src: src}.Rand()
		return lower - math.Log(1.0-u*(1.0-math.Exp(-rate*(upper-lower))))/rate
	}
	return math.NaN() // unreachable after Validate
}

// Draw produces one replicate's parameter values in table order.
func (tb Table_t) Draw(src rand.Source) map[string]float64 {
	vals := make(map[string]float64, len(tb.Specs))
	for _, s := range tb.Specs {
		vals[s.Name] = s.sample(src)
	}
	return vals
}
