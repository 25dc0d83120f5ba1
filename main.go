// calfSim project main.go
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

package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/herd"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/logger"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/montecarlo"
)

var version = "beta0.1.0"

// finalValue reads one compartment from a replicate's last recorded day.
func finalValue(r montecarlo.Result_t, idx int) float64 {
	rows, _ := r.Trajectory.Dims()
	return r.Trajectory.At(rows-1, idx)
}

// totalDeaths sums the per-stage cumulative death counters on the last
// recorded day.
func totalDeaths(r montecarlo.Result_t) float64 {
	var sum float64
	for k := herd.Stage(1); k <= herd.NDeathStages; k++ {
		sum += finalValue(r, herd.DeathIndex(k))
	}
	return sum
}

// Print the per-replicate table and the ensemble summary
func printTables(results []montecarlo.Result_t) {

	if *logger.OutputMode != "verbose" && *logger.OutputMode != "table" {
		return
	}

	var deaths, abortions, sold, sacrificed, carriers []float64

	fmt.Printf("\nRep    Seed                  Deaths  Abortions      Sold  Sacrificed  Carriers  Events\n")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%4d   %-20d  FAILED: %v\n", r.Replicate, r.Seed, r.Err)
			continue
		}
		d := totalDeaths(r)
		a := finalValue(r, herd.IdxAbortions)
		s := finalValue(r, herd.IdxSoldPregnant)
		x := finalValue(r, herd.IdxSacrificed)
		c := finalValue(r, herd.IdxCarrierLeft)
		fmt.Printf("%4d   %-20d %8.2f %10.2f %9.2f %11.2f %9.2f %7d\n",
			r.Replicate, r.Seed, d, a, s, x, c, r.Events)

		deaths = append(deaths, d)
		abortions = append(abortions, a)
		sold = append(sold, s)
		sacrificed = append(sacrificed, x)
		carriers = append(carriers, c)
	}

	if len(deaths) == 0 {
		fmt.Println("\nNo replicate completed.")
		return
	}

	fmt.Printf("\n\t ___________________________________________\n")
	fmt.Printf("\t| Output       |      Mean    |    StdDev    |\n")
	fmt.Printf("\t|______________|______________|______________|\n")
	summaryRow("Deaths", deaths)
	summaryRow("Abortions", abortions)
	summaryRow("SoldPregnant", sold)
	summaryRow("Sacrificed", sacrificed)
	summaryRow("Carriers", carriers)
	fmt.Printf("\t|___________________________________________|\n")
	fmt.Printf("\t *Completed replicates: %d of %d\n\n", len(deaths), len(results))
}

func summaryRow(name string, v []float64) {
	mean, variance := stat.MeanVariance(v, nil)
	fmt.Printf("\t|% -13s | %12.3f | %12.3f |\n", name, mean, math.Sqrt(variance))
}

func main() {

	initSimulation() // Initialize everything

	results := runReplicates()

	printTables(results)

	dumpTrajectories(results)

	dumpParameters(results)

}
