// runReplicates.go
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
	"os"
	"runtime"
	"time"

	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/herd"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/logger"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/montecarlo"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/sampler"
)

// Run the replicate ensemble and log anything a replicate flagged
func runReplicates() []montecarlo.Result_t {

	driver := montecarlo.Driver{
		Cfg:        herdCfg,
		Table:      parmTable,
		Replicates: nReplicates,
		Seed:       *logger.Seed,
		Integrator: intCfg,
	}

	if *logger.OutputMode == "verbose" {
		fmt.Printf("\tBeginning %d replicates\n", nReplicates)
	}

	start := time.Now()
	results, err := driver.Run()
	if err != nil {
		logger.LogWriterFatal(err.Error())
	}
	elapsed := time.Since(start)

	if *logger.OutputMode == "verbose" {
		fmt.Println("Total time:", elapsed,
			"Time per replicate:", elapsed.Seconds()/float64(len(results)),
			"Using", runtime.NumCPU(), "CPUs")
	}

	// Violations and per-replicate failures go to the log file; the
	// ensemble keeps running on whatever completed.
	for _, r := range results {
		for _, v := range r.Violations {
			logger.LogWriter(fmt.Sprintf("replicate %d: %s", r.Replicate, v))
		}
		if r.Err != nil {
			logger.LogWriter(r.Err.Error())
		}
	}
	if failed := montecarlo.Failures(results); len(failed) > 0 && *logger.OutputMode == "verbose" {
		fmt.Printf("\t%d of %d replicates failed (see the log file)\n", len(failed), len(results))
	}

	return results
}

// Write the full reporting-day by compartment table for every completed
// replicate, one row per replicate-day
func dumpTrajectories(results []montecarlo.Result_t) {

	if trajectoryDumpFile == "" {
		return
	}

	f, err := os.Create(trajectoryDumpFile)
	if err != nil {
		logger.LogWriterFatal("Cannot open trajectorydump file " + trajectoryDumpFile)
	}
	defer f.Close()

	fmt.Fprint(f, "rep day")
	for _, n := range herd.CompartmentNames() {
		fmt.Fprintf(f, " %s", n)
	}
	fmt.Fprintln(f)

	for _, r := range results {
		if r.Err != nil || r.Trajectory == nil {
			continue
		}
		rows, cols := r.Trajectory.Dims()
		for day := 0; day < rows; day++ {
			fmt.Fprintf(f, "%d %d", r.Replicate, day)
			for j := 0; j < cols; j++ {
				fmt.Fprintf(f, " %g", r.Trajectory.At(day, j))
			}
			fmt.Fprintln(f)
		}
	}
}

// Write each replicate's realized parameter vector
func dumpParameters(results []montecarlo.Result_t) {

	if parameterDumpFile == "" {
		return
	}

	f, err := os.Create(parameterDumpFile)
	if err != nil {
		logger.LogWriterFatal("Cannot open parameterdump file " + parameterDumpFile)
	}
	defer f.Close()

	fmt.Fprint(f, "rep seed")
	for _, n := range sampler.RequiredNames {
		fmt.Fprintf(f, " %s", n)
	}
	fmt.Fprintln(f)

	for _, r := range results {
		if r.Values == nil {
			continue
		}
		fmt.Fprintf(f, "%d %d", r.Replicate, r.Seed)
		for _, n := range sampler.RequiredNames {
			fmt.Fprintf(f, " %g", r.Values[n])
		}
		fmt.Fprintln(f)
	}
}
