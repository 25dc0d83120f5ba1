// initSimulation
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
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math"
	"os"
	"strings"

	hjson "github.com/hjson/hjson-go"

	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/herd"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/integrator"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/logger"
	"gitlab.thetasolutionsllc.com/USDAProject/calfSimModel/calfSim/sampler"
)

// setup the map of the array of json name:value pairs - notice "interface{}"
var param map[string]interface{}

var paramFile *string // Name of the parameter file

var herdCfg herd.Config_t
var parmTable sampler.Table_t
var intCfg integrator.Config
var nReplicates int

var trajectoryDumpFile string // name of file in trajectorydump:
var parameterDumpFile string  // name of file in parameterdump:

// Initialize the simulation
func initSimulation() {

	parseArgs()

	loadParam()

	if *logger.OutputMode == "verbose" {
		runComment, ok := param["Comment"].(interface{})
		if ok {
			fmt.Printf("Comment: %v\n\n", runComment.(string))
		}
	}

	herdCfg = herd.Config_t{
		HerdSize:           getFloat("herdSize"),
		NewEntrants:        getFloat("newEntrants"),
		SeededAsymptomatic: getFloatDefault("seededAsymptomatic", 0),
		SeededCarrier:      getFloatDefault("seededCarrier", 0),
		StageDays:          getFloat("stageDays"),
		HorizonDays:        getFloat("horizonDays"),

		TempAmplitude: getFloat("tempAmplitude"),
		TempMean:      getFloat("tempMean"),
		TempPhase:     seasonPhase(),
		ColdDecay:     getFloatDefault("coldDecay", 0.16),
		CleaningRate:  getFloat("cleaningRate"),
		BeddingRate:   getFloat("beddingRate"),

		Departures: herd.DefaultDeparturePolicy(),
	}

	nReplicates = int(getFloat("replicates"))
	if *nSamples > 0 {
		nReplicates = *nSamples
	}

	// The sampled rate parameter table
	rows, ok := param["Parameters"].([]interface{})
	if !ok {
		logger.LogWriterFatal("'Parameters:' key not found in " + *paramFile)
	}
	var err error
	parmTable, err = sampler.ParseTable(rows)
	if err != nil {
		logger.LogWriterFatal(err.Error())
	}
	if err := sampler.CheckNames(parmTable); err != nil {
		logger.LogWriterFatal(err.Error())
	}

	intCfg = integrator.Config{
		AbsTol: getFloatDefault("absTol", 1e-8),
		RelTol: getFloatDefault("relTol", 1e-6),
	}

	c := param["trajectorydump"]
	if c != nil {
		trajectoryDumpFile = string(c.(string))
	}
	c = param["parameterdump"]
	if c != nil {
		parameterDumpFile = string(c.(string))
	}

	if *logger.OutputMode == "verbose" {
		fmt.Printf("Herd size: %.0f across %d stages, %0.f-day stages, %.0f-day horizon\n",
			herdCfg.HerdSize, herd.NStages, herdCfg.StageDays, herdCfg.HorizonDays)
		fmt.Print("Stages:")
		for k := herd.Stage(1); k <= herd.NStages; k++ {
			fmt.Printf("\t%2d %-9s %5.1f kg/d\n", k,
				herd.AgeClassNames[herd.AgeClassOf(k)], herd.FecalKgPerDay[k])
		}
		fmt.Print("Parameters:")
		for _, s := range parmTable.Specs {
			fmt.Printf("\t%-12s %-8s %v\n", s.Name, s.Kind, s.Args)
		}
		fmt.Printf("\n\tFinished loading %v...\n\n", *paramFile)
	}
}

// Look up a required numeric key
func getFloat(key string) float64 {
	v, ok := param[key].(float64)
	if !ok {
		logger.LogWriterFatal("'" + key + ":' key not found in " + *paramFile)
	}
	return v
}

// Look up an optional numeric key
func getFloatDefault(key string, def float64) float64 {
	v, ok := param[key].(float64)
	if !ok {
		return def
	}
	return v
}

// seasonPhase maps the season: key to the phase of the annual
// temperature cosine so the run starts in that season.
func seasonPhase() float64 {
	s, ok := param["season"].(string)
	if !ok {
		s = "spring"
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summer":
		return 0
	case "fall", "autumn":
		return math.Pi / 2
	case "winter":
		return math.Pi
	case "spring":
		return 3 * math.Pi / 2
	}
	logger.LogWriterFatal("season: must be one of summer, fall, winter, spring")
	return 0
}

var nSamples *int

// Parse the arg list looking for the input hjson file
func parseArgs() {

	paramFile = flag.String("genParm", "", "The calfSim parameter file (required)")
	logger.OutputMode = flag.String("outputMode", "verbose", "'verbose'(default), 'table' or 'quiet'")
	logger.User = flag.String("user", "admin", "user=[Username]")
	nSamples = flag.Int("nSamples", 0, "Number of replicates (overrides replicates: in the parameter file)")
	logger.Seed = flag.Int64("seed", 1234, "Random number generator seed (int64)")
	isVersion := flag.Bool("version", false, "prints the version number of calfSim")

	flag.Parse()

	if *isVersion {
		fmt.Println("Version:", version)
		os.Exit(0)
	}

	if *logger.OutputMode == "verbose" {
		fmt.Printf("\n\t*** calfSim ver %v ***\n\n", version)
	}

	if *paramFile == "" {
		if *logger.OutputMode == "verbose" {
			fmt.Printf("Error: A parameter file name must be provided on the command line\n\tcalfSim -genParm=[file name]\n")
			// Print out a syntax message
			syntax := `Usage of ./calfSim:
  -genParm string
    	The calfSim parameter file (required)
  -outputMode string
    	'verbose'(default), 'table' or 'quiet'
  -seed int
    	Random number generator seed (int64) (default 1234)
  -nSamples int
	Number of replicates (overrides replicates: in the parameter file)
  -user string
    	user=[Username] (default "admin")
  -version
	Print the version number and exit`

			fmt.Printf("\n%s\n\n", syntax)
			log.Fatal("no parameter file name provided")
		} else {
			logger.LogWriter("no parameter file name provided")
			os.Exit(1)
		}
	}

}

// Read in the parameter hjson file and setup the map of param[key] pairs
func loadParam() {

	hjsonFile, err := os.Open(*paramFile)
	if err != nil {
		if *logger.OutputMode == "verbose" {
			fmt.Println("Failed to open " + *paramFile)
			fmt.Println(err)
			os.Exit(1)
		} else {
			logger.LogWriter("Failed to open parameter file " + *paramFile)
			os.Exit(1)
		}
	}
	// defer the closing of our jsonFile so that we can parse it later on
	defer hjsonFile.Close()

	byteValue, _ := ioutil.ReadAll(hjsonFile)

	// Translate the byte array into the mapped array of name:value pairs
	if er := hjson.Unmarshal(byteValue, &param); er != nil {
		panic(er)
	}

}
