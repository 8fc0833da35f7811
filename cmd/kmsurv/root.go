package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kshedden/dstream/dstream"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kshedden/kmsurv"
)

var (
	configPath string  // YAML file with column names and settings
	logLevel   string  // Log verbosity level
	timeVar    string  // Name of the event/censoring time column
	statusVar  string  // Name of the 0/1 status column
	entryVar   string  // Name of the entry time column, optional
	timeMin    float64 // Condition on survival up to this time
	query      []float64
	testPath   string // CSV file with the sample to weight
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "kmsurv",
	Short: "Kaplan-Meier survival and censoring distribution estimates",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

var survivalCmd = &cobra.Command{
	Use:   "survival DATA.csv",
	Short: "Estimate the survival function",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig(cmd)
		if err := runSurvival(cfg, args[0], os.Stdout); err != nil {
			logrus.Fatalf("survival: %v", err)
		}
	},
}

var censoringCmd = &cobra.Command{
	Use:   "censoring DATA.csv",
	Short: "Estimate the censoring distribution",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig(cmd)
		if err := runCensoring(cfg, args[0], os.Stdout); err != nil {
			logrus.Fatalf("censoring: %v", err)
		}
	},
}

var ipcwCmd = &cobra.Command{
	Use:   "ipcw DATA.csv",
	Short: "Compute inverse probability of censoring weights",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig(cmd)
		test := testPath
		if test == "" {
			test = args[0]
		}
		if err := runIPCW(cfg, args[0], test, os.Stdout); err != nil {
			logrus.Fatalf("ipcw: %v", err)
		}
	},
}

// buildConfig loads the config file and applies the flags that were
// set explicitly.
func buildConfig(cmd *cobra.Command) *Config {

	cfg, err := loadConfig(configPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.TimeVar = timeVar
	}
	if flags.Changed("status") {
		cfg.StatusVar = statusVar
	}
	if flags.Changed("entry") {
		cfg.EntryVar = entryVar
	}
	if flags.Changed("time-min") {
		t := timeMin
		cfg.TimeMin = &t
	}
	if flags.Changed("query") {
		cfg.Query = query
	}

	logrus.Debugf("Configuration: %+v", *cfg)
	return cfg
}

// readSample reads a CSV file with a header row into a sample.
func readSample(cfg *Config, path string) (*kmsurv.Sample, error) {

	fid, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fid.Close()

	var types []dstream.VarType
	for _, na := range cfg.floatVars() {
		types = append(types, dstream.VarType{Name: na, Type: dstream.Float64})
	}
	da := dstream.FromCSV(fid).SetTypes(types).HasHeader().Done()
	da = dstream.MemCopy(da, false)

	sr := kmsurv.NewSampleReader(da, cfg.TimeVar, cfg.StatusVar)
	if cfg.EntryVar != "" {
		sr.Entry(cfg.EntryVar)
	}

	s, err := sr.Done()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	logrus.Infof("Read %d observations with %d events from %s", s.Len(), s.NumEvents(), path)

	return s, nil
}

// writeCurve writes the curve as time,probability rows, or the
// probabilities at the query times if there are any.
func writeCurve(w io.Writer, pr kmsurv.Predictor, times, prob []float64, q []float64) error {

	if len(q) > 0 {
		p, err := pr.Prob(q)
		if err != nil {
			return err
		}
		times, prob = q, p
	}

	for i := range times {
		if _, err := fmt.Fprintf(w, "%g,%g\n", times[i], prob[i]); err != nil {
			return err
		}
	}
	return nil
}

func runSurvival(cfg *Config, path string, w io.Writer) error {

	s, err := readSample(cfg, path)
	if err != nil {
		return err
	}

	// Truncated data and conditional estimates go straight to the
	// product-limit estimator.
	if cfg.EntryVar != "" || cfg.TimeMin != nil {
		if err := s.Check(true); err != nil {
			return err
		}
		km := kmsurv.NewKaplanMeier(s.Status, s.Time)
		if cfg.EntryVar != "" {
			km.Entry(s.Enter)
		}
		if cfg.TimeMin != nil {
			km.TimeMin(*cfg.TimeMin)
		}
		if km, err = km.Done(); err != nil {
			return err
		}
		if len(cfg.Query) > 0 {
			logrus.Warn("Query times are ignored for truncated or conditional estimates")
		}
		return writeCurve(w, nil, km.Time(), km.SurvProb(), nil)
	}

	sf, err := kmsurv.FitSurvival(s)
	if err != nil {
		return err
	}
	logrus.Infof("Fitted survival function at %d time points", len(sf.Time())-1)

	return writeCurve(w, sf, sf.Time()[1:], sf.SurvProb()[1:], cfg.Query)
}

func runCensoring(cfg *Config, path string, w io.Writer) error {

	s, err := readSample(cfg, path)
	if err != nil {
		return err
	}

	cd, err := kmsurv.FitCensoring(s)
	if err != nil {
		return err
	}
	logrus.Infof("Fitted censoring distribution at %d time points", len(cd.Time())-1)

	return writeCurve(w, cd, cd.Time()[1:], cd.SurvProb()[1:], cfg.Query)
}

func runIPCW(cfg *Config, trainPath, testPath string, w io.Writer) error {

	train, err := readSample(cfg, trainPath)
	if err != nil {
		return err
	}

	cd, err := kmsurv.FitCensoring(train)
	if err != nil {
		return err
	}

	test := train
	if testPath != trainPath {
		if test, err = readSample(cfg, testPath); err != nil {
			return err
		}
	}

	wgt, err := cd.IPCW(test)
	if err != nil {
		return err
	}

	for _, v := range wgt {
		if _, err := fmt.Fprintf(w, "%g\n", v); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with column names and settings")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&timeVar, "time", "Time", "Name of the event/censoring time column")
	rootCmd.PersistentFlags().StringVar(&statusVar, "status", "Status", "Name of the event status column (1 = event, 0 = censored)")
	rootCmd.PersistentFlags().Float64SliceVar(&query, "query", nil, "Times at which to evaluate the estimate")

	survivalCmd.Flags().StringVar(&entryVar, "entry", "", "Name of the entry time column for left truncated data")
	survivalCmd.Flags().Float64Var(&timeMin, "time-min", 0, "Estimate survival conditional on survival up to this time")

	ipcwCmd.Flags().StringVar(&testPath, "test", "", "CSV file with the observations to weight (defaults to DATA.csv)")

	rootCmd.AddCommand(survivalCmd, censoringCmd, ipcwCmd)
}
