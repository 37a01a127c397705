// Package cli is the gelseq command line: image processing, comparison,
// plain sequence matching, report history and configuration management.
package cli

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gelseq/pkg/config"
)

const (
	version = "0.3.0"

	// envPrefix namespaces the environment overrides, e.g. GELSEQ_PEAK_HEIGHT
	envPrefix = "GELSEQ"

	defaultConfigFile = "gelseq.yaml"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	v          *viper.Viper
	cfg        *config.Config
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "gelseq",
		Short: "Read nucleotide sequences from gel and chromatogram images",
		Long: `Reads nucleotide sequences from gel electrophoresis or chromatogram images.

Every image yields two sequences: one called from the intensity peaks of its
middle scan line, and one classifying every pixel by its dominant colour.
Sequences of two images can be compared, and comparisons can be kept as
reports per user.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", defaultConfigFile, "Path to the YAML configuration file")
	flags.BoolP("verbose", "v", false, "Enable debug logging and progress bars")
	flags.Int("cores", 0, "Number of images processed in parallel (default: all CPUs)")
	flags.Float64("peak-height", 0, "Minimum normalized height a peak must exceed, in [0, 1)")
	flags.Int("peak-distance", 0, "Minimum number of samples between two peaks of one channel")
	flags.Int("red-threshold", 0, "Minimum red intensity (0-255) for an A pixel")
	flags.Int("green-threshold", 0, "Minimum green intensity (0-255) for a T pixel")
	flags.Int("blue-threshold", 0, "Minimum blue intensity (0-255) for a C pixel")
	flags.String("report-dir", "", "Directory where comparison reports are stored")
	a.bindFlags(flags)

	rootCmd.AddCommand(
		a.newProcessCmd(),
		a.newCompareCmd(),
		newMatchCmd(),
		a.newReportsCmd(),
		a.newConfigCmd(),
	)

	return rootCmd
}

// Execute runs the command line and exits on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// overrideKeys are the flags that can also be set from the environment.
var overrideKeys = []string{
	"verbose",
	"cores",
	"peak-height",
	"peak-distance",
	"red-threshold",
	"green-threshold",
	"blue-threshold",
	"report-dir",
}

func (a *app) bindFlags(flags *pflag.FlagSet) {
	for _, key := range overrideKeys {
		if err := a.v.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", key, err))
		}
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
}

// loadConfig reads the configuration file and applies flag and environment
// overrides on top of it. Flags win over the environment, which wins over
// the file.
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	if a.v.IsSet("verbose") {
		cfg.Output.Verbose = a.v.GetBool("verbose")
	}
	if a.v.IsSet("cores") {
		cfg.Processing.NumCores = a.v.GetInt("cores")
	}
	if a.v.IsSet("peak-height") {
		cfg.Peaks.Height = a.v.GetFloat64("peak-height")
	}
	if a.v.IsSet("peak-distance") {
		cfg.Peaks.Distance = a.v.GetInt("peak-distance")
	}
	if a.v.IsSet("red-threshold") {
		cfg.Classifier.RedThreshold = a.v.GetInt("red-threshold")
	}
	if a.v.IsSet("green-threshold") {
		cfg.Classifier.GreenThreshold = a.v.GetInt("green-threshold")
	}
	if a.v.IsSet("blue-threshold") {
		cfg.Classifier.BlueThreshold = a.v.GetInt("blue-threshold")
	}
	if a.v.IsSet("report-dir") {
		cfg.Storage.ReportDir = a.v.GetString("report-dir")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Output.Verbose {
		log.SetLevel(log.Debug)
	} else {
		log.SetLevel(log.Info)
	}
	log.Debug.Printf("configuration loaded from %s", a.configPath)

	a.cfg = cfg
	return nil
}
