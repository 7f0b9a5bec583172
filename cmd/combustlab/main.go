package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/combustlab/internal/config"
	"github.com/san-kum/combustlab/internal/logging"
	"github.com/san-kum/combustlab/internal/units"
)

var (
	dataDir   string
	storeKind string
	logLevel  string
	logFormat string
	themeName string

	configFile string
	preset     string

	replicates   int
	equivalence  []float64
	diluentFrac  []float64
	fuel         string
	oxidizer     string
	diluent      string
	pressure     float64
	pressureUnit string
	temperature  float64
	tempUnit     string
	seed         int64
	show         bool

	phi           float64
	mixDiluentFrc float64
	phiFrom       float64
	phiTo         float64
	steps         int
	plotWidth     int
	plotHeight    int

	outPath string
)

// main runs the combustlab CLI and exits with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "combustlab",
		Short:        "randomized combustion test matrix generator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultStorePath, "store path (directory, file or database)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", config.DefaultStoreKind, "store backend: csv, json or sqlite")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "flame", "color theme")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate and save a randomized test matrix",
		Args:  cobra.NoArgs,
		RunE:  generateMatrix,
	}
	generateCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	generateCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration (fuel/name)")
	generateCmd.Flags().IntVar(&replicates, "replicates", config.DefaultReplicates, "number of replicates")
	generateCmd.Flags().Float64SliceVar(&equivalence, "phi", []float64{1.0}, "equivalence ratios")
	generateCmd.Flags().Float64SliceVar(&diluentFrac, "diluent-fraction", []float64{0}, "diluent mole fractions")
	addMixtureFlags(generateCmd)
	generateCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	generateCmd.Flags().BoolVar(&show, "show", false, "print every replicate")

	mixtureCmd := &cobra.Command{
		Use:   "mixture",
		Short: "show composition, flame speed and sound speed of one mixture",
		Args:  cobra.NoArgs,
		RunE:  showMixture,
	}
	addMixtureFlags(mixtureCmd)
	mixtureCmd.Flags().Float64Var(&phi, "phi", 1.0, "equivalence ratio")
	mixtureCmd.Flags().Float64Var(&mixDiluentFrc, "diluent-fraction", 0, "diluent mole fraction")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "plot laminar flame speed against equivalence ratio",
		Args:  cobra.NoArgs,
		RunE:  sweepFlameSpeed,
	}
	addMixtureFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&mixDiluentFrc, "diluent-fraction", 0, "diluent mole fraction")
	sweepCmd.Flags().Float64Var(&phiFrom, "from", 0.6, "first equivalence ratio")
	sweepCmd.Flags().Float64Var(&phiTo, "to", 1.6, "last equivalence ratio")
	sweepCmd.Flags().IntVar(&steps, "steps", 41, "number of points")
	sweepCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")
	sweepCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	presetsCmd := &cobra.Command{
		Use:   "presets [fuel]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fuels := config.PresetFuels()
			if len(args) == 1 {
				fuels = []string{args[0]}
			}
			for _, f := range fuels {
				names := config.ListPresets(f)
				if len(names) == 0 {
					fmt.Printf("no presets for fuel: %s\n", f)
					continue
				}
				fmt.Printf("presets for %s:\n", f)
				for _, name := range names {
					fmt.Printf("  %s/%s\n", f, name)
				}
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved matrices",
		Args:  cobra.NoArgs,
		RunE:  listMatrices,
	}

	viewCmd := &cobra.Command{
		Use:   "view [matrix_id] [replicate]",
		Short: "browse a saved matrix, or print one replicate",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  viewMatrix,
	}

	exportCmd := &cobra.Command{
		Use:   "export [matrix_id]",
		Short: "export a saved matrix to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportMatrix,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file (- for stdout)")

	rootCmd.AddCommand(generateCmd, mixtureCmd, sweepCmd, presetsCmd, listCmd, viewCmd, exportCmd)
	return rootCmd
}

func addMixtureFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fuel, "fuel", config.DefaultFuel, "fuel species")
	cmd.Flags().StringVar(&oxidizer, "oxidizer", config.DefaultOxidizer, "oxidizer species")
	cmd.Flags().StringVar(&diluent, "diluent", config.DefaultDiluent, "diluent species")
	cmd.Flags().Float64Var(&pressure, "pressure", 1, "initial pressure")
	cmd.Flags().StringVar(&pressureUnit, "pressure-unit", "atm", "initial pressure unit")
	cmd.Flags().Float64Var(&temperature, "temperature", 25, "initial temperature")
	cmd.Flags().StringVar(&tempUnit, "temperature-unit", "degC", "initial temperature unit")
}

// resolveConfig layers defaults, a preset or config file, and explicitly
// set flags, in that order of precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		f, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be fuel/name, got %q", preset)
		}
		cfg = config.GetPreset(f, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(f))
		}
	default:
		loaded, err := config.Load("")
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("replicates") {
		cfg.Replicates = replicates
	}
	if flags.Changed("phi") {
		cfg.Equivalence = equivalence
	}
	if flags.Changed("diluent-fraction") {
		cfg.DiluentMoleFraction = diluentFrac
	}
	if flags.Changed("fuel") {
		cfg.Fuel = fuel
	}
	if flags.Changed("oxidizer") {
		cfg.Oxidizer = oxidizer
	}
	if flags.Changed("diluent") {
		cfg.Diluent = diluent
	}
	if flags.Changed("pressure") || flags.Changed("pressure-unit") {
		cfg.InitialPressure = units.Q(pressure, pressureUnit)
	}
	if flags.Changed("temperature") || flags.Changed("temperature-unit") {
		cfg.InitialTemperature = units.Q(temperature, tempUnit)
	}
	if flags.Changed("seed") || !cfg.SeedSet {
		cfg.Seed = seed
		cfg.SeedSet = true
	}
	if flags.Changed("store") {
		cfg.Store.Kind = storeKind
	}
	if flags.Changed("data") {
		cfg.Store.Path = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg logging.LogConfig) logging.Logger {
	l, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad log config, logging disabled: %v\n", err)
		return logging.NewNop()
	}
	return l
}
