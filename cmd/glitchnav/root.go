package glitchnav

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/franzer/glitchnav/internal/config"
	"github.com/franzer/glitchnav/internal/scramble"
	"github.com/spf13/cobra"
)

var (
	flagConfig     string
	flagNoColor    bool
	flagVerbose    bool
	flagAlphabet   string
	flagInterval   time.Duration
	flagStep       float64
	flagSeed       uint64
	flagGlitch     string
	flagSelfUpdate bool

	// version is stamped by release builds:
	//   -ldflags "-X github.com/franzer/glitchnav/cmd/glitchnav.version=v1.2.3"
	version = "0.1.0"

	// logger is silent unless --verbose or --log-file redirects it.
	logger = log.New(io.Discard, "glitchnav: ", log.LstdFlags)
)

// rootCmd is the base Cobra command for the glitchnav CLI.
var rootCmd = &cobra.Command{
	Use:     "glitchnav",
	Short:   "Scramble-reveal hover effects for navigation links",
	Long:    "glitchnav renders a navigation bar whose links descramble into their text on hover, and can replay the effect headless.",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if flagVerbose {
			logger.SetOutput(cmd.ErrOrStderr())
		}
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if flagSelfUpdate {
			return selfUpdate()
		}
		return cmd.Help()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the glitchnav CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (overrides local and global config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log session lifecycle to stderr")
	rootCmd.PersistentFlags().StringVar(&flagAlphabet, "alphabet", scramble.DefaultAlphabet, "filler characters for unresolved positions")
	rootCmd.PersistentFlags().DurationVar(&flagInterval, "interval", scramble.DefaultInterval, "tick interval")
	rootCmd.PersistentFlags().Float64Var(&flagStep, "step", scramble.DefaultStep, "characters resolved per tick")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "random seed for reproducible frames (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagGlitch, "glitch", "", "comma-separated link ID globs that get the effect (empty = all)")
	rootCmd.Flags().BoolVar(&flagSelfUpdate, "self-update", false, "update glitchnav to the latest release")
}

// loadSettings resolves configuration: explicit/CLI > local > global.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	var layers []config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		layers = append(layers, c)
	}
	if wd, err := os.Getwd(); err == nil {
		if c, err := config.LoadLocal(wd); err == nil {
			layers = append(layers, c)
		}
	}
	if flagConfig != "" {
		c, err := config.LoadFile(flagConfig)
		if err != nil {
			return config.Settings{}, fmt.Errorf("load config: %w", err)
		}
		layers = append(layers, c)
	}
	layers = append(layers, flagLayer(cmd))
	return config.Resolve(layers...)
}

// flagLayer turns explicitly set flags into the top configuration layer.
func flagLayer(cmd *cobra.Command) config.FileConfig {
	var fc config.FileConfig
	fs := cmd.Flags()
	if fs.Changed("alphabet") {
		fc.Alphabet = strPtr(flagAlphabet)
	}
	if fs.Changed("interval") {
		fc.Interval = strPtr(flagInterval.String())
	}
	if fs.Changed("step") {
		fc.Step = floatPtr(flagStep)
	}
	if fs.Changed("seed") {
		fc.Seed = &flagSeed
	}
	if fs.Changed("glitch") {
		fc.Glitch = strPtr(flagGlitch)
	}
	if fs.Changed("no-color") {
		fc.NoColor = boolPtr(flagNoColor)
	}
	return fc
}
