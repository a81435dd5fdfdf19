package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/showloom-cli/internal/config"
	"github.com/KaramelBytes/showloom-cli/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg    *cfgpkg.Global
	appLog *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "showloom",
	Short: "ShowLoom CLI: explore and summarize TV/streaming title catalogs",
	Long: `ShowLoom reads a delimited title catalog of unknown encoding and separator,
derives premiere years, genres, episode lengths and status categories, and renders
filtered breakdowns and a short plain-text report, from the terminal or over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.showloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level := logger.ParseLevel(cfg.LogLevel)
	if debug {
		level = slog.LevelDebug
	}
	format := cfg.LogFormat
	if rootCmd.PersistentFlags().Changed("log-format") {
		format = logFormat
	}
	appLog = logger.New(logger.Config{Format: format, Level: level})
}

// currentConfig returns the loaded configuration, or defaults when loading was skipped.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Defaults()
	}
	return cfg
}

func currentLogger() *logger.Logger {
	if appLog == nil {
		appLog = logger.Nop()
	}
	return appLog
}
