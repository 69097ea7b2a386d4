// Package main provides a terminal spinner that animates until a key is pressed.
package main

import (
	"context"
	"os"
	"time"

	"dotspin/internal/config"
	"dotspin/internal/frames"
	"dotspin/internal/printer"
	"dotspin/internal/signal"
	"dotspin/internal/spinner"
	"dotspin/internal/terminal"

	"github.com/spf13/cobra"
)

var (
	configPath string
	interval   time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "dotspin",
	Short:         "Animate a braille spinner until a key is pressed",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func main() {
	// Set up signal handling so the spinner can restore the terminal
	signal.RunWithContext(main0)
}

func main0(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printer.Errorf("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file (default "+config.DefaultConfigPath+" if present)")
	rootCmd.Flags().DurationVar(&interval, "interval", 0, "time between frames (overrides the config file)")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("interval") {
		cfg.Spinner.Interval = interval
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// run animates the spinner on stderr until a key is pressed on stdin or ctx
// is cancelled. Stdin is held in raw mode for the spinner's lifetime so the
// keypress is not echoed.
func run(ctx context.Context, cfg *config.Config) error {
	printer.Infof("Press any key to stop.")

	restore, err := terminal.MakeRaw(os.Stdin)
	if err != nil {
		return err
	}

	spinErr := animate(ctx, cfg)

	if err := restore(); err != nil {
		return err
	}
	if spinErr != nil {
		// A failed spinner does not fail the wait it annotates.
		printer.Warnf("%v", spinErr)
	}
	return nil
}

// animate runs the spinner on stderr until a key is pressed or ctx ends.
func animate(ctx context.Context, cfg *config.Config) error {
	cycle := frames.Build(cfg.Spinner.FirstGlyph, cfg.Spinner.GlyphCount)
	sp := spinner.New(os.Stderr, cycle, cfg.Spinner.Interval)

	// A blank cell for the first frame to retreat over.
	os.Stderr.WriteString(" ")
	defer os.Stderr.WriteString("\r\n")

	return sp.Run(ctx, terminal.KeyPress(os.Stdin))
}
