package main

import (
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/halfblock/config"
)

var rootCmd = &cobra.Command{
	Use:          "halfblock",
	Short:        "draw a truecolor pixel canvas in the terminal",
	Long:         "draw a truecolor pixel canvas in the terminal, two pixels per character cell\n\nArrow keys move the marker, Enter resets the scene, Escape quits.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		err = run(cfg)
		if err != nil && cfg.Debug {
			var stackErr *errors.Error
			if errors.As(err, &stackErr) {
				fmt.Fprintln(os.Stderr, stackErr.ErrorStack())
			}
		}
		return err
	},
}

func init() {
	def := config.Default()
	flags := rootCmd.Flags()
	flags.Int("fps", def.FPS, "target frames per second")
	flags.Int("width", def.CanvasWidth, "canvas width in pixels")
	flags.Int("height", def.CanvasHeight, "canvas height in pixels")
	flags.String("backend", def.Backend, "render backend: auto, ansi, console")
	flags.Duration("escape-timeout", def.EscapeTimeout, "silence after which a lone ESC counts as Escape (0 waits forever)")
	flags.Bool("debug", def.Debug, "write a debug log and print error stacks")
	flags.String("log-dir", def.LogDir, "directory for the debug log")
	flags.String("metrics-addr", def.MetricsAddr, "serve prometheus metrics on this address")
}

func main() {
	// Panic Recovery: Ensure terminal is reset even if the loop crashes
	defer func() {
		handleCrash(recover())
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig loads HALFBLOCK_* variables, then applies flags the user set
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS, _ = flags.GetInt("fps")
	}
	if flags.Changed("width") {
		cfg.CanvasWidth, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.CanvasHeight, _ = flags.GetInt("height")
	}
	if flags.Changed("backend") {
		cfg.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("escape-timeout") {
		cfg.EscapeTimeout, _ = flags.GetDuration("escape-timeout")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("log-dir") {
		cfg.LogDir, _ = flags.GetString("log-dir")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
