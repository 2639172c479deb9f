package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-practice/api"
	"go-practice/config"
	"go-practice/debug"
	"go-practice/library"
	"go-practice/tui"
)

var (
	cfg *config.Config

	flags struct {
		local string
		api   string
		debug bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "go-practice",
	Short: "Practice piano against a scrolling track",
	Long: `go-practice plays a track as a scrolling note stream and waits at each
chord until you play it, on a MIDI keyboard or on the computer keyboard.

Tracks come from a track server (see "go-practice serve") or, with --local,
straight from a directory of MIDI files.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(tui.Options{})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.local, "local", "",
		"Read tracks from this directory of MIDI files instead of a server")
	rootCmd.PersistentFlags().StringVar(&flags.api, "api", "",
		"Track server URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false,
		"Write a debug log to the config directory")
}

// setup loads config and applies flags, which win over file and environment
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.api != "" {
		cfg.API.BaseURL = flags.api
	}
	if flags.debug {
		if err := debug.Enable(logOptions(false)); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
	}
	return nil
}

func logOptions(console bool) debug.Options {
	return debug.Options{
		Path:       cfg.LogPath(),
		Level:      cfg.Log.Level,
		Console:    console,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}
}

// openCatalog returns the local library when --local is set, else the API client
func openCatalog() (tui.Catalog, *library.Library, error) {
	if flags.local != "" {
		lib, err := library.Open(flags.local)
		if err != nil {
			return nil, nil, err
		}
		return lib, lib, nil
	}
	return api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.Timeout)), nil, nil
}

func main() {
	defer debug.Disable()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		debug.Disable()
		os.Exit(1)
	}
}
