package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-practice/debug"
	"go-practice/midi"
	"go-practice/theme"
	"go-practice/track"
	"go-practice/tui"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play [trackId]",
	Short: "Practice one track, or play freely without one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id track.ID
		if len(args) == 1 {
			id = track.ID(args[0])
		}
		return runTUI(tui.Options{Start: &id})
	},
}

func runTUI(opts tui.Options) error {
	catalog, lib, err := openCatalog()
	if err != nil {
		return err
	}

	palette, err := theme.Resolve(cfg.Palette)
	if err != nil {
		return fmt.Errorf("load palette: %w", err)
	}
	th := theme.New(palette)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MIDI keyboards are picked up whenever they are plugged in
	var deviceMgr *midi.DeviceManager
	if cfg.Keyboard.AutoConnect {
		deviceMgr = midi.NewDeviceManager(cfg.Keyboard.PortName, cfg.Keyboard.Channel)
		go deviceMgr.Run(ctx)
	}

	m := tui.NewModel(catalog, deviceMgr, th, cfg, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if lib != nil {
		go func() {
			err := lib.Watch(ctx, func() { p.Send(tui.TracksChangedMsg{}) })
			if err != nil {
				debug.Error("main", err, "library watch stopped")
			}
		}()
	}

	_, err = p.Run()
	return err
}
