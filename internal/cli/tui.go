package cli

import (
	"github.com/spf13/cobra"

	"strum/internal/tui"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard shows:
  • Playlists - your playlists, Liked Songs first
  • Tracks - the selected playlist or search results
  • Now Playing - current track, progress, device
  • Queue - upcoming tracks

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  s            Search
  Space        Playback controls
  +            Add selected track to queue
  Tab          Switch panel
  Enter        Open playlist / play track
  r            Refresh`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "refresh interval in milliseconds (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	if tuiRefresh > 0 {
		cfg.TUI.RefreshInterval = tuiRefresh
	}
	return tui.Run(cfg)
}
