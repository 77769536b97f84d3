package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var controlDevice string

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	Long:  `Pause the current playback.`,
	RunE:  runPause,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume playback",
	Long:  `Resume paused playback on the active device.`,
	RunE:  runResume,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	Long:  `Skip to the next track in the queue.`,
	RunE:  runNext,
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous track",
	Long:  `Go back to the previous track.`,
	RunE:  runPrev,
}

var volumeCmd = &cobra.Command{
	Use:   "volume <level>",
	Short: "Set playback volume",
	Long:  `Set the playback volume (0-100) on the active device.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runVolume,
}

func init() {
	for _, c := range []*cobra.Command{pauseCmd, resumeCmd, nextCmd, prevCmd, volumeCmd} {
		c.Flags().StringVarP(&controlDevice, "device", "d", "", "Target device ID")
		rootCmd.AddCommand(c)
	}
}

func runPause(cmd *cobra.Command, args []string) error {
	p, _, err := newPlayer()
	if err != nil {
		return err
	}
	if controlDevice != "" {
		p.SetDevice(controlDevice)
	}

	if err := p.Pause(context.Background()); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "paused"})
	}
	fmt.Println("⏸ Paused")
	return nil
}

func runResume(cmd *cobra.Command, args []string) error {
	p, _, err := newPlayer()
	if err != nil {
		return err
	}
	if controlDevice != "" {
		p.SetDevice(controlDevice)
	}

	if err := p.Play(context.Background()); err != nil {
		return fmt.Errorf("failed to resume: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "playing"})
	}
	fmt.Println("▶ Resumed")
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	p, _, err := newPlayer()
	if err != nil {
		return err
	}
	if controlDevice != "" {
		p.SetDevice(controlDevice)
	}

	if err := p.Next(context.Background()); err != nil {
		return fmt.Errorf("failed to skip: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "skipped"})
	}
	fmt.Println("⏭ Skipped to next track")
	return nil
}

func runPrev(cmd *cobra.Command, args []string) error {
	p, _, err := newPlayer()
	if err != nil {
		return err
	}
	if controlDevice != "" {
		p.SetDevice(controlDevice)
	}

	if err := p.Prev(context.Background()); err != nil {
		return fmt.Errorf("failed to go back: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "previous"})
	}
	fmt.Println("⏮ Previous track")
	return nil
}

func runVolume(cmd *cobra.Command, args []string) error {
	level, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid volume level: %s", args[0])
	}
	if level < 0 || level > 100 {
		return fmt.Errorf("volume must be between 0 and 100")
	}

	_, c, err := newPlayer()
	if err != nil {
		return err
	}

	if err := c.SetVolume(context.Background(), level, controlDevice); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]int{"volume": level})
	}
	fmt.Printf("🔊 Volume: %d%%\n", level)
	return nil
}
