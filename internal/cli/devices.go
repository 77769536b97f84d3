package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"strum/internal/core"
)

var transferPlay bool

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available playback devices",
	Long:  `Lists the devices available for Spotify playback.`,
	RunE:  runDevices,
}

var devicesTransferCmd = &cobra.Command{
	Use:   "transfer <device>",
	Short: "Transfer playback to a device",
	Long:  `Transfers playback to the named device.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDevicesTransfer,
}

func init() {
	devicesTransferCmd.Flags().BoolVar(&transferPlay, "play", false, "start playing after transfer")
	devicesCmd.AddCommand(devicesTransferCmd)
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	p, _, err := newPlayer()
	if err != nil {
		return err
	}

	devices, err := p.GetDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	if JSONOutput() {
		return printJSON(devices)
	}

	if len(devices) == 0 {
		fmt.Println("No devices available. Open Spotify on a device first.")
		return nil
	}

	t := NewTable("", "NAME", "TYPE", "ID")
	for _, d := range devices {
		active := " "
		if d.IsActive {
			active = "●"
		}
		t.Row(active, d.Name, string(d.Type), d.ID)
	}
	t.Flush()
	return nil
}

func runDevicesTransfer(cmd *cobra.Command, args []string) error {
	p, _, err := newPlayer()
	if err != nil {
		return err
	}
	ctx := context.Background()

	device, err := resolveDevice(ctx, p.GetDevices, args[0])
	if err != nil {
		return err
	}

	if err := p.TransferPlayback(ctx, device.ID, transferPlay); err != nil {
		return fmt.Errorf("failed to transfer playback: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "transferred", "device": device.Name})
	}
	fmt.Printf("Playback transferred to %s\n", device.Name)
	return nil
}

// resolveDevice matches a device by exact ID first, then case-insensitive
// name.
func resolveDevice(ctx context.Context, list func(context.Context) ([]core.Device, error), ref string) (*core.Device, error) {
	devices, err := list(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	for i := range devices {
		if devices[i].ID == ref {
			return &devices[i], nil
		}
	}
	for i := range devices {
		if strings.EqualFold(devices[i].Name, ref) {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("no device matching %q", ref)
}
