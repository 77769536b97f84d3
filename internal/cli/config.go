package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"strum/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing strum configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file, prompting for Spotify credentials when a terminal is attached.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write it back to the config file.

Supported keys:
  spotify.client_id      Spotify client ID
  spotify.redirect_uri   OAuth redirect URI
  defaults.device        Default playback device ID
  tui.refresh_interval   Dashboard refresh interval (milliseconds)
  tail.interval          Tail poll interval (milliseconds)
  log.level              Log level (debug/info/warn/error)
  log.file               Log file path

Examples:
  strum config set defaults.device abc123
  strum config set tui.refresh_interval 2000`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	// The secret stays out of display output.
	shown := *cfg
	if shown.Spotify.ClientSecret != "" {
		shown.Spotify.ClientSecret = "****"
	}

	if JSONOutput() {
		return printJSON(shown)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(shown)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(map[string]string{"path": config.Path()})
	}
	fmt.Println(config.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	path := config.Path()
	if cfgFile != "" {
		path = cfgFile
	}

	// Work on the file contents directly so environment overrides are not
	// baked into it.
	var onDisk config.Config
	if _, err := toml.DecodeFile(path, &onDisk); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config: %w", err)
	}

	switch key {
	case "spotify.client_id":
		onDisk.Spotify.ClientID = value
	case "spotify.redirect_uri":
		onDisk.Spotify.RedirectURI = value
	case "defaults.device":
		onDisk.Defaults.Device = value
	case "tui.refresh_interval":
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid interval: %s", value)
		}
		onDisk.TUI.RefreshInterval = i
	case "tail.interval":
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid interval: %s", value)
		}
		onDisk.Tail.Interval = i
	case "log.level":
		onDisk.Log.Level = value
	case "log.file":
		onDisk.Log.File = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := (&onDisk).Validate(); err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(onDisk); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Set %s in %s\n", key, path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.Path()
	if cfgFile != "" {
		path = cfgFile
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	fresh := config.Default()

	if isTerminal() {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Spotify client ID").
					Description("From https://developer.spotify.com/dashboard").
					Value(&fresh.Spotify.ClientID),
				huh.NewInput().
					Title("Spotify client secret (optional)").
					Description("Leave empty to use the PKCE flow").
					EchoMode(huh.EchoModePassword).
					Value(&fresh.Spotify.ClientSecret),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(fresh); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to %s\n", path)
	if fresh.Spotify.ClientID != "" {
		fmt.Println("Run 'strum auth login' to authenticate.")
	}
	return nil
}
