package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"strum/internal/config"
	strumerrors "strum/internal/errors"
	"strum/internal/logging"
	"strum/internal/spotify/auth"
	"strum/internal/spotify/client"
	"strum/internal/spotify/player"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "strum",
	Short: "Control Spotify from the terminal",
	Long:  `Strum is a terminal client for Spotify: a live dashboard plus one-shot playback commands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.strumrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strumerrors.Format(err))
		os.Exit(1)
	}
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

func cliLogger() *log.Logger {
	if verbose {
		logger := log.New(os.Stderr)
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	return logging.Discard()
}

// newClient builds an authenticated API client from the loaded config.
func newClient() (*client.Client, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	storage, err := auth.NewStorage("")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	authCfg := auth.NewConfig(cfg.Spotify.ClientID)
	authCfg.ClientSecret = cfg.Spotify.ClientSecret
	if cfg.Spotify.RedirectURI != "" {
		authCfg.RedirectURI = cfg.Spotify.RedirectURI
	}

	c := client.New(authCfg, storage, client.WithLogger(cliLogger()))
	if err := c.LoadToken(); err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if !c.HasToken() {
		return nil, strumerrors.WithSuggestion(
			strumerrors.ErrUnauthorized,
			"Run 'strum auth login' to authenticate",
		)
	}

	return c, nil
}

// newPlayer builds a player, applying the configured default device if one is
// set.
func newPlayer() (*player.Player, *client.Client, error) {
	c, err := newClient()
	if err != nil {
		return nil, nil, err
	}

	p := player.New(c)
	if cfg.Defaults.Device != "" {
		p.SetDevice(cfg.Defaults.Device)
	}
	return p, c, nil
}
