package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"strum/internal/spotify/auth"
	"strum/internal/spotify/client"
)

var authForce bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Spotify authentication",
	Long:  `Commands for managing Spotify OAuth authentication.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Spotify",
	Long:  `Opens a browser to authenticate with Spotify using the OAuth PKCE flow.`,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Spotify credentials",
	Long:  `Removes the stored Spotify OAuth tokens from the local machine.`,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Shows the current Spotify authentication status.`,
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().BoolVarP(&authForce, "force", "f", false, "re-authenticate even if a token exists")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireCredentials(); err != nil {
		return fmt.Errorf("%w: set spotify.client_id in ~/.strumrc or via SPOTIFY_CLIENT_ID", err)
	}

	storage, err := auth.NewStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize token storage: %w", err)
	}

	if storage.Exists() && !authForce && isTerminal() {
		replace := false
		confirm := huh.NewConfirm().
			Title("A stored Spotify session already exists.").
			Description("Re-authenticate and replace it?").
			Value(&replace)
		if err := confirm.Run(); err != nil {
			return err
		}
		if !replace {
			fmt.Println("Keeping existing session.")
			return nil
		}
	}

	authCfg := auth.NewConfig(cfg.Spotify.ClientID)
	authCfg.ClientSecret = cfg.Spotify.ClientSecret
	if cfg.Spotify.RedirectURI != "" {
		authCfg.RedirectURI = cfg.Spotify.RedirectURI
	}

	timeout := auth.DefaultFlowTimeout
	if cfg.TUI.AuthTimeout > 0 {
		timeout = time.Duration(cfg.TUI.AuthTimeout) * time.Second
	}

	token, err := auth.Authenticate(cmd.Context(), auth.FlowOptions{
		Config:  authCfg,
		Timeout: timeout,
	})
	if err != nil {
		return err
	}

	if err := storage.Save(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	// Fetch the profile to confirm the token works end to end.
	spotifyClient := client.New(authCfg, storage, client.WithLogger(cliLogger()))
	if err := spotifyClient.SetToken(token); err != nil {
		return fmt.Errorf("failed to apply token: %w", err)
	}

	user, err := spotifyClient.GetCurrentUser(cmd.Context())
	if err != nil {
		fmt.Println("Authentication successful. Token stored.")
		return nil
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"status":       "authenticated",
			"user_id":      user.ID,
			"display_name": user.DisplayName,
			"product":      user.Product,
			"expires_at":   token.ExpiresAt,
		})
	}

	fmt.Printf("Authenticated as %s\n", user.DisplayName)
	fmt.Printf("Token expires %s\n", humanize.Time(token.ExpiresAt))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	storage, err := auth.NewStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize token storage: %w", err)
	}

	if !storage.Exists() {
		if JSONOutput() {
			return printJSON(map[string]string{"status": "not_authenticated"})
		}
		fmt.Println("Not authenticated with Spotify.")
		return nil
	}

	if err := storage.Delete(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "logged_out"})
	}
	fmt.Println("Logged out of Spotify.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	storage, err := auth.NewStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize token storage: %w", err)
	}

	token, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	if token == nil {
		if JSONOutput() {
			return printJSON(map[string]interface{}{"authenticated": false})
		}
		fmt.Println("Not authenticated with Spotify.")
		fmt.Println("Run 'strum auth login' to authenticate.")
		return nil
	}

	if cfg.Spotify.ClientID == "" {
		// Without credentials the token cannot be verified or refreshed.
		if JSONOutput() {
			return printJSON(map[string]interface{}{
				"authenticated": true,
				"expired":       token.IsExpired(),
				"expires_at":    token.ExpiresAt,
			})
		}
		if token.IsExpired() {
			fmt.Println("Authenticated but token expired.")
		} else {
			fmt.Printf("Authenticated. Token expires %s.\n", humanize.Time(token.ExpiresAt))
		}
		return nil
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	user, err := c.GetCurrentUser(context.Background())
	if err != nil {
		if JSONOutput() {
			return printJSON(map[string]interface{}{
				"authenticated": true,
				"expired":       true,
				"error":         err.Error(),
			})
		}
		fmt.Printf("Token may be expired or invalid: %v\n", err)
		fmt.Println("Run 'strum auth login' to re-authenticate.")
		return nil
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"authenticated": true,
			"expired":       false,
			"user_id":       user.ID,
			"display_name":  user.DisplayName,
			"product":       user.Product,
			"expires_at":    token.ExpiresAt,
		})
	}

	fmt.Printf("Authenticated as: %s\n", user.DisplayName)
	if user.Product != "" {
		fmt.Printf("Account type: %s\n", user.Product)
	}
	fmt.Printf("Token expires: %s (%s)\n", token.ExpiresAt.Format(time.RFC3339), humanize.Time(token.ExpiresAt))
	return nil
}
