package client

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// AuthCmd creates the auth parent command
func AuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored server credentials",
		Long:  "Save, clear and inspect the API URL and token used by the faq CLI",
	}

	cmd.AddCommand(AuthLoginCmd())
	cmd.AddCommand(AuthLogoutCmd())
	cmd.AddCommand(AuthStatusCmd())

	return cmd
}

// AuthLoginCmd creates the auth login command
func AuthLoginCmd() *cobra.Command {
	var apiToken string
	var apiURL string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store API URL and token",
		Long:  "Store API URL and token in the global config (~/.config/faq/config.json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := SaveGlobalConfig(&GlobalConfig{APIToken: apiToken, APIURL: apiURL}); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved")
			return err
		},
	}

	cmd.Flags().StringVar(&apiToken, "token", "", "Bearer token (leave empty for open servers)")
	cmd.Flags().StringVar(&apiURL, "url", defaultAPIURL, "API URL")

	return cmd
}

// AuthLogoutCmd creates the auth logout command
func AuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := DeleteGlobalConfig(); err != nil {
				return fmt.Errorf("failed to logout: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Credentials cleared")
			return err
		},
	}
}

// AuthStatusCmd creates the auth status command
func AuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which server the CLI talks to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flagToken, _ := cmd.Flags().GetString("api-token")
			flagURL, _ := cmd.Flags().GetString("api-url")
			source, token, url := GetCredentialSource(flagToken, flagURL)

			if outputJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"source":    string(source),
					"api_url":   url,
					"api_token": maskToken(token),
				})
			}
			return printStatusText(cmd.OutOrStdout(), source, token, url)
		},
	}
}

func printStatusText(w io.Writer, source CredentialSource, token, url string) error {
	_, err := fmt.Fprintf(w, "Source: %s\nAPI URL: %s\nAPI Token: %s\n", source, url, maskToken(token))
	return err
}

func maskToken(token string) string {
	if token == "" {
		return "(none)"
	}
	if len(token) < 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
