// Package client implements the faq command line client for the faqd HTTP API.
package client

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the faq command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "faq",
		Short: "faq CLI - manage FAQ entries and browse the document archive",
		Long: `faq talks to a faqd server.

Environment variables:
  FAQ_API_URL     API base URL (default: http://localhost:8080)
  FAQ_API_TOKEN   Bearer token, when the server requires one`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-token", "", "Bearer token (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")

	rootCmd.AddCommand(ListCmd())
	rootCmd.AddCommand(GetCmd())
	rootCmd.AddCommand(AddCmd())
	rootCmd.AddCommand(EditCmd())
	rootCmd.AddCommand(DeleteCmd())
	rootCmd.AddCommand(ArchiveCmd())
	rootCmd.AddCommand(AuthCmd())

	return rootCmd
}

func outputJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("output")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
