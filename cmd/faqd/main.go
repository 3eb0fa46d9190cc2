package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/faqd/internal/cli"
	"github.com/cloo-solutions/faqd/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "faqd",
		Short: "FAQ knowledge service daemon",
		Long:  "faqd serves the FAQ entry store and the document archive over HTTP and manages its database schema",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.MigrateCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if cli.CheckHelpJSON(rootCmd, os.Args[1:]) {
		return
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
