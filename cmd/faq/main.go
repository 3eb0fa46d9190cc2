package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/faqd/internal/cli"
	"github.com/cloo-solutions/faqd/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := client.NewRootCmd(version)
	cli.AddHelpJSONFlag(rootCmd)

	if cli.CheckHelpJSON(rootCmd, os.Args[1:]) {
		return
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
