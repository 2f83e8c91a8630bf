package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "digigate",
	Short: "Transaction authorization gateway for third-party provider APIs",
	Long: `digigate authorizes inbound transaction requests and translates them
into outbound calls to a third-party provider API.

Member, module, and product records are loaded from YAML files and
hot-reload whenever the files change, without restarting the service.

Quick start:
  digigate validate  # Check config and record files
  digigate serve     # Start the gateway`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "digigate.yaml", "config file path")
}
