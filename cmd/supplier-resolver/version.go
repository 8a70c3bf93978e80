// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the active configuration sources",
	Long: `Version prints the build version followed by the config file in use
(if any) and the supplier database the other commands would open.`,
	Run: func(cmd *cobra.Command, args []string) {
		writeVersion(cmd.OutOrStdout(), viper.ConfigFileUsed(), viper.GetString("store.path"))
	},
}

func writeVersion(w io.Writer, configFile, dbPath string) {
	fmt.Fprintf(w, "supplier-resolver %s\n", version)
	if configFile == "" {
		configFile = "(defaults)"
	}
	fmt.Fprintf(w, "  config:   %s\n", configFile)
	fmt.Fprintf(w, "  database: %s\n", dbPath)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
