// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the supplier-resolver CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/supplier-resolver/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE from --verbose.
var logger = zap.NewNop()

// rootCmd is the base command for the supplier-resolver CLI.
var rootCmd = &cobra.Command{
	Use:   "supplier-resolver",
	Short: "Resolve free-text supplier names to known suppliers",
	Long: `supplier-resolver turns a free-text supplier name, Arabic or English,
into a ranked list of known suppliers with a calibrated confidence, a
confidence level (B, C, D) and a justification.

Evidence comes from independent feeders: manual overrides, exact aliases,
past confirmations and rejections, fuzzy similarity, entity anchors and
historical selections. When no feeder has evidence the answer is empty.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./supplier-resolver.yaml or ~/.config/supplier-resolver/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "supplier database path (overrides store.path)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("supplier-resolver")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "supplier-resolver"))
		}
	}

	viper.SetEnvPrefix("SUPPLIER_RESOLVER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns a console logger on stderr. Verbose mode logs at
// debug level with caller information; otherwise only warnings and up.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.DisableCaller = true
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
