// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/supplier-resolver/internal/store"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the supplier catalog (import, export)",
	Long: `Catalog loads and dumps the supplier database as YAML: suppliers with
their aliases, manual overrides, confirm/reject feedback and historical
decisions.`,
}

// --- import subcommand ---

var catalogImportCmd = &cobra.Command{
	Use:   "import <catalog.yaml>",
	Short: "Load a catalog YAML file into the supplier database",
	Long: `Import upserts suppliers and overrides and adds new aliases. Feedback
and decision entries replace the stored counts for their input and
supplier, so re-importing an export leaves the database as it was. The
whole file is applied in one transaction; a bad record leaves the
database unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	c, err := store.LoadCatalog(args[0])
	if err != nil {
		return err
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.Import(context.Background(), c, os.Stdout)
	return err
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the supplier database as catalog YAML",
	Long: `Export writes the database to stdout, or to --output. Feedback and
decisions are aggregated into counts per normalized input.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if output == "" || output == "-" {
		return s.Export(context.Background(), os.Stdout)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := s.Export(context.Background(), f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
	return nil
}

func init() {
	catalogExportCmd.Flags().String("output", "", "output file (default: stdout)")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
