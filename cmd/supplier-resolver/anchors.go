// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/supplier-resolver/internal/anchor"
	"github.com/pdiddy/supplier-resolver/internal/normalize"
)

var anchorsCmd = &cobra.Command{
	Use:   "anchors <name...>",
	Short: "Show the entity anchors extracted from a name",
	Long: `Anchors normalizes a name, classifies each word and lists the anchors
the anchor feeder would search for. It does not open the database.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnchors,
}

type anchorReport struct {
	Input      string         `json:"input"`
	Normalized string         `json:"normalized"`
	Tokens     []anchor.Token `json:"tokens"`
	Anchors    []string       `json:"anchors"`
}

func runAnchors(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw := strings.Join(args, " ")
	normalized := normalize.Name(raw)
	ex := anchor.NewExtractor(cfg.Anchor)
	report := anchorReport{
		Input:      raw,
		Normalized: normalized,
		Tokens:     ex.Analyze(normalized),
		Anchors:    ex.Extract(normalized),
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("normalized: %s\n\n", report.Normalized)
	fmt.Printf("%-20s  %-10s  %s\n", "Word", "Class", "Rejected by")
	fmt.Println(strings.Repeat("-", 50))
	for _, t := range report.Tokens {
		fmt.Printf("%-20s  %-10s  %s\n", t.Word, t.Class, t.Rejection)
	}
	if len(report.Anchors) == 0 {
		fmt.Println("\nNo anchors: anchor evidence is withheld for this name.")
		return nil
	}
	fmt.Printf("\nanchors: %s\n", strings.Join(report.Anchors, ", "))
	return nil
}

func init() {
	anchorsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(anchorsCmd)
}
