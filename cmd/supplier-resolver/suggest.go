// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/supplier-resolver/internal/authority"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <name...>",
	Short: "Suggest known suppliers for a free-text name",
	Long: `Suggest resolves one supplier name and prints the ranked suggestions.
All arguments are joined with spaces into a single name.

Suggestions below confidence 40 are never shown. An empty result means no
evidence was found, not that the name is unknown for certain.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	r, err := newResolver(nil, limit)
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := r.auth.Resolve(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	switch {
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case yamlOutput:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(res)
	}
	printSuggestions(os.Stdout, res)
	return nil
}

func printSuggestions(w io.Writer, res authority.Result) {
	for _, fe := range res.FeederErrors {
		fmt.Fprintf(w, "warning: %s feeder failed: %v\n", fe.Feeder, fe.Err)
	}
	if len(res.Suggestions) == 0 {
		fmt.Fprintf(w, "No suggestions for %q.\n", res.Input)
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-30s  %-4s  %-5s  %-5s  %s\n",
		"Rank", "Supplier", "Name", "Conf", "Level", "Flags", "Reason")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, s := range res.Suggestions {
		flags := ""
		if s.IsAmbiguous {
			flags += "A"
		}
		if s.RequiresConfirmation {
			flags += "?"
		}
		fmt.Fprintf(w, "%-4d  %-10s  %-30s  %-4d  %-5s  %-5s  %s\n",
			i+1, truncate(s.SupplierID, 10), truncate(s.OfficialName, 30),
			s.Confidence, s.Level, flags, s.Reason)
	}
	fmt.Fprintf(w, "\n%d suggestions (A = ambiguous, ? = needs confirmation)\n", len(res.Suggestions))
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	suggestCmd.Flags().Int("limit", 0, "maximum suggestions (0 = use max_suggestions)")
	suggestCmd.Flags().Bool("json", false, "output the resolution as JSON")
	suggestCmd.Flags().Bool("yaml", false, "output the resolution as YAML")
	suggestCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(suggestCmd)
}
