// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/supplier-resolver/internal/authority"
	"github.com/pdiddy/supplier-resolver/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Resolve a file of supplier names, one per line",
	Long: `Batch reads supplier names from --input (or stdin when --input is "-"),
resolves each one and prints the top suggestion per name followed by a
summary. Blank lines and lines starting with # are skipped.

Use --metrics-file to write the resolution metrics in Prometheus textfile
format, for example for the node_exporter textfile collector.`,
	RunE: runBatch,
}

// batchSummary counts outcomes across a batch.
type batchSummary struct {
	Total          int
	Resolved       int
	Silent         int
	ByLevel        map[types.Level]int
	Ambiguous      int
	FeederFailures int
}

func runBatch(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	workers, _ := cmd.Flags().GetInt("workers")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	names, err := readNames(input)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	r, err := newResolver(reg, 0)
	if err != nil {
		return err
	}
	defer r.Close()

	results, err := resolveAll(context.Background(), r.auth, names, workers)
	if err != nil {
		return err
	}

	sum := summarize(results)
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
	} else {
		printBatch(os.Stdout, results, sum)
	}

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logger.Info("metrics written", zap.String("path", metricsFile))
	}
	return nil
}

func readNames(input string) ([]string, error) {
	var rd io.Reader
	if input == "" || input == "-" {
		rd = os.Stdin
	} else {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		rd = f
	}
	return scanNames(rd)
}

func scanNames(rd io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(rd)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return names, nil
}

// resolveAll resolves names with at most workers concurrent resolutions.
// Results keep the input order.
func resolveAll(ctx context.Context, auth *authority.Authority, names []string, workers int) ([]authority.Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]authority.Result, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			res, err := auth.Resolve(ctx, name)
			if err != nil {
				return fmt.Errorf("resolving %q: %w", name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func summarize(results []authority.Result) batchSummary {
	sum := batchSummary{Total: len(results), ByLevel: make(map[types.Level]int)}
	for _, res := range results {
		sum.FeederFailures += len(res.FeederErrors)
		if len(res.Suggestions) == 0 {
			sum.Silent++
			continue
		}
		sum.Resolved++
		top := res.Suggestions[0]
		sum.ByLevel[top.Level]++
		if top.IsAmbiguous {
			sum.Ambiguous++
		}
	}
	return sum
}

func printBatch(w io.Writer, results []authority.Result, sum batchSummary) {
	fmt.Fprintf(w, "%-30s  %-10s  %-4s  %-5s  %s\n", "Input", "Supplier", "Conf", "Level", "Name")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, res := range results {
		if len(res.Suggestions) == 0 {
			fmt.Fprintf(w, "%-30s  %-10s\n", truncate(res.Input, 30), "-")
			continue
		}
		top := res.Suggestions[0]
		fmt.Fprintf(w, "%-30s  %-10s  %-4d  %-5s  %s\n",
			truncate(res.Input, 30), truncate(top.SupplierID, 10), top.Confidence, top.Level, top.OfficialName)
	}

	fmt.Fprintf(w, "\n%d names: %d resolved (B %d, C %d, D %d), %d silent, %d ambiguous, %d feeder failures\n",
		sum.Total, sum.Resolved,
		sum.ByLevel[types.LevelB], sum.ByLevel[types.LevelC], sum.ByLevel[types.LevelD],
		sum.Silent, sum.Ambiguous, sum.FeederFailures)
}

func init() {
	batchCmd.Flags().String("input", "-", "file with one supplier name per line (- for stdin)")
	batchCmd.Flags().Int("workers", 4, "concurrent resolutions")
	batchCmd.Flags().String("metrics-file", "", "write Prometheus textfile metrics to this path")
	batchCmd.Flags().Bool("json", false, "output one JSON resolution per line")

	rootCmd.AddCommand(batchCmd)
}
