// Package main provides the article detail crawler command-line tool.
package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"willaykuna/internal/cli"
	"willaykuna/internal/config"
	"willaykuna/internal/crawler"
	"willaykuna/internal/pipeline"
)

func main() {
	cli.Main(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		flags  cli.Flags
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:           "crawler",
		Short:         "Extract full article records for every collected listing entry",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.Load()
			if err != nil {
				return err
			}

			if input == "" {
				input = rt.Config.ListingPath()
			}

			if output == "" {
				output = rt.Config.DetailPath()
			}

			return run(cmd.Context(), rt, input, output)
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "listing JSON to read (default <output-dir>/<listing_file>)")
	cmd.Flags().StringVar(&output, "output", "", "detail JSON path (default <output-dir>/<detail_file>)")

	return cmd
}

func run(parent context.Context, rt *cli.Runtime, input, output string) error {
	ctx, cancel := cli.SignalContext(parent)
	defer cancel()

	fmt.Printf("📥 Reading listing: %s\n", input)

	start := time.Now()
	p := pipeline.New(rt.Config, rt.Log, rt.Metrics)

	report, err := p.Crawl(ctx, input, output)
	if err != nil {
		return err
	}

	if err := p.FlushMetrics(); err != nil {
		rt.Log.Warn("metrics textfile not written", "error", err)
	}

	printReport(report, output, time.Since(start))

	return nil
}

func printReport(report *crawler.Report, output string, elapsed time.Duration) {
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Extraction Report (run %s)\n", report.RunID)
	fmt.Println("------------------------------------------------")
	fmt.Printf("Records saved: %d\n", len(report.Records))
	fmt.Printf("Skipped: %d\n", report.Skipped)

	reasons := make([]string, 0, len(report.Reasons))
	for r := range report.Reasons {
		reasons = append(reasons, string(r))
	}

	sort.Strings(reasons)

	for _, r := range reasons {
		fmt.Printf("  - %s: %d\n", r, report.Reasons[crawler.SkipReason(r)])
	}

	fmt.Printf("Output: %s, %s\n", output, config.CSVPath(output))
	fmt.Printf("Duration: %v\n", elapsed.Round(time.Millisecond))
	fmt.Println("------------------------------------------------")
}
