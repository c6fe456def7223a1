// Package main provides the unified worker command that chains extraction and normalization.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"willaykuna/internal/cli"
	"willaykuna/internal/pipeline"
)

func main() {
	cli.Main(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		flags   cli.Flags
		collect bool
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run extraction and normalization in one process",
		Long: `worker runs the crawler and normalizer stages back to back on the configured files.

With --collect the listing collector runs first, so a single invocation goes from
the news index to normalized records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.Load()
			if err != nil {
				return err
			}

			return run(cmd.Context(), rt, collect)
		},
	}

	flags.Register(cmd)
	cmd.Flags().BoolVar(&collect, "collect", false, "collect the listing before extracting")

	return cmd
}

func run(parent context.Context, rt *cli.Runtime, collect bool) error {
	ctx, cancel := cli.SignalContext(parent)
	defer cancel()

	cfg := rt.Config
	log := rt.Log
	p := pipeline.New(cfg, log, rt.Metrics)
	startTime := time.Now()

	log.Info("🚀 Starting worker pipeline", "source", cfg.Source.Name, "dir", cfg.Output.Dir)

	if collect {
		log.Info("Phase 0: Listing collection...")

		entries, err := p.Collect(ctx, cfg.ListingPath())
		if err != nil {
			return err
		}

		log.Info("✅ Listing collected", "entries", len(entries))
	}

	log.Info("Phase 1: Extraction...")

	report, err := p.Crawl(ctx, cfg.ListingPath(), cfg.DetailPath())
	if err != nil {
		return err
	}

	log.Info("✅ Extraction done", "run_id", report.RunID, "records", len(report.Records), "skipped", report.Skipped)

	log.Info("Phase 2: Normalization...")

	normalized, err := p.Normalize(cfg.DetailPath(), cfg.NormalizedPath())
	if err != nil {
		return err
	}

	if err := p.FlushMetrics(); err != nil {
		log.Warn("metrics textfile not written", "error", err)
	}

	log.Info("✨ Pipeline Complete!")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Run ID: %s\n", report.RunID)
	fmt.Printf("Records Extracted: %d\n", len(report.Records))
	fmt.Printf("Entries Skipped: %d\n", report.Skipped)
	fmt.Printf("Records Normalized: %d\n", len(normalized))
	fmt.Printf("Output: %s\n", cfg.NormalizedPath())
	fmt.Printf("Total Duration: %v\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Println("------------------------------------------------")

	return nil
}
