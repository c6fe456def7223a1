// Package main provides the listing collector command-line tool.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"willaykuna/internal/cli"
	"willaykuna/internal/config"
	"willaykuna/internal/pipeline"
)

func main() {
	cli.Main(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		flags  cli.Flags
		output string
		mode   string
	)

	cmd := &cobra.Command{
		Use:           "collector",
		Short:         "Collect today's article links from the configured news index",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.Load()
			if err != nil {
				return err
			}

			if mode != "" {
				rt.Config.Collector.Mode = mode
				if err := rt.Config.Validate(); err != nil {
					return err
				}
			}

			if output == "" {
				output = rt.Config.ListingPath()
			}

			return run(cmd.Context(), rt, output)
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "listing JSON path (default <output-dir>/<listing_file>)")
	cmd.Flags().StringVar(&mode, "mode", "", "collector mode: "+config.ModeHTML+" or "+config.ModeRSS)

	return cmd
}

func run(parent context.Context, rt *cli.Runtime, output string) error {
	ctx, cancel := cli.SignalContext(parent)
	defer cancel()

	cfg := rt.Config

	fmt.Printf("🕷️  Collecting listing from %s (%s mode)\n", cfg.Source.Name, cfg.Collector.Mode)

	start := time.Now()
	p := pipeline.New(cfg, rt.Log, rt.Metrics)

	entries, err := p.Collect(ctx, output)
	if err != nil {
		return err
	}

	if err := p.FlushMetrics(); err != nil {
		rt.Log.Warn("metrics textfile not written", "error", err)
	}

	fmt.Printf("✅ %d entries saved to %s and %s in %v\n",
		len(entries), output, config.CSVPath(output), time.Since(start).Round(time.Millisecond))

	return nil
}
