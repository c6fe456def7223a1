// Package main provides the text normalizer command-line tool.
package main

import (
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
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:           "normalizer",
		Short:         "Clean and normalize extracted article text",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			rt, err := flags.Load()
			if err != nil {
				return err
			}

			if input == "" {
				input = rt.Config.DetailPath()
			}

			if output == "" {
				output = rt.Config.NormalizedPath()
			}

			return run(rt, input, output)
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "detail JSON to read (default <output-dir>/<detail_file>)")
	cmd.Flags().StringVar(&output, "output", "", "normalized JSON path (default <output-dir>/<normalized_file>)")

	return cmd
}

func run(rt *cli.Runtime, input, output string) error {
	fmt.Printf("📥 Reading records: %s\n", input)

	start := time.Now()
	p := pipeline.New(rt.Config, rt.Log, rt.Metrics)

	records, err := p.Normalize(input, output)
	if err != nil {
		return err
	}

	if err := p.FlushMetrics(); err != nil {
		rt.Log.Warn("metrics textfile not written", "error", err)
	}

	fmt.Printf("✅ %d records normalized into %s and %s in %v\n",
		len(records), output, config.CSVPath(output), time.Since(start).Round(time.Millisecond))

	return nil
}
