// Package main provides the Markdown preview formatter command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"willaykuna/internal/cli"
	"willaykuna/internal/formatter"
	"willaykuna/internal/models"
	"willaykuna/internal/store"
)

func main() {
	cli.Main(newRootCmd())
}

func newRootCmd() *cobra.Command {
	var (
		flags   cli.Flags
		input   string
		width   int
		realign string
		write   bool
	)

	cmd := &cobra.Command{
		Use:   "formatter",
		Short: "Preview normalized records as a Markdown table",
		Example: `  formatter                       # preview <output-dir>/<normalized_file>
  formatter -i out.json --width 40
  formatter --realign notes.md --write`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if realign != "" {
				return realignFile(realign, write)
			}

			rt, err := flags.Load()
			if err != nil {
				return err
			}

			if input == "" {
				input = rt.Config.NormalizedPath()
			}

			records, err := store.ReadJSON[models.NormalizedRecord](input)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.Preview(records, width))

			return nil
		},
	}

	flags.Register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "normalized JSON to preview (default <output-dir>/<normalized_file>)")
	cmd.Flags().IntVar(&width, "width", formatter.DefaultTitleWidth, "maximum title width in terminal cells")
	cmd.Flags().StringVar(&realign, "realign", "", "realign the tables of an existing Markdown file instead")
	cmd.Flags().BoolVar(&write, "write", false, "write realigned Markdown back to the file (default: dry-run)")

	return cmd
}

func realignFile(path string, write bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	formatted := formatter.FormatMarkdown(string(content))
	if formatted == string(content) {
		fmt.Printf("✅ %s already aligned\n", path)

		return nil
	}

	if !write {
		fmt.Printf("👀 %s needs formatting (dry-run)\n", path)
		fmt.Println(formatted)

		return nil
	}

	if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("✍️  %s formatted\n", path)

	return nil
}
