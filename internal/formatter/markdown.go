// Package formatter renders width-aligned Markdown tables for previewing pipeline output.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"willaykuna/internal/models"
	"willaykuna/pkg/utils"
)

// DefaultTitleWidth caps the title column of a preview, in terminal cells.
const DefaultTitleWidth = 60

// PreviewHeader is the column layout of a normalized-records preview.
var PreviewHeader = []string{"id", "fecha_publicacion", "titulo_normalizado"}

// Preview renders normalized records as a Markdown table with titles truncated to titleWidth cells.
func Preview(records []models.NormalizedRecord, titleWidth int) string {
	if titleWidth <= 0 {
		titleWidth = DefaultTitleWidth
	}

	text := utils.NewStringHelper()

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID.String(),
			r.PublishedAt,
			text.TruncateString(r.TitleNormalized, titleWidth),
		})
	}

	return strings.Join(RenderTable(PreviewHeader, rows), "\n") + "\n"
}

// RenderTable lays out header and rows as an aligned Markdown table.
func RenderTable(header []string, rows [][]string) []string {
	table := make([][]string, 0, len(rows)+2)
	table = append(table, escapeCells(header))
	table = append(table, nil) // separator

	for _, row := range rows {
		table = append(table, escapeCells(row))
	}

	return layout(table, 1)
}

// FormatMarkdown realigns every table found in a Markdown document. Other lines are kept as they are.
func FormatMarkdown(content string) string {
	lines := strings.Split(content, "\n")

	var (
		formattedLines []string
		tableBuffer    []string
	)

	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)

		// a table row starts and ends with a pipe
		if strings.HasPrefix(trimmedLine, "|") && strings.HasSuffix(trimmedLine, "|") {
			tableBuffer = append(tableBuffer, line)

			continue
		}

		if len(tableBuffer) > 0 {
			formattedLines = append(formattedLines, processTable(tableBuffer)...)
			tableBuffer = nil
		}

		formattedLines = append(formattedLines, line)
	}

	if len(tableBuffer) > 0 {
		formattedLines = append(formattedLines, processTable(tableBuffer)...)
	}

	return strings.Join(formattedLines, "\n")
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(strings.TrimSpace(c), "|", `\|`)
	}

	return out
}

func splitRow(row string) []string {
	// escaped pipes belong to the cell
	parts := strings.Split(strings.ReplaceAll(row, `\|`, "\x00"), "|")

	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}

	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.ReplaceAll(strings.TrimSpace(p), "\x00", `\|`))
	}

	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		trim := strings.NewReplacer("-", "", ":", "", " ", "").Replace(cell)
		if trim != "" {
			return false
		}
	}

	return len(cells) > 0
}

func processTable(rows []string) []string {
	// header plus separator at least
	if len(rows) < 2 {
		return rows
	}

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, splitRow(row))
	}

	separatorRowIdx := -1
	if isSeparatorRow(table[1]) {
		separatorRowIdx = 1
	}

	return layout(table, separatorRowIdx)
}

// layout pads every cell to its column's display width. The row at separatorRowIdx is drawn as dashes.
func layout(table [][]string, separatorRowIdx int) []string {
	colCount := 0
	for _, row := range table {
		colCount = max(colCount, len(row))
	}

	colWidths := make([]int, colCount)

	for rIdx, row := range table {
		if rIdx == separatorRowIdx {
			continue
		}

		for i, cell := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(cell))
		}
	}

	for i := range colWidths {
		colWidths[i] = max(colWidths[i], 3)
	}

	result := make([]string, 0, len(table))

	for i, row := range table {
		var sb strings.Builder

		sb.WriteString("|")

		for j := range colCount {
			sb.WriteString(" ")

			if i == separatorRowIdx {
				sb.WriteString(strings.Repeat("-", colWidths[j]))
			} else {
				content := ""
				if j < len(row) {
					content = row[j]
				}

				sb.WriteString(runewidth.FillRight(content, colWidths[j]))
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())
	}

	return result
}
