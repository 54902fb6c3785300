package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// CSVImporter turns a CSV file into a post whose body is the table laid out
// as a code block, one block per batch of rows.
type CSVImporter struct{}

// csvBatchSize is the number of data rows per code block.
const csvBatchSize = 20

func (p *CSVImporter) Import(r io.Reader, filename string) (*Draft, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var b blocks
	if len(records) == 0 {
		return b.draft(filename), nil
	}

	headers := records[0]
	dataRows := records[1:]
	b.text(fmt.Sprintf("%d rows, columns: %s.", len(dataRows), strings.Join(headers, ", ")))

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := i + csvBatchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}
		if len(dataRows) > csvBatchSize {
			b.heading(2, textLeaf(fmt.Sprintf("Rows %d-%d", i+2, end+1)))
		}
		b.code(layoutTable(headers, dataRows[i:end]))
	}
	return b.draft(filename), nil
}

// layoutTable pads cells to the display width of their column.
func layoutTable(headers []string, rows [][]string) string {
	cols := len(headers)
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for j, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for j := 0; j < cols; j++ {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			if j == cols-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[j]))
			sb.WriteString("  ")
		}
		sb.WriteByte('\n')
	}
	writeRow(headers)
	rule := make([]string, cols)
	for j := range rule {
		rule[j] = strings.Repeat("-", widths[j])
	}
	writeRow(rule)
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimRight(sb.String(), "\n")
}
