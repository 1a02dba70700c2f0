package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"FolioPull/internal/domain/models"
)

// WriteCSV writes the cycle in the portfolio export layout: header, one row per
// holding, a blank row, the summary block, a blank row and the refresh time.
func WriteCSV(w io.Writer, c *models.Cycle) error {
	r := BuildReport(c)
	cw := csv.NewWriter(w)

	rows := [][]string{Columns}
	for _, row := range r.Rows {
		rows = append(rows, Texts(row))
	}
	rows = append(rows, []string{}, []string{"Portfolio Summary"})
	if r.Empty {
		rows = append(rows, []string{"No data available"})
	}
	for _, l := range r.Summary {
		line := []string{l.Label, l.Value.Text}
		if l.Percent != nil {
			line = append(line, "("+l.Percent.Text+")")
		}
		rows = append(rows, line)
	}
	rows = append(rows, []string{}, []string{"Last Updated:", r.Updated})

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
