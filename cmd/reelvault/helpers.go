package main

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"reelvault/internal/runner"
)

func renderTable(headers []string, rows [][]string, rightAligned []int) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if stdoutIsTerminal() {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	right := make(map[int]bool, len(rightAligned))
	for _, idx := range rightAligned {
		right[idx] = true
	}
	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if right[i] {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderCampaignSummary produces the per-series outcome table plus a totals
// row shown at the end of a run.
func renderCampaignSummary(result runner.CampaignResult) string {
	headers := []string{"Series", "Succeeded", "Skipped", "Failed", "Total"}
	rows := make([][]string, 0, len(result.Series)+1)
	for _, s := range result.Series {
		rows = append(rows, []string{
			s.Series,
			strconv.Itoa(s.Succeeded),
			strconv.Itoa(s.Skipped),
			strconv.Itoa(s.Failed),
			strconv.Itoa(s.Total),
		})
	}
	succeeded, skipped, failed, total := result.Totals()
	rows = append(rows, []string{
		"TOTAL",
		strconv.Itoa(succeeded),
		strconv.Itoa(skipped),
		strconv.Itoa(failed),
		strconv.Itoa(total),
	})

	return renderTable(headers, rows, []int{1, 2, 3, 4})
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
