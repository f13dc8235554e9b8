package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"ge-lookup/internal/catalog"
	"ge-lookup/internal/view"
)

type marginRow struct {
	entry  catalog.Entry
	margin view.Margin
}

// Export loads the current snapshot and writes the top net margins as CSV
// and/or a PNG bar chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = a.Config.Export.TopN
	}

	d := a.buildDeps()
	if err := d.agg.Load(ctx); err != nil {
		return err
	}

	rows := a.topMargins(d, topN)
	if len(rows) == 0 {
		a.Logger.Info().Msg("no items with two-sided quotes to export")
		return nil
	}

	a.Logger.Info().Int("items", len(rows)).Msg("exporting top margins")

	if opts.CSVPath != "" {
		if err := writeMarginsCSV(opts.CSVPath, rows); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeMarginsPNG(opts.PNGPath, rows); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) topMargins(d deps, topN int) []marginRow {
	var rows []marginRow
	for _, entry := range d.index.Snapshot().Entries() {
		quote, ok := d.agg.Price(entry.ID)
		if !ok || quote.InstantBuy == nil || quote.InstantSell == nil {
			continue
		}
		rows = append(rows, marginRow{entry: entry, margin: view.ComputeMargin(*quote.InstantBuy, *quote.InstantSell)})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].margin.Net.GreaterThan(rows[j].margin.Net)
	})
	if len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}

func writeMarginsCSV(path string, rows []marginRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"id", "name", "spread", "tax", "net_margin", "roi_pct"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.entry.ID, 10),
			row.entry.Name,
			row.margin.Spread.String(),
			row.margin.Tax.String(),
			row.margin.Net.String(),
			row.margin.ROIPct.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeMarginsPNG(path string, rows []marginRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	bars := make([]chart.Value, len(rows))
	for i, row := range rows {
		bars[i] = chart.Value{
			Label: row.entry.Name,
			Value: row.margin.Net.InexactFloat64(),
		}
	}

	graph := chart.BarChart{
		Title:    "Top net margins",
		Width:    1280,
		Height:   720,
		BarWidth: 30,
		Bars:     bars,
		YAxis: chart.YAxis{
			Name: "Net margin (gp)",
		},
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
