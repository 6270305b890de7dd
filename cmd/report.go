package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/crate/internal/formatter"
	"github.com/desertthunder/crate/internal/models"
	"github.com/urfave/cli/v3"
)

// Report runs the query engine with the flag filters and prints rows,
// aggregate stats and the per-artist breakdown.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	payload := models.ReportPayload{
		StartDate: cmd.String("start-date"),
		EndDate:   cmd.String("end-date"),
	}
	if v := cmd.String("artist-id"); v != "" {
		payload.ArtistID = v
	}
	if v := cmd.String("genre-id"); v != "" {
		payload.GenreID = v
	}
	if v := cmd.String("store-id"); v != "" {
		payload.StoreID = v
	}

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := catalog.Report(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to run report: %w", err)
	}

	if mdPath := cmd.String("markdown"); mdPath != "" {
		written, err := formatter.WriteMarkdownReport(report, "", mdPath)
		if err != nil {
			return err
		}
		r.logger.Info("report exported", "file", written)
		return r.writePlain("✓ Report written to %s\n", written)
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writePlain("Matched %d records\n", report.Stats.Count)
	if report.Stats.AvgPrice != nil {
		r.writePlain("Average price: %.2f\n", *report.Stats.AvgPrice)
	}
	if report.Stats.MinPrice != nil && report.Stats.MaxPrice != nil {
		r.writePlain("Price range: %.2f - %.2f\n", *report.Stats.MinPrice, *report.Stats.MaxPrice)
	}
	if report.Stats.AvgYear != nil {
		r.writePlain("Average year: %.0f\n", *report.Stats.AvgYear)
	}

	if len(report.ByArtist) > 0 {
		r.writePlainln("By artist:")
		for _, stat := range report.ByArtist {
			name := "Unknown Artist"
			if stat.Name != nil {
				name = *stat.Name
			}
			r.writePlain("  %s: %d\n", name, stat.Count)
		}
	}

	if len(report.Rows) > 0 {
		text, err := formatter.ExportToText(report.Rows)
		if err != nil {
			return err
		}
		r.writePlain("\n%s", string(text))
	}

	return nil
}
