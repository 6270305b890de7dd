package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/crate/internal/formatter"
	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
	"github.com/urfave/cli/v3"
)

// idArg parses the required positional id argument.
func idArg(cmd *cli.Command) (int64, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: id argument is required", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: id must be a positive integer", shared.ErrInvalidArgument)
	}
	return id, nil
}

// recordPayload builds a record payload from the record field flags.
func recordPayload(cmd *cli.Command) models.RecordPayload {
	payload := models.RecordPayload{
		Title:        cmd.String("title"),
		ArtistName:   cmd.String("artist"),
		Genre:        cmd.String("genre"),
		Condition:    cmd.String("condition"),
		PurchaseDate: cmd.String("purchase-date"),
	}

	// Numeric fields stay strings on the wire; the catalog coerces them.
	if v := cmd.String("year"); v != "" {
		payload.Year = v
	}
	if v := cmd.String("price"); v != "" {
		payload.Price = v
	}
	if v := cmd.String("store-id"); v != "" {
		payload.StoreID = v
	}

	return payload
}

// RecordsList prints or exports the full record listing.
func (r *Runner) RecordsList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := catalog.Records(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if csvPath := cmd.String("csv"); csvPath != "" {
		written, err := formatter.WriteCSVExport(records, csvPath)
		if err != nil {
			return err
		}
		r.logger.Info("listing exported", "file", written)
		return r.writePlain("✓ Exported %d records to %s\n", len(records), written)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	text, err := formatter.ExportToText(records)
	if err != nil {
		return err
	}
	return r.writePlain("%s", string(text))
}

// RecordsAdd creates a record from the field flags.
func (r *Runner) RecordsAdd(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := catalog.AddRecord(ctx, recordPayload(cmd))
	if err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}

	r.logger.Info("record added", "record_id", id)
	return r.writePlain("✓ Added record #%d\n", id)
}

// RecordsUpdate replaces a record's fields.
func (r *Runner) RecordsUpdate(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := catalog.UpdateRecord(ctx, id, recordPayload(cmd)); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	r.logger.Info("record updated", "record_id", id)
	return r.writePlain("✓ Updated record #%d\n", id)
}

// RecordsDelete removes a record along with its store links, and its artist
// when no other record references it.
func (r *Runner) RecordsDelete(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := catalog.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	r.logger.Info("record deleted", "record_id", id)
	return r.writePlain("✓ Deleted record #%d\n", id)
}
