// Entity command actions: artists, genres and stores share the same
// list/add/update/delete shape over the catalog.
package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/crate/internal/models"
	"github.com/urfave/cli/v3"
)

// ArtistsList prints all artists.
func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	artists, err := catalog.Artists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list artists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}

	for _, artist := range artists {
		line := fmt.Sprintf("%d. %s", artist.ID, artist.Name)
		if artist.Country != nil {
			line = fmt.Sprintf("%s (%s)", line, *artist.Country)
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// ArtistsAdd creates an artist.
func (r *Runner) ArtistsAdd(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	payload := models.ArtistPayload{
		Name:    cmd.String("name"),
		Country: cmd.String("country"),
	}

	id, err := catalog.CreateArtist(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to add artist: %w", err)
	}

	return r.writePlain("✓ Added artist #%d\n", id)
}

// ArtistsUpdate renames an artist or sets its country.
func (r *Runner) ArtistsUpdate(ctx context.Context, cmd *cli.Command) error {
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

	payload := models.ArtistPayload{
		Name:    cmd.String("name"),
		Country: cmd.String("country"),
	}

	if err := catalog.UpdateArtist(ctx, id, payload); err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	return r.writePlain("✓ Updated artist #%d\n", id)
}

// ArtistsDelete removes an artist no record references.
func (r *Runner) ArtistsDelete(ctx context.Context, cmd *cli.Command) error {
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

	if err := catalog.DeleteArtist(ctx, id); err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	return r.writePlain("✓ Deleted artist #%d\n", id)
}

// GenresList prints all genres.
func (r *Runner) GenresList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	genres, err := catalog.Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to list genres: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}

	for _, genre := range genres {
		r.writePlain("%d. %s\n", genre.ID, genre.Name)
	}
	return nil
}

// GenresAdd creates a genre.
func (r *Runner) GenresAdd(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := catalog.CreateGenre(ctx, models.GenrePayload{Name: cmd.String("name")})
	if err != nil {
		return fmt.Errorf("failed to add genre: %w", err)
	}

	return r.writePlain("✓ Added genre #%d\n", id)
}

// GenresUpdate renames a genre.
func (r *Runner) GenresUpdate(ctx context.Context, cmd *cli.Command) error {
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

	if err := catalog.UpdateGenre(ctx, id, models.GenrePayload{Name: cmd.String("name")}); err != nil {
		return fmt.Errorf("failed to update genre: %w", err)
	}

	return r.writePlain("✓ Updated genre #%d\n", id)
}

// GenresDelete removes a genre no record references.
func (r *Runner) GenresDelete(ctx context.Context, cmd *cli.Command) error {
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

	if err := catalog.DeleteGenre(ctx, id); err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}

	return r.writePlain("✓ Deleted genre #%d\n", id)
}

// StoresList prints all stores.
func (r *Runner) StoresList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	stores, err := catalog.Stores(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stores: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stores, cmd.Bool("pretty"))
	}

	for _, store := range stores {
		line := fmt.Sprintf("%d. %s", store.ID, store.Name)
		if store.State != nil {
			line = fmt.Sprintf("%s (%s)", line, *store.State)
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// StoresAdd creates a store.
func (r *Runner) StoresAdd(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	catalog, cleanup, err := r.openCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	payload := models.StorePayload{
		Name:    cmd.String("name"),
		State:   cmd.String("state"),
		Address: cmd.String("address"),
	}

	id, err := catalog.CreateStore(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to add store: %w", err)
	}

	return r.writePlain("✓ Added store #%d\n", id)
}

// StoresUpdate replaces a store's fields.
func (r *Runner) StoresUpdate(ctx context.Context, cmd *cli.Command) error {
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

	payload := models.StorePayload{
		Name:    cmd.String("name"),
		State:   cmd.String("state"),
		Address: cmd.String("address"),
	}

	if err := catalog.UpdateStore(ctx, id, payload); err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}

	return r.writePlain("✓ Updated store #%d\n", id)
}

// StoresDelete removes a store. The configured policy decides whether a
// store with record links is rejected or its links are cascaded away.
func (r *Runner) StoresDelete(ctx context.Context, cmd *cli.Command) error {
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

	if err := catalog.DeleteStore(ctx, id); err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	return r.writePlain("✓ Deleted store #%d\n", id)
}
