package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/crate/internal/models"
	"github.com/desertthunder/crate/internal/shared"
)

func setupCatalog(t *testing.T, policy shared.PolicyConfig) *LocalCatalog {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewLocalCatalog(db, policy)
}

func TestLocalCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("AddRecord coerces form strings", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		id, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title:        "  Kind of Blue  ",
			ArtistName:   "Miles Davis",
			Genre:        "Jazz",
			Year:         "1959",
			Price:        "24.99",
			Condition:    "VG+",
			PurchaseDate: "2023-01-10",
		})
		if err != nil {
			t.Fatalf("failed to add record: %v", err)
		}
		if id == 0 {
			t.Error("expected a record id")
		}

		views, err := catalog.Records(ctx)
		if err != nil {
			t.Fatalf("failed to fetch records: %v", err)
		}
		if len(views) != 1 {
			t.Fatalf("expected 1 record, got %d", len(views))
		}

		view := views[0]
		if view.Title != "Kind of Blue" {
			t.Errorf("expected trimmed title, got %q", view.Title)
		}
		if view.Artist == nil || *view.Artist != "Miles Davis" {
			t.Errorf("expected artist Miles Davis, got %v", view.Artist)
		}
		if view.Genre == nil || *view.Genre != "Jazz" {
			t.Errorf("expected genre Jazz, got %v", view.Genre)
		}
		if view.Year == nil || *view.Year != 1959 {
			t.Errorf("expected year 1959, got %v", view.Year)
		}
		if view.Price == nil || *view.Price != 24.99 {
			t.Errorf("expected price 24.99, got %v", view.Price)
		}
	})

	t.Run("AddRecord requires a title", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		_, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "   ",
			Year:  1959,
			Price: 10,
		})
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("AddRecord rejects an unparsable year", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		_, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "Kind of Blue",
			Year:  "next year",
			Price: 10,
		})
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("AddRecord links a purchase store", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		storeID, err := catalog.CreateStore(ctx, models.StorePayload{Name: "Groove Merchant"})
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if _, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "Kind of Blue", Year: 1959, Price: 20, StoreID: storeID,
		}); err != nil {
			t.Fatalf("failed to add record: %v", err)
		}

		views, err := catalog.Records(ctx)
		if err != nil {
			t.Fatalf("failed to fetch records: %v", err)
		}
		if views[0].Store == nil || *views[0].Store != "Groove Merchant" {
			t.Errorf("expected store Groove Merchant, got %v", views[0].Store)
		}
	})

	t.Run("UpdateRecord overwrites fields", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		id, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "Kind of Blue", ArtistName: "Miles Davis", Genre: "Jazz", Year: 1959, Price: 20,
		})
		if err != nil {
			t.Fatalf("failed to add record: %v", err)
		}

		err = catalog.UpdateRecord(ctx, id, models.RecordPayload{
			Title: "Kind of Blue (Reissue)", ArtistName: "Miles Davis", Genre: "Modal Jazz", Year: 1997, Price: 35,
		})
		if err != nil {
			t.Fatalf("failed to update record: %v", err)
		}

		views, _ := catalog.Records(ctx)
		if views[0].Title != "Kind of Blue (Reissue)" {
			t.Errorf("expected updated title, got %q", views[0].Title)
		}
		if views[0].Genre == nil || *views[0].Genre != "Modal Jazz" {
			t.Errorf("expected genre Modal Jazz, got %v", views[0].Genre)
		}
	})

	t.Run("UpdateRecord on missing record", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		err := catalog.UpdateRecord(ctx, 9999, models.RecordPayload{
			Title: "Ghost", Year: 1980, Price: 5,
		})
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("DeleteRecord removes an orphaned artist", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		id, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "Kind of Blue", ArtistName: "Miles Davis", Year: 1959, Price: 20,
		})
		if err != nil {
			t.Fatalf("failed to add record: %v", err)
		}

		if err := catalog.DeleteRecord(ctx, id); err != nil {
			t.Fatalf("failed to delete record: %v", err)
		}

		artists, err := catalog.Artists(ctx)
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if len(artists) != 0 {
			t.Errorf("expected orphaned artist to be removed, got %d artists", len(artists))
		}
	})

	t.Run("DeleteArtist guarded while referenced", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		if _, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "Kind of Blue", ArtistName: "Miles Davis", Year: 1959, Price: 20,
		}); err != nil {
			t.Fatalf("failed to add record: %v", err)
		}

		artists, _ := catalog.Artists(ctx)
		if err := catalog.DeleteArtist(ctx, artists[0].ID); !errors.Is(err, shared.ErrInUse) {
			t.Errorf("expected in-use error, got %v", err)
		}

		unreferenced, err := catalog.CreateArtist(ctx, models.ArtistPayload{Name: "Herbie Hancock"})
		if err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}
		if err := catalog.DeleteArtist(ctx, unreferenced); err != nil {
			t.Errorf("expected unreferenced artist delete to succeed, got %v", err)
		}
	})

	t.Run("DeleteGenre guarded while referenced", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		id, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "Kind of Blue", Genre: "Jazz", Year: 1959, Price: 20,
		})
		if err != nil {
			t.Fatalf("failed to add record: %v", err)
		}

		genres, _ := catalog.Genres(ctx)
		if err := catalog.DeleteGenre(ctx, genres[0].ID); !errors.Is(err, shared.ErrInUse) {
			t.Errorf("expected in-use error, got %v", err)
		}

		// Genres survive record deletion, unlike artists.
		if err := catalog.DeleteRecord(ctx, id); err != nil {
			t.Fatalf("failed to delete record: %v", err)
		}
		if err := catalog.DeleteGenre(ctx, genres[0].ID); err != nil {
			t.Errorf("expected genre delete to succeed after record removal, got %v", err)
		}
	})

	t.Run("DeleteStore cascades links by default", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		storeID, _ := catalog.CreateStore(ctx, models.StorePayload{Name: "Groove Merchant"})
		if _, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "Kind of Blue", Year: 1959, Price: 20, StoreID: storeID,
		}); err != nil {
			t.Fatalf("failed to add record: %v", err)
		}

		if err := catalog.DeleteStore(ctx, storeID); err != nil {
			t.Fatalf("expected cascading store delete to succeed, got %v", err)
		}

		views, _ := catalog.Records(ctx)
		if len(views) != 1 {
			t.Fatalf("expected record to survive store delete, got %d records", len(views))
		}
		if views[0].Store != nil {
			t.Errorf("expected store link to be gone, got %v", views[0].Store)
		}
	})

	t.Run("DeleteStore rejected under guard policy", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{GuardStoreDelete: true})

		storeID, _ := catalog.CreateStore(ctx, models.StorePayload{Name: "Groove Merchant"})
		if _, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "Kind of Blue", Year: 1959, Price: 20, StoreID: storeID,
		}); err != nil {
			t.Fatalf("failed to add record: %v", err)
		}

		if err := catalog.DeleteStore(ctx, storeID); !errors.Is(err, shared.ErrInUse) {
			t.Errorf("expected in-use error under guard policy, got %v", err)
		}
	})

	t.Run("empty lists are non-nil", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		views, err := catalog.Records(ctx)
		if err != nil || views == nil || len(views) != 0 {
			t.Errorf("expected empty record slice, got %v (%v)", views, err)
		}
		artists, err := catalog.Artists(ctx)
		if err != nil || artists == nil || len(artists) != 0 {
			t.Errorf("expected empty artist slice, got %v (%v)", artists, err)
		}
		genres, err := catalog.Genres(ctx)
		if err != nil || genres == nil || len(genres) != 0 {
			t.Errorf("expected empty genre slice, got %v (%v)", genres, err)
		}
		stores, err := catalog.Stores(ctx)
		if err != nil || stores == nil || len(stores) != 0 {
			t.Errorf("expected empty store slice, got %v (%v)", stores, err)
		}
	})

	t.Run("Report parses string filter ids", func(t *testing.T) {
		catalog := setupCatalog(t, shared.PolicyConfig{})

		if _, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "Kind of Blue", ArtistName: "Miles Davis", Year: 1959, Price: 20,
		}); err != nil {
			t.Fatalf("failed to add record: %v", err)
		}
		if _, err := catalog.AddRecord(ctx, models.RecordPayload{
			Title: "A Love Supreme", ArtistName: "John Coltrane", Year: 1965, Price: 40,
		}); err != nil {
			t.Fatalf("failed to add record: %v", err)
		}

		artists, _ := catalog.Artists(ctx)
		var colID int64
		for _, a := range artists {
			if a.Name == "John Coltrane" {
				colID = a.ID
			}
		}

		report, err := catalog.Report(ctx, models.ReportPayload{
			ArtistID: fmt.Sprintf("%d", colID),
		})
		if err != nil {
			t.Fatalf("failed to run report: %v", err)
		}
		if report.Stats.Count != 1 {
			t.Errorf("expected 1 filtered record, got %d", report.Stats.Count)
		}
		if len(report.Rows) != 1 || report.Rows[0].Title != "A Love Supreme" {
			t.Errorf("expected A Love Supreme, got %v", report.Rows)
		}
	})
}
