package shared

import (
	"database/sql"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		if count == 0 {
			t.Error("expected at least one migration to be applied")
		}

		for _, table := range []string{"records", "artists", "genres", "stores", "record_stores"} {
			exists, err := TableExists(db, table)
			if err != nil {
				t.Fatalf("failed to check table %s: %v", table, err)
			}
			if !exists {
				t.Errorf("table %s should exist after migrations", table)
			}
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		var newCount int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&newCount)
		if err != nil {
			t.Fatalf("failed to query schema_migrations after rollback: %v", err)
		}
		if newCount >= count {
			t.Errorf("expected migration count to decrease after rollback, got %d (was %d)", newCount, count)
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})
}

func TestUpgradeLegacySchema(t *testing.T) {
	// setupLegacyDB migrates a fresh database, then swaps the records table
	// for the old flat-column layout used before entities were split out.
	setupLegacyDB := func(t *testing.T) *sql.DB {
		t.Helper()

		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		t.Cleanup(func() { db.Close() })

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		statements := []string{
			"DROP TABLE records",
			`CREATE TABLE records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				artist TEXT,
				genre TEXT,
				store TEXT,
				year INTEGER,
				condition TEXT,
				price REAL,
				purchase_date TEXT
			)`,
			`INSERT INTO records (title, artist, genre, store, year, condition, price, purchase_date)
				VALUES ('Kind of Blue', 'Miles Davis', 'Jazz', 'Groove Merchant', 1959, 'VG+', 24.99, '2023-01-10')`,
			`INSERT INTO records (title, artist, genre, store, year, condition, price, purchase_date)
				VALUES ('Bitches Brew', 'Miles Davis', 'Fusion', 'Amoeba', 1970, 'NM', 30.00, '2023-06-20')`,
			`INSERT INTO records (title, artist, genre, store, year)
				VALUES ('Untitled Demo', NULL, NULL, '', NULL)`,
		}
		for _, stmt := range statements {
			if _, err := db.Exec(stmt); err != nil {
				t.Fatalf("failed to build legacy schema: %v", err)
			}
		}

		return db
	}

	t.Run("rebuilds flat columns into entity tables", func(t *testing.T) {
		db := setupLegacyDB(t)

		upgraded, err := UpgradeLegacySchema(db)
		if err != nil {
			t.Fatalf("failed to upgrade legacy schema: %v", err)
		}
		if !upgraded {
			t.Fatal("expected legacy schema to be detected and rebuilt")
		}

		var artistCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM artists").Scan(&artistCount); err != nil {
			t.Fatalf("failed to count artists: %v", err)
		}
		if artistCount != 1 {
			t.Errorf("expected 1 distinct artist, got %d", artistCount)
		}

		var genreCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM genres").Scan(&genreCount); err != nil {
			t.Fatalf("failed to count genres: %v", err)
		}
		if genreCount != 2 {
			t.Errorf("expected 2 genres, got %d", genreCount)
		}

		var storeCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM stores").Scan(&storeCount); err != nil {
			t.Fatalf("failed to count stores: %v", err)
		}
		if storeCount != 2 {
			t.Errorf("expected 2 stores, got %d", storeCount)
		}

		var linkCount int
		if err := db.QueryRow("SELECT COUNT(*) FROM record_stores").Scan(&linkCount); err != nil {
			t.Fatalf("failed to count store links: %v", err)
		}
		if linkCount != 2 {
			t.Errorf("expected 2 store links, got %d", linkCount)
		}

		columns, err := TableColumns(db, "records")
		if err != nil {
			t.Fatalf("failed to inspect records table: %v", err)
		}
		colSet := make(map[string]bool, len(columns))
		for _, c := range columns {
			colSet[c] = true
		}
		if !colSet["artist_id"] || !colSet["genre_id"] {
			t.Errorf("expected foreign key columns on rebuilt records table, got %v", columns)
		}
		if colSet["artist"] || colSet["store"] {
			t.Errorf("expected flat text columns to be gone, got %v", columns)
		}

		var title string
		err = db.QueryRow(`SELECT r.title FROM records r
			JOIN artists a ON a.artist_id = r.artist_id
			WHERE a.name = 'Miles Davis' AND r.year = 1959`).Scan(&title)
		if err != nil {
			t.Fatalf("failed to join rebuilt records to artists: %v", err)
		}
		if title != "Kind of Blue" {
			t.Errorf("expected Kind of Blue, got %s", title)
		}

		var total int
		if err := db.QueryRow("SELECT COUNT(*) FROM records").Scan(&total); err != nil {
			t.Fatalf("failed to count records: %v", err)
		}
		if total != 3 {
			t.Errorf("expected all 3 records to survive the rebuild, got %d", total)
		}
	})

	t.Run("upgrades a database predating entity tables", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		statements := []string{
			`CREATE TABLE records (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				artist TEXT,
				genre TEXT,
				store TEXT,
				year INTEGER,
				price REAL,
				purchase_date TEXT
			)`,
			`INSERT INTO records (title, artist, genre, store, year, price, purchase_date)
				VALUES ('Kind of Blue', 'Miles Davis', 'Jazz', 'Groove Merchant', 1959, 24.99, '2023-01-10')`,
		}
		for _, stmt := range statements {
			if _, err := db.Exec(stmt); err != nil {
				t.Fatalf("failed to build bare legacy schema: %v", err)
			}
		}

		upgraded, err := UpgradeLegacySchema(db)
		if err != nil {
			t.Fatalf("failed to upgrade bare legacy schema: %v", err)
		}
		if !upgraded {
			t.Fatal("expected the bare legacy schema to be rebuilt")
		}

		// The rebuilt schema has the normalized columns, so the migration's
		// index creation succeeds.
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations after upgrade: %v", err)
		}

		var name string
		err = db.QueryRow(`SELECT a.name FROM records r
			JOIN artists a ON a.artist_id = r.artist_id`).Scan(&name)
		if err != nil {
			t.Fatalf("failed to join upgraded records: %v", err)
		}
		if name != "Miles Davis" {
			t.Errorf("expected Miles Davis, got %s", name)
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		db := setupLegacyDB(t)

		if _, err := UpgradeLegacySchema(db); err != nil {
			t.Fatalf("failed to upgrade legacy schema: %v", err)
		}

		upgraded, err := UpgradeLegacySchema(db)
		if err != nil {
			t.Fatalf("second upgrade run failed: %v", err)
		}
		if upgraded {
			t.Error("expected upgraded schema to be left untouched")
		}
	})

	t.Run("normalized database is left untouched", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		upgraded, err := UpgradeLegacySchema(db)
		if err != nil {
			t.Fatalf("upgrade check failed: %v", err)
		}
		if upgraded {
			t.Error("expected no rebuild on a fresh database")
		}
	})
}
