package shared

import (
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration represents a database migration with up and down SQL.
type Migration struct {
	Version int
	Up      string
	Down    string
}

// loadMigrations reads all migration files from the embedded filesystem and returns them sorted by version.
func loadMigrations() ([]Migration, error) {
	entries, err := migrationFiles.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	migrationMap := make(map[int]*Migration)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		// Parse version from filename (e.g., "0000_create_catalog_up.sql" -> version 0)
		parts := strings.Split(name, "_")
		if len(parts) < 2 {
			continue
		}

		version, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}

		content, err := migrationFiles.ReadFile(filepath.Join("sql", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		if migrationMap[version] == nil {
			migrationMap[version] = &Migration{Version: version}
		}

		if strings.Contains(name, "_up.sql") {
			migrationMap[version].Up = string(content)
		} else if strings.Contains(name, "_down.sql") {
			migrationMap[version].Down = string(content)
		}
	}

	// Convert map to sorted slice
	var migrations []Migration
	for _, migration := range migrationMap {
		if migration.Up == "" || migration.Down == "" {
			return nil, fmt.Errorf("incomplete migration for version %d", migration.Version)
		}
		migrations = append(migrations, *migration)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// RunMigrations executes all pending migrations on the database.
// Creates a schema_migrations table to track applied migrations.
// Safe to call on every process start.
func RunMigrations(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range migrations {
		// Check if this migration has already been applied
		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", migration.Version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}

		if !exists {
			if err := applyMigration(db, migration); err != nil {
				return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
			}
		}
	}

	return nil
}

// RollbackMigration rolls back the most recent migration.
func RollbackMigration(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	// Check if there are any applied migrations
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}

	if count == 0 {
		return fmt.Errorf("no migrations to rollback")
	}

	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version == currentVersion {
			if err := rollbackMigration(db, migration); err != nil {
				return fmt.Errorf("failed to rollback migration %d: %w", migration.Version, err)
			}
			return nil
		}
	}

	return fmt.Errorf("migration version %d not found", currentVersion)
}

// TableColumns returns the column names of a table via PRAGMA table_info.
func TableColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns = append(columns, name)
	}

	return columns, rows.Err()
}

// TableExists reports whether a table is present in the database.
func TableExists(db *sql.DB, table string) (bool, error) {
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpgradeLegacySchema rebuilds a legacy flat-column records table into the normalized schema.
//
// Old databases stored artist, genre and store as free text columns directly on
// records. This upgrade find-or-creates the referenced entities, rewrites the
// records table with foreign keys, and moves store references into the
// record_stores link table. Returns true when a rebuild happened.
//
// Creates the entity tables itself when missing, so it is safe to run before
// [RunMigrations] on a database predating them. Idempotent: a database already
// on the normalized schema is left untouched.
func UpgradeLegacySchema(db *sql.DB) (bool, error) {
	columns, err := TableColumns(db, "records")
	if err != nil {
		return false, err
	}

	colSet := make(map[string]bool, len(columns))
	for _, c := range columns {
		colSet[strings.ToLower(c)] = true
	}

	hasArtistText := colSet["artist"]
	hasGenreText := colSet["genre"]
	hasStoreText := colSet["store"]
	if !hasArtistText && !hasGenreText && !hasStoreText {
		return false, nil
	}

	// Old databases named the primary key inconsistently.
	pk := "rowid"
	switch {
	case colSet["record_id"]:
		pk = "record_id"
	case colSet["id"]:
		pk = "id"
	}

	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin legacy upgrade: %w", err)
	}
	defer tx.Rollback()

	// Legacy databases predate the entity tables entirely.
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS artists (
			artist_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			country TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS genres (
			genre_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS stores (
			store_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			state TEXT,
			address TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS record_stores (
			record_id INTEGER NOT NULL,
			store_id INTEGER NOT NULL,
			PRIMARY KEY (record_id, store_id),
			FOREIGN KEY (record_id) REFERENCES records(record_id),
			FOREIGN KEY (store_id) REFERENCES stores(store_id)
		)`,
	} {
		if _, err = tx.Exec(ddl); err != nil {
			return false, fmt.Errorf("failed to create entity table: %w", err)
		}
	}

	if hasArtistText {
		_, err = tx.Exec(`INSERT INTO artists (name)
			SELECT DISTINCT TRIM(artist) FROM records
			WHERE artist IS NOT NULL AND TRIM(artist) != ''
			AND TRIM(artist) NOT IN (SELECT name FROM artists)`)
		if err != nil {
			return false, fmt.Errorf("failed to backfill artists: %w", err)
		}
	}
	if hasGenreText {
		_, err = tx.Exec(`INSERT INTO genres (name)
			SELECT DISTINCT TRIM(genre) FROM records
			WHERE genre IS NOT NULL AND TRIM(genre) != ''
			AND TRIM(genre) NOT IN (SELECT name FROM genres)`)
		if err != nil {
			return false, fmt.Errorf("failed to backfill genres: %w", err)
		}
	}
	if hasStoreText {
		_, err = tx.Exec(`INSERT INTO stores (name)
			SELECT DISTINCT TRIM(store) FROM records
			WHERE store IS NOT NULL AND TRIM(store) != ''
			AND TRIM(store) NOT IN (SELECT name FROM stores)`)
		if err != nil {
			return false, fmt.Errorf("failed to backfill stores: %w", err)
		}
	}

	// Expression selecting each canonical column from the legacy row.
	colExpr := func(name string) string {
		if colSet[name] {
			return "r." + name
		}
		return "NULL"
	}
	artistExpr := colExpr("artist_id")
	if artistExpr == "NULL" && hasArtistText {
		artistExpr = "(SELECT a.artist_id FROM artists a WHERE a.name = TRIM(r.artist))"
	}
	genreExpr := colExpr("genre_id")
	if genreExpr == "NULL" && hasGenreText {
		genreExpr = "(SELECT g.genre_id FROM genres g WHERE g.name = TRIM(r.genre))"
	}

	_, err = tx.Exec(`CREATE TABLE records_upgrade (
		record_id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		artist_id INTEGER,
		genre_id INTEGER,
		year INTEGER,
		condition TEXT,
		price REAL,
		purchase_date TEXT,
		FOREIGN KEY (artist_id) REFERENCES artists(artist_id),
		FOREIGN KEY (genre_id) REFERENCES genres(genre_id)
	)`)
	if err != nil {
		return false, fmt.Errorf("failed to create upgraded records table: %w", err)
	}

	copySQL := fmt.Sprintf(`INSERT INTO records_upgrade
		(record_id, title, artist_id, genre_id, year, condition, price, purchase_date)
		SELECT r.%s, r.title, %s, %s, %s, %s, %s, %s FROM records r`,
		pk, artistExpr, genreExpr,
		colExpr("year"), colExpr("condition"), colExpr("price"), colExpr("purchase_date"))
	if _, err = tx.Exec(copySQL); err != nil {
		return false, fmt.Errorf("failed to copy legacy records: %w", err)
	}

	if hasStoreText {
		linkSQL := fmt.Sprintf(`INSERT OR IGNORE INTO record_stores (record_id, store_id)
			SELECT r.%s, s.store_id FROM records r
			JOIN stores s ON s.name = TRIM(r.store)
			WHERE r.store IS NOT NULL AND TRIM(r.store) != ''`, pk)
		if _, err = tx.Exec(linkSQL); err != nil {
			return false, fmt.Errorf("failed to backfill store links: %w", err)
		}
	}

	if _, err = tx.Exec("DROP TABLE records"); err != nil {
		return false, fmt.Errorf("failed to drop legacy records table: %w", err)
	}
	if _, err = tx.Exec("ALTER TABLE records_upgrade RENAME TO records"); err != nil {
		return false, fmt.Errorf("failed to rename upgraded records table: %w", err)
	}

	for _, idx := range []string{
		"CREATE INDEX IF NOT EXISTS idx_records_artist ON records(artist_id)",
		"CREATE INDEX IF NOT EXISTS idx_records_genre ON records(genre_id)",
		"CREATE INDEX IF NOT EXISTS idx_records_purchase_date ON records(purchase_date)",
		"CREATE INDEX IF NOT EXISTS idx_records_year ON records(year)",
	} {
		if _, err = tx.Exec(idx); err != nil {
			return false, fmt.Errorf("failed to recreate record index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit legacy upgrade: %w", err)
	}

	return true, nil
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist.
func createMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := db.Exec(query)
	return err
}

// getCurrentVersion returns the current migration version.
func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// applyMigration executes a migration's up SQL and records it.
func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Execute each statement separately
	statements := strings.Split(migration.Up, ";")
	for _, stmt := range statements {
		stmt = removeComments(stmt)
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}

	// Record the migration
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
		return err
	}

	return tx.Commit()
}

// removeComments removes SQL comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// rollbackMigration executes a migration's down SQL and removes the record.
func rollbackMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := strings.Split(migration.Down, ";")
	for _, stmt := range statements {
		stmt = removeComments(stmt)
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = ?", migration.Version); err != nil {
		return err
	}

	return tx.Commit()
}
