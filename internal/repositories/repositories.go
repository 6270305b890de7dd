// package repositories provides the persistence layer for the catalog.
//
// Each repository wraps a *sql.DB handle and owns the SQL for one entity.
// Reference-count guards (refusing to delete an artist or genre that records
// still point at) are enforced above this layer so direct repository access
// stays unopinionated.
package repositories

import (
	"database/sql"
	"fmt"
)

// countRows runs a COUNT(*) query and returns the result.
func countRows(db *sql.DB, query string, args ...any) (int, error) {
	var count int
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}
