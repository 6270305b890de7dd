package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/crate/internal/models"
)

// ReportRepository is the query/report engine: it runs the filtered record
// view, the aggregate statistics and the per-artist breakdown, all over one
// shared filter predicate so the three queries cannot drift apart.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository with the given database connection
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// reportFilter is a compiled conjunctive WHERE predicate. joinStores is set
// when the predicate references the record_stores link table, so aggregate
// queries know to add the join.
type reportFilter struct {
	conditions []string
	args       []any
	joinStores bool
}

// buildReportFilter compiles the optional report filters into one predicate
// applied to every report query.
func buildReportFilter(f models.ReportFilters) reportFilter {
	var filter reportFilter

	if f.StartDate != nil {
		filter.conditions = append(filter.conditions, "r.purchase_date >= ?")
		filter.args = append(filter.args, *f.StartDate)
	}
	if f.EndDate != nil {
		filter.conditions = append(filter.conditions, "r.purchase_date <= ?")
		filter.args = append(filter.args, *f.EndDate)
	}
	if f.ArtistID != nil {
		filter.conditions = append(filter.conditions, "r.artist_id = ?")
		filter.args = append(filter.args, *f.ArtistID)
	}
	if f.GenreID != nil {
		filter.conditions = append(filter.conditions, "r.genre_id = ?")
		filter.args = append(filter.args, *f.GenreID)
	}
	if f.StoreID != nil {
		filter.conditions = append(filter.conditions, "rs.store_id = ?")
		filter.args = append(filter.args, *f.StoreID)
		filter.joinStores = true
	}

	return filter
}

// clause renders the predicate as a WHERE clause, or an empty string when
// no filters were given.
func (f reportFilter) clause() string {
	if len(f.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conditions, " AND ")
}

// storeJoin renders the link-table join needed by the aggregate queries
// when the predicate filters on store.
func (f reportFilter) storeJoin() string {
	if !f.joinStores {
		return ""
	}
	return " LEFT JOIN record_stores rs ON r.record_id = rs.record_id"
}

// Report runs the three report queries over the same predicate and returns
// matching rows (newest id first), aggregate stats, and a per-artist
// breakdown ordered by record count descending.
func (r *ReportRepository) Report(f models.ReportFilters) (*models.Report, error) {
	filter := buildReportFilter(f)

	report := &models.Report{
		Rows:     []models.RecordView{},
		ByArtist: []models.ArtistStat{},
	}

	rows, err := r.db.Query(
		recordViewSelect+filter.clause()+" GROUP BY r.record_id ORDER BY r.record_id DESC",
		filter.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}
	defer rows.Close()

	views, err := scanRecordViews(rows)
	if err != nil {
		return nil, err
	}
	if views != nil {
		report.Rows = views
	}

	stats, err := r.stats(filter)
	if err != nil {
		return nil, err
	}
	report.Stats = stats

	if stats.Count > 0 {
		byArtist, err := r.byArtist(filter)
		if err != nil {
			return nil, err
		}
		report.ByArtist = byArtist
	}

	return report, nil
}

// stats computes count, price aggregates and average year over the predicate.
func (r *ReportRepository) stats(filter reportFilter) (models.ReportStats, error) {
	var stats models.ReportStats

	query := "SELECT COUNT(*), AVG(r.price), MIN(r.price), MAX(r.price), AVG(r.year) FROM records r" +
		filter.storeJoin() + filter.clause()

	var avgPrice, minPrice, maxPrice, avgYear sql.NullFloat64
	err := r.db.QueryRow(query, filter.args...).Scan(&stats.Count, &avgPrice, &minPrice, &maxPrice, &avgYear)
	if err != nil {
		return stats, fmt.Errorf("failed to query report stats: %w", err)
	}

	if avgPrice.Valid {
		stats.AvgPrice = &avgPrice.Float64
	}
	if minPrice.Valid {
		stats.MinPrice = &minPrice.Float64
	}
	if maxPrice.Valid {
		stats.MaxPrice = &maxPrice.Float64
	}
	if avgYear.Valid {
		stats.AvgYear = &avgYear.Float64
	}

	return stats, nil
}

// byArtist computes the per-artist breakdown over the predicate.
func (r *ReportRepository) byArtist(filter reportFilter) ([]models.ArtistStat, error) {
	query := "SELECT a.artist_id, a.name, COUNT(*), AVG(r.price) FROM records r" +
		" LEFT JOIN artists a ON r.artist_id = a.artist_id" +
		filter.storeJoin() + filter.clause() +
		" GROUP BY a.artist_id, a.name ORDER BY COUNT(*) DESC"

	rows, err := r.db.Query(query, filter.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artist breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []models.ArtistStat{}
	for rows.Next() {
		var (
			stat     models.ArtistStat
			artistID sql.NullInt64
			name     sql.NullString
			avgPrice sql.NullFloat64
		)
		if err := rows.Scan(&artistID, &name, &stat.Count, &avgPrice); err != nil {
			return nil, fmt.Errorf("failed to scan artist breakdown: %w", err)
		}
		if artistID.Valid {
			stat.ArtistID = &artistID.Int64
		}
		if name.Valid {
			stat.Name = &name.String
		}
		if avgPrice.Valid {
			stat.AvgPrice = &avgPrice.Float64
		}
		breakdown = append(breakdown, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return breakdown, nil
}
