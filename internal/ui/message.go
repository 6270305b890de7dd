package ui

import (
	"github.com/desertthunder/crate/internal/models"
)

// recordsLoadedMsg carries a fetched record listing.
type recordsLoadedMsg struct {
	records []models.RecordView
	err     error
}

// artistsLoadedMsg carries a fetched artist listing.
type artistsLoadedMsg struct {
	artists []models.Artist
	err     error
}

// genresLoadedMsg carries a fetched genre listing.
type genresLoadedMsg struct {
	genres []models.Genre
	err    error
}

// storesLoadedMsg carries a fetched store listing.
type storesLoadedMsg struct {
	stores []models.Store
	err    error
}

// reportLoadedMsg carries the unfiltered collection report.
type reportLoadedMsg struct {
	report *models.Report
	err    error
}

// recordDeletedMsg reports the outcome of a record deletion.
type recordDeletedMsg struct {
	id  int64
	err error
}
