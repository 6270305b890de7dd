// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a tabbed browser over the record collection:
//  1. [RecordTab] : Browse records with artist, year and price at a glance
//  2. [ArtistTab] : Browse artists and their countries
//  3. [GenreTab] : Browse genres
//  4. [StoreTab] : Browse stores and their locations
//  5. [ReportTab] : Aggregate collection stats with a per-artist breakdown
//
// Selecting a record opens a detail view; deletion requires an explicit
// confirmation step. All data access flows through a [services.Catalog], so
// the browser works identically over the HTTP facade or a local database.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, esc, y/n, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
