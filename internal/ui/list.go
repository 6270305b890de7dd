package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/crate/internal/models"
)

var (
	_ list.Item = recordItem{}
	_ list.Item = artistItem{}
	_ list.Item = genreItem{}
	_ list.Item = storeItem{}
)

// recordItem wraps [models.RecordView] to implement [list.Item].
type recordItem struct {
	view models.RecordView
}

func (i recordItem) FilterValue() string { return i.view.Title }
func (i recordItem) Title() string       { return i.view.Title }
func (i recordItem) Description() string {
	desc := "Unknown Artist"
	if i.view.Artist != nil {
		desc = *i.view.Artist
	}
	if i.view.Year != nil {
		desc = fmt.Sprintf("%s • %d", desc, *i.view.Year)
	}
	if i.view.Price != nil {
		desc = fmt.Sprintf("%s • %.2f", desc, *i.view.Price)
	}
	return desc
}

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	if i.artist.Country != nil {
		return *i.artist.Country
	}
	return "Country unknown"
}

// genreItem wraps [models.Genre] to implement [list.Item].
type genreItem struct {
	genre models.Genre
}

func (i genreItem) FilterValue() string { return i.genre.Name }
func (i genreItem) Title() string       { return i.genre.Name }
func (i genreItem) Description() string {
	return fmt.Sprintf("genre #%d", i.genre.ID)
}

// storeItem wraps [models.Store] to implement [list.Item].
type storeItem struct {
	store models.Store
}

func (i storeItem) FilterValue() string { return i.store.Name }
func (i storeItem) Title() string       { return i.store.Name }
func (i storeItem) Description() string {
	switch {
	case i.store.Address != nil && i.store.State != nil:
		return fmt.Sprintf("%s • %s", *i.store.Address, *i.store.State)
	case i.store.Address != nil:
		return *i.store.Address
	case i.store.State != nil:
		return *i.store.State
	default:
		return "Location unknown"
	}
}
