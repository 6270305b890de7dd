// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is the shared --config flag carried by every command that
// touches the database or the facade.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// recordFlags are the record field flags shared by add and update.
func recordFlags(requireTitle bool) []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:     "title",
			Usage:    "Record title",
			Required: requireTitle,
		},
		&cli.StringFlag{
			Name:  "artist",
			Usage: "Artist name, created on first use",
		},
		&cli.StringFlag{
			Name:  "genre",
			Usage: "Genre name, created on first use",
		},
		&cli.StringFlag{
			Name:  "year",
			Usage: "Release year (1800-2100)",
		},
		&cli.StringFlag{
			Name:  "condition",
			Usage: "Media condition (e.g. NM, VG+)",
		},
		&cli.StringFlag{
			Name:  "price",
			Usage: "Purchase price",
		},
		&cli.StringFlag{
			Name:  "purchase-date",
			Usage: "Purchase date (YYYY-MM-DD)",
		},
		&cli.StringFlag{
			Name:  "store-id",
			Usage: "Store the record was purchased at",
		},
	}
}

// setupCommand initializes configuration and the database schema.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize configuration, database and migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// serveCommand runs the HTTP facade.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the collection HTTP facade",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Bind address, overrides config",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Bind port, overrides config",
			},
		},
		Action: r.Serve,
	}
}

// recordsCommand handles record CRUD and exports.
func recordsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "records",
		Aliases: []string{"rec"},
		Usage:   "Manage the record collection",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all records",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.StringFlag{
						Name:    "csv",
						Usage:   "Write the listing to a CSV file",
						Aliases: []string{"o"},
					},
				},
				Action: r.RecordsList,
			},
			{
				Name:   "add",
				Usage:  "Add a record to the collection",
				Flags:  recordFlags(true),
				Action: r.RecordsAdd,
			},
			{
				Name:  "update",
				Usage: "Update an existing record",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  recordFlags(true),
				Action: r.RecordsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a record, removing its artist when orphaned",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.RecordsDelete,
			},
		},
	}
}

// artistsCommand handles artist CRUD.
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Manage artists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all artists",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.ArtistsList,
			},
			{
				Name:  "add",
				Usage: "Create an artist",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "name", Usage: "Artist name", Required: true},
					&cli.StringFlag{Name: "country", Usage: "Country of origin"},
				},
				Action: r.ArtistsAdd,
			},
			{
				Name:  "update",
				Usage: "Update an artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "name", Usage: "Artist name", Required: true},
					&cli.StringFlag{Name: "country", Usage: "Country of origin"},
				},
				Action: r.ArtistsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete an artist with no records",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.ArtistsDelete,
			},
		},
	}
}

// genresCommand handles genre CRUD.
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Manage genres",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all genres",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.GenresList,
			},
			{
				Name:  "add",
				Usage: "Create a genre",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "name", Usage: "Genre name", Required: true},
				},
				Action: r.GenresAdd,
			},
			{
				Name:  "update",
				Usage: "Rename a genre",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "name", Usage: "Genre name", Required: true},
				},
				Action: r.GenresUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a genre no record references",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.GenresDelete,
			},
		},
	}
}

// storesCommand handles store CRUD.
func storesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stores",
		Usage: "Manage stores",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all stores",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.StoresList,
			},
			{
				Name:  "add",
				Usage: "Create a store",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "name", Usage: "Store name", Required: true},
					&cli.StringFlag{Name: "state", Usage: "State or region"},
					&cli.StringFlag{Name: "address", Usage: "Street address"},
				},
				Action: r.StoresAdd,
			},
			{
				Name:  "update",
				Usage: "Update a store",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "name", Usage: "Store name", Required: true},
					&cli.StringFlag{Name: "state", Usage: "State or region"},
					&cli.StringFlag{Name: "address", Usage: "Street address"},
				},
				Action: r.StoresUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a store",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.StoresDelete,
			},
		},
	}
}

// reportCommand runs the query/report engine.
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Query the collection with filters and aggregate stats",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "start-date",
				Usage: "Purchased on or after (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "end-date",
				Usage: "Purchased on or before (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "artist-id",
				Usage: "Filter by artist",
			},
			&cli.StringFlag{
				Name:  "genre-id",
				Usage: "Filter by genre",
			},
			&cli.StringFlag{
				Name:  "store-id",
				Usage: "Filter by purchase store",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "markdown",
				Usage:   "Write the report to a Markdown file",
				Aliases: []string{"o"},
			},
		},
		Action: r.Report,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing the collection",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.TUI,
	}
}

// apiCommand handles direct facade calls for debugging
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the collection facade",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the facade, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
