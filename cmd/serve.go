package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/crate/internal/server"
	"github.com/desertthunder/crate/internal/services"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP facade over the local database until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	host := r.config.Server.Host
	if cmd.String("host") != "" {
		host = cmd.String("host")
	}
	port := r.config.Server.Port
	if cmd.Int("port") != 0 {
		port = cmd.Int("port")
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	catalog := services.NewLocalCatalog(db, r.config.Policy)
	api := server.NewAPI(catalog, r.logger)
	router := api.Router(r.config.Server.RateLimit)

	addr := fmt.Sprintf("%s:%d", host, port)
	return server.ListenAndServe(ctx, addr, router, r.logger)
}
