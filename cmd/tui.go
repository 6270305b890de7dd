package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/crate/internal/server"
	"github.com/desertthunder/crate/internal/services"
	"github.com/desertthunder/crate/internal/shared"
	"github.com/desertthunder/crate/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive collection browser with the facade running as
// a background goroutine.
//
// The browser itself talks to whichever access path answers: if the facade
// fails to bind (another `crate serve` already owns the port, or it isn't up
// before the probe) the catalog falls back to the database directly, so the
// browser works either way.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/crate-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	local := services.NewLocalCatalog(db, r.config.Policy)

	serveCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	api := server.NewAPI(local, r.logger)
	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	go func() {
		if err := server.ListenAndServe(serveCtx, addr, api.Router(r.config.Server.RateLimit), r.logger); err != nil {
			r.logger.Warn("background facade stopped", "error", err)
		}
	}()

	remote := services.NewHTTPCatalog(r.config.Server.BaseURL(), r.httpClient)
	catalog := services.NewFallback(remote, local, r.logger)

	model := ui.NewModel(ctx, catalog)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
