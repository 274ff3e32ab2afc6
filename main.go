package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/handlers"

	"github.com/deskpulse/deskpulse/internal/activity"
	"github.com/deskpulse/deskpulse/internal/config"
	"github.com/deskpulse/deskpulse/internal/fetch"
	"github.com/deskpulse/deskpulse/internal/sampler"
	"github.com/deskpulse/deskpulse/internal/store"
	"github.com/deskpulse/deskpulse/internal/tui"
	"github.com/deskpulse/deskpulse/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	deny := activity.NewDenyList(cfg.ExtraBackgroundProcesses...)
	scores := activity.NewScoreTable(cfg.ProductivityOverrides)
	pipeline := activity.NewPipeline(cfg.Pipeline(), deny, scores)

	latest := &fetch.Latest{}
	client := fetch.NewClient(cfg.CollectorURL)
	poller := fetch.NewPoller(client, pipeline, latest, s, s, cfg.PollEvery(), cfg.Window())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handlers.LoggingHandler(os.Stderr, web.NewRouter(latest)),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "web server: %v\n", err)
		}
	}()
	defer srv.Close()

	if every, ok := cfg.SampleEvery(); ok {
		go sampler.New(s, every).Run(ctx)
	}

	app := tui.NewApp(latest, s, poller)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
