package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"

	"github.com/arofre/FinTrack"
	"github.com/arofre/FinTrack/httpapi"
	"github.com/arofre/FinTrack/sqlstore"
)

type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serves the JSON API with a daily refresh" }
func (*serveCmd) Usage() string {
	return `fintrack serve

  Serves the read-only JSON API and refreshes market data on a cron
  schedule, materializing the sqlite database after each refresh.
  Configured through the environment (SERVER_HOST, SERVER_PORT,
  DB_PATH, REFRESH_CRON, CORS_ORIGINS), with an optional .env file.

`
}

func (*serveCmd) SetFlags(*flag.FlagSet) {}

func (*serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := httpapi.LoadConfig()

	tracker, err := loadTracker(ctx, fintrack.Today())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	store, err := sqlstore.Open(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database %q: %v\n", cfg.DatabasePath, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshCron, func() {
		refresh(tracker, store)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid cron schedule %q: %v\n", cfg.RefreshCron, err)
		return subcommands.ExitFailure
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewRouter(tracker, cfg)}
	errc := make(chan error, 1)
	go func() { errc <- server.ListenAndServe() }()
	log.Printf("serving on http://%s, refresh at %q", cfg.Addr, cfg.RefreshCron)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error: server: %v\n", err)
			return subcommands.ExitFailure
		}
	case <-stop:
		log.Println("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: shutdown: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// refresh re-fetches market data through today and re-materializes the
// store. A failed refresh keeps the previous state, queries stay
// consistent.
func refresh(tracker *fintrack.Tracker, store *sqlstore.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	today := fintrack.Today()
	if err := tracker.Refresh(ctx, today); err != nil {
		log.Printf("refresh failed: %v", err)
		return
	}
	if err := materialize(ctx, tracker, store, today); err != nil {
		log.Printf("materialize failed: %v", err)
		return
	}
	log.Printf("refreshed through %s", today)
}
