package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"simplepoker-server/internal/config"
	"simplepoker-server/internal/mux"
	"simplepoker-server/internal/rng"
	"simplepoker-server/pkg/db"
	"simplepoker-server/pkg/game"
	"simplepoker-server/pkg/ledger"
	"simplepoker-server/pkg/room"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

// history is what the server needs from a game history
type history interface {
	game.History
	Results(ctx context.Context, roomID string, limit int) ([]*game.Result, error)
}

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()
	balances, results := openLedger(cfg)

	pitBoss := room.NewPitBoss(room.Options{
		Game:            gameOptions(cfg),
		Ledger:          balances,
		History:         results,
		IdleTimeout:     cfg.Room.IdleTimeout,
		JanitorInterval: cfg.Room.JanitorInterval,
	})
	defer pitBoss.Close()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss, balances, results))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		return pitBoss.RunJanitor(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func openLedger(cfg config.Config) (game.Ledger, history) {
	openingBalance := int64(cfg.Ledger.OpeningBalance)

	switch cfg.Ledger.Driver {
	case "", "memory":
		return ledger.NewMemory(openingBalance), ledger.NewMemoryHistory()
	case "postgres":
		dbh := db.Instance()
		if err := db.Migrate(dbh, cfg.MigrationsPath); err != nil {
			logrus.WithError(err).Fatal("could not run migrations")
		}

		return ledger.NewPostgres(dbh, openingBalance), ledger.NewPostgresHistory(dbh)
	}

	logrus.WithField("driver", cfg.Ledger.Driver).Fatal("unknown ledger driver")
	return nil, nil
}

func gameOptions(cfg config.Config) game.Options {
	tieBreak, err := game.ParseTieBreak(cfg.Game.TieBreak)
	if err != nil {
		logrus.WithError(err).Fatal("invalid game.tieBreak")
	}

	shuffler, err := rng.FromName(cfg.Game.Shuffle)
	if err != nil {
		logrus.WithError(err).Fatal("invalid game.shuffle")
	}

	return game.Options{
		StartingChips: int64(cfg.Game.StartingChips),
		TieBreak:      tieBreak,
		Shuffler:      shuffler,
	}
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	cfg := config.Instance()
	if lvl := cfg.Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(cfg.Log.Format) == "json" || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
