package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mleino/teamtrain/internal/envstruct"
	"github.com/mleino/teamtrain/internal/errors"
	"github.com/mleino/teamtrain/internal/flightrecorder"
	"github.com/mleino/teamtrain/internal/logging"
	"github.com/mleino/teamtrain/internal/remote"
	"github.com/mleino/teamtrain/internal/report"
	"github.com/mleino/teamtrain/internal/sqlite"
)

type application struct {
	logger       *slog.Logger
	engine       *report.Engine
	remoteScorer report.ReportGenerator
	history      *report.SQLiteHistory
	recorder     *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"TEAMTRAIN_ADDR" envDefault:"localhost:8082"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"TEAMTRAIN_SQLITE_URL" envDefault:"./teamtrain.sqlite3"`
	// OpenAIAPIKey enables the remote scorer when set. With an empty key every
	// report is produced by the local rule-based engine.
	OpenAIAPIKey string `env:"TEAMTRAIN_OPENAI_API_KEY" envDefault:""`
	// TraceDir enables slow-request trace capture when set.
	TraceDir string `env:"TEAMTRAIN_TRACE_DIR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	history := report.NewSQLiteHistory(db, logger)

	app := application{
		logger:       logger,
		engine:       report.NewEngine(history, logger),
		remoteScorer: nil,
		history:      history,
		recorder:     nil,
	}
	if cfg.OpenAIAPIKey != "" {
		app.remoteScorer = remote.NewScorer(cfg.OpenAIAPIKey, nil, logger)
	}
	if cfg.TraceDir != "" {
		recorder, err := flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			MinAge:          0,
			MaxBytes:        0,
			TracesDirectory: cfg.TraceDir,
		})
		if err != nil {
			return errors.Wrap(err, "create flight recorder", slog.String("dir", cfg.TraceDir))
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
		app.recorder = recorder
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
