package cmd

import (
	"context"
	"io"
	"log/slog"
	"net/url"

	"github.com/m-mizutani/goerr/v2"

	"github.com/gravitrone/registry-console/internal/api"
	"github.com/gravitrone/registry-console/internal/companies"
	"github.com/gravitrone/registry-console/internal/config"
	"github.com/gravitrone/registry-console/internal/logging"
	"github.com/gravitrone/registry-console/internal/store"
)

// Session is everything a logged-in command needs: config, a client
// for the data service, the view-config store and a logger.
type Session struct {
	Config *config.Config
	Client *api.Client
	Store  store.KV
	Logger *slog.Logger

	logFile    io.Closer
	prevLogger *slog.Logger
}

// OpenSession loads config, installs the file logger as the process
// default and opens the configured store.
func OpenSession(ctx context.Context) (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, goerr.Wrap(err, "not logged in")
	}

	s := &Session{Config: cfg}
	s.Logger = logging.Default()
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		s.logFile = f
		s.prevLogger = logging.Default()
		s.Logger = logging.New(cfg.LogFormat, cfg.LogLevel, f)
		logging.SetDefault(s.Logger)
	}

	kv, err := store.Open(ctx, store.Options{
		Backend:    cfg.Store,
		FilePath:   cfg.StatePath,
		RedisAddr:  cfg.RedisAddr,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		s.Close()
		return nil, goerr.Wrap(err, "open view config store", goerr.V("backend", cfg.Store))
	}
	s.Store = kv
	s.Client = api.NewClient(cfg.APIURL, cfg.Token, cfg.Timeout)
	s.Logger.Debug("session opened", "api_url", cfg.APIURL, "store", cfg.Store)
	return s, nil
}

// Controller builds a list controller for query wired to this session.
func (s *Session) Controller(query url.Values, notifier companies.Notifier, navigator companies.Navigator) *companies.Controller {
	return companies.NewController(companies.Deps{
		Querier:   s.Client,
		Mutator:   s.Client,
		Store:     s.Store,
		Notifier:  notifier,
		Navigator: navigator,
		Logger:    s.Logger,
	}, query)
}

// Close releases pooled connections, the store and the log file.
func (s *Session) Close() {
	if s.Client != nil {
		s.Client.CloseIdleConnections()
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			s.Logger.Warn("close store failed", logging.ErrAttrs(err)...)
		}
	}
	if s.logFile != nil {
		logging.SetDefault(s.prevLogger)
		_ = s.logFile.Close()
	}
}
