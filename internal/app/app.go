package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/five82/discografia/internal/api"
	"github.com/five82/discografia/internal/catalog"
	"github.com/five82/discografia/internal/config"
	"github.com/five82/discografia/internal/prefs"
	"github.com/five82/discografia/internal/session"
	"github.com/five82/discografia/internal/state"
	"github.com/five82/discografia/internal/ui"
)

// Options configure the discografia application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/discografia/prefs.toml
}

// Env holds the wired backend side shared by the TUI and the CLI commands.
type Env struct {
	Config   config.Config
	Prefs    prefs.Prefs
	Logger   *logrus.Logger
	Session  *session.Session
	Services catalog.Services

	logFile io.Closer
}

// Open loads configuration and wires logger, session, client and services.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}

	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	env := &Env{Config: cfg, Prefs: userPrefs, Logger: logger, logFile: logFile}

	store, err := session.NewStore(cfg.SessionPath)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	sess, err := session.Open(store, session.WithLogger(env.Log("session")))
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL, api.WithTokenSource(sess))
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}
	sess.Bind(client)

	env.Session = sess
	env.Services = catalog.NewServices(client)
	return env, nil
}

// Log returns a logger entry tagged with component.
func (e *Env) Log(component string) *logrus.Entry {
	return e.Logger.WithField("component", component)
}

// Close releases the log file.
func (e *Env) Close() error {
	if e.logFile == nil {
		return nil
	}
	return e.logFile.Close()
}

// newLogger writes JSON lines to the configured log file. The terminal
// belongs to the TUI, so nothing is logged to stdout or stderr.
func newLogger(cfg config.Config) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(cfg.LogLevel)
	return logger, file, nil
}

// Run boots the discografia TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	log := env.Log("app")
	log.WithField("api_url", env.Config.APIURL).Info("starting")

	store := &state.Store{}

	// Start background session watcher
	StartPoller(ctx, store, env.Session, env.Config.SessionCheck, env.Log("watcher"))

	uiOpts := ui.Options{
		Context:   ctx,
		Services:  env.Services,
		Session:   env.Session,
		Store:     store,
		Logger:    env.Log("ui"),
		LogPath:   env.Config.LogFile,
		ThemeName: env.Prefs.Theme,
		StartView: env.Prefs.StartView,
		PrefsPath: opts.PrefsPath,
	}
	if err := ui.Run(uiOpts); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	log.Info("stopped")
	return nil
}
