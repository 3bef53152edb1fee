package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/ordpad/internal/app"
	"github.com/roach88/ordpad/internal/config"
	"github.com/roach88/ordpad/internal/money"
	"github.com/roach88/ordpad/internal/persist"
	"github.com/roach88/ordpad/internal/store"
	"github.com/roach88/ordpad/internal/store/redisstore"
)

// session is one open state handle plus the storage behind it.
type session struct {
	cfg    config.Config
	money  money.Formatter
	state  *app.State
	logger *slog.Logger
	closer io.Closer
}

// Close releases the storage backend.
func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// resolveConfig loads the config file named by --config or $ORDPAD_CONFIG
// (falling back to defaults) and applies flag overrides on top.
func resolveConfig(opts *RootOptions) (config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = os.Getenv(config.EnvPath)
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.RedisAddr != "" {
		cfg.Redis.Addr = opts.RedisAddr
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openKV opens the configured backend.
func openKV(ctx context.Context, cfg config.Config, logger *slog.Logger) (persist.KV, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		logger.Debug("opening redis", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		rs, err := redisstore.Open(ctx, cfg.Redis.Addr, cfg.Redis.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return rs, rs, nil
	default:
		logger.Debug("opening database", "path", cfg.Database)
		st, err := store.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if keys, err := st.Keys(ctx); err == nil {
			logger.Debug("database ready", "records", len(keys))
		}
		return st, st, nil
	}
}

// storageTarget names where cfg's backend keeps its records.
func storageTarget(cfg config.Config) string {
	if cfg.Backend == config.BackendRedis {
		return cfg.Redis.Addr
	}
	return cfg.Database
}

// openSession resolves config, opens storage and loads the state. Failures
// are reported through formatter and come back as command errors (exit 2).
func openSession(ctx context.Context, opts *RootOptions, formatter *OutputFormatter) (*session, error) {
	logger := opts.Logger()

	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	// Validate has already checked the currency
	m := money.MustFormatter(cfg.Currency)

	kv, closer, err := openKV(ctx, cfg, logger)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStorage,
			fmt.Sprintf("failed to open %s storage: %v", cfg.Backend, err), nil)
	}

	state := app.Open(ctx, kv, app.Options{
		Keys:   cfg.PersistKeys(),
		Logger: logger,
	})
	formatter.VerboseLog("Using %s storage at %s: %d products, %d order lines",
		cfg.Backend, storageTarget(cfg), len(state.Products()), len(state.Lines()))

	return &session{
		cfg:    cfg,
		money:  m,
		state:  state,
		logger: logger,
		closer: closer,
	}, nil
}

// newFormatter builds the output formatter for cmd's writers.
func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut, // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// closeSession closes s and logs any failure.
func closeSession(s *session) {
	if err := s.Close(); err != nil {
		s.logger.Error("error closing storage", "error", err)
	}
}

// withSession opens a session for cmd, runs fn and closes the session.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, s *session, f *OutputFormatter) error) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Use command's context if available (for testing), otherwise create one
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer closeSession(s)

	return fn(ctx, s, formatter)
}

// checkSaved turns a swallowed write-through failure into a storage error
// so one-shot commands do not report success for a change that was lost.
func checkSaved(s *session, f *OutputFormatter) error {
	if err := s.state.LastSaveError(); err != nil {
		return f.Fail(ExitCommandError, ErrCodeStorage, fmt.Sprintf("change not saved: %v", err), nil)
	}
	return nil
}

// parseID parses a product id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}
