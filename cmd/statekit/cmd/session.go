package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/statekit/cmd/statekit/internal/config"
	"github.com/go-drift/statekit/pkg/errors"
	"github.com/go-drift/statekit/pkg/metrics"
	"github.com/go-drift/statekit/pkg/state"
	"github.com/go-drift/statekit/pkg/theme"
)

// session is the state one command invocation works against.
type session struct {
	cfg     *config.Resolved
	log     *slog.Logger
	backend *config.Backend
	prom    *prometheus.Registry
	reg     *state.Registry
	themes  *theme.Themes[Palette]
}

func (o *globalOptions) open(ctx context.Context, logOut io.Writer) (*session, error) {
	root, err := config.FindProjectRoot(o.dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Resolve(root)
	if err != nil {
		return nil, err
	}
	if o.store != "" {
		if err := cfg.OverrideDriver(o.store); err != nil {
			return nil, err
		}
	}
	system, err := o.systemBrightness()
	if err != nil {
		return nil, err
	}

	logger := o.logger(logOut)
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: o.verbose})

	backend, err := cfg.OpenStore(logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "driver", cfg.StoreDriver, "path", cfg.StorePath)

	prom := prometheus.NewRegistry()
	reg := state.NewRegistry(
		state.WithContext(ctx),
		state.WithRegistryHooks(metrics.New(prom)),
	)
	themes := theme.New(reg, paletteEntries(cfg.Themes),
		theme.WithStore(backend.Store, cfg.ThemeKey),
		theme.WithSystemBrightness(func() theme.Brightness { return system }),
	)
	if err := reg.HydrateAll(ctx); err != nil {
		logger.Warn("hydration failed, falling back to lazy reads", "error", err)
	}

	return &session{
		cfg:     cfg,
		log:     logger,
		backend: backend,
		prom:    prom,
		reg:     reg,
		themes:  themes,
	}, nil
}

// Close disposes every container, drains pending tasks and closes the store.
func (s *session) Close() error {
	s.reg.DisposeAll()
	s.reg.Scheduler().Flush()
	errors.SetHandler(nil)
	return s.backend.Close()
}

// token returns the raw persisted selection token.
func (s *session) token(ctx context.Context) string {
	tok, ok, err := s.backend.Store.Get(ctx, s.cfg.ThemeKey)
	if err != nil || !ok {
		return "(none)"
	}
	return tok
}
