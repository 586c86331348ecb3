package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/go-drift/statekit/pkg/metrics"
	"github.com/go-drift/statekit/pkg/theme"
)

var labelStyle = lipgloss.NewStyle().Bold(true).Width(8)

func newThemeCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the persisted theme selection",
		Long: `The theme selection is stored as "<key>#|#<flags>", where flags is empty
for system mode, "0" for light and "1" for dark.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current selection",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return o.withSession(c, func(s *session) error {
					return printTheme(c.Context(), c.OutOrStdout(), s)
				})
			},
		},
		&cobra.Command{
			Use:   "select <name>",
			Short: "Select a registered theme, keeping the mode",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return o.withSession(c, func(s *session) error {
					key := strings.ToLower(args[0])
					if !s.themes.Has(key) {
						return fmt.Errorf("unknown theme %q (registered: %s)", args[0], strings.Join(s.themes.Keys(), ", "))
					}
					s.themes.Select(key)
					return printTheme(c.Context(), c.OutOrStdout(), s)
				})
			},
		},
		&cobra.Command{
			Use:       "mode <system|light|dark>",
			Short:     "Set the brightness mode",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"system", "light", "dark"},
			RunE: func(c *cobra.Command, args []string) error {
				m, err := theme.ParseMode(strings.ToLower(args[0]))
				if err != nil {
					return err
				}
				return o.withSession(c, func(s *session) error {
					s.themes.SetMode(m)
					return printTheme(c.Context(), c.OutOrStdout(), s)
				})
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch to the explicit mode opposite the current brightness",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return o.withSession(c, func(s *session) error {
					s.themes.Toggle()
					return printTheme(c.Context(), c.OutOrStdout(), s)
				})
			},
		},
		newThemeWatchCmd(o),
	)
	return cmd
}

func newThemeWatchCmd(o *globalOptions) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow external edits of a yaml store",
		Long: `Watch reloads the selection whenever the yaml store file changes on disk
and prints it. Requires the yaml store driver.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			c.SetContext(ctx)
			return o.withSession(c, func(s *session) error {
				return watchTheme(ctx, c.OutOrStdout(), s, metricsAddr)
			})
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while watching")
	return cmd
}

func (o *globalOptions) withSession(c *cobra.Command, fn func(*session) error) error {
	s, err := o.open(c.Context(), c.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func printTheme(ctx context.Context, w io.Writer, s *session) error {
	sel := s.themes.Selection()
	p := s.themes.Theme()

	mode := sel.Mode.String()
	if sel.Mode == theme.ModeSystem {
		mode += " (" + s.themes.Brightness().String() + ")"
	}

	lines := []string{
		labelStyle.Render("theme") + p.accent().Render(sel.Key),
		labelStyle.Render("mode") + mode,
		labelStyle.Render("token") + s.token(ctx),
		labelStyle.Render("themes") + strings.Join(s.themes.Keys(), ", "),
		p.style().Padding(0, 2).Render(p.Name + " " + s.themes.Brightness().String()),
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// watchTheme runs the registry scheduler on the calling goroutine; file
// events arrive on the watcher goroutine and are posted to it.
func watchTheme(ctx context.Context, w io.Writer, s *session, metricsAddr string) error {
	file := s.backend.File
	if file == nil {
		return fmt.Errorf("theme watch requires the yaml store driver (current: %s)", s.cfg.StoreDriver)
	}

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler(s.prom)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				s.log.Error("metrics server failed", "addr", metricsAddr, "error", err)
			}
		}()
		defer srv.Close()
	}

	codec := theme.SelectionCodec{Keys: s.themes.Keys()}
	sched := s.reg.Scheduler()
	unlisten := s.themes.Source().Listen(func() {
		if err := printTheme(ctx, w, s); err != nil {
			s.log.Warn("print failed", "error", err)
		}
	})
	defer unlisten()

	if err := printTheme(ctx, w, s); err != nil {
		return err
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- file.Watch(ctx, func(entries map[string]string) {
			tok, ok := entries[s.cfg.ThemeKey]
			sched.Post(func() { applyToken(s, codec, tok, ok) })
		})
	}()

	err := sched.Run(ctx)
	if werr := <-watchErr; werr != nil {
		return werr
	}
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// applyToken moves the selection to an externally written token. Tokens that
// do not decode are logged and ignored.
func applyToken(s *session, codec theme.SelectionCodec, tok string, ok bool) {
	if !ok {
		return
	}
	sel, err := codec.Decode(tok)
	if err != nil {
		s.log.Warn("ignoring external theme token", "token", tok, "error", err)
		return
	}
	if sel != s.themes.Selection() {
		s.themes.Source().Set(sel)
	}
}
