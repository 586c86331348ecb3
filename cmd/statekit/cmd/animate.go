package cmd

import (
	"fmt"
	"image/color"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/go-drift/statekit/pkg/animation"
)

// frameInterval paces the animate loop at roughly 60 frames per second.
const frameInterval = 16 * time.Millisecond

type animateOptions struct {
	duration time.Duration
	repeats  int
	once     bool
}

func newAnimateCmd(o *globalOptions) *cobra.Command {
	var ao animateOptions
	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Preview the configured animation in the terminal",
		Long: `Animate runs the animation from statekit.yaml (duration, repeats, reverse,
curve) as a progress bar tinted with the selected theme.

Keys: space trigger, r restart, enter retarget, t toggle mode, n next theme,
q quit.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return o.withSession(c, func(s *session) error {
				m := newAnimateModel(s, animation.NewFrames(nil), ao)
				defer m.anim.Dispose()
				p := tea.NewProgram(m,
					tea.WithContext(c.Context()),
					tea.WithInput(c.InOrStdin()),
					tea.WithOutput(c.OutOrStdout()),
				)
				_, err := p.Run()
				return err
			})
		},
	}
	cmd.Flags().DurationVar(&ao.duration, "duration", 0, "override animation.duration")
	cmd.Flags().IntVar(&ao.repeats, "repeats", -1, "override animation.repeats (0 repeats forever)")
	cmd.Flags().BoolVar(&ao.once, "once", false, "quit when the animation finishes")
	return cmd
}

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

type animateModel struct {
	s      *session
	frames *animation.Frames
	anim   *animation.Animated
	bar    *animation.Implicit[int]
	tint   *animation.Implicit[color.RGBA]
	done   *animation.Future
	once   bool

	maxWidth int
	full     bool
	runs     int
}

func newAnimateModel(s *session, frames *animation.Frames, ao animateOptions) *animateModel {
	m := &animateModel{s: s, frames: frames, once: ao.once, maxWidth: 40, full: true}

	duration := s.cfg.Duration
	if ao.duration > 0 {
		duration = ao.duration
	}
	repeats := s.cfg.Repeats
	if ao.repeats >= 0 {
		repeats = ao.repeats
	}
	m.anim = animation.NewAnimated(animation.Config{
		Duration:       duration,
		Curve:          s.cfg.Curve,
		Repeats:        repeats,
		ReverseRepeats: s.cfg.Reverse,
		OnEnd:          func() { m.runs++ },
		Frames:         frames,
	})

	m.bar = animation.NewImplicit(m.anim, 0, func() int {
		if m.full {
			return m.maxWidth
		}
		return m.maxWidth / 4
	})
	m.tint = animation.NewImplicit(m.anim, s.themes.Theme().Background, func() color.RGBA {
		return s.themes.Theme().Accent
	})
	s.themes.Source().Listen(func() { m.done = m.anim.Refresh() })
	return m
}

func (m *animateModel) Init() tea.Cmd {
	m.done = m.anim.Refresh()
	return nextFrame()
}

func (m *animateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.step()
		if m.once && m.done.IsResolved() {
			return m, tea.Quit
		}
		return m, nextFrame()

	case tea.WindowSizeMsg:
		m.maxWidth = max(10, min(60, msg.Width-24))

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.done = m.anim.Trigger(false)
		case "r":
			m.done = m.anim.Trigger(true)
		case "enter":
			m.full = !m.full
			m.done = m.anim.Refresh()
		case "t":
			m.s.themes.Toggle()
		case "n":
			keys := m.s.themes.Keys()
			next := (slices.Index(keys, m.s.themes.Key()) + 1) % len(keys)
			m.s.themes.Select(keys[next])
		}
	}
	return m, nil
}

// step advances one frame: tickers and post-frame callbacks, then any work
// they posted to the scheduler.
func (m *animateModel) step() {
	m.frames.Step()
	m.s.reg.Scheduler().Flush()
}

func (m *animateModel) View() string {
	p := m.s.themes.Theme()
	filled := m.bar.Value()
	tint := lipgloss.NewStyle().Background(lipgloss.Color(hex(m.tint.Value())))
	track := lipgloss.NewStyle().Background(lipgloss.Color(hex(p.Background)))

	var b strings.Builder
	b.WriteString(p.accent().Bold(true).Render(fmt.Sprintf("statekit animate: %s (%s)", p.Name, m.s.themes.Brightness())))
	b.WriteString("\n\n")
	b.WriteString(tint.Render(strings.Repeat(" ", filled)))
	b.WriteString(track.Render(strings.Repeat(" ", max(0, m.maxWidth-filled))))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%-9s progress %.2f  curved %.2f  runs %d\n",
		m.anim.AnimationStatus(), m.anim.Progress(), m.anim.Curved(), m.runs)
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("space trigger  r restart  enter retarget  t toggle mode  n next theme  q quit"))
	b.WriteString("\n")
	return b.String()
}
