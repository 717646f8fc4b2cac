package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/playback"
	"github.com/matzehuels/sketchreveal/pkg/studio"
	"github.com/matzehuels/sketchreveal/pkg/timeline"
)

const (
	playRefresh     = 50 * time.Millisecond
	defaultBarWidth = 40
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	barDoneStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// playCommand creates the play command for terminal playback.
func (c *CLI) playCommand() *cobra.Command {
	var opts animateOpts

	cmd := &cobra.Command{
		Use:   "play [file.svg|-]",
		Short: "Play an animation in the terminal",
		Long:  `Play builds the animation for a drawing and plays its timeline live, with one progress bar per path. Keys: space pauses and resumes, r resets, q quits.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			p := cfg.Animation.Params()
			if err := opts.apply(cmd, &p); err != nil {
				return err
			}
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			return runPlay(cmd.Context(), args[0], source, p, opts.seed)
		},
	}
	opts.register(cmd)
	return cmd
}

func runPlay(ctx context.Context, title, source string, p playback.Params, seed uint64) error {
	ctrl := newController(ctx, seed)
	defer ctrl.Stop()

	tl, err := ctrl.Prepare(ctx, source, p)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	m := NewPlayModel(ctx, ctrl, tl, title)
	tl.Play(ctx)
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(PlayModel); ok && fm.done {
		printSuccess("%s", studio.MsgDone)
	}
	return nil
}

// =============================================================================
// PlayModel - live timeline view
// =============================================================================

type playTickMsg time.Time

// PlayModel is the bubbletea model for terminal playback.
type PlayModel struct {
	ctx    context.Context
	ctrl   *playback.Controller
	tl     *timeline.Timeline
	title  string
	width  int
	done   bool
	notice string
}

// NewPlayModel creates a view over tl, which must be ctrl's active
// timeline.
func NewPlayModel(ctx context.Context, ctrl *playback.Controller, tl *timeline.Timeline, title string) PlayModel {
	return PlayModel{ctx: ctx, ctrl: ctrl, tl: tl, title: title, width: defaultBarWidth}
}

func playTick() tea.Cmd {
	return tea.Tick(playRefresh, func(t time.Time) tea.Msg { return playTickMsg(t) })
}

func (m PlayModel) Init() tea.Cmd {
	return playTick()
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.tl.Pause()
			return m, tea.Quit
		case " ", "p":
			m.toggle()
		case "r":
			m.ctrl.Reset(m.ctx)
			m.done = false
			m.notice = studio.MsgReset
		}
	case playTickMsg:
		m.observe()
		return m, playTick()
	case tea.WindowSizeMsg:
		m.width = max(10, min(msg.Width-30, 80))
	}
	m.observe()
	return m, nil
}

func (m *PlayModel) toggle() {
	switch m.tl.State() {
	case timeline.Playing:
		m.tl.Pause()
	case timeline.Completed:
		m.tl.Seek(0)
		m.done = false
		m.notice = ""
		m.tl.Play(m.ctx)
	default:
		m.notice = ""
		m.tl.Play(m.ctx)
	}
}

func (m *PlayModel) observe() {
	if !m.done && m.tl.State() == timeline.Completed {
		m.done = true
		m.notice = studio.MsgDone
	}
}

func (m PlayModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space pause/resume  r reset  q quit"))
	b.WriteString("\n\n")

	pos := m.tl.Position()
	instrs := m.tl.Instructions()
	sc := m.tl.Scene()
	for gi, g := range sc.Groups {
		frac := groupProgress(instrs, gi, pos)
		label := fmt.Sprintf("path %-3d", g.Index)
		b.WriteString(StyleDim.Render(label))
		b.WriteString(" ")
		b.WriteString(renderBar(frac, m.width))
		b.WriteString(StyleDim.Render(fmt.Sprintf(" %3.0f%%  %d stroke(s)", frac*100, len(g.Strokes))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render(m.tl.State().String()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s / %s",
		pos.Round(time.Millisecond), m.tl.Duration().Round(time.Millisecond))))
	if m.notice != "" {
		b.WriteString("\n")
		if m.done {
			b.WriteString(StyleSuccess.Render(iconSuccess + " " + m.notice))
		} else {
			b.WriteString(StyleDim.Render(iconInfo + " " + m.notice))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// groupProgress is how far group gi has been revealed at pos, in [0, 1].
func groupProgress(instrs []choreo.Instruction, gi int, pos time.Duration) float64 {
	start, end, ok := choreo.GroupSpan(instrs, gi)
	switch {
	case !ok:
		return 0
	case pos >= end:
		return 1
	case pos <= start:
		return 0
	}
	return float64(pos-start) / float64(end-start)
}

func renderBar(frac float64, width int) string {
	filled := int(frac*float64(width) + 0.5)
	filled = max(0, min(filled, width))
	style := barFullStyle
	if filled == width {
		style = barDoneStyle
	}
	return style.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", width-filled))
}
