package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/pkg/demos"
	"github.com/matzehuels/sketchreveal/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// demosCommand creates the demos command group.
func (c *CLI) demosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demos",
		Short: "Browse the demo catalog",
	}
	cmd.AddCommand(c.demosListCommand())
	cmd.AddCommand(c.demosShowCommand())
	cmd.AddCommand(c.demosPickCommand())
	return cmd
}

func (c *CLI) demosListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List demo cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(renderCatalog(c.loadCatalog(cmd, cfg)))
			return nil
		},
	}
}

func (c *CLI) demosShowCommand() *cobra.Command {
	var svgOnly bool
	cmd := &cobra.Command{
		Use:   "show [number|title]",
		Short: "Print a demo's prompt and SVG",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return demoCompletions(c.loadCatalog(cmd, cfg)), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			d, _, err := findDemo(c.loadCatalog(cmd, cfg), args[0])
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			if svgOnly {
				fmt.Println(d.SVG)
				return nil
			}
			fmt.Println(StyleTitle.Render(d.Title))
			printDetail("%s", d.Description)
			printNewline()
			printKeyValue("Prompt", d.Prompt)
			printNewline()
			fmt.Println(d.SVG)
			return nil
		},
	}
	cmd.Flags().BoolVar(&svgOnly, "svg", false, "print only the SVG (pipe into animate -)")
	return cmd
}

func (c *CLI) demosPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Pick a demo card and play it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat := c.loadCatalog(cmd, cfg)
			if cat.Len() == 0 {
				printError("No demos found")
				return fmt.Errorf("no demos found")
			}

			final, err := tea.NewProgram(NewDemoListModel(cat.Demos), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			fm, ok := final.(DemoListModel)
			if !ok || fm.Selected == nil {
				printDetail("No selection made")
				return nil
			}
			d := *fm.Selected
			return runPlay(cmd.Context(), d.Title, d.SVG, cfg.Animation.Params(), 0)
		},
	}
}

// findDemo resolves a 1-based card number or a title.
func findDemo(cat *demos.Catalog, arg string) (demos.Demo, int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		d, err := cat.Get(n - 1)
		if err != nil {
			return demos.Demo{}, -1, errors.Wrap(errors.ErrCodeInvalidInput, err, "Unknown demo %d", n)
		}
		return d, n - 1, nil
	}
	d, i, ok := cat.Find(arg)
	if !ok {
		return demos.Demo{}, -1, errors.New(errors.ErrCodeInvalidInput, "Unknown demo %q", arg)
	}
	return d, i, nil
}

func renderCatalog(cat *demos.Catalog) string {
	rows := make([][]string, cat.Len())
	for i, d := range cat.Demos {
		rows[i] = []string{strconv.Itoa(i + 1), d.Title, d.Description}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Title", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return listNormalStyle
			}
			return listDimStyle
		})
	return t.Render()
}

// =============================================================================
// DemoListModel - Interactive demo selection
// =============================================================================

// DemoListModel is the bubbletea model for picking a demo card.
type DemoListModel struct {
	Demos    []demos.Demo
	Cursor   int
	Selected *demos.Demo
}

// NewDemoListModel creates a new demo list model.
func NewDemoListModel(ds []demos.Demo) DemoListModel {
	return DemoListModel{Demos: ds}
}

func (m DemoListModel) Init() tea.Cmd {
	return nil
}

func (m DemoListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Demos)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Demos) == 0 {
				return m, tea.Quit
			}
			d := m.Demos[m.Cursor]
			m.Selected = &d
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DemoListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Demo"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ play  q quit"))
	b.WriteString("\n\n")

	for i, d := range m.Demos {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + d.Title))
		} else {
			b.WriteString(listNormalStyle.Render("  " + d.Title))
		}
		b.WriteString("  ")
		b.WriteString(listDimStyle.Render(d.Description))
		b.WriteString("\n")
	}
	return b.String()
}
