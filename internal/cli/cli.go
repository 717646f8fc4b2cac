// Package cli implements the sketchreveal command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/pkg/buildinfo"
	"github.com/matzehuels/sketchreveal/pkg/config"
	"github.com/matzehuels/sketchreveal/pkg/demos"
	"github.com/matzehuels/sketchreveal/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sketchreveal"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Output formats of animate.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

var errNoRedis = errors.New("no redis address configured")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sketchreveal draws SVG sketches stroke by stroke",
		Long:         `Sketchreveal turns SVG line drawings (hand-written, from a demo card, or generated by an LLM) into hand-drawn animations: every path is roughened into a few jittered strokes that are revealed along a timeline.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := observability.LogHooks{Logger: c.Logger}
			observability.SetPlaybackHooks(hooks)
			observability.SetHTTPHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/"+appName+"/config.toml)")

	root.AddCommand(c.animateCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.demosCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.notificationsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig resolves the config file, the environment and defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("config loaded", "path", cfg.Path)
	}
	return cfg, nil
}

// loadCatalog reads the configured demo catalog. Failures fall back to the
// built-in cards with a warning.
func (c *CLI) loadCatalog(cmd *cobra.Command, cfg config.Config) *demos.Catalog {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cat, err := demos.Load(ctx, cfg.Demos)
	if err != nil {
		c.Logger.Warn("demo catalog unavailable, using built-in cards", "source", cfg.Demos, "err", err)
		return demos.Builtin()
	}
	return cat
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
