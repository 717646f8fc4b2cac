package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sketchreveal/pkg/notify"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - info
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorBlue)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// statusLine renders msg behind the icon for sev. Notifications and the
// print helpers share it so both look the same on the console.
func statusLine(sev notify.Severity, msg string) string {
	switch sev {
	case notify.Success:
		return styleIconSuccess.Render(iconSuccess) + " " + msg
	case notify.Warning:
		return styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg)
	case notify.Danger:
		return styleIconError.Render(iconError) + " " + msg
	}
	return styleIconInfo.Render(iconInfo) + " " + msg
}

func printStatus(sev notify.Severity, format string, args ...any) {
	fmt.Println(statusLine(sev, fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { printStatus(notify.Success, format, args...) }
func printError(format string, args ...any)   { printStatus(notify.Danger, format, args...) }
func printWarning(format string, args ...any) { printStatus(notify.Warning, format, args...) }
func printInfo(format string, args ...any)    { printStatus(notify.Info, format, args...) }

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Notifications
// =============================================================================

// formatNotification renders a notification as one status line. Messages
// relayed from another server carry a short origin tag.
func formatNotification(n notify.Notification) string {
	line := statusLine(n.Severity, n.Message)
	if n.Origin != "" {
		line += " " + StyleDim.Render("["+shortOrigin(n.Origin)+"]")
	}
	return line
}

func shortOrigin(origin string) string {
	if len(origin) > 8 {
		return origin[:8]
	}
	return origin
}

// consoleNotifier prints notifications as status lines.
type consoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func newConsoleNotifier(w io.Writer) *consoleNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &consoleNotifier{w: w}
}

func (c *consoleNotifier) Notify(_ context.Context, n notify.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, formatNotification(n))
}
