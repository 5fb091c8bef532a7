package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/docgraph/pkg/check"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
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

	// StyleLink for link literals.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for error messages.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleRule  = lipgloss.NewStyle().Foreground(colorGray)
	styleCycle = lipgloss.NewStyle().Foreground(colorYellow).Italic(true)
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
	iconCycle   = "↺"
)

// =============================================================================
// Status Output
// =============================================================================

// printf writes unstyled output.
func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// printSuccess prints a success message.
func (c *CLI) printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func (c *CLI) printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func (c *CLI) printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func (c *CLI) printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func (c *CLI) printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.out, "  "+StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func (c *CLI) printFile(path string) {
	fmt.Fprintln(c.out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func (c *CLI) printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(c.out, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Findings
// =============================================================================

// printFinding prints one finding as "file:line:col severity message rule".
func (c *CLI) printFinding(f check.Finding) {
	loc := fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column)
	sev := StyleError.Render(string(f.Severity))
	if f.Severity == check.SeverityWarning {
		sev = StyleWarning.Render(string(f.Severity))
	}
	fmt.Fprintf(c.out, "%s %s %s %s\n",
		StyleValue.Render(loc), sev, f.Message, styleRule.Render(string(f.Rule)))
}

// printSummary prints the closing line of a findings report.
func (c *CLI) printSummary(s check.Summary, files int) {
	switch {
	case s.Errors > 0:
		c.printError("%s, %s in %s",
			plural(s.Errors, "error"), plural(s.Warnings, "warning"), plural(files, "file"))
	case s.Warnings > 0:
		c.printWarning("%s in %s", plural(s.Warnings, "warning"), plural(files, "file"))
	default:
		c.printSuccess("no issues in %s", plural(files, "file"))
	}
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints graph statistics on a single line.
func (c *CLI) printStats(nodeCount, edgeCount, external int) {
	parts := []string{
		plural(nodeCount, "file"),
		plural(edgeCount, "link"),
	}
	if external > 0 {
		parts = append(parts, fmt.Sprintf("%d external", external))
	}
	fmt.Fprintln(c.out, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func (c *CLI) printNewline() {
	fmt.Fprintln(c.out)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
