package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

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

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

func printSuccess(format string, args ...any) {
	fmt.Printf("%s %s\n", styleIconSuccess.Render("✓"), fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Printf("%s %s\n", styleIconError.Render("✗"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Printf("%s %s\n", StyleWarning.Render("!"), fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Println(StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printDetail(format string, args ...any) {
	fmt.Printf("  %s\n", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// summaryLine renders a labelled statistic for the terminal summary.
func summaryLine(label string, value any) string {
	return fmt.Sprintf("  %s %s", StyleDim.Render(label+":"), StyleNumber.Render(fmt.Sprint(value)))
}
