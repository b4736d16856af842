package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	gio "github.com/matzehuels/gcad/pkg/io"
	"github.com/matzehuels/gcad/pkg/order"
)

// out receives all human-readable command output. Logs go to stderr.
var out io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")  // primary: point ids, spinner
	colorGreen  = lipgloss.Color("35")  // success, cached
	colorYellow = lipgloss.Color("220") // warnings, check constraints
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // suggested commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	// StyleHighlight marks figure names and point ids in messages.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim is for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// status line icons
var (
	iconSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	iconError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	iconWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	iconInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	iconArrow   = StyleDim.Render("→")
	separator   = StyleDim.Render(" · ")
)

func printStatus(icon, msg string) {
	fmt.Fprintln(out, icon+" "+msg)
}

func printSuccess(format string, args ...any) {
	printStatus(iconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printStatus(iconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(iconWarning, styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Fprintln(out, "  "+iconArrow+" "+styleValue.Render(path))
}

// printStats prints solve statistics on one line, e.g.
// "3 points · 3 constraints · 4 steps · cached".
func printStats(points, constraints, steps, backtracks int, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d points", points)),
		StyleDim.Render(fmt.Sprintf("%d constraints", constraints)),
	}
	if steps > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d steps", steps)))
	}
	if backtracks > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d backtracks", backtracks)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(out, "  "+strings.Join(parts, separator))
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		})
}

// printPositions prints solved coordinates in fix order.
func printPositions(points []gio.Point) {
	t := newTable("Point", "X", "Y")
	for _, p := range points {
		t.Row(p.ID, formatCoord(p.X), formatCoord(p.Y))
	}
	fmt.Fprintln(out, t.Render())
}

// printPlan prints the fix order with the support set of every point.
func printPlan(p *order.Plan) {
	t := newTable("Step", "Point", "Support", "Constraints")
	for i, pt := range p.Path {
		s := p.Support[pt]
		var cs []string
		for _, id := range s.Constraints() {
			c := p.Index.Constraint(id).String()
			if p.IsCheck(id) {
				c = styleWarning.Render(c + " (check)")
			}
			cs = append(cs, c)
		}
		t.Row(strconv.Itoa(i), pt, s.String(), strings.Join(cs, "\n"))
	}
	fmt.Fprintln(out, t.Render())
}

// printViolations prints constraints a solution misses.
func printViolations(vs []gio.Violation) {
	t := newTable("#", "Constraint", "Residual")
	for _, v := range vs {
		t.Row(strconv.Itoa(v.ID), v.Constraint, strconv.FormatFloat(v.Residual, 'g', 6, 64))
	}
	fmt.Fprintln(out, t.Render())
}

// formatCoord prints a coordinate with fixed precision, without negative zero.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	if strings.Trim(s, "-0.") == "" {
		return strconv.FormatFloat(0, 'f', 6, 64)
	}
	return s
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(out)
}
