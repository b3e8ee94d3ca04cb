package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// ComboSeries is one named data series of a ComboChart.
type ComboSeries struct {
	Format func(float64) string
	Key    string
	Label  string
	Color  lipgloss.Color
	Values []float64
}

func (s ComboSeries) format(v float64) string {
	if s.Format != nil {
		return s.Format(v)
	}
	return fmt.Sprintf("%.0f", v)
}

// ComboChart draws grouped bars against a left count axis and one line
// against a right percentage axis that starts at 0. Both upper bounds are
// derived from the data.
type ComboChart struct {
	Line       ComboSeries
	Categories []string
	Bars       []ComboSeries
	// Cursor is the highlighted category, -1 for none.
	Cursor int
}

const (
	minPlotHeight = 5
	maxBarWidth   = 4
)

type cell struct {
	color lipgloss.Color
	r     rune
	bold  bool
}

// Series looks a series up by key among the bars and the line.
func (c ComboChart) Series(key string) (ComboSeries, bool) {
	for _, s := range c.Bars {
		if s.Key == key {
			return s, true
		}
	}
	if c.Line.Key == key {
		return c.Line, true
	}
	return ComboSeries{}, false
}

// Bounds returns the left and right axis upper bounds.
func (c ComboChart) Bounds() (left, right float64) {
	for _, s := range c.Bars {
		for _, v := range s.Values {
			left = math.Max(left, v)
		}
	}
	for _, v := range c.Line.Values {
		right = math.Max(right, v)
	}
	left, right = NiceCeil(left), NiceCeil(right)
	if left == 0 {
		left = 1
	}
	if right == 0 {
		right = 1
	}
	return left, right
}

// NiceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten.
func NiceCeil(v float64) float64 {
	if v <= 0 {
		return 0
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	f := v / exp
	var nice float64
	switch {
	case f <= 1:
		nice = 1
	case f <= 2:
		nice = 2
	case f <= 2.5:
		nice = 2.5
	case f <= 5:
		nice = 5
	default:
		nice = 10
	}
	return nice * exp
}

func formatCount(v float64) string {
	if v >= 10000 {
		return fmt.Sprintf("%.1fk", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}

// Render draws the chart in width columns with plotHeight rows of plot area,
// followed by the x axis and category labels.
func (c ComboChart) Render(width, plotHeight int) string {
	n := len(c.Categories)
	if n == 0 {
		return ""
	}
	plotH := max(plotHeight, minPlotHeight)
	leftMax, rightMax := c.Bounds()

	leftTicks := map[int]string{
		0:         formatCount(leftMax),
		plotH / 2: formatCount(leftMax / 2),
		plotH - 1: "0",
	}
	rightTicks := map[int]string{
		0:         c.Line.format(rightMax),
		plotH / 2: c.Line.format(rightMax / 2),
		plotH - 1: c.Line.format(0),
	}
	leftW, rightW := 0, 0
	for _, l := range leftTicks {
		leftW = max(leftW, lipgloss.Width(l))
	}
	for _, l := range rightTicks {
		rightW = max(rightW, lipgloss.Width(l))
	}

	groups := max(len(c.Bars), 1)
	plotW := width - leftW - rightW - 4
	colW := max(plotW/n, groups+1)
	plotW = colW * n
	barW := min(max((colW-1)/groups, 1), maxBarWidth)

	grid := make([][]cell, plotH)
	for y := range grid {
		grid[y] = make([]cell, plotW)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	c.drawBars(grid, colW, barW, leftMax)
	c.drawLine(grid, colW, rightMax)

	var sb strings.Builder
	for y := 0; y < plotH; y++ {
		left, lok := leftTicks[y]
		right, rok := rightTicks[y]
		lAxis, rAxis := "│", "│"
		if lok {
			lAxis = "┤"
		}
		if rok {
			rAxis = "├"
		}
		sb.WriteString(styles.HelpStyle.Render(fmt.Sprintf("%*s ", leftW, left)))
		sb.WriteString(lAxis)
		sb.WriteString(renderRow(grid[y]))
		sb.WriteString(rAxis)
		sb.WriteString(styles.HelpStyle.Render(" " + right))
		sb.WriteString("\n")
	}

	pad := strings.Repeat(" ", leftW+1)
	sb.WriteString(pad + "└" + strings.Repeat("─", plotW) + "┘\n")
	sb.WriteString(pad + " " + c.renderLabels(colW))
	if c.Cursor >= 0 && c.Cursor < n {
		marker := strings.Repeat(" ", c.Cursor*colW+colW/2) + "▲"
		sb.WriteString("\n" + pad + " " + styles.FocusedStyle.Render(marker))
	}

	return sb.String()
}

func (c ComboChart) drawBars(grid [][]cell, colW, barW int, leftMax float64) {
	plotH := len(grid)
	groupW := barW * len(c.Bars)
	for i := range c.Categories {
		x0 := i*colW + (colW-groupW)/2
		for j, s := range c.Bars {
			if i >= len(s.Values) {
				continue
			}
			eighths := int(math.Round(s.Values[i] / leftMax * float64(plotH) * 8))
			full, rem := eighths/8, eighths%8
			for x := x0 + j*barW; x < x0+(j+1)*barW; x++ {
				for k := 0; k < full && k < plotH; k++ {
					grid[plotH-1-k][x] = cell{r: '█', color: s.Color}
				}
				if rem > 0 && full < plotH {
					grid[plotH-1-full][x] = cell{r: sparkChars[rem-1], color: s.Color}
				}
			}
		}
	}
}

func (c ComboChart) drawLine(grid [][]cell, colW int, rightMax float64) {
	plotH, plotW := len(grid), len(grid[0])
	values := c.Line.Values
	if len(values) == 0 {
		return
	}

	xs := make([]int, len(values))
	ys := make([]int, len(values))
	for i, v := range values {
		xs[i] = i*colW + colW/2
		ys[i] = plotH - 1 - int(math.Round(v/rightMax*float64(plotH-1)))
		ys[i] = min(max(ys[i], 0), plotH-1)
	}

	for i := 0; i+1 < len(values) && xs[i+1] < plotW; i++ {
		for x := xs[i] + 1; x < xs[i+1]; x++ {
			t := float64(x-xs[i]) / float64(xs[i+1]-xs[i])
			y := int(math.Round(float64(ys[i]) + t*float64(ys[i+1]-ys[i])))
			grid[y][x] = cell{r: '·', color: c.Line.Color}
		}
	}

	for i := range values {
		if xs[i] < plotW {
			grid[ys[i]][xs[i]] = cell{r: '●', color: c.Line.Color, bold: true}
		}
	}

	taken := make([][]bool, plotH)
	for y := range taken {
		taken[y] = make([]bool, plotW)
	}
	for i, v := range values {
		label := []rune(c.Line.format(v))
		start := min(max(xs[i]-len(label)/2, 0), plotW-len(label))
		if start < 0 {
			continue
		}
		for _, y := range []int{ys[i] - 1, ys[i] + 1} {
			if y < 0 || y >= plotH || anyTaken(taken[y][start:start+len(label)]) {
				continue
			}
			for k, r := range label {
				grid[y][start+k] = cell{r: r, color: c.Line.Color, bold: true}
				taken[y][start+k] = true
			}
			// keep one blank column between neighbouring labels
			if start+len(label) < plotW {
				taken[y][start+len(label)] = true
			}
			break
		}
	}
}

func anyTaken(cells []bool) bool {
	for _, t := range cells {
		if t {
			return true
		}
	}
	return false
}

func renderRow(row []cell) string {
	var sb strings.Builder
	i := 0
	for i < len(row) {
		j := i
		var run strings.Builder
		for j < len(row) && row[j].color == row[i].color && row[j].bold == row[i].bold {
			run.WriteRune(row[j].r)
			j++
		}
		if row[i].color == "" {
			sb.WriteString(run.String())
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(row[i].color).Bold(row[i].bold).Render(run.String()))
		}
		i = j
	}
	return sb.String()
}

func (c ComboChart) renderLabels(colW int) string {
	var sb strings.Builder
	for i, cat := range c.Categories {
		label := []rune(cat)
		if len(label) > colW-1 {
			label = label[:max(colW-1, 1)]
		}
		cellStr := lipgloss.PlaceHorizontal(colW, lipgloss.Center, string(label))
		if i == c.Cursor {
			cellStr = styles.FocusedStyle.Render(cellStr)
		} else {
			cellStr = styles.HelpDescStyle.Render(cellStr)
		}
		sb.WriteString(cellStr)
	}
	return sb.String()
}

// TooltipStyle frames the hover tooltip.
var TooltipStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(styles.Subtle).
	Padding(0, 1)

// Tooltip renders the values of the cursor category for the given series
// keys, in the order requested. Unknown keys are skipped.
func (c ComboChart) Tooltip(title string, keys ...string) string {
	if c.Cursor < 0 || c.Cursor >= len(c.Categories) {
		return ""
	}

	lines := []string{styles.CardTitleStyle.UnsetMarginBottom().Render(title)}
	for _, key := range keys {
		s, ok := c.Series(key)
		if !ok || c.Cursor >= len(s.Values) {
			continue
		}
		swatch := lipgloss.NewStyle().Foreground(s.Color).Render("■")
		lines = append(lines, fmt.Sprintf("%s %s: %s", swatch, s.Label, s.format(s.Values[c.Cursor])))
	}
	return TooltipStyle.Render(strings.Join(lines, "\n"))
}
