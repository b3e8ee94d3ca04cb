package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/flight-delay-tui/internal/logger"
	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// Gradient endpoints: on time is green, delayed is red.
const (
	gradientLow  = "#51cf66"
	gradientHigh = "#ff6b6b"
)

type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// ProbabilityBar renders a delay percentage as an animated gradient bar.
type ProbabilityBar struct {
	progress       progress.Model
	label          string
	targetPercent  float64
	currentPercent float64
	isAnimating    bool
}

// NewProbabilityBar creates a bar with the given width.
func NewProbabilityBar(width int) ProbabilityBar {
	p := progress.New(
		progress.WithScaledGradient(gradientLow, gradientHigh),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return ProbabilityBar{progress: p}
}

// Update advances the fill animation.
func (b ProbabilityBar) Update(msg tea.Msg) (ProbabilityBar, tea.Cmd) {
	if _, ok := msg.(AnimationTickMsg); !ok || !b.isAnimating {
		return b, nil
	}

	diff := b.targetPercent - b.currentPercent
	if diff == 0 {
		b.isAnimating = false
		return b, nil
	}

	step := diff / 10
	switch {
	case step > 0 && step < 0.5:
		step = 0.5
	case step < 0 && step > -0.5:
		step = -0.5
	}
	b.currentPercent += step
	if (step > 0 && b.currentPercent > b.targetPercent) || (step < 0 && b.currentPercent < b.targetPercent) {
		b.currentPercent = b.targetPercent
	}
	return b, animationTick()
}

// SetPercent starts animating towards percent.
func (b *ProbabilityBar) SetPercent(percent float64) tea.Cmd {
	b.targetPercent = percent
	if b.isAnimating {
		return nil
	}
	b.isAnimating = true
	return animationTick()
}

// SetLabel sets the bar label.
func (b *ProbabilityBar) SetLabel(label string) {
	b.label = label
}

// Percent returns the currently drawn percentage.
func (b ProbabilityBar) Percent() float64 {
	return b.currentPercent
}

// View renders label, bar and percentage.
func (b ProbabilityBar) View(width int) string {
	barWidth := width - 26
	if barWidth < 10 {
		barWidth = 10
	}
	b.progress.Width = barWidth

	bar := styles.ProgressBarStyle.Render(b.progress.ViewAs(b.currentPercent / 100))

	percentStr := styles.GetDelayStyle(b.targetPercent).
		Inherit(styles.ProgressPercentStyle).
		Render(fmt.Sprintf("%.0f%%", b.targetPercent))

	labelStr := styles.ProgressLabelStyle.Width(16).Render(b.label)

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var sb strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(gradientLow, gradientHigh, t)
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}

	return sb.String()
}

// SimpleProbabilityBar renders "label [bar] NN%" in one line.
func SimpleProbabilityBar(percent float64, label string, width int) string {
	labelWidth := len(label) + 1
	percentWidth := 6
	barWidth := width - labelWidth - percentWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	percentStr := styles.GetDelayStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from, _ := hexToRGB(fromHex)
	to, _ := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// hexToRGB parses "#rrggbb". ok is false for anything else.
func hexToRGB(hex string) (rgb [3]int, ok bool) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return rgb, false
	}
	var r, g, b int
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Debug("failed to parse hex color", "hex", hex, "error", err)
		return rgb, false
	}
	return [3]int{r, g, b}, true
}
