package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/skypies/geo"

	"github.com/j-veylop/flight-delay-tui/internal/ui/styles"
)

// MarkerStyle is the glyph and color used to draw a map marker.
type MarkerStyle struct {
	Color lipgloss.Color
	Glyph rune
}

// DefaultMarkerStyle is a blue pin.
func DefaultMarkerStyle() MarkerStyle {
	return MarkerStyle{Glyph: '◉', Color: styles.DefaultMarkerColor}
}

// MapMarker is a labelled point on a GeoMap.
type MapMarker struct {
	// Style overrides the map's marker style when set.
	Style    *MarkerStyle
	Label    string
	Position geo.Latlong
}

// MarkerColor returns hex as a color, or fallback when hex is not "#rrggbb".
func MarkerColor(hex string, fallback lipgloss.Color) lipgloss.Color {
	if _, ok := hexToRGB(hex); !ok || !strings.HasPrefix(hex, "#") {
		return fallback
	}
	return lipgloss.Color(hex)
}

// Map framing: a lone point is shown with a fixed span around it, and
// fitted boxes get a margin so markers do not sit on the frame.
const (
	singlePointSpanDeg = 0.25
	minSpanDeg         = 0.01
	fitMargin          = 0.1
)

// GeoMap plots markers on an equirectangular character grid fitted to
// their bounding box.
type GeoMap struct {
	markers []MapMarker
	style   MarkerStyle
	route   bool
}

// NewRouteMap joins origin and destination with a dashed line.
func NewRouteMap(origin, destination MapMarker, style MarkerStyle) GeoMap {
	return GeoMap{markers: []MapMarker{origin, destination}, style: style, route: true}
}

// NewPOIMap plots independent points.
func NewPOIMap(markers []MapMarker, style MarkerStyle) GeoMap {
	return GeoMap{markers: markers, style: style}
}

// Markers returns the plotted markers.
func (m GeoMap) Markers() []MapMarker {
	return m.markers
}

// Bounds returns the bounding box of all markers. ok is false without markers.
func (m GeoMap) Bounds() (box geo.LatlongBox, ok bool) {
	if len(m.markers) == 0 {
		return box, false
	}
	box = m.markers[0].Position.BoxTo(m.markers[0].Position)
	for _, mk := range m.markers[1:] {
		box.Enclose(mk.Position)
	}
	return box, true
}

// Center is the center of the bounding box, or (0,0) without markers.
func (m GeoMap) Center() geo.Latlong {
	box, ok := m.Bounds()
	if !ok {
		return geo.Latlong{}
	}
	return box.Center()
}

// DistanceKM is the great-circle distance of a route map, 0 otherwise.
func (m GeoMap) DistanceKM() float64 {
	if !m.route || len(m.markers) < 2 {
		return 0
	}
	return m.markers[0].Position.DistKM(m.markers[1].Position)
}

// viewport returns the visible latitude and longitude ranges.
func (m GeoMap) viewport() (minLat, maxLat, minLong, maxLong float64) {
	box, ok := m.Bounds()
	if !ok {
		return -singlePointSpanDeg, singlePointSpanDeg, -singlePointSpanDeg, singlePointSpanDeg
	}

	minLat, maxLat = box.SW.Lat, box.NE.Lat
	minLong, maxLong = box.SW.Long, box.NE.Long
	latSpan, longSpan := maxLat-minLat, maxLong-minLong

	if latSpan < minSpanDeg && longSpan < minSpanDeg {
		c := box.Center()
		return c.Lat - singlePointSpanDeg, c.Lat + singlePointSpanDeg,
			c.Long - singlePointSpanDeg, c.Long + singlePointSpanDeg
	}

	latPad := math.Max(latSpan, minSpanDeg) * fitMargin
	longPad := math.Max(longSpan, minSpanDeg) * fitMargin
	if latSpan < minSpanDeg {
		latPad = longSpan / 2
	}
	if longSpan < minSpanDeg {
		longPad = latSpan / 2
	}
	return minLat - latPad, maxLat + latPad, minLong - longPad, maxLong + longPad
}

// Project maps a position to grid coordinates in a width x height grid.
func (m GeoMap) Project(p geo.Latlong, width, height int) (x, y int) {
	minLat, maxLat, minLong, maxLong := m.viewport()
	fx := (p.Long - minLong) / (maxLong - minLong)
	fy := (maxLat - p.Lat) / (maxLat - minLat)
	x = int(math.Round(fx * float64(width-1)))
	y = int(math.Round(fy * float64(height-1)))
	return min(max(x, 0), width-1), min(max(y, 0), height-1)
}

// Render draws the map in a bordered box of the given outer size,
// followed by the marker legend.
func (m GeoMap) Render(width, height int) string {
	w, h := max(width-2, 10), max(height-2, 4)

	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	if len(m.markers) == 0 {
		cx, cy := m.Project(geo.Latlong{}, w, h)
		grid[cy][cx] = cell{r: '+', color: styles.Subtle}
	}

	if m.route && len(m.markers) >= 2 {
		x0, y0 := m.Project(m.markers[0].Position, w, h)
		x1, y1 := m.Project(m.markers[1].Position, w, h)
		drawDashed(grid, x0, y0, x1, y1, styles.Error)
	}

	for _, mk := range m.markers {
		st := m.style
		if mk.Style != nil {
			st = *mk.Style
		}
		x, y := m.Project(mk.Position, w, h)
		grid[y][x] = cell{r: st.Glyph, color: st.Color, bold: true}
	}

	rows := make([]string, h)
	for y := range grid {
		rows[y] = renderRow(grid[y])
	}
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Subtle).
		Render(strings.Join(rows, "\n"))

	return frame + "\n" + m.legend()
}

func (m GeoMap) legend() string {
	if len(m.markers) == 0 {
		c := m.Center()
		return styles.HelpStyle.Render(fmt.Sprintf("Sin puntos (%.3f, %.3f)", c.Lat, c.Long))
	}

	lines := make([]string, 0, len(m.markers)+1)
	for _, mk := range m.markers {
		st := m.style
		if mk.Style != nil {
			st = *mk.Style
		}
		glyph := lipgloss.NewStyle().Foreground(st.Color).Render(string(st.Glyph))
		lines = append(lines, fmt.Sprintf("%s %s", glyph, mk.Label))
	}
	if m.route {
		lines = append(lines, styles.HelpStyle.Render(fmt.Sprintf("Distancia: %.0f km", m.DistanceKM())))
	}
	return strings.Join(lines, "\n")
}

// drawDashed draws every other cell of the Bresenham line between two points.
func drawDashed(grid [][]cell, x0, y0, x1, y1 int, color lipgloss.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for step := 0; ; step++ {
		if step%2 == 0 {
			grid[y0][x0] = cell{r: '•', color: color}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
