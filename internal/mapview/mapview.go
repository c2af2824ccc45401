// Package mapview rasterises region outlines into a grid of terminal
// cells and renders that grid with lipgloss.
package mapview

import (
	"math"

	"github.com/abhisek/mapquiz/internal/catalog"
)

// cellAspect is the height of a terminal cell relative to its width.
const cellAspect = 2.0

// Empty marks a grid cell that belongs to no region.
const Empty = -1

type shape struct {
	id    string
	polys []Polygon
	box   bounds
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func emptyBounds() bounds {
	return bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (b *bounds) extend(pt Point) {
	b.minX = min(b.minX, pt.X)
	b.minY = min(b.minY, pt.Y)
	b.maxX = max(b.maxX, pt.X)
	b.maxY = max(b.maxY, pt.Y)
}

func (b bounds) valid() bool {
	return b.maxX > b.minX && b.maxY > b.minY
}

func (b bounds) contains(pt Point) bool {
	return pt.X >= b.minX && pt.X <= b.maxX && pt.Y >= b.minY && pt.Y <= b.maxY
}

// Map holds parsed region geometry. A Map caches the last rasterised
// grid and is not safe for concurrent use.
type Map struct {
	shapes  []shape
	box     bounds
	// Invalid lists regions whose geometry failed to parse. They render
	// as empty space.
	Invalid []string

	cache *Grid
}

// New parses every region's path. Parse failures never fail the map.
func New(regions []catalog.Region) *Map {
	m := &Map{box: emptyBounds()}
	for _, r := range regions {
		polys, err := ParsePath(r.Path)
		if err != nil {
			m.Invalid = append(m.Invalid, r.ID)
			polys = nil
		}
		s := shape{id: r.ID, polys: polys, box: emptyBounds()}
		for _, poly := range polys {
			for _, pt := range poly {
				s.box.extend(pt)
				m.box.extend(pt)
			}
		}
		m.shapes = append(m.shapes, s)
	}
	return m
}

// IDs returns region ids in shape index order.
func (m *Map) IDs() []string {
	ids := make([]string, len(m.shapes))
	for i, s := range m.shapes {
		ids[i] = s.id
	}
	return ids
}

// Grid is a rasterised map. Each cell holds the index of the region
// covering its centre, or Empty.
type Grid struct {
	Width, Height int
	cells         []int
	ids           []string
}

// At returns the region index at (col, row).
func (g *Grid) At(col, row int) int {
	if col < 0 || row < 0 || col >= g.Width || row >= g.Height {
		return Empty
	}
	return g.cells[row*g.Width+col]
}

// ID returns the region id at (col, row), or "".
func (g *Grid) ID(col, row int) string {
	if i := g.At(col, row); i != Empty {
		return g.ids[i]
	}
	return ""
}

// edge reports whether the cell borders a different region or empty space.
func (g *Grid) edge(col, row int) bool {
	i := g.At(col, row)
	return g.At(col+1, row) != i || g.At(col-1, row) != i ||
		g.At(col, row+1) != i || g.At(col, row-1) != i
}

// Rasterize fits the map into width×height cells, keeping the geometry's
// aspect ratio, and samples each cell centre with an even-odd test.
// Later regions win where outlines overlap, as in SVG paint order.
func (m *Map) Rasterize(width, height int) *Grid {
	if m.cache != nil && m.cache.Width == width && m.cache.Height == height {
		return m.cache
	}

	g := &Grid{Width: max(width, 0), Height: max(height, 0), ids: m.IDs()}
	g.cells = make([]int, g.Width*g.Height)
	for i := range g.cells {
		g.cells[i] = Empty
	}
	if g.Width == 0 || g.Height == 0 || !m.box.valid() {
		m.cache = g
		return g
	}

	bw := m.box.maxX - m.box.minX
	bh := m.box.maxY - m.box.minY
	// Map units per cell column; a row spans cellAspect times as much.
	unit := max(bw/float64(g.Width), bh/(float64(g.Height)*cellAspect))
	offX := (float64(g.Width)*unit - bw) / 2
	offY := (float64(g.Height)*unit*cellAspect - bh) / 2

	for row := 0; row < g.Height; row++ {
		y := m.box.minY - offY + (float64(row)+0.5)*unit*cellAspect
		for col := 0; col < g.Width; col++ {
			x := m.box.minX - offX + (float64(col)+0.5)*unit
			g.cells[row*g.Width+col] = m.hit(Point{x, y})
		}
	}

	m.cache = g
	return g
}

func (m *Map) hit(pt Point) int {
	for i := len(m.shapes) - 1; i >= 0; i-- {
		s := m.shapes[i]
		if !s.box.contains(pt) {
			continue
		}
		if insideEvenOdd(s.polys, pt) {
			return i
		}
	}
	return Empty
}

// insideEvenOdd counts ray crossings over every ring of the shape, so
// holes cut out of a region stay empty.
func insideEvenOdd(polys []Polygon, pt Point) bool {
	in := false
	for _, poly := range polys {
		n := len(poly)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			a, b := poly[i], poly[j]
			if (a.Y > pt.Y) != (b.Y > pt.Y) &&
				pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
				in = !in
			}
		}
	}
	return in
}
