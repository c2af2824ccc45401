package mapview

import (
	"fmt"
	"math"
	"strconv"
)

// curveSteps is the number of line segments a Bézier curve flattens to.
const curveSteps = 8

type Point struct {
	X, Y float64
}

// Polygon is a closed ring of points. The last point connects back to the
// first.
type Polygon []Point

// ParsePath flattens SVG path data into polygons, one per subpath. Arcs
// are approximated by a straight line to their end point.
func ParsePath(d string) ([]Polygon, error) {
	p := &pathParser{s: d}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.polys, nil
}

type pathParser struct {
	s string
	i int

	polys []Polygon
	cur   Polygon

	pos, start Point

	// ctrl is the last control point of the previous curve, used to
	// reflect S and T commands.
	ctrl    Point
	lastCmd byte
}

func (p *pathParser) parse() error {
	for {
		p.skipSep()
		if p.i >= len(p.s) {
			break
		}
		c := p.s[p.i]
		if !isCommand(c) {
			return fmt.Errorf("unexpected %q at offset %d", c, p.i)
		}
		p.i++
		if err := p.command(c); err != nil {
			return fmt.Errorf("command %c at offset %d: %w", c, p.i-1, err)
		}
	}
	p.flush()
	return nil
}

// command consumes one command letter plus every argument group that
// follows it (implicit repetition).
func (p *pathParser) command(c byte) error {
	rel := c >= 'a'
	upper := c &^ 0x20

	if upper == 'Z' {
		p.close()
		p.lastCmd = 'Z'
		return nil
	}

	first := true
	for first || p.moreNumbers() {
		var err error
		switch upper {
		case 'M':
			err = p.moveTo(rel, first)
		case 'L':
			err = p.lineTo(rel)
		case 'H':
			err = p.horizontal(rel)
		case 'V':
			err = p.vertical(rel)
		case 'C':
			err = p.cubic(rel, false)
		case 'S':
			err = p.cubic(rel, true)
		case 'Q':
			err = p.quad(rel, false)
		case 'T':
			err = p.quad(rel, true)
		case 'A':
			err = p.arc(rel)
		}
		if err != nil {
			return err
		}
		first = false
	}
	return nil
}

func (p *pathParser) moveTo(rel, first bool) error {
	pt, err := p.point(rel)
	if err != nil {
		return err
	}
	if !first {
		// Extra pairs after a moveto are implicit linetos.
		p.add(pt)
		p.lastCmd = 'L'
		return nil
	}
	p.flush()
	p.start = pt
	p.pos = pt
	p.cur = Polygon{pt}
	p.lastCmd = 'M'
	return nil
}

func (p *pathParser) lineTo(rel bool) error {
	pt, err := p.point(rel)
	if err != nil {
		return err
	}
	p.add(pt)
	p.lastCmd = 'L'
	return nil
}

func (p *pathParser) horizontal(rel bool) error {
	x, err := p.number()
	if err != nil {
		return err
	}
	if rel {
		x += p.pos.X
	}
	p.add(Point{x, p.pos.Y})
	p.lastCmd = 'H'
	return nil
}

func (p *pathParser) vertical(rel bool) error {
	y, err := p.number()
	if err != nil {
		return err
	}
	if rel {
		y += p.pos.Y
	}
	p.add(Point{p.pos.X, y})
	p.lastCmd = 'V'
	return nil
}

func (p *pathParser) cubic(rel, smooth bool) error {
	from := p.pos
	var c1 Point
	if smooth {
		c1 = from
		if p.lastCmd == 'C' || p.lastCmd == 'S' {
			c1 = reflect(p.ctrl, from)
		}
	} else {
		var err error
		if c1, err = p.point(rel); err != nil {
			return err
		}
	}
	c2, err := p.point(rel)
	if err != nil {
		return err
	}
	end, err := p.point(rel)
	if err != nil {
		return err
	}

	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		p.add(Point{
			X: mt*mt*mt*from.X + 3*mt*mt*t*c1.X + 3*mt*t*t*c2.X + t*t*t*end.X,
			Y: mt*mt*mt*from.Y + 3*mt*mt*t*c1.Y + 3*mt*t*t*c2.Y + t*t*t*end.Y,
		})
	}
	p.pos = end
	p.ctrl = c2
	if smooth {
		p.lastCmd = 'S'
	} else {
		p.lastCmd = 'C'
	}
	return nil
}

func (p *pathParser) quad(rel, smooth bool) error {
	from := p.pos
	var c Point
	if smooth {
		c = from
		if p.lastCmd == 'Q' || p.lastCmd == 'T' {
			c = reflect(p.ctrl, from)
		}
	} else {
		var err error
		if c, err = p.point(rel); err != nil {
			return err
		}
	}
	end, err := p.point(rel)
	if err != nil {
		return err
	}

	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		p.add(Point{
			X: mt*mt*from.X + 2*mt*t*c.X + t*t*end.X,
			Y: mt*mt*from.Y + 2*mt*t*c.Y + t*t*end.Y,
		})
	}
	p.pos = end
	p.ctrl = c
	if smooth {
		p.lastCmd = 'T'
	} else {
		p.lastCmd = 'Q'
	}
	return nil
}

func (p *pathParser) arc(rel bool) error {
	// rx ry x-axis-rotation
	for range 3 {
		if _, err := p.number(); err != nil {
			return err
		}
	}
	// large-arc-flag sweep-flag
	for range 2 {
		if err := p.flag(); err != nil {
			return err
		}
	}
	end, err := p.point(rel)
	if err != nil {
		return err
	}
	p.add(end)
	p.lastCmd = 'A'
	return nil
}

func (p *pathParser) add(pt Point) {
	if p.cur == nil {
		// Drawing after Z without a moveto continues from the subpath start.
		p.cur = Polygon{p.start}
	}
	p.cur = append(p.cur, pt)
	p.pos = pt
}

func (p *pathParser) close() {
	p.flush()
	p.pos = p.start
}

func (p *pathParser) flush() {
	if len(p.cur) >= 3 {
		p.polys = append(p.polys, p.cur)
	}
	p.cur = nil
}

func (p *pathParser) point(rel bool) (Point, error) {
	x, err := p.number()
	if err != nil {
		return Point{}, err
	}
	y, err := p.number()
	if err != nil {
		return Point{}, err
	}
	if rel {
		x += p.pos.X
		y += p.pos.Y
	}
	return Point{x, y}, nil
}

// number scans one SVG number: sign, digits, fraction and exponent.
// "0.5.5" scans as 0.5 followed by .5.
func (p *pathParser) number() (float64, error) {
	p.skipSep()
	start := p.i
	if p.i < len(p.s) && (p.s[p.i] == '+' || p.s[p.i] == '-') {
		p.i++
	}
	digits := p.digits()
	if p.i < len(p.s) && p.s[p.i] == '.' {
		p.i++
		digits += p.digits()
	}
	if digits == 0 {
		p.i = start
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	if p.i < len(p.s) && (p.s[p.i] == 'e' || p.s[p.i] == 'E') {
		mark := p.i
		p.i++
		if p.i < len(p.s) && (p.s[p.i] == '+' || p.s[p.i] == '-') {
			p.i++
		}
		if p.digits() == 0 {
			p.i = mark
		}
	}
	v, err := strconv.ParseFloat(p.s[start:p.i], 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("number out of range at offset %d", start)
	}
	return v, nil
}

// flag scans an arc flag, which may be written without a separator.
func (p *pathParser) flag() error {
	p.skipSep()
	if p.i < len(p.s) && (p.s[p.i] == '0' || p.s[p.i] == '1') {
		p.i++
		return nil
	}
	return fmt.Errorf("expected arc flag at offset %d", p.i)
}

func (p *pathParser) digits() int {
	n := 0
	for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
		p.i++
		n++
	}
	return n
}

func (p *pathParser) skipSep() {
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			p.i++
		default:
			return
		}
	}
}

func (p *pathParser) moreNumbers() bool {
	p.skipSep()
	if p.i >= len(p.s) {
		return false
	}
	c := p.s[p.i]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func isCommand(c byte) bool {
	switch c &^ 0x20 {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z':
		return true
	}
	return false
}

func reflect(ctrl, about Point) Point {
	return Point{2*about.X - ctrl.X, 2*about.Y - ctrl.Y}
}
