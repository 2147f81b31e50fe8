// Package calendar renders yearly SVG calendars: the planting windows of a
// plant and the care activity of a tracked plant.
package calendar

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Options configures rendering parameters.
type Options struct {
	CellSize    int    // size of each day cell (px)
	CellPadding int    // padding between cells (px)
	FontSize    int    // font size for labels (px)
	FontFamily  string // font family for labels
	Title       string
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		CellSize:    12,
		CellPadding: 2,
		FontSize:    10,
		FontFamily:  "sans-serif",
	}
}

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// cell is one rendered day.
type cell struct {
	date    time.Time
	fill    string
	attrs   string
	tooltip string
	stroke  string
}

// grid lays out days from..to in week columns starting on Sunday.
type grid struct {
	opts        *Options
	from, to    time.Time
	firstSunday time.Time
	weeks       int
	titleHeight int
	legendRows  int
}

func newGrid(from, to time.Time, opts *Options, legendRows int) *grid {
	firstSunday := from.AddDate(0, 0, -int(from.Weekday()))
	dayDiff := to.Sub(firstSunday).Hours() / 24
	g := &grid{
		opts:        opts,
		from:        from,
		to:          to,
		firstSunday: firstSunday,
		weeks:       int(dayDiff/7) + 1,
		legendRows:  legendRows,
	}
	if opts.Title != "" {
		g.titleHeight = opts.FontSize + 8
	}
	return g
}

func (g *grid) width() int {
	return g.weeks*(g.opts.CellSize+g.opts.CellPadding) + g.opts.CellPadding
}

func (g *grid) gridBottom() int {
	return g.titleHeight + g.opts.FontSize + 4 + 7*(g.opts.CellSize+g.opts.CellPadding) + g.opts.CellPadding
}

func (g *grid) height() int {
	return g.gridBottom() + g.legendRows*(g.opts.FontSize+6)
}

// render writes the frame, month labels and every cell returned by cellAt.
// Days for which cellAt returns false are skipped.
func (g *grid) render(sb *strings.Builder, cellAt func(day time.Time) (cell, bool)) {
	o := g.opts
	fmt.Fprintf(sb, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", g.width(), g.height())
	fmt.Fprintf(sb, `  <style>.label{font-family:%s;font-size:%dpx;fill:#666}.title{font-family:%s;font-size:%dpx;fill:#333;font-weight:bold}</style>`+"\n",
		o.FontFamily, o.FontSize, o.FontFamily, o.FontSize)

	if o.Title != "" {
		fmt.Fprintf(sb, `  <text x="%d" y="%d" class="title">%s</text>`+"\n", o.CellPadding, o.FontSize, html.EscapeString(o.Title))
	}

	lastMonth := -1
	monthLabelY := o.FontSize + g.titleHeight
	for w := range g.weeks {
		x := o.CellPadding + w*(o.CellSize+o.CellPadding)
		current := g.firstSunday.AddDate(0, 0, w*7)
		if current.Day() <= 7 && int(current.Month())-1 != lastMonth {
			fmt.Fprintf(sb, `  <text x="%d" y="%d" class="label">%s</text>`+"\n", x, monthLabelY, months[current.Month()-1])
			lastMonth = int(current.Month()) - 1
		}
	}

	for w := range g.weeks {
		for i := range 7 {
			current := g.firstSunday.AddDate(0, 0, w*7+i)
			if current.Before(g.from) || current.After(g.to) {
				continue
			}
			c, ok := cellAt(current)
			if !ok {
				continue
			}
			x := o.CellPadding + w*(o.CellSize+o.CellPadding)
			y := o.CellPadding + o.FontSize + 4 + g.titleHeight + i*(o.CellSize+o.CellPadding)
			stroke := ""
			if c.stroke != "" {
				stroke = fmt.Sprintf(` stroke="%s" stroke-width="2"`, c.stroke)
			}
			fmt.Fprintf(sb, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"%s data-date="%s"%s>`+"\n",
				x, y, o.CellSize, o.CellSize, c.fill, stroke, current.Format("2006-01-02"), c.attrs)
			fmt.Fprintf(sb, `    <title>%s</title>`+"\n", html.EscapeString(c.tooltip))
			sb.WriteString(`  </rect>` + "\n")
		}
	}
}

// legend writes one labelled swatch per row below the grid.
func (g *grid) legend(sb *strings.Builder, row int, color, label string) {
	o := g.opts
	y := g.gridBottom() + row*(o.FontSize+6)
	fmt.Fprintf(sb, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n", o.CellPadding, y, o.FontSize, o.FontSize, color)
	fmt.Fprintf(sb, `  <text x="%d" y="%d" class="label">%s</text>`+"\n", o.CellPadding+o.FontSize+4, y+o.FontSize-1, html.EscapeString(label))
}
