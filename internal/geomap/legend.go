package geomap

import (
	"fmt"
	"html"
	"strings"
)

// Legend builds the fixed legend box shown in the bottom-left map corner
type Legend struct {
	title string
	lines []string
}

// NewLegend creates a legend with a bold title line
func NewLegend(title string) *Legend {
	return &Legend{title: title}
}

// AddText appends a plain text line
func (l *Legend) AddText(text string) *Legend {
	l.lines = append(l.lines, fmt.Sprintf("<p>%s</p>", html.EscapeString(text)))
	return l
}

// AddSwatch appends a colored-dot line, e.g. "● Summer (Dec-Feb)"
func (l *Legend) AddSwatch(color, text string) *Legend {
	l.lines = append(l.lines, fmt.Sprintf(
		`<p><span style="color:%s">&#9679;</span> %s</p>`,
		html.EscapeString(color), html.EscapeString(text)))
	return l
}

// HTML renders the legend box markup
func (l *Legend) HTML() string {
	var b strings.Builder
	b.WriteString(`<div style="position: fixed; bottom: 50px; left: 50px; width: 280px; height: auto; background-color: white; border: 2px solid grey; z-index: 9999; font-size: 12px; padding: 10px">` + "\n")
	b.WriteString(fmt.Sprintf("<p><b>%s</b></p>\n", html.EscapeString(l.title)))
	for _, line := range l.lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("</div>")
	return b.String()
}
