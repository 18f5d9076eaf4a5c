package footprint

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// RenderOptions controls the text rendering of a matrix.
type RenderOptions struct {
	// ASCII uses ->, <-, || instead of →, ←, ‖.
	ASCII bool
}

const columnGap = "  "

// Render writes the matrix as an aligned text table: a header row of
// activity names followed by one row per activity. Trailing blanks are
// trimmed from every line.
func (m *Matrix) Render(w io.Writer, opts RenderOptions) error {
	symbol := Relation.String
	if opts.ASCII {
		symbol = Relation.ASCII
	}

	minWidth := 1
	if opts.ASCII {
		minWidth = 2
	}

	labelWidth := 0
	colWidths := make([]int, len(m.activities))
	for j, a := range m.activities {
		n := utf8.RuneCountInString(a)
		labelWidth = max(labelWidth, n)
		colWidths[j] = max(n, minWidth)
	}

	var line strings.Builder
	writeLine := func() error {
		_, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
		line.Reset()
		return err
	}

	line.WriteString(pad("", labelWidth))
	for j, a := range m.activities {
		line.WriteString(columnGap)
		line.WriteString(pad(a, colWidths[j]))
	}
	if err := writeLine(); err != nil {
		return err
	}

	for i, a := range m.activities {
		line.WriteString(pad(a, labelWidth))
		for j := range m.activities {
			line.WriteString(columnGap)
			line.WriteString(pad(symbol(m.cells[i][j]), colWidths[j]))
		}
		if err := writeLine(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the matrix with Unicode symbols.
func (m *Matrix) String() string {
	var b strings.Builder
	_ = m.Render(&b, RenderOptions{})
	return b.String()
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
