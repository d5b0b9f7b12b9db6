package models

// BorderLine is the line style of one cell edge
type BorderLine int

const (
	BorderNone BorderLine = iota
	BorderThin
	BorderDouble
	BorderDotted
)

type Border struct {
	Left, Right, Top, Bottom BorderLine
}

// Boxed is a thin border on all four edges
var Boxed = Border{Left: BorderThin, Right: BorderThin, Top: BorderThin, Bottom: BorderThin}

// CellStyle is comparable so sinks can cache one native style per value
type CellStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
	Size      float64
	Color     string
	Align     string
	NumFmt    string
	Border    Border
}

// GridCell holds a string or a decimal.Decimal value
type GridCell struct {
	Row   int
	Col   int
	Value interface{}
	Style CellStyle
}

// RowMark records which grid row a tagged row landed on
type RowMark struct {
	Row  int
	Kind RowKind
}

// Grid is a positional sheet: zero based rows and columns
type Grid struct {
	Sheet  string
	Cells  []GridCell
	Widths []float64
	Marks  []RowMark
	Rows   int
}

// Set appends a cell and grows the row count
func (g *Grid) Set(row, col int, value interface{}, style CellStyle) {
	g.Cells = append(g.Cells, GridCell{Row: row, Col: col, Value: value, Style: style})
	if row+1 > g.Rows {
		g.Rows = row + 1
	}
}

// Mark tags a row and grows the row count
func (g *Grid) Mark(row int, kind RowKind) {
	g.Marks = append(g.Marks, RowMark{Row: row, Kind: kind})
	if row+1 > g.Rows {
		g.Rows = row + 1
	}
}

// Count returns how many rows carry the given tag
func (g *Grid) Count(kind RowKind) int {
	n := 0
	for _, m := range g.Marks {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Cell finds the cell at a position
func (g *Grid) Cell(row, col int) (GridCell, bool) {
	for _, c := range g.Cells {
		if c.Row == row && c.Col == col {
			return c, true
		}
	}
	return GridCell{}, false
}

// TextLine is a styled line of free text such as a footer line
type TextLine struct {
	Text   string `mapstructure:"text" yaml:"text"`
	Bold   bool   `mapstructure:"bold" yaml:"bold"`
	Italic bool   `mapstructure:"italic" yaml:"italic"`
}
