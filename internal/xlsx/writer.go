// Package xlsx writes layout grids as Excel workbooks.
package xlsx

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"soa-backend/internal/models"
)

var borderStyles = map[models.BorderLine]int{
	models.BorderThin:   1,
	models.BorderDotted: 4,
	models.BorderDouble: 6,
}

type sink struct {
	f      *excelize.File
	sheet  string
	styles map[models.CellStyle]int
}

func (s *sink) style(cs models.CellStyle) (int, error) {
	if id, ok := s.styles[cs]; ok {
		return id, nil
	}
	st := &excelize.Style{}
	if cs.Bold || cs.Italic || cs.Underline || cs.Size > 0 || cs.Color != "" {
		st.Font = &excelize.Font{Bold: cs.Bold, Italic: cs.Italic, Size: cs.Size, Color: cs.Color}
		if cs.Underline {
			st.Font.Underline = "single"
		}
	}
	if cs.Align != "" {
		st.Alignment = &excelize.Alignment{Horizontal: cs.Align}
	}
	for _, edge := range []struct {
		name string
		line models.BorderLine
	}{
		{"left", cs.Border.Left},
		{"right", cs.Border.Right},
		{"top", cs.Border.Top},
		{"bottom", cs.Border.Bottom},
	} {
		if edge.line == models.BorderNone {
			continue
		}
		st.Border = append(st.Border, excelize.Border{Type: edge.name, Color: "000000", Style: borderStyles[edge.line]})
	}
	if cs.NumFmt != "" {
		numFmt := cs.NumFmt
		st.CustomNumFmt = &numFmt
	}
	id, err := s.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	s.styles[cs] = id
	return id, nil
}

func build(g *models.Grid) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := g.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	s := &sink{f: f, sheet: sheet, styles: make(map[models.CellStyle]int)}

	for _, c := range g.Cells {
		ref, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		value := c.Value
		if d, ok := value.(decimal.Decimal); ok {
			value = d.InexactFloat64()
		}
		if str, ok := value.(string); !ok || str != "" {
			if err := f.SetCellValue(sheet, ref, value); err != nil {
				f.Close()
				return nil, err
			}
		}
		if c.Style == (models.CellStyle{}) {
			continue
		}
		id, err := s.style(c.Style)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(sheet, ref, ref, id); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, w := range g.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// Save writes the grid as a workbook at path
func Save(g *models.Grid, path string) error {
	f, err := build(g)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
