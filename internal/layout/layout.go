// Package layout renders statement documents into a positional grid of
// styled cells. It makes no business decisions: every row it draws comes
// from a tagged row of the document.
package layout

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"soa-backend/internal/models"
	"soa-backend/internal/soa"
	"soa-backend/internal/timeutil"
)

const (
	SheetName       = "SOA"
	StatementTitle  = "STATEMENT OF ACCOUNT"
	GrandTotalLabel = "GRAND TOTAL"
	Placeholder     = "-"

	signedFormat        = "#,##0.00"
	parenthesizedFormat = "#,##0.00;[Red](#,##0.00);0.00"
)

// DefaultFooter holds the payment instructions printed under every statement
var DefaultFooter = []models.TextLine{
	{Text: "For your convenience, payments may be made via the BDO Bills Payment facility:", Italic: true},
	{Text: ""},
	{Text: "1. BDO Bills Payment", Bold: true},
	{Text: "a. BDO Mobile Application or BDO Web Page", Bold: true},
	{Text: "   i. Biller: Philippines First Insurance Co., Inc."},
	{Text: "   ii. Reference Number: HO-0001"},
	{Text: "b. Over the Counter", Bold: true},
	{Text: "   i. Company Name: Philippines First Insurance Co., Inc."},
	{Text: "   ii. Subscriber Name: Your Company Name"},
	{Text: "   iii. Subscriber Account Number: HO-0001"},
	{Text: ""},
	{Text: "NOTE: Please make checks payable to PHILIPPINES FIRST INSURANCE CO., INC", Bold: true},
	{Text: "      Payments via LBP and BOC Peso are available only through special arrangement via fund transfer, with an advance copy of the remittance schedule.", Bold: true},
}

// Options are the presentation settings shared by all pipelines
type Options struct {
	Company    string
	Footer     []models.TextLine
	TextCap    float64
	MoneyWidth float64
}

type Builder struct {
	opts Options
}

func NewBuilder(opts Options) *Builder {
	if opts.Company == "" {
		opts.Company = "PHILIPPINE FIRST INSURANCE CO. INC"
	}
	if opts.Footer == nil {
		opts.Footer = DefaultFooter
	}
	if opts.TextCap == 0 {
		opts.TextCap = 40
	}
	if opts.MoneyWidth == 0 {
		opts.MoneyWidth = 15
	}
	return &Builder{opts: opts}
}

// FormatAmount renders money the way the sheet displays it
func FormatAmount(d decimal.Decimal, style soa.NegativeStyle) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if d.IsNegative() {
		if style == soa.Parenthesized {
			return "(" + out + ")"
		}
		return "-" + out
	}
	return out
}

type sheet struct {
	grid    *models.Grid
	row     int
	cols    []models.Column
	numFmt  string
	primary int
	width   []int
}

func (s *sheet) text(col int, v string, style models.CellStyle) {
	s.grid.Set(s.row, col, v, style)
	if col < len(s.width) && s.row >= 0 {
		if n := utf8.RuneCountInString(v); n > s.width[col] {
			s.width[col] = n
		}
	}
}

func (s *sheet) money(col int, d decimal.Decimal, style models.CellStyle, neg soa.NegativeStyle) {
	style.NumFmt = s.numFmt
	style.Align = "right"
	s.grid.Set(s.row, col, d, style)
	if n := len(FormatAmount(d, neg)); col < len(s.width) && n > s.width[col] {
		s.width[col] = n
	}
}

// Build lays out one document as of asOf. Documents without a column
// list get every canonical column of the pipeline.
func (b *Builder) Build(p *soa.Pipeline, doc *models.Document, asOf time.Time) *models.Grid {
	cols := doc.Columns
	if len(cols) == 0 {
		cols = p.OutputColumns(asOf)
	}
	s := &sheet{
		grid:    &models.Grid{Sheet: SheetName},
		cols:    cols,
		numFmt:  signedFormat,
		primary: len(cols) - 1,
		width:   make([]int, len(cols)),
	}
	if p.Negative == soa.Parenthesized {
		s.numFmt = parenthesizedFormat
	}
	for i, c := range cols {
		if c.Name == p.PrimaryMoney {
			s.primary = i
		}
	}

	bold := models.CellStyle{Bold: true}
	s.grid.Set(0, 0, b.opts.Company, models.CellStyle{Bold: true, Size: 12})
	s.grid.Set(1, 0, StatementTitle, bold)
	s.grid.Set(2, 0, "AS OF "+strings.ToUpper(asOf.Format(timeutil.LongDate)), bold)
	s.row = 4
	if p.Caption != "" {
		s.grid.Set(s.row, 0, p.Caption, models.CellStyle{Bold: true, Underline: true})
		s.row += 2
	}

	for _, block := range doc.Blocks {
		b.block(s, p, block)
	}

	if p.GrandTotal && len(doc.Blocks) > 1 {
		s.row++
		s.grid.Set(s.row, 0, GrandTotalLabel, bold)
		s.money(s.primary, doc.Total, models.CellStyle{Bold: true, Border: models.Border{Top: models.BorderThin, Bottom: models.BorderDouble}}, p.Negative)
		s.row++
	}

	s.row += 2
	for _, line := range b.opts.Footer {
		if line.Text != "" {
			s.grid.Set(s.row, 0, line.Text, models.CellStyle{Bold: line.Bold, Italic: line.Italic})
		}
		s.row++
	}
	if s.row > s.grid.Rows {
		s.grid.Rows = s.row
	}

	s.grid.Widths = make([]float64, len(cols))
	for i, c := range cols {
		w := float64(s.width[i] + 2)
		switch {
		case c.Kind == models.MoneyColumn:
			w = b.opts.MoneyWidth
		case c.Capped && w > b.opts.TextCap:
			w = b.opts.TextCap
		}
		s.grid.Widths[i] = w
	}
	return s.grid
}

func (b *Builder) block(s *sheet, p *soa.Pipeline, block models.Block) {
	s.grid.Set(s.row, 0, block.Title, models.CellStyle{Bold: true, Size: 11})
	s.row++
	if block.Subtitle != "" {
		s.grid.Set(s.row, 0, block.Subtitle, models.CellStyle{Size: 10})
		s.row++
	}
	s.row++

	header := models.CellStyle{Bold: true, Align: "center", Border: models.Boxed}
	for i, c := range s.cols {
		s.text(i, c.Name, header)
	}
	s.row++

	boxed := models.CellStyle{Border: models.Boxed}
	ruled := models.Border{Top: models.BorderThin, Bottom: models.BorderDouble}
	for _, row := range block.Rows {
		s.grid.Mark(s.row, row.Kind)
		switch row.Kind {
		case models.RowData:
			for i, c := range s.cols {
				if c.Kind == models.MoneyColumn {
					s.money(i, row.Record.Amount(c.Name), boxed, p.Negative)
					continue
				}
				s.text(i, row.Record.Value(c.Name), boxed)
			}
			s.row++
		case models.RowSubtotal:
			for i, c := range s.cols {
				if c.Kind == models.MoneyColumn {
					s.money(i, row.Totals[c.Name], models.CellStyle{Bold: true, Border: ruled}, p.Negative)
				}
			}
			s.row++
		case models.RowBlank:
			s.row++
		case models.RowAgingDetail:
			s.grid.Set(s.row, 0, row.Label, models.CellStyle{})
			if row.Amount.IsZero() {
				s.grid.Set(s.row, s.primary, Placeholder, models.CellStyle{Align: "right"})
			} else {
				s.money(s.primary, row.Amount, models.CellStyle{}, p.Negative)
			}
			s.row++
		case models.RowAgingTotal:
			s.grid.Set(s.row, 0, row.Label, models.CellStyle{Bold: true})
			s.money(s.primary, row.Amount, models.CellStyle{Bold: true, Border: ruled}, p.Negative)
			s.row++
		case models.RowSpacer:
			// blank, full width dotted rule, blank
			s.row++
			rule := models.CellStyle{Border: models.Border{Bottom: models.BorderDotted}}
			for i := range s.cols {
				s.grid.Set(s.row, i, "", rule)
			}
			s.row += 2
		}
	}
	s.row++
}
