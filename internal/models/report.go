package models

import (
	"path"

	"github.com/shopspring/decimal"
)

// RowKind tags every row the grouping engine emits so layout can switch on it
type RowKind int

const (
	RowData RowKind = iota
	RowSubtotal
	RowAgingDetail
	RowAgingTotal
	RowSpacer
	RowBlank
)

func (k RowKind) String() string {
	switch k {
	case RowData:
		return "data"
	case RowSubtotal:
		return "subtotal"
	case RowAgingDetail:
		return "aging_detail"
	case RowAgingTotal:
		return "aging_total"
	case RowSpacer:
		return "spacer"
	case RowBlank:
		return "blank"
	}
	return "unknown"
}

// Row is one tagged row of a block.
// Data rows carry Record, Subtotal rows carry Totals per money column,
// aging rows carry Label and Amount.
type Row struct {
	Kind   RowKind
	Record *Record
	Totals map[string]decimal.Decimal
	Label  string
	Amount decimal.Decimal
}

// Block is one contiguous report section for a single (entity, partition)
type Block struct {
	Title    string
	Subtitle string
	Rows     []Row
	Total    decimal.Decimal
}

// DataRows counts the data rows of the block
func (b *Block) DataRows() int {
	n := 0
	for _, row := range b.Rows {
		if row.Kind == RowData {
			n++
		}
	}
	return n
}

// Document is one generated statement file
type Document struct {
	Key      string          `json:"key"`
	Entity   string          `json:"entity"`
	Branch   string          `json:"branch"`
	Folder   string          `json:"folder"`
	FileName string          `json:"file_name"`
	Merged   bool            `json:"merged"`
	Columns  []Column        `json:"columns"`
	Blocks   []Block         `json:"-"`
	Total    decimal.Decimal `json:"total"`
}

// RelPath is the slash separated path of the document inside the archive
func (d *Document) RelPath() string {
	if d.Folder == "" {
		return d.FileName
	}
	return path.Join(d.Folder, d.FileName)
}

// MergeGroup attributes several entity names to one master account
type MergeGroup struct {
	Master  string   `json:"master" yaml:"master"`
	Aliases []string `json:"aliases" yaml:"aliases"`
}

// Members returns the master followed by its aliases
func (g MergeGroup) Members() []string {
	members := make([]string, 0, len(g.Aliases)+1)
	members = append(members, g.Master)
	return append(members, g.Aliases...)
}
