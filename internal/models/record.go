package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ColumnKind controls how a column is rendered and measured
type ColumnKind int

const (
	TextColumn ColumnKind = iota
	MoneyColumn
	DateColumn
)

// Column is one output column of a statement
type Column struct {
	Name   string     `json:"name"`
	Kind   ColumnKind `json:"kind"`
	Capped bool       `json:"capped"`
}

// Upload is a file received from the caller, kept in memory
type Upload struct {
	Name string
	Data []byte
}

// Record is one normalized ledger line.
// Values holds display text per canonical column, Amounts the parsed money
// columns. AgingDate is nil when no usable date was found.
type Record struct {
	Source    string                     `json:"source"`
	Line      int                        `json:"line"`
	Branch    string                     `json:"branch"`
	Entity    string                     `json:"entity"`
	Values    map[string]string          `json:"values"`
	Amounts   map[string]decimal.Decimal `json:"amounts"`
	AgingDate *time.Time                 `json:"aging_date"`
	Aging     string                     `json:"aging"`
	Bucket    int                        `json:"bucket"`
}

// NewRecord returns a record with its maps allocated
func NewRecord(source string, line int) *Record {
	return &Record{
		Source:  source,
		Line:    line,
		Values:  make(map[string]string),
		Amounts: make(map[string]decimal.Decimal),
	}
}

func (r *Record) Value(column string) string {
	return r.Values[column]
}

// Amount returns zero for columns that were never parsed
func (r *Record) Amount(column string) decimal.Decimal {
	if v, ok := r.Amounts[column]; ok {
		return v
	}
	return decimal.Zero
}
