package soa

import (
	"fmt"
	"strings"
	"time"

	"soa-backend/internal/aging"
	"soa-backend/internal/models"
	"soa-backend/internal/timeutil"
)

// Kind names a statement pipeline
type Kind string

const (
	Direct   Kind = "direct"
	Premium  Kind = "premium"
	CashCall Kind = "cashcall"
)

// ParseKind accepts the pipeline names used by forms and the CLI
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "soa_direct":
		return Direct, nil
	case "premium":
		return Premium, nil
	case "cashcall", "cash-call", "cash_call":
		return CashCall, nil
	}
	return "", fmt.Errorf("unknown pipeline %q", s)
}

// Partition decides how a merged account is split into blocks
type Partition int

const (
	ByBranch Partition = iota
	ByAlias
)

// ZeroRows decides when rows with a zero primary amount are removed
type ZeroRows int

const (
	KeepZeroRows ZeroRows = iota
	DropZeroRowsFirst
	DropZeroRowsAfterTotals
)

// NegativeStyle selects the money number format
type NegativeStyle int

const (
	Signed NegativeStyle = iota
	Parenthesized
)

// Pipeline is the per-report configuration: columns, aging, grouping and
// naming rules. Pipelines share the engine but never each other's data.
type Pipeline struct {
	Kind             Kind
	Caption          string
	EntityColumn     string
	BranchColumn     string
	GroupByBranch    bool
	AgingColumn      string
	RemarksColumn    string
	PrimaryMoney     string
	Columns          []models.Column
	UpdatesColumn    bool
	SubtitleColumn   string
	Age              AgingRule
	Partition        Partition
	ZeroRows         ZeroRows
	SkipZeroSections bool
	ShortNames       bool
	GrandTotal       bool
	Negative         NegativeStyle
	Required         []string
}

func text(names ...string) []models.Column {
	cols := make([]models.Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, models.Column{Name: n, Kind: models.TextColumn})
	}
	return cols
}

func money(names ...string) []models.Column {
	cols := make([]models.Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, models.Column{Name: n, Kind: models.MoneyColumn})
	}
	return cols
}

func capped(name string) models.Column {
	return models.Column{Name: name, Kind: models.TextColumn, Capped: true}
}

func date(name string) models.Column {
	return models.Column{Name: name, Kind: models.DateColumn}
}

func concat(parts ...[]models.Column) []models.Column {
	var out []models.Column
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// NewPipeline returns a fresh configuration for kind
func NewPipeline(kind Kind) (*Pipeline, error) {
	switch kind {
	case Direct:
		return directPipeline(), nil
	case Premium:
		return premiumPipeline(), nil
	case CashCall:
		return cashCallPipeline(), nil
	}
	return nil, fmt.Errorf("unknown pipeline %q", kind)
}

func directPipeline() *Pipeline {
	return &Pipeline{
		Kind:          Direct,
		EntityColumn:  "Intermediary",
		BranchColumn:  "Branch",
		GroupByBranch: true,
		AgingColumn:   "Aging",
		RemarksColumn: "Remarks",
		PrimaryMoney:  "Balance Due",
		Columns: concat(
			text("Branch"),
			[]models.Column{capped("Intermediary")},
			text("Policy No."),
			[]models.Column{date("Incept Date")},
			text("Aging"),
			[]models.Column{capped("Assured Name")},
			text("Invoice No.", "Bill No."),
			money("Premium Bal Due", "Tax Bal Due", "Balance Due"),
			[]models.Column{capped("Remarks")},
		),
		Age: DateAging{
			Primary:   "Incept Date",
			Alternate: "Eff Date",
			Display:   "Incept Date",
			Ruleset:   aging.Ledger,
		},
		Partition:  ByBranch,
		ZeroRows:   KeepZeroRows,
		ShortNames: true,
		Negative:   Signed,
	}
}

func premiumPipeline() *Pipeline {
	return &Pipeline{
		Kind:          Premium,
		Caption:       "NEW FACULTATIVE PREMIUM",
		EntityColumn:  "Reinsurer",
		AgingColumn:   "Aging",
		RemarksColumn: "REMARKS",
		PrimaryMoney:  "Balance Due",
		Columns: concat(
			[]models.Column{capped("Reinsurer"), capped("Address")},
			text("Currency", "Currency Rate", "Line"),
			[]models.Column{date("Date")},
			text("Our Policy No.", "Invoice No."),
			[]models.Column{date("Bord Date")},
			text("Inst No."),
			[]models.Column{date("Due Date"), capped("Assured")},
			text("Assured Policy No.", "Binder No."),
			money("Balance Due"),
			text("Aging"),
			[]models.Column{capped("REMARKS")},
		),
		UpdatesColumn:  true,
		SubtitleColumn: "Address",
		Age: ColumnAging{
			Columns:      []string{"CURRENT", "OVER 30 DAYS", "OVER 60 DAYS", "OVER 90 DAYS", "OVER 120 DAYS", "OVER 180 DAYS"},
			Bucket:       []int{0, 0, 0, 0, 1, 2},
			BucketLabels: []string{"Within 120 Days - PPW", "Over 120 Days", "Over 180 Days"},
		},
		Partition:        ByAlias,
		ZeroRows:         DropZeroRowsFirst,
		SkipZeroSections: true,
		GrandTotal:       true,
		Negative:         Parenthesized,
	}
}

func cashCallPipeline() *Pipeline {
	return &Pipeline{
		Kind:         CashCall,
		Caption:      "NEW CASH CALL",
		EntityColumn: "Reinsurer",
		BranchColumn: "Branch",
		AgingColumn:  "Aging",
		PrimaryMoney: "Total Amount Due",
		Columns: concat(
			text("Branch", "Line"),
			[]models.Column{capped("Reinsurer"), capped("Assured")},
			text("Policy Number", "Claim Number", "FLA Number"),
			[]models.Column{date("FLA Date"), date("Loss Date")},
			text("Aging"),
			money("Total Amount Due"),
		),
		Age: DateAging{
			Primary: "FLA Date",
			Ruleset: aging.CashCall,
		},
		Partition:  ByAlias,
		ZeroRows:   DropZeroRowsAfterTotals,
		GrandTotal: true,
		Negative:   Parenthesized,
		Required:   []string{"Policy Number"},
	}
}

// OutputColumns is the canonical column order for a run as of asOf
func (p *Pipeline) OutputColumns(asOf time.Time) []models.Column {
	cols := append([]models.Column(nil), p.Columns...)
	if p.UpdatesColumn {
		cols = append(cols, models.Column{Name: UpdatesColumnName(asOf), Kind: models.TextColumn})
	}
	return cols
}

// UpdatesColumnName is the monthly follow-up column, e.g. "UPDATES_OCT. 2026"
func UpdatesColumnName(asOf time.Time) string {
	return fmt.Sprintf("UPDATES_%s. %d", strings.ToUpper(asOf.Format("Jan")), asOf.Year())
}

// MoneyColumns lists the columns that are summed in subtotal rows
func (p *Pipeline) MoneyColumns() []string {
	var out []string
	for _, c := range p.Columns {
		if c.Kind == models.MoneyColumn {
			out = append(out, c.Name)
		}
	}
	return out
}

// Buckets lists the aging summary labels in display order
func (p *Pipeline) Buckets() []string {
	return p.Age.Labels()
}

// AsOf is the statement date: month end for direct business, today otherwise
func (p *Pipeline) AsOf(now time.Time) time.Time {
	if p.Kind == Direct {
		return timeutil.LastDayOfPreviousMonth(now)
	}
	return timeutil.StartOfDay(now)
}

// FileName names one statement file for an already sanitized entity name
func (p *Pipeline) FileName(name string, asOf time.Time) string {
	if p.Kind == Direct {
		return fmt.Sprintf("%s_SOA as of %s.xlsx", name, asOf.Format(timeutil.LongDate))
	}
	return fmt.Sprintf("SOA %s AS OF %s.xlsx", name, asOf.Format(timeutil.ShortDate))
}

// ArchiveName names the ZIP returned to the caller
func (p *Pipeline) ArchiveName(asOf time.Time) string {
	switch p.Kind {
	case Premium:
		return fmt.Sprintf("SOA PREMIUM AS OF %s.zip", asOf.Format(timeutil.ShortDate))
	case CashCall:
		return fmt.Sprintf("SOA CASH CALL AS OF %s.zip", asOf.Format(timeutil.ShortDate))
	}
	return fmt.Sprintf("SoA as of %s.zip", asOf.Format(timeutil.LongDate))
}
