package soa

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"soa-backend/internal/aging"
	"soa-backend/internal/models"
	"soa-backend/internal/tabular"
	"soa-backend/internal/timeutil"
)

// AgingRule assigns the aging label and summary bucket of one raw row
type AgingRule interface {
	Labels() []string
	Assign(get func(column string) string, rec *models.Record, today time.Time)
}

// DateAging ages a row from a date column, falling back to an alternate
// date. When both dates parse the later one wins.
type DateAging struct {
	Primary   string
	Alternate string
	// Display, when set, is rewritten with the resolved date
	Display string
	Ruleset aging.Ruleset
}

func (a DateAging) Labels() []string {
	return a.Ruleset.Labels()
}

func (a DateAging) Assign(get func(string) string, rec *models.Record, today time.Time) {
	primary, okP := timeutil.ParseDate(get(a.Primary))
	var alternate time.Time
	okA := false
	if a.Alternate != "" {
		alternate, okA = timeutil.ParseDate(get(a.Alternate))
	}

	var resolved *time.Time
	switch {
	case okP && okA:
		if alternate.After(primary) {
			resolved = &alternate
		} else {
			resolved = &primary
		}
	case okP:
		resolved = &primary
	case okA:
		resolved = &alternate
	}

	rec.AgingDate = resolved
	rec.Bucket = a.Ruleset.Index(aging.Days(resolved, today))
	rec.Aging = a.Ruleset.Labels()[rec.Bucket]
	if a.Display != "" && resolved != nil {
		rec.Values[a.Display] = resolved.Format(timeutil.SlashDate)
	}
}

// ColumnAging takes the age from the first aging column holding a
// non-zero amount. Bucket maps each column to a summary label.
type ColumnAging struct {
	Columns      []string
	Bucket       []int
	BucketLabels []string
}

func (a ColumnAging) Labels() []string {
	return a.BucketLabels
}

func (a ColumnAging) Assign(get func(string) string, rec *models.Record, _ time.Time) {
	for i, col := range a.Columns {
		if !ParseMoney(get(col)).IsZero() {
			rec.Aging = col
			rec.Bucket = a.Bucket[i]
			return
		}
	}
	rec.Aging = ""
	rec.Bucket = 0
}

// ParseMoney reads ledger amounts: thousands separators, "(1,000.00)" and
// "1,000.00-" negatives, blanks and dashes. Anything unreadable is zero.
func ParseMoney(s string) decimal.Decimal {
	v := strings.TrimSpace(s)
	v = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "₱", "", "PHP", "").Replace(v)
	if v == "" || v == "-" || strings.EqualFold(v, "nan") {
		return decimal.Zero
	}
	neg := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		neg = true
		v = v[1 : len(v)-1]
	}
	if strings.HasSuffix(v, "-") {
		neg = !neg
		v = strings.TrimSuffix(v, "-")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		d = d.Neg()
	}
	return d
}

// Normalize turns one decoded table into records. Only a missing entity
// (or other required) column is an error; bad cells are recovered.
// Rows without an entity name are dropped.
func (e *Engine) Normalize(t *tabular.Table, today time.Time) ([]*models.Record, error) {
	p := e.pipeline
	required := append([]string{p.EntityColumn}, p.Required...)
	for _, col := range required {
		if !t.Has(col) {
			return nil, &models.MalformedInputError{File: t.Name, Column: col}
		}
	}

	asOf := p.AsOf(today)
	cols := p.OutputColumns(asOf)
	for _, col := range cols {
		if t.Has(col.Name) {
			e.observe(col.Name)
		}
	}
	if d, ok := p.Age.(DateAging); ok && d.Display != "" && d.Alternate != "" && t.Has(d.Alternate) {
		e.observe(d.Display)
	}
	records := make([]*models.Record, 0, len(t.Rows))
	dropped := 0
	for i, row := range t.Rows {
		row := row
		get := func(column string) string {
			return strings.TrimSpace(t.Get(row, column))
		}

		entity := get(p.EntityColumn)
		if entity == "" {
			dropped++
			continue
		}

		rec := models.NewRecord(t.Name, i+2)
		rec.Entity = entity
		if p.BranchColumn != "" {
			rec.Branch = get(p.BranchColumn)
		}
		for _, col := range cols {
			raw := get(col.Name)
			rec.Values[col.Name] = raw
			if col.Kind == models.MoneyColumn {
				rec.Amounts[col.Name] = ParseMoney(raw)
			}
		}
		p.Age.Assign(get, rec, today)
		if p.AgingColumn != "" {
			rec.Values[p.AgingColumn] = rec.Aging
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		e.logger.Debug("rows without entity dropped",
			zap.String("file", t.Name), zap.Int("rows", dropped))
	}
	return records, nil
}
