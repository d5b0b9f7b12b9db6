package soa

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"soa-backend/internal/models"
	"soa-backend/internal/tabular"
	"soa-backend/internal/timeutil"
)

// ResolveCashCallFiles picks the bulk export and the loss date summary.
// Names containing "bulk" or "summary" win; otherwise upload order decides.
func (e *Engine) ResolveCashCallFiles(uploads []models.Upload) (bulk, summary models.Upload, err error) {
	if len(uploads) < 2 {
		return bulk, summary, &models.InputError{Reason: "cash call requires 2 files: bulk data and summary with loss date"}
	}
	var foundBulk, foundSummary bool
	for _, u := range uploads {
		name := strings.ToLower(u.Name)
		switch {
		case strings.Contains(name, "bulk"):
			bulk, foundBulk = u, true
		case strings.Contains(name, "summary"):
			summary, foundSummary = u, true
		}
	}
	if !foundBulk || !foundSummary {
		bulk, summary = uploads[0], uploads[1]
		e.logger.Info("cash call files assigned by position",
			zap.String("bulk", bulk.Name), zap.String("summary", summary.Name))
	}
	return bulk, summary, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[idx])
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

// CleanBulk repairs the claims bulk export, where long policy numbers and
// assured names spill onto continuation rows:
//   - a policy number ending in "-" is joined with the next policy-only row
//   - rows with only an assured name are dropped
//   - policy-only rows are appended to the last complete row's policy
//   - rows with no reinsurer, policy and claim number are dropped
func CleanBulk(t *tabular.Table) (*tabular.Table, error) {
	pol := t.Index("Policy Number")
	if pol < 0 {
		return nil, &models.MalformedInputError{File: t.Name, Column: "Policy Number"}
	}
	rein := t.Index("Reinsurer")
	claim := t.Index("Claim Number")
	assured := t.Index("Assured")

	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string(nil), r...)
	}
	complete := func(row []string) bool {
		return cell(row, rein) != "" || cell(row, claim) != ""
	}

	drop := make([]bool, len(rows))
	for i := range rows {
		if drop[i] {
			continue
		}
		p := cell(rows[i], pol)
		if !strings.HasSuffix(p, "-") {
			continue
		}
		for j := i + 1; j < len(rows); j++ {
			if drop[j] {
				continue
			}
			if complete(rows[j]) {
				break
			}
			if next := cell(rows[j], pol); next != "" {
				rows[i][pol] = p + next
				drop[j] = true
				break
			}
		}
	}
	rows = keep(rows, drop)

	drop = make([]bool, len(rows))
	last := -1
	for i, row := range rows {
		if complete(row) {
			last = i
			continue
		}
		hasPolicy := cell(row, pol) != ""
		hasAssured := cell(row, assured) != ""
		switch {
		case hasAssured && !hasPolicy:
			drop[i] = true
		case hasPolicy && last >= 0:
			prev := cell(rows[last], pol)
			if next := cell(row, pol); !strings.Contains(prev, next) {
				rows[last][pol] = strings.TrimSpace(prev + " " + next)
			}
			drop[i] = true
		case !hasPolicy && !hasAssured:
			drop[i] = true
		}
	}
	rows = keep(rows, drop)

	out := &tabular.Table{Name: t.Name, Header: t.Header}
	for _, row := range rows {
		if cell(row, rein) == "" && cell(row, pol) == "" && cell(row, claim) == "" {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	if len(out.Rows) == 0 {
		return nil, fmt.Errorf("%s: bulk file empty after cleaning: %w", t.Name, models.ErrNoData)
	}
	return out, nil
}

func keep(rows [][]string, drop []bool) [][]string {
	out := rows[:0]
	for i, r := range rows {
		if !drop[i] {
			out = append(out, r)
		}
	}
	return out
}

// ReadSummary decodes the loss date summary, whose header sits below a
// report banner
func ReadSummary(u models.Upload) (*tabular.Table, error) {
	grid, err := tabular.ReadGrid(u.Name, u.Data)
	if err != nil {
		return nil, err
	}
	idx := tabular.FindHeader(grid, "FLA DATE", "LOSS DATE")
	if idx < 0 {
		return nil, &models.MalformedInputError{File: u.Name, Column: "LOSS DATE"}
	}
	return tabular.FromGrid(u.Name, grid, idx)
}

// JoinLossDates fills the bulk "Loss Date" column by exact FLA date match
// against the summary. The first summary row per date wins and unmatched
// rows get "-". It returns the number of matched rows.
func JoinLossDates(bulk, summary *tabular.Table) int {
	lossByDate := make(map[string]string)
	for _, row := range summary.Rows {
		d, ok := timeutil.ParseDate(summary.Get(row, "FLA DATE"))
		loss := strings.TrimSpace(summary.Get(row, "LOSS DATE"))
		if !ok || loss == "" {
			continue
		}
		k := d.Format("2006-01-02")
		if _, seen := lossByDate[k]; !seen {
			lossByDate[k] = loss
		}
	}

	col := bulk.Index("Loss Date")
	if col < 0 {
		bulk.Header = append(bulk.Header, "Loss Date")
		col = len(bulk.Header) - 1
	}
	matched := 0
	for i, row := range bulk.Rows {
		for len(row) <= col {
			row = append(row, "")
		}
		row[col] = "-"
		if d, ok := timeutil.ParseDate(bulk.Get(row, "FLA Date")); ok {
			if loss, found := lossByDate[d.Format("2006-01-02")]; found {
				row[col] = loss
				matched++
			}
		}
		bulk.Rows[i] = row
	}
	return matched
}

// PrepareCashCall returns the cleaned bulk table with loss dates attached
func (e *Engine) PrepareCashCall(uploads []models.Upload) (*tabular.Table, error) {
	bulkUpload, summaryUpload, err := e.ResolveCashCallFiles(uploads)
	if err != nil {
		return nil, err
	}
	raw, err := tabular.Read(bulkUpload.Name, bulkUpload.Data)
	if err != nil {
		return nil, err
	}
	summary, err := ReadSummary(summaryUpload)
	if err != nil {
		return nil, err
	}
	bulk, err := CleanBulk(raw)
	if err != nil {
		return nil, err
	}
	matched := JoinLossDates(bulk, summary)
	e.logger.Info("cash call bulk prepared",
		zap.Int("raw_rows", len(raw.Rows)),
		zap.Int("clean_rows", len(bulk.Rows)),
		zap.Int("loss_dates_matched", matched))
	return bulk, nil
}
