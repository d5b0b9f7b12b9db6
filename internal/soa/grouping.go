package soa

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"soa-backend/internal/models"
)

type part struct {
	title    string
	subtitle string
	recs     []*models.Record
}

func sumOf(recs []*models.Record, column string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(r.Amount(column))
	}
	return total
}

func nonZero(recs []*models.Record, column string) []*models.Record {
	out := make([]*models.Record, 0, len(recs))
	for _, r := range recs {
		if !r.Amount(column).IsZero() {
			out = append(out, r)
		}
	}
	return out
}

// firstOf picks the smallest raw spelling so display names do not depend
// on row order
func firstOf(recs []*models.Record, value func(*models.Record) string) string {
	best := ""
	for _, r := range recs {
		v := strings.TrimSpace(value(r))
		if v != "" && (best == "" || v < best) {
			best = v
		}
	}
	return best
}

// Group builds the output documents in two passes. Merged accounts are
// collected first and claim their records even when skipped; every other
// record is grouped per entity (and branch, when the pipeline groups by
// branch). Groups whose primary total is exactly zero produce nothing.
func (e *Engine) Group(records []*models.Record, resolver *Resolver, routes Routes, asOf time.Time) []*models.Document {
	p := e.pipeline
	if p.ZeroRows == DropZeroRowsFirst {
		records = nonZero(records, p.PrimaryMoney)
	}
	if resolver == nil {
		resolver = NewResolver(nil)
	}

	var docs []*models.Document
	claimed := make([]bool, len(records))
	columns := e.Columns(asOf)

	byMaster := make(map[string][][]*models.Record)
	for i, rec := range records {
		g, ok := resolver.FindGroup(rec.Entity)
		if !ok {
			continue
		}
		claimed[i] = true
		members, ok := byMaster[g.Master]
		if !ok {
			members = make([][]*models.Record, len(g.Members()))
			byMaster[g.Master] = members
		}
		mi := memberIndex(g, NormalizeName(rec.Entity))
		members[mi] = append(members[mi], rec)
	}

	for _, g := range resolver.Groups() {
		members := byMaster[g.Master]
		var all []*models.Record
		for _, m := range members {
			all = append(all, m...)
		}
		if len(all) == 0 {
			continue
		}
		if sumOf(all, p.PrimaryMoney).IsZero() {
			e.logger.Info("merged account skipped, total is zero", zap.String("master", g.Master), zap.Int("rows", len(all)))
			continue
		}

		title := resolver.DisplayName(g)
		var parts []part
		switch p.Partition {
		case ByBranch:
			for _, branch := range branchesOf(all) {
				var recs []*models.Record
				for _, r := range all {
					if NormalizeName(r.Branch) == NormalizeName(branch) {
						recs = append(recs, r)
					}
				}
				sub := ""
				if branch != "" {
					sub = "Branch: " + branch
				}
				parts = append(parts, part{title: title, subtitle: sub, recs: recs})
			}
		case ByAlias:
			for mi, name := range g.Members() {
				if len(members[mi]) == 0 {
					continue
				}
				parts = append(parts, part{title: name, subtitle: e.subtitle(members[mi]), recs: members[mi]})
			}
		}

		blocks := e.blocks(parts)
		if len(blocks) == 0 {
			continue
		}
		docs = append(docs, &models.Document{
			Key:     "merged:" + NormalizeName(g.Master),
			Entity:  title,
			Folder:  routes.Folder(append([]string{title}, g.Members()...)...),
			Merged:  true,
			Columns: columns,
			Blocks:  blocks,
			Total:   blocksTotal(blocks),
		})
	}

	type key struct{ entity, branch string }
	singles := make(map[key][]*models.Record)
	var keys []key
	for i, rec := range records {
		if claimed[i] {
			continue
		}
		k := key{entity: NormalizeName(rec.Entity)}
		if p.GroupByBranch {
			k.branch = NormalizeName(rec.Branch)
		}
		if _, ok := singles[k]; !ok {
			keys = append(keys, k)
		}
		singles[k] = append(singles[k], rec)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].entity != keys[j].entity {
			return keys[i].entity < keys[j].entity
		}
		return keys[i].branch < keys[j].branch
	})

	for _, k := range keys {
		recs := singles[k]
		name := firstOf(recs, func(r *models.Record) string { return r.Entity })
		if sumOf(recs, p.PrimaryMoney).IsZero() {
			e.logger.Info("entity skipped, total is zero", zap.String("entity", name), zap.Int("rows", len(recs)))
			continue
		}
		branch := ""
		if p.GroupByBranch {
			branch = firstOf(recs, func(r *models.Record) string { return r.Branch })
		}
		blocks := e.blocks([]part{{title: name, subtitle: e.subtitle(recs), recs: recs}})
		if len(blocks) == 0 {
			continue
		}
		docs = append(docs, &models.Document{
			Key:     "single:" + k.entity + "|" + k.branch,
			Entity:  name,
			Branch:  branch,
			Folder:  routes.Folder(name),
			Columns: columns,
			Blocks:  blocks,
			Total:   blocksTotal(blocks),
		})
	}

	p.AssignNames(docs, asOf)
	return docs
}

func branchesOf(recs []*models.Record) []string {
	seen := make(map[string]string)
	for _, r := range recs {
		k := NormalizeName(r.Branch)
		b := strings.TrimSpace(r.Branch)
		if cur, ok := seen[k]; !ok || b < cur {
			seen[k] = b
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}

func (e *Engine) subtitle(recs []*models.Record) string {
	col := e.pipeline.SubtitleColumn
	if col == "" {
		return ""
	}
	for _, r := range recs {
		if v := strings.TrimSpace(r.Value(col)); v != "" {
			return v
		}
	}
	return ""
}

func blocksTotal(blocks []models.Block) decimal.Decimal {
	total := decimal.Zero
	for _, b := range blocks {
		total = total.Add(b.Total)
	}
	return total
}

// blocks applies the section level zero rules and separates consecutive
// blocks with a spacer row
func (e *Engine) blocks(parts []part) []models.Block {
	p := e.pipeline
	var out []models.Block
	for _, pt := range parts {
		recs := pt.recs
		if p.SkipZeroSections && sumOf(recs, p.PrimaryMoney).IsZero() {
			continue
		}
		if p.ZeroRows == DropZeroRowsAfterTotals {
			recs = nonZero(recs, p.PrimaryMoney)
		}
		if len(recs) == 0 {
			continue
		}
		out = append(out, e.block(pt.title, pt.subtitle, recs))
	}
	for i := 0; i < len(out)-1; i++ {
		out[i].Rows = append(out[i].Rows, models.Row{Kind: models.RowSpacer})
	}
	return out
}

// block emits data rows, the subtotal, a blank row, one aging row per
// bucket and the aging total, in that order
func (e *Engine) block(title, subtitle string, recs []*models.Record) models.Block {
	p := e.pipeline
	labels := p.Buckets()
	moneyCols := p.MoneyColumns()

	rows := make([]models.Row, 0, len(recs)+len(labels)+4)
	totals := make(map[string]decimal.Decimal, len(moneyCols))
	for _, c := range moneyCols {
		totals[c] = decimal.Zero
	}
	buckets := make([]decimal.Decimal, len(labels))
	for i := range buckets {
		buckets[i] = decimal.Zero
	}

	for _, rec := range recs {
		rows = append(rows, models.Row{Kind: models.RowData, Record: rec})
		for _, c := range moneyCols {
			totals[c] = totals[c].Add(rec.Amount(c))
		}
		b := rec.Bucket
		if b < 0 || b >= len(labels) {
			b = 0
		}
		buckets[b] = buckets[b].Add(rec.Amount(p.PrimaryMoney))
	}

	rows = append(rows,
		models.Row{Kind: models.RowSubtotal, Totals: totals},
		models.Row{Kind: models.RowBlank},
	)
	for i, label := range labels {
		rows = append(rows, models.Row{Kind: models.RowAgingDetail, Label: label, Amount: buckets[i]})
	}
	total := totals[p.PrimaryMoney]
	rows = append(rows, models.Row{Kind: models.RowAgingTotal, Label: "Total", Amount: total})

	return models.Block{Title: title, Subtitle: subtitle, Rows: rows, Total: total}
}
