// Package soa turns normalized ledger rows into statement documents:
// aging, merge groups, subtotals and file naming.
package soa

import (
	"time"

	"go.uber.org/zap"

	"soa-backend/internal/models"
)

// Engine runs one pipeline's normalize and grouping stages.
// An engine serves a single run: it remembers which canonical columns the
// normalized inputs carried.
type Engine struct {
	pipeline *Pipeline
	logger   *zap.Logger
	present  map[string]bool
}

func NewEngine(p *Pipeline, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{pipeline: p, logger: logger.With(zap.String("pipeline", string(p.Kind)))}
}

func (e *Engine) Pipeline() *Pipeline {
	return e.pipeline
}

func (e *Engine) observe(column string) {
	if e.present == nil {
		e.present = make(map[string]bool)
	}
	e.present[column] = true
}

// Columns is the output column order for the run: canonical columns found
// in at least one input, plus the computed aging, remarks and updates
// columns. Before anything is normalized every canonical column is kept.
func (e *Engine) Columns(asOf time.Time) []models.Column {
	p := e.pipeline
	all := p.OutputColumns(asOf)
	if e.present == nil {
		return all
	}
	out := make([]models.Column, 0, len(all))
	for _, c := range all {
		switch {
		case e.present[c.Name],
			c.Name == p.AgingColumn,
			c.Name == p.RemarksColumn,
			p.UpdatesColumn && c.Name == UpdatesColumnName(asOf):
			out = append(out, c)
		}
	}
	return out
}
