package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"soa-backend/internal/archive"
	"soa-backend/internal/config"
	"soa-backend/internal/layout"
	"soa-backend/internal/metrics"
	"soa-backend/internal/models"
	"soa-backend/internal/soa"
	"soa-backend/internal/tabular"
	"soa-backend/internal/timeutil"
	"soa-backend/internal/workspace"
	"soa-backend/internal/xlsx"
)

// Result is a finished run: the archive and the directory holding it.
// Callers must pass it to Cleanup once the archive has been delivered.
type Result struct {
	ArchivePath string
	ArchiveName string
	WorkDir     string
	Documents   int

	run *workspace.Run
}

type ReportServiceConfig struct {
	ReferenceFile string
}

// ReportService runs the statement pipelines end to end
type ReportService struct {
	workspace *workspace.Manager
	builder   *layout.Builder
	cfg       ReportServiceConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewReportService(ws *workspace.Manager, builder *layout.Builder, cfg ReportServiceConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		workspace: ws,
		builder:   builder,
		cfg:       cfg,
		logger:    logger,
		now:       timeutil.Now,
	}
}

// Cleanup removes the run directory of a delivered result
func (s *ReportService) Cleanup(res *Result) {
	if res != nil {
		s.workspace.Remove(res.run)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, models.ErrNoData):
		return metrics.OutcomeNoData
	case models.IsInputError(err):
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}

// Run generates the statement archive of one pipeline from the uploads.
// It returns models.ErrNoData when nothing is left to report. On any error
// the run directory is already gone.
func (s *ReportService) Run(ctx context.Context, kind soa.Kind, uploads []models.Upload) (res *Result, err error) {
	start := time.Now()
	logger := s.logger.With(zap.String("pipeline", string(kind)))
	defer func() {
		metrics.PipelineRunsTotal.WithLabelValues(string(kind), outcome(err)).Inc()
		metrics.PipelineDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}()

	p, err := soa.NewPipeline(kind)
	if err != nil {
		return nil, &models.InputError{Reason: err.Error()}
	}
	if len(uploads) == 0 {
		return nil, &models.InputError{Reason: "no files uploaded"}
	}

	run, err := s.workspace.Create(string(kind))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			s.workspace.Remove(run)
		}
	}()

	for _, u := range uploads {
		if _, err := run.SaveInput(u.Name, u.Data); err != nil {
			return nil, fmt.Errorf("failed to store upload %s: %w", u.Name, err)
		}
	}

	ref, err := config.LoadReference(s.cfg.ReferenceFile)
	if err != nil {
		return nil, err
	}
	pref := ref.For(string(kind))

	engine := soa.NewEngine(p, logger)
	now := s.now()
	asOf := p.AsOf(now)

	records, err := s.normalize(engine, uploads, now)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolver := soa.NewResolver(pref.Merge).Rename(pref.Rename)
	masters, aliases := resolver.Build()
	logger.Debug("merge groups loaded", zap.Int("groups", len(masters)), zap.Int("names", len(aliases)))

	docs := engine.Group(records, resolver, soa.NewRoutes(pref.Folders), asOf)
	if len(docs) == 0 {
		logger.Info("no statements to generate", zap.Int("records", len(records)))
		return nil, models.ErrNoData
	}

	if err := s.render(ctx, p, docs, run.OutDir, asOf); err != nil {
		return nil, err
	}

	name := p.ArchiveName(asOf)
	path := filepath.Join(run.Dir, name)
	if err := archive.Save(run.OutDir, path); err != nil {
		return nil, err
	}
	metrics.DocumentsGenerated.WithLabelValues(string(kind)).Add(float64(len(docs)))
	logger.Info("statements generated",
		zap.Int("records", len(records)),
		zap.Int("documents", len(docs)),
		zap.String("archive", name),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{ArchivePath: path, ArchiveName: name, WorkDir: run.Dir, Documents: len(docs), run: run}, nil
}

func (s *ReportService) normalize(engine *soa.Engine, uploads []models.Upload, now time.Time) ([]*models.Record, error) {
	if engine.Pipeline().Kind == soa.CashCall {
		bulk, err := engine.PrepareCashCall(uploads)
		if err != nil {
			return nil, err
		}
		return engine.Normalize(bulk, now)
	}

	var records []*models.Record
	for _, u := range uploads {
		t, err := tabular.Read(u.Name, u.Data)
		if errors.Is(err, tabular.ErrEmpty) {
			s.logger.Warn("empty upload skipped", zap.String("file", u.Name))
			continue
		}
		if err != nil {
			return nil, err
		}
		recs, err := engine.Normalize(t, now)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// render lays out and writes every document in order
func (s *ReportService) render(ctx context.Context, p *soa.Pipeline, docs []*models.Document, outDir string, asOf time.Time) error {
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.write(p, doc, outDir, asOf); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportService) write(p *soa.Pipeline, doc *models.Document, outDir string, asOf time.Time) error {
	path := filepath.Join(outDir, filepath.FromSlash(doc.RelPath()))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create folder for %s: %w", doc.RelPath(), err)
	}
	grid := s.builder.Build(p, doc, asOf)
	if err := xlsx.Save(grid, path); err != nil {
		return err
	}
	s.logger.Debug("statement written", zap.String("file", doc.RelPath()), zap.String("total", doc.Total.StringFixed(2)))
	return nil
}
