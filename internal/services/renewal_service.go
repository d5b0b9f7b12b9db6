package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"soa-backend/internal/archive"
	"soa-backend/internal/metrics"
	"soa-backend/internal/models"
	"soa-backend/internal/renewal"
	"soa-backend/internal/timeutil"
	"soa-backend/internal/workspace"
)

const renewalPipeline = "renewal"

// RenewalService splits bulk renewal PDFs into per agent notice files
type RenewalService struct {
	workspace *workspace.Manager
	logger    *zap.Logger
	now       func() time.Time
}

func NewRenewalService(ws *workspace.Manager, logger *zap.Logger) *RenewalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RenewalService{workspace: ws, logger: logger.With(zap.String("pipeline", renewalPipeline)), now: timeutil.Now}
}

func (s *RenewalService) Cleanup(res *Result) {
	if res != nil {
		s.workspace.Remove(res.run)
	}
}

// batchFolder names the output after the first upload mentioning a month
// and year, or the current month
func (s *RenewalService) batchFolder(uploads []models.Upload) string {
	for _, u := range uploads {
		if month, year, ok := renewal.MonthYear(u.Name); ok {
			return renewal.BatchFolder(month, year)
		}
	}
	now := s.now()
	return renewal.BatchFolder(now.Month(), now.Year())
}

// Run extracts every renewal notice. Files that are not PDFs are skipped;
// models.ErrNoData is returned when no notice is found.
func (s *RenewalService) Run(ctx context.Context, uploads []models.Upload) (res *Result, err error) {
	start := time.Now()
	defer func() {
		metrics.PipelineRunsTotal.WithLabelValues(renewalPipeline, outcome(err)).Inc()
		metrics.PipelineDuration.WithLabelValues(renewalPipeline).Observe(time.Since(start).Seconds())
	}()

	if len(uploads) == 0 {
		return nil, &models.InputError{Reason: "no PDF files uploaded"}
	}

	run, err := s.workspace.Create(renewalPipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			s.workspace.Remove(run)
		}
	}()

	folder := s.batchFolder(uploads)
	mainDir := filepath.Join(run.OutDir, folder)
	agentsDir := filepath.Join(mainDir, "Agents")
	allDir := filepath.Join(mainDir, "All Renewal Notices")
	for _, d := range []string{agentsDir, allDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, err
		}
	}

	extracted := 0
	for _, u := range uploads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.EqualFold(filepath.Ext(u.Name), ".pdf") {
			s.logger.Warn("skipped non-PDF upload", zap.String("file", u.Name))
			continue
		}
		if _, err := run.SaveInput(u.Name, u.Data); err != nil {
			return nil, fmt.Errorf("failed to store upload %s: %w", u.Name, err)
		}
		doc, err := renewal.Open(u.Data)
		if err != nil {
			s.logger.Warn("invalid PDF skipped", zap.String("file", u.Name), zap.Error(err))
			continue
		}
		for _, n := range renewal.Scan(doc) {
			if err := s.writeNotice(doc, n, agentsDir, allDir); err != nil {
				s.logger.Error("failed to extract notice",
					zap.String("file", u.Name), zap.String("policy", n.Policy), zap.Ints("pages", n.Pages), zap.Error(err))
				continue
			}
			extracted++
		}
	}

	if extracted == 0 {
		return nil, models.ErrNoData
	}

	name := folder + ".zip"
	path := filepath.Join(run.Dir, name)
	if err := archive.Save(run.OutDir, path); err != nil {
		return nil, err
	}
	metrics.DocumentsGenerated.WithLabelValues(renewalPipeline).Add(float64(extracted))
	s.logger.Info("renewal notices extracted", zap.Int("notices", extracted), zap.String("archive", name))
	return &Result{ArchivePath: path, ArchiveName: name, WorkDir: run.Dir, Documents: extracted, run: run}, nil
}

func (s *RenewalService) writeNotice(doc *renewal.Document, n renewal.Notice, agentsDir, allDir string) error {
	var buf bytes.Buffer
	if err := doc.WritePages(&buf, n.Pages); err != nil {
		return err
	}
	if n.AgentFolder() == "" || n.InsuredFolder() == "" {
		return errors.New("empty agent or insured folder name")
	}
	dir := filepath.Join(agentsDir, n.AgentFolder(), n.InsuredFolder())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, path := range []string{filepath.Join(dir, n.FileName()), filepath.Join(allDir, n.FileName())} {
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}
