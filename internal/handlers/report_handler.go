package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"soa-backend/internal/models"
	"soa-backend/internal/services"
	"soa-backend/internal/soa"
	"soa-backend/pkg/utils"
)

// UploadLimits bound what one request may upload
type UploadLimits struct {
	MaxRequestBytes int64
	MaxFileBytes    int64
	Timeout         time.Duration
}

type ReportHandler struct {
	Statements StatementRunner
	Notices    NoticeRunner
	Limits     UploadLimits
	logger     *zap.Logger
}

func NewReportHandler(statements StatementRunner, notices NoticeRunner, limits UploadLimits, logger *zap.Logger) *ReportHandler {
	if limits.MaxRequestBytes <= 0 {
		limits.MaxRequestBytes = 16 << 20
	}
	if limits.MaxFileBytes <= 0 {
		limits.MaxFileBytes = 10 << 20
	}
	if limits.Timeout <= 0 {
		limits.Timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{Statements: statements, Notices: notices, Limits: limits, logger: logger}
}

type tooLargeError struct {
	name string
}

func (e *tooLargeError) Error() string {
	if e.name == "" {
		return "upload exceeds the request size limit"
	}
	return fmt.Sprintf("file %s exceeds the size limit", e.name)
}

// parseForm enforces the request cap before anything is buffered
func (h *ReportHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.Limits.MaxRequestBytes)
	if err := r.ParseMultipartForm(h.Limits.MaxRequestBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &tooLargeError{}
		}
		return &models.InputError{Reason: "expected a multipart form upload"}
	}
	return nil
}

// uploads reads the files of the given form fields, in field order
func (h *ReportHandler) uploads(r *http.Request, fields ...string) ([]models.Upload, error) {
	var out []models.Upload
	for _, field := range fields {
		for _, fh := range r.MultipartForm.File[field] {
			if fh.Filename == "" {
				continue
			}
			if fh.Size > h.Limits.MaxFileBytes {
				return nil, &tooLargeError{name: fh.Filename}
			}
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(io.LimitReader(f, h.Limits.MaxFileBytes+1))
			f.Close()
			if err != nil {
				return nil, err
			}
			if int64(len(data)) > h.Limits.MaxFileBytes {
				return nil, &tooLargeError{name: fh.Filename}
			}
			out = append(out, models.Upload{Name: fh.Filename, Data: data})
		}
	}
	return out, nil
}

func (h *ReportHandler) writeError(w http.ResponseWriter, err error) {
	var tooLarge *tooLargeError
	switch {
	case errors.Is(err, models.ErrNoData):
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &tooLarge):
		utils.Error(w, http.StatusRequestEntityTooLarge, err.Error())
	case models.IsInputError(err):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("report generation failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "An error occurred while generating the reports.")
	}
}

// sendArchive streams the archive with the cookie the upload page polls to
// hide its spinner
func (h *ReportHandler) sendArchive(w http.ResponseWriter, res *services.Result) {
	f, err := os.Open(res.ArchivePath)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer f.Close()

	http.SetCookie(w, &http.Cookie{Name: "download_started", Value: "1", MaxAge: 3, Path: "/"})
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", res.ArchiveName))
	if info, err := f.Stat(); err == nil {
		w.Header().Set("Content-Length", fmt.Sprint(info.Size()))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Warn("archive transfer interrupted", zap.String("archive", res.ArchiveName), zap.Error(err))
	}
}

func (h *ReportHandler) runStatements(w http.ResponseWriter, r *http.Request, kind soa.Kind, uploads []models.Upload) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Limits.Timeout)
	defer cancel()

	res, err := h.Statements.Run(ctx, kind, uploads)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer h.Statements.Cleanup(res)
	h.sendArchive(w, res)
}

// Direct handles POST /soa/direct with one or more ledger files in "files"
func (h *ReportHandler) Direct(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.writeError(w, err)
		return
	}
	uploads, err := h.uploads(r, "files")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(uploads) == 0 {
		h.writeError(w, &models.InputError{Reason: "no files uploaded"})
		return
	}
	h.runStatements(w, r, soa.Direct, uploads)
}

// Reinsurer handles POST /soa/reinsurer.
// type=premium reads "premium_files"; type=cash-call reads "bulk_file"
// then "summary_file".
func (h *ReportHandler) Reinsurer(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.writeError(w, err)
		return
	}

	var (
		kind   soa.Kind
		fields []string
	)
	switch strings.ToLower(strings.TrimSpace(r.FormValue("type"))) {
	case "premium":
		kind, fields = soa.Premium, []string{"premium_files"}
	case "cash-call", "cashcall":
		kind, fields = soa.CashCall, []string{"bulk_file", "summary_file"}
	default:
		h.writeError(w, &models.InputError{Reason: "invalid report type selected"})
		return
	}

	uploads, err := h.uploads(r, fields...)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(uploads) == 0 {
		h.writeError(w, &models.InputError{Reason: "no files uploaded"})
		return
	}
	h.runStatements(w, r, kind, uploads)
}

// Renewal handles POST /renewal with one or more PDFs in "pdf"
func (h *ReportHandler) Renewal(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.writeError(w, err)
		return
	}
	uploads, err := h.uploads(r, "pdf")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(uploads) == 0 {
		h.writeError(w, &models.InputError{Reason: "no PDF files uploaded"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Limits.Timeout)
	defer cancel()

	res, err := h.Notices.Run(ctx, uploads)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer h.Notices.Cleanup(res)
	h.sendArchive(w, res)
}
