// Command soabatch runs one statement or renewal pipeline over local files
// and copies the resulting archive into an output directory.
//
//	soabatch -pipeline direct -out ./out ledger1.csv ledger2.xlsx
//	soabatch -pipeline cashcall -out ./out bulk.xlsx summary.xlsx
//	soabatch -pipeline renewal -out ./out "Nov 2026 notices.pdf"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"soa-backend/internal/config"
	"soa-backend/internal/layout"
	"soa-backend/internal/logger"
	"soa-backend/internal/models"
	"soa-backend/internal/services"
	"soa-backend/internal/soa"
	"soa-backend/internal/timeutil"
	"soa-backend/internal/workspace"
)

type options struct {
	pipeline   string
	outDir     string
	configPath string
	files      []string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("soabatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{}
	fs.StringVar(&opts.pipeline, "pipeline", "", "Pipeline: direct, premium, cashcall or renewal")
	fs.StringVar(&opts.outDir, "out", ".", "Directory receiving the archive")
	fs.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to config.yaml")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.files = fs.Args()
	if opts.pipeline == "" {
		return nil, errors.New("-pipeline is required")
	}
	if len(opts.files) == 0 {
		return nil, errors.New("no input files given")
	}
	return opts, nil
}

func readUploads(paths []string) ([]models.Upload, error) {
	uploads := make([]models.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		uploads = append(uploads, models.Upload{Name: filepath.Base(p), Data: data})
	}
	return uploads, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// run executes one batch and returns the path of the copied archive
func run(ctx context.Context, opts *options, zlog *zap.Logger) (string, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return "", err
	}
	if err := timeutil.SetLocation(cfg.Report.Timezone); err != nil {
		zlog.Warn("unknown timezone", zap.String("timezone", cfg.Report.Timezone), zap.Error(err))
	}

	ws, err := workspace.New(cfg.Workspace.Root, zlog)
	if err != nil {
		return "", err
	}
	uploads, err := readUploads(opts.files)
	if err != nil {
		return "", err
	}

	var (
		res     *services.Result
		cleanup func(*services.Result)
	)
	if strings.EqualFold(opts.pipeline, "renewal") {
		svc := services.NewRenewalService(ws, zlog)
		res, err = svc.Run(ctx, uploads)
		cleanup = svc.Cleanup
	} else {
		kind, kerr := soa.ParseKind(opts.pipeline)
		if kerr != nil {
			return "", kerr
		}
		builder := layout.NewBuilder(layout.Options{Company: cfg.Report.Company, Footer: cfg.Report.Footer})
		svc := services.NewReportService(ws, builder, services.ReportServiceConfig{
			ReferenceFile: cfg.Report.ReferenceFile,
		}, zlog)
		res, err = svc.Run(ctx, kind, uploads)
		cleanup = svc.Cleanup
	}
	if err != nil {
		return "", err
	}
	defer cleanup(res)

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return "", err
	}
	dst := filepath.Join(opts.outDir, res.ArchiveName)
	if err := copyFile(res.ArchivePath, dst); err != nil {
		return "", fmt.Errorf("failed to copy archive: %w", err)
	}
	return dst, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("[soabatch] %v", err)
	}

	zlog, err := logger.New("info", "console")
	if err != nil {
		log.Fatalf("[Logger] %v", err)
	}
	defer zlog.Sync()

	path, err := run(context.Background(), opts, zlog)
	switch {
	case errors.Is(err, models.ErrNoData):
		log.Fatalf("[soabatch] nothing to generate: %v", err)
	case err != nil:
		log.Fatalf("[soabatch] %v", err)
	}
	fmt.Println(path)
}
