package handlers

import (
	"context"

	"soa-backend/internal/models"
	"soa-backend/internal/services"
	"soa-backend/internal/soa"
)

// StatementRunner generates a statement archive for one pipeline.
//
//go:generate mockgen -destination=mocks/mock_runners.go -source=interface.go StatementRunner,NoticeRunner
type StatementRunner interface {
	Run(ctx context.Context, kind soa.Kind, uploads []models.Upload) (*services.Result, error)
	Cleanup(res *services.Result)
}

// NoticeRunner extracts renewal notices from uploaded PDFs
type NoticeRunner interface {
	Run(ctx context.Context, uploads []models.Upload) (*services.Result, error)
	Cleanup(res *services.Result)
}
